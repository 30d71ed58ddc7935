/*
 * @module service/catalog/catalog
 * @description Production stages and control parameters: seeding, ordered listing and validated edits
 * @architecture Layered architecture - domain service
 * @stateFlow InitializeDefaults at startup -> rare admin edits
 * @rules Parameters are listed by stage sort order then parameter code; shape rules are enforced here, not at evaluation
 * @dependencies gorm.io/gorm
 * @refs service/scheduling/scheduler.go, service/measurement/recorder.go
 */

package catalog

import (
	"ceramiqc/service/models"
	"ceramiqc/service/qcerror"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

// Catalog owns stages and parameters.
type Catalog struct {
	db *gorm.DB
}

// NewCatalog creates a catalog.
func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

// InitResult reports what InitializeDefaults actually created.
type InitResult struct {
	StagesCreated     int `json:"stages_created"`
	ParametersCreated int `json:"parameters_created"`
}

// InitializeDefaults seeds the default stages and parameters. Rows are
// matched by code, so re-running creates nothing new.
func (c *Catalog) InitializeDefaults(ctx context.Context) (InitResult, error) {
	var result InitResult
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stageIDs := make(map[string]string, len(defaultStages))
		for _, seed := range defaultStages {
			var stage models.ControlStage
			err := tx.Where("code = ?", seed.code).First(&stage).Error
			switch {
			case err == nil:
			case errors.Is(err, gorm.ErrRecordNotFound):
				stage = models.ControlStage{Code: seed.code, Name: seed.name, SortOrder: seed.order, IsActive: true}
				if err := tx.Create(&stage).Error; err != nil {
					return fmt.Errorf("create stage %s: %w", seed.code, err)
				}
				result.StagesCreated++
			default:
				return err
			}
			stageIDs[seed.code] = stage.ID
		}

		for _, seed := range defaultParameters() {
			var count int64
			if err := tx.Model(&models.ControlParameter{}).Where("code = ?", seed.param.Code).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			param := seed.param
			param.StageID = stageIDs[seed.stage]
			param.IsActive = true
			if err := tx.Create(&param).Error; err != nil {
				return fmt.Errorf("create parameter %s: %w", param.Code, err)
			}
			result.ParametersCreated++
		}
		return nil
	})
	if err != nil {
		return InitResult{}, qcerror.Internal(err, "initialize catalog")
	}
	slog.Info("catalog initialized", "stages_created", result.StagesCreated, "parameters_created", result.ParametersCreated)
	return result, nil
}

// ListActive returns active parameters of active stages ordered by stage
// sort order, then parameter code. stageCode narrows to one stage.
func (c *Catalog) ListActive(ctx context.Context, stageCode string) ([]models.ControlParameter, error) {
	q := c.db.WithContext(ctx).
		Joins("JOIN control_stages ON control_stages.id = control_parameters.stage_id").
		Where("control_parameters.is_active = ? AND control_stages.is_active = ?", true, true)
	if stageCode != "" {
		q = q.Where("control_stages.code = ?", stageCode)
	}
	var params []models.ControlParameter
	err := q.Preload("Stage").
		Order("control_stages.sort_order, control_parameters.code").
		Find(&params).Error
	if err != nil {
		return nil, fmt.Errorf("list active parameters: %w", err)
	}
	return params, nil
}

// ListStages returns stages in sort order.
func (c *Catalog) ListStages(ctx context.Context, activeOnly bool) ([]models.ControlStage, error) {
	q := c.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var stages []models.ControlStage
	if err := q.Order("sort_order, code").Find(&stages).Error; err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	return stages, nil
}

// GetParameter loads a parameter with its stage.
func (c *Catalog) GetParameter(ctx context.Context, id string) (*models.ControlParameter, error) {
	return c.getParameter(c.db.WithContext(ctx), "control_parameters.id = ?", id)
}

// GetParameterByCode loads a parameter by its unique code.
func (c *Catalog) GetParameterByCode(ctx context.Context, code string) (*models.ControlParameter, error) {
	return c.getParameter(c.db.WithContext(ctx), "control_parameters.code = ?", code)
}

// GetParameterTx loads a parameter inside an existing transaction.
func (c *Catalog) GetParameterTx(tx *gorm.DB, id string) (*models.ControlParameter, error) {
	return c.getParameter(tx, "control_parameters.id = ?", id)
}

func (c *Catalog) getParameter(db *gorm.DB, cond string, arg string) (*models.ControlParameter, error) {
	var param models.ControlParameter
	if err := db.Preload("Stage").Where(cond, arg).First(&param).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, qcerror.NotFound("parameter %s not found", arg)
		}
		return nil, qcerror.Internal(err, "load parameter %s", arg)
	}
	return &param, nil
}

// CreateParameter validates and inserts a parameter.
func (c *Catalog) CreateParameter(ctx context.Context, param *models.ControlParameter) (*models.ControlParameter, error) {
	if err := param.Validate(); err != nil {
		return nil, qcerror.Validation("%v", err)
	}
	db := c.db.WithContext(ctx)
	var stages int64
	if err := db.Model(&models.ControlStage{}).Where("id = ?", param.StageID).Count(&stages).Error; err != nil {
		return nil, qcerror.Internal(err, "check stage")
	}
	if stages == 0 {
		return nil, qcerror.NotFound("stage %s not found", param.StageID)
	}
	if err := db.Create(param).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, qcerror.Conflict("parameter code %s already exists", param.Code)
		}
		return nil, qcerror.Internal(err, "create parameter")
	}
	return param, nil
}

// ParameterUpdate carries the editable fields of a parameter.
type ParameterUpdate struct {
	Name                 string
	SpecificationText    string
	Unit                 string
	FrequencyPerDay      int
	FrequencyDescription string
	Weekly               bool
	MinValue             *float64
	MaxValue             *float64
	TargetValue          *float64
	DefectCategories     models.DefectMap
	Formats              models.FormatList
	MethodReference      string
	SpecControlType      *string
	SpecParameterName    *string
	IsActive             bool
}

// UpdateParameter replaces the editable fields after validating the result.
func (c *Catalog) UpdateParameter(ctx context.Context, id string, in ParameterUpdate) (*models.ControlParameter, error) {
	param, err := c.GetParameter(ctx, id)
	if err != nil {
		return nil, err
	}
	param.Name = in.Name
	param.SpecificationText = in.SpecificationText
	param.Unit = in.Unit
	param.FrequencyPerDay = in.FrequencyPerDay
	param.FrequencyDescription = in.FrequencyDescription
	param.Weekly = in.Weekly
	param.MinValue = in.MinValue
	param.MaxValue = in.MaxValue
	param.TargetValue = in.TargetValue
	param.DefectCategories = in.DefectCategories
	param.Formats = in.Formats
	param.MethodReference = in.MethodReference
	param.SpecControlType = in.SpecControlType
	param.SpecParameterName = in.SpecParameterName
	param.IsActive = in.IsActive
	if err := param.Validate(); err != nil {
		return nil, qcerror.Validation("%v", err)
	}

	stage := param.Stage
	param.Stage = nil
	err = c.db.WithContext(ctx).Model(param).Select("*").Omit("created_at", "stage_id", "code", "control_type").Updates(param).Error
	param.Stage = stage
	if err != nil {
		return nil, qcerror.Internal(err, "update parameter")
	}
	return param, nil
}
