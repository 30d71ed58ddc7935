/*
 * @module service/specification/store
 * @description Specification store: CRUD over specification rows plus most-specific-match resolution
 * @architecture Layered architecture - domain service
 * @stateFlow rows loaded into an in-memory snapshot at startup, reloaded after every mutation
 * @rules One active row per exact scope; NULL row dimensions are wildcards; no match means unconstrained
 * @dependencies gorm.io/gorm
 * @refs service/compliance/evaluator.go, api/controllers/specification_controller.go
 */

package specification

import (
	"ceramiqc/service/models"
	"ceramiqc/service/qcerror"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"gorm.io/gorm"
)

// Resolver finds the specification applying to a scope.
type Resolver interface {
	Resolve(ctx context.Context, scope models.SpecScope) (*models.Specification, error)
}

// Store owns the specifications table.
type Store struct {
	db *gorm.DB

	mu       sync.RWMutex
	loaded   bool
	snapshot map[string][]models.Specification // control_type/parameter_name -> active rows
}

// NewStore creates a store. Call Reload before serving traffic; Resolve
// loads lazily otherwise.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func snapshotKey(controlType, parameterName string) string {
	return controlType + "/" + parameterName
}

// Reload replaces the snapshot with the active rows currently in the database.
func (s *Store) Reload(ctx context.Context) error {
	var rows []models.Specification
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Find(&rows).Error; err != nil {
		return fmt.Errorf("load specifications: %w", err)
	}
	snapshot := make(map[string][]models.Specification)
	for _, row := range rows {
		key := snapshotKey(row.ControlType, row.ParameterName)
		snapshot[key] = append(snapshot[key], row)
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.loaded = true
	s.mu.Unlock()

	slog.Debug("specification snapshot reloaded", "rows", len(rows))
	return nil
}

// Resolve returns the most specific active specification matching scope, or
// nil when none applies. Ties on specificity go to the latest created_at,
// then to the greatest id.
func (s *Store) Resolve(ctx context.Context, scope models.SpecScope) (*models.Specification, error) {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if !loaded {
		if err := s.Reload(ctx); err != nil {
			return nil, err
		}
	}

	s.mu.RLock()
	candidates := s.snapshot[snapshotKey(scope.ControlType, scope.ParameterName)]
	s.mu.RUnlock()

	var best *models.Specification
	for i := range candidates {
		c := &candidates[i]
		if !c.Matches(scope) {
			continue
		}
		if best == nil || outranks(c, best) {
			best = c
		}
	}
	if best == nil {
		return nil, nil
	}
	result := *best
	return &result, nil
}

func outranks(a, b *models.Specification) bool {
	if a.Specificity() != b.Specificity() {
		return a.Specificity() > b.Specificity()
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// scopeQuery narrows q to the exact tuple, NULL equal to NULL.
func scopeQuery(q *gorm.DB, scope models.SpecScope) *gorm.DB {
	q = q.Where("control_type = ? AND parameter_name = ?", scope.ControlType, scope.ParameterName)
	if scope.FormatType == nil {
		q = q.Where("format_type IS NULL")
	} else {
		q = q.Where("format_type = ?", *scope.FormatType)
	}
	if scope.EnamelType == nil {
		q = q.Where("enamel_type IS NULL")
	} else {
		q = q.Where("enamel_type = ?", *scope.EnamelType)
	}
	return q
}

func (s *Store) ensureNoActiveDuplicate(tx *gorm.DB, scope models.SpecScope, excludeID string) error {
	q := scopeQuery(tx.Model(&models.Specification{}), scope).Where("is_active = ?", true)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return qcerror.Internal(err, "check specification scope")
	}
	if count > 0 {
		return qcerror.Conflict("an active specification already exists for %s", scope)
	}
	return nil
}

// Create inserts a specification. An active row may not share its exact scope
// with another active row.
func (s *Store) Create(ctx context.Context, spec *models.Specification) (*models.Specification, error) {
	if err := spec.Validate(); err != nil {
		return nil, qcerror.Validation("%v", err)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if spec.IsActive {
			if err := s.ensureNoActiveDuplicate(tx, spec.Scope(), ""); err != nil {
				return err
			}
		}
		if err := tx.Create(spec).Error; err != nil {
			return qcerror.Internal(err, "create specification")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("specification created", "id", spec.ID, "scope", spec.Scope().String())
	return spec, s.Reload(ctx)
}

// UpdateInput replaces the editable fields of a specification.
type UpdateInput struct {
	FormatType  *string
	EnamelType  *string
	MinValue    *float64
	MaxValue    *float64
	TargetValue *float64
	Unit        string
	Symmetric   bool
	Constraints models.JSONB
	Description string
}

// Update replaces the bounds and scope dimensions of an existing specification.
func (s *Store) Update(ctx context.Context, id string, in UpdateInput) (*models.Specification, error) {
	var spec models.Specification
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&spec, "id = ?", id).Error; err != nil {
			return notFoundOr(err, id)
		}
		spec.FormatType = in.FormatType
		spec.EnamelType = in.EnamelType
		spec.MinValue = in.MinValue
		spec.MaxValue = in.MaxValue
		spec.TargetValue = in.TargetValue
		spec.Unit = in.Unit
		spec.Symmetric = in.Symmetric
		spec.Constraints = in.Constraints
		spec.Description = in.Description
		if err := spec.Validate(); err != nil {
			return qcerror.Validation("%v", err)
		}
		if spec.IsActive {
			if err := s.ensureNoActiveDuplicate(tx, spec.Scope(), spec.ID); err != nil {
				return err
			}
		}
		// Select("*") so nil bounds are written as NULL
		if err := tx.Model(&spec).Select("*").Omit("created_at", "created_by").Updates(&spec).Error; err != nil {
			return qcerror.Internal(err, "update specification")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &spec, s.Reload(ctx)
}

// Get returns one specification by id.
func (s *Store) Get(ctx context.Context, id string) (*models.Specification, error) {
	var spec models.Specification
	if err := s.db.WithContext(ctx).First(&spec, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, id)
	}
	return &spec, nil
}

// ListFilter narrows List.
type ListFilter struct {
	ControlType   string
	ParameterName string
	ActiveOnly    bool
}

// List returns a page of specifications ordered by scope.
func (s *Store) List(ctx context.Context, filter ListFilter, page, size int) ([]models.Specification, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Specification{})
	if filter.ControlType != "" {
		q = q.Where("control_type = ?", filter.ControlType)
	}
	if filter.ParameterName != "" {
		q = q.Where("parameter_name = ?", filter.ParameterName)
	}
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count specifications: %w", err)
	}
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	var specs []models.Specification
	err := q.Order("control_type, parameter_name, format_type, enamel_type, created_at").
		Offset((page - 1) * size).Limit(size).Find(&specs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list specifications: %w", err)
	}
	return specs, total, nil
}

// Deactivate soft-deletes a specification.
func (s *Store) Deactivate(ctx context.Context, id string) error {
	return s.setActive(ctx, id, false)
}

// Activate re-enables a specification unless another active row owns its scope.
func (s *Store) Activate(ctx context.Context, id string) error {
	return s.setActive(ctx, id, true)
}

func (s *Store) setActive(ctx context.Context, id string, active bool) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var spec models.Specification
		if err := tx.First(&spec, "id = ?", id).Error; err != nil {
			return notFoundOr(err, id)
		}
		if spec.IsActive == active {
			return nil
		}
		if active {
			if err := s.ensureNoActiveDuplicate(tx, spec.Scope(), spec.ID); err != nil {
				return err
			}
		}
		return tx.Model(&spec).Update("is_active", active).Error
	})
	if err != nil {
		return err
	}
	slog.Info("specification activation changed", "id", id, "active", active)
	return s.Reload(ctx)
}

// Delete physically removes a specification.
func (s *Store) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Specification{}, "id = ?", id)
	if result.Error != nil {
		return qcerror.Internal(result.Error, "delete specification")
	}
	if result.RowsAffected == 0 {
		return qcerror.NotFound("specification %s not found", id)
	}
	return s.Reload(ctx)
}

// ControlTypes returns the distinct control types present, sorted.
func (s *Store) ControlTypes(ctx context.Context) ([]string, error) {
	var types []string
	if err := s.db.WithContext(ctx).Model(&models.Specification{}).Distinct().Pluck("control_type", &types).Error; err != nil {
		return nil, fmt.Errorf("list control types: %w", err)
	}
	sort.Strings(types)
	return types, nil
}

// ResetDefaults seeds the default set for controlType (all types when empty)
// without duplicating rows whose exact scope already exists, active or not.
// An unknown control type creates nothing.
func (s *Store) ResetDefaults(ctx context.Context, controlType string) (int, error) {
	if controlType != "" {
		if _, ok := defaultSpecs[controlType]; !ok {
			return 0, nil
		}
	}

	created := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, spec := range DefaultSpecifications(controlType) {
			var count int64
			if err := scopeQuery(tx.Model(&models.Specification{}), spec.Scope()).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			if err := tx.Create(spec).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, qcerror.Internal(err, "reset default specifications")
	}
	slog.Info("default specifications seeded", "control_type", controlType, "created", created)
	return created, s.Reload(ctx)
}

func notFoundOr(err error, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return qcerror.NotFound("specification %s not found", id)
	}
	return qcerror.Internal(err, "load specification %s", id)
}
