/*
 * @module api/controllers/catalog_controller
 * @description Production stages and control parameters
 * @architecture MVC - controller layer
 * @stateFlow initialize defaults -> list -> admin edits
 * @rules Parameter code, stage and control type are fixed after creation
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/catalog/catalog.go
 */

package controllers

import (
	"ceramiqc/service/catalog"
	"ceramiqc/service/models"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// CatalogController serves stages and parameters.
type CatalogController struct {
	catalog *catalog.Catalog
}

// NewCatalogController creates the controller.
func NewCatalogController(c *catalog.Catalog) *CatalogController {
	return &CatalogController{catalog: c}
}

// ParameterRequest is the body of parameter create and update. StageID,
// Code and ControlType are ignored on update.
type ParameterRequest struct {
	StageID              string             `json:"stage_id"`
	Code                 string             `json:"code" example:"CLAY_HUM_BEFORE"`
	Name                 string             `json:"name"`
	ControlType          models.ControlType `json:"control_type" example:"numeric"`
	SpecificationText    string             `json:"specification" example:"2.5% - 4.1%"`
	Unit                 string             `json:"unit"`
	FrequencyPerDay      int                `json:"frequency_per_day" example:"6"`
	FrequencyDescription string             `json:"frequency_description,omitempty"`
	Weekly               bool               `json:"weekly"`
	MinValue             *float64           `json:"min_value,omitempty"`
	MaxValue             *float64           `json:"max_value,omitempty"`
	TargetValue          *float64           `json:"target_value,omitempty"`
	DefectCategories     models.DefectMap   `json:"defect_categories,omitempty" swaggertype:"object"`
	Formats              models.FormatList  `json:"formats,omitempty" swaggertype:"array,string"`
	MethodReference      string             `json:"method_reference,omitempty"`
	SpecControlType      *string            `json:"spec_control_type,omitempty"`
	SpecParameterName    *string            `json:"spec_parameter_name,omitempty"`
	IsActive             *bool              `json:"is_active,omitempty"`
}

func (p ParameterRequest) active() bool {
	return p.IsActive == nil || *p.IsActive
}

// Initialize seeds the default stages and parameters.
// @Summary Initialize the catalog
// @Tags catalog
// @Produce json
// @Success 200 {object} APIResponse{data=catalog.InitResult}
// @Router /catalog/initialize [post]
func (c *CatalogController) Initialize(w http.ResponseWriter, r *http.Request) {
	res, err := c.catalog.InitializeDefaults(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("catalog initialized", res))
}

// Stages lists production stages.
// @Summary List stages
// @Tags catalog
// @Produce json
// @Param active_only query bool false "only active stages"
// @Success 200 {object} APIResponse{data=[]models.ControlStage}
// @Router /catalog/stages [get]
func (c *CatalogController) Stages(w http.ResponseWriter, r *http.Request) {
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("active_only"))
	stages, err := c.catalog.ListStages(r.Context(), activeOnly)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("ok", stages))
}

// Parameters lists active parameters in production order.
// @Summary List active parameters
// @Tags catalog
// @Produce json
// @Param stage query string false "stage code"
// @Success 200 {object} APIResponse{data=[]models.ControlParameter}
// @Router /catalog/parameters [get]
func (c *CatalogController) Parameters(w http.ResponseWriter, r *http.Request) {
	params, err := c.catalog.ListActive(r.Context(), r.URL.Query().Get("stage"))
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("ok", params))
}

// Parameter returns one parameter by id.
// @Summary Get a parameter
// @Tags catalog
// @Produce json
// @Param id path string true "parameter id"
// @Success 200 {object} APIResponse{data=models.ControlParameter}
// @Failure 404 {object} APIResponse
// @Router /catalog/parameters/{id} [get]
func (c *CatalogController) Parameter(w http.ResponseWriter, r *http.Request) {
	param, err := c.catalog.GetParameter(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("ok", param))
}

// CreateParameter adds a parameter to a stage.
// @Summary Create a parameter
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body ParameterRequest true "parameter"
// @Success 201 {object} APIResponse{data=models.ControlParameter}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Router /catalog/parameters [post]
func (c *CatalogController) CreateParameter(w http.ResponseWriter, r *http.Request) {
	var req ParameterRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	param, err := c.catalog.CreateParameter(r.Context(), &models.ControlParameter{
		StageID:              req.StageID,
		Code:                 req.Code,
		Name:                 req.Name,
		ControlType:          req.ControlType,
		SpecificationText:    req.SpecificationText,
		Unit:                 req.Unit,
		FrequencyPerDay:      req.FrequencyPerDay,
		FrequencyDescription: req.FrequencyDescription,
		Weekly:               req.Weekly,
		MinValue:             req.MinValue,
		MaxValue:             req.MaxValue,
		TargetValue:          req.TargetValue,
		DefectCategories:     req.DefectCategories,
		Formats:              req.Formats,
		MethodReference:      req.MethodReference,
		SpecControlType:      req.SpecControlType,
		SpecParameterName:    req.SpecParameterName,
		IsActive:             req.active(),
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, SuccessResponse("parameter created", param))
}

// UpdateParameter replaces the editable fields of a parameter.
// @Summary Update a parameter
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path string true "parameter id"
// @Param request body ParameterRequest true "parameter"
// @Success 200 {object} APIResponse{data=models.ControlParameter}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /catalog/parameters/{id} [put]
func (c *CatalogController) UpdateParameter(w http.ResponseWriter, r *http.Request) {
	var req ParameterRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	param, err := c.catalog.UpdateParameter(r.Context(), chi.URLParam(r, "id"), catalog.ParameterUpdate{
		Name:                 req.Name,
		SpecificationText:    req.SpecificationText,
		Unit:                 req.Unit,
		FrequencyPerDay:      req.FrequencyPerDay,
		FrequencyDescription: req.FrequencyDescription,
		Weekly:               req.Weekly,
		MinValue:             req.MinValue,
		MaxValue:             req.MaxValue,
		TargetValue:          req.TargetValue,
		DefectCategories:     req.DefectCategories,
		Formats:              req.Formats,
		MethodReference:      req.MethodReference,
		SpecControlType:      req.SpecControlType,
		SpecParameterName:    req.SpecParameterName,
		IsActive:             req.active(),
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("parameter updated", param))
}
