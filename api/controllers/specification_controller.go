/*
 * @module api/controllers/specification_controller
 * @description Specification store administration and scope resolution
 * @architecture MVC - controller layer
 * @stateFlow create -> update -> deactivate/activate -> delete; every write reloads the resolver snapshot
 * @rules Resolve answers 200 with null data when no specification applies
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/specification/store.go
 */

package controllers

import (
	"ceramiqc/api/middleware"
	"ceramiqc/service/models"
	"ceramiqc/service/specification"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// SpecificationController administers specifications.
type SpecificationController struct {
	store *specification.Store
}

// NewSpecificationController creates the controller.
func NewSpecificationController(store *specification.Store) *SpecificationController {
	return &SpecificationController{store: store}
}

// SpecificationRequest is the body of create and update.
type SpecificationRequest struct {
	ControlType   string       `json:"control_type" example:"press"`
	ParameterName string       `json:"parameter_name" example:"thickness"`
	FormatType    *string      `json:"format_type,omitempty" example:"25x40"`
	EnamelType    *string      `json:"enamel_type,omitempty"`
	MinValue      *float64     `json:"min_value,omitempty" example:"6.8"`
	MaxValue      *float64     `json:"max_value,omitempty" example:"7.4"`
	TargetValue   *float64     `json:"target_value,omitempty" example:"7.1"`
	Unit          string       `json:"unit" example:"mm"`
	Symmetric     bool         `json:"symmetric"`
	Constraints   models.JSONB `json:"constraints,omitempty" swaggertype:"object"`
	Description   string       `json:"description"`
	CreatedBy     string       `json:"created_by"`
}

// ResetRequest is the body of POST /specifications/reset-defaults.
type ResetRequest struct {
	ControlType string `json:"control_type" example:"clay"`
}

// Create adds an active specification.
// @Summary Create a specification
// @Tags specifications
// @Accept json
// @Produce json
// @Param request body SpecificationRequest true "specification"
// @Success 201 {object} APIResponse{data=models.Specification}
// @Failure 400 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Router /specifications [post]
func (c *SpecificationController) Create(w http.ResponseWriter, r *http.Request) {
	var req SpecificationRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	spec, err := c.store.Create(r.Context(), &models.Specification{
		ControlType:   req.ControlType,
		ParameterName: req.ParameterName,
		FormatType:    req.FormatType,
		EnamelType:    req.EnamelType,
		MinValue:      req.MinValue,
		MaxValue:      req.MaxValue,
		TargetValue:   req.TargetValue,
		Unit:          req.Unit,
		Symmetric:     req.Symmetric,
		Constraints:   req.Constraints,
		Description:   req.Description,
		CreatedBy:     middleware.OperatorOr(r.Context(), req.CreatedBy),
		IsActive:      true,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, SuccessResponse("specification created", spec))
}

// List pages through specifications.
// @Summary List specifications
// @Tags specifications
// @Produce json
// @Param control_type query string false "control type"
// @Param parameter_name query string false "parameter name"
// @Param active_only query bool false "only active rows"
// @Param page query int false "page" default(1)
// @Param size query int false "page size" default(50)
// @Success 200 {object} PaginatedResponse{data=[]models.Specification}
// @Router /specifications [get]
func (c *SpecificationController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, size := paging(r)
	activeOnly, _ := strconv.ParseBool(q.Get("active_only"))
	specs, total, err := c.store.List(r.Context(), specification.ListFilter{
		ControlType:   q.Get("control_type"),
		ParameterName: q.Get("parameter_name"),
		ActiveOnly:    activeOnly,
	}, page, size)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, &PaginatedResponse{Status: 0, Msg: "ok", Data: specs, Total: total, Page: page, Size: size})
}

// Get returns one specification.
// @Summary Get a specification
// @Tags specifications
// @Produce json
// @Param id path string true "specification id"
// @Success 200 {object} APIResponse{data=models.Specification}
// @Failure 404 {object} APIResponse
// @Router /specifications/{id} [get]
func (c *SpecificationController) Get(w http.ResponseWriter, r *http.Request) {
	spec, err := c.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("ok", spec))
}

// Update replaces the bounds and scope of a specification.
// @Summary Update a specification
// @Tags specifications
// @Accept json
// @Produce json
// @Param id path string true "specification id"
// @Param request body SpecificationRequest true "new values"
// @Success 200 {object} APIResponse{data=models.Specification}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Router /specifications/{id} [put]
func (c *SpecificationController) Update(w http.ResponseWriter, r *http.Request) {
	var req SpecificationRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	spec, err := c.store.Update(r.Context(), chi.URLParam(r, "id"), specification.UpdateInput{
		FormatType:  req.FormatType,
		EnamelType:  req.EnamelType,
		MinValue:    req.MinValue,
		MaxValue:    req.MaxValue,
		TargetValue: req.TargetValue,
		Unit:        req.Unit,
		Symmetric:   req.Symmetric,
		Constraints: req.Constraints,
		Description: req.Description,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("specification updated", spec))
}

// Deactivate soft-deletes a specification.
// @Summary Deactivate a specification
// @Tags specifications
// @Param id path string true "specification id"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /specifications/{id}/deactivate [post]
func (c *SpecificationController) Deactivate(w http.ResponseWriter, r *http.Request) {
	if err := c.store.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("specification deactivated", nil))
}

// Activate re-enables a specification.
// @Summary Activate a specification
// @Tags specifications
// @Param id path string true "specification id"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Router /specifications/{id}/activate [post]
func (c *SpecificationController) Activate(w http.ResponseWriter, r *http.Request) {
	if err := c.store.Activate(r.Context(), chi.URLParam(r, "id")); err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("specification activated", nil))
}

// Delete removes a specification.
// @Summary Delete a specification
// @Tags specifications
// @Param id path string true "specification id"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /specifications/{id} [delete]
func (c *SpecificationController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("specification deleted", nil))
}

// Resolve returns the specification that applies to a scope.
// @Summary Resolve a specification
// @Tags specifications
// @Produce json
// @Param control_type query string true "control type"
// @Param parameter_name query string true "parameter name"
// @Param format_type query string false "tile format"
// @Param enamel_type query string false "enamel type"
// @Success 200 {object} APIResponse{data=models.Specification}
// @Failure 400 {object} APIResponse
// @Router /specifications/resolve [get]
func (c *SpecificationController) Resolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	scope := models.SpecScope{
		ControlType:   q.Get("control_type"),
		ParameterName: q.Get("parameter_name"),
		FormatType:    models.StrPtr(q.Get("format_type")),
		EnamelType:    models.StrPtr(q.Get("enamel_type")),
	}
	if scope.ControlType == "" || scope.ParameterName == "" {
		badRequest(w, r, "control_type and parameter_name are required")
		return
	}
	spec, err := c.store.Resolve(r.Context(), scope)
	if err != nil {
		renderError(w, r, err)
		return
	}
	if spec == nil {
		render.JSON(w, r, SuccessResponse("no specification applies", nil))
		return
	}
	render.JSON(w, r, SuccessResponse("ok", spec))
}

// ControlTypes lists the control types present in the store.
// @Summary List control types
// @Tags specifications
// @Produce json
// @Success 200 {object} APIResponse{data=[]string}
// @Router /specifications/control-types [get]
func (c *SpecificationController) ControlTypes(w http.ResponseWriter, r *http.Request) {
	types, err := c.store.ControlTypes(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("ok", types))
}

// ResetDefaults seeds the default specifications that are missing.
// @Summary Seed default specifications
// @Tags specifications
// @Accept json
// @Produce json
// @Param request body ResetRequest false "control type, all when empty"
// @Success 200 {object} APIResponse
// @Router /specifications/reset-defaults [post]
func (c *SpecificationController) ResetDefaults(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if r.ContentLength != 0 {
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			badRequest(w, r, fmt.Sprintf("invalid request body: %v", err))
			return
		}
	}
	created, err := c.store.ResetDefaults(r.Context(), req.ControlType)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse(fmt.Sprintf("%d specifications created", created), map[string]int{"created": created}))
}
