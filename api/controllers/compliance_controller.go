/*
 * @module api/controllers/compliance_controller
 * @description Stateless compliance checks: composite records and dry-run parameter readings
 * @architecture MVC - controller layer
 * @stateFlow decode -> resolve specifications -> verdict (nothing is persisted)
 * @rules A missing specification leaves the observation unconstrained, never failed
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/compliance/record.go, service/compliance/parameter.go
 */

package controllers

import (
	"ceramiqc/service/catalog"
	"ceramiqc/service/compliance"
	"ceramiqc/service/measurement"
	"ceramiqc/service/models"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// ComplianceController evaluates without recording.
type ComplianceController struct {
	evaluator *compliance.Evaluator
	catalog   *catalog.Catalog
}

// NewComplianceController creates the controller.
func NewComplianceController(evaluator *compliance.Evaluator, catalog *catalog.Catalog) *ComplianceController {
	return &ComplianceController{evaluator: evaluator, catalog: catalog}
}

// DryRunRequest is the body of POST /compliance/parameters/{id}/evaluate.
type DryRunRequest struct {
	Value        interface{} `json:"value" swaggertype:"object"`
	IsConforming *bool       `json:"is_conforming,omitempty"`
	Format       string      `json:"format,omitempty" example:"45x45"`
	EnamelType   string      `json:"enamel_type,omitempty"`
}

// Evaluate checks a multi-parameter record.
// @Summary Evaluate a composite record
// @Tags compliance
// @Accept json
// @Produce json
// @Param request body compliance.Record true "record"
// @Success 200 {object} APIResponse{data=compliance.RecordVerdict}
// @Failure 400 {object} APIResponse
// @Router /compliance/evaluate [post]
func (c *ComplianceController) Evaluate(w http.ResponseWriter, r *http.Request) {
	var rec compliance.Record
	if err := render.DecodeJSON(r.Body, &rec); err != nil {
		badRequest(w, r, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	verdict, err := c.evaluator.EvaluateRecord(r.Context(), rec)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse(string(verdict.Status), verdict))
}

// EvaluateParameter checks one reading of a catalog parameter.
// @Summary Dry-run a parameter reading
// @Tags compliance
// @Accept json
// @Produce json
// @Param id path string true "parameter id"
// @Param request body DryRunRequest true "reading"
// @Success 200 {object} APIResponse{data=compliance.ParameterVerdict}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /compliance/parameters/{id}/evaluate [post]
func (c *ComplianceController) EvaluateParameter(w http.ResponseWriter, r *http.Request) {
	var req DryRunRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	param, err := c.catalog.GetParameter(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, err)
		return
	}
	value, err := measurement.CoerceValue(param.ControlType, req.Value)
	if err != nil {
		renderError(w, r, err)
		return
	}
	verdict, err := c.evaluator.EvaluateParameter(r.Context(), param, value,
		models.StrPtr(req.Format), models.StrPtr(req.EnamelType), req.IsConforming)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse(string(verdict.Status), verdict))
}
