/*
 * @module api/controllers/measurement_controller
 * @description Measurement entry (single and bulk) and measurement history queries
 * @architecture MVC - controller layer
 * @stateFlow decode -> recorder evaluates and persists -> Result in the envelope
 * @rules A rejected single submission answers with the status of its error type and the Result as data
 * @dependencies github.com/go-chi/render
 * @refs service/measurement/recorder.go
 */

package controllers

import (
	"ceramiqc/api/middleware"
	"ceramiqc/service/measurement"
	"ceramiqc/service/qcerror"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/render"
)

// MeasurementController records and lists measurements.
type MeasurementController struct {
	recorder *measurement.Recorder
}

// NewMeasurementController creates the controller.
func NewMeasurementController(recorder *measurement.Recorder) *MeasurementController {
	return &MeasurementController{recorder: recorder}
}

// RecordRequest is the body of POST /measurements.
type RecordRequest struct {
	ParameterID  string `json:"parameter_id" example:"6f1c..."`
	OperatorName string `json:"operator_name" example:"karim"`
	measurement.Submission
}

// BulkRequest is the body of POST /measurements/bulk.
type BulkRequest struct {
	Measurements []measurement.BulkEntry `json:"measurements"`
}

// Record records one measurement.
// @Summary Record a measurement
// @Description Evaluates the value against its specification, stores it, completes the matching slot and issues an NC number when non-conforming
// @Tags measurements
// @Accept json
// @Produce json
// @Param request body RecordRequest true "measurement"
// @Success 200 {object} APIResponse{data=measurement.Result}
// @Failure 400 {object} APIResponse{data=measurement.Result}
// @Failure 404 {object} APIResponse{data=measurement.Result}
// @Failure 409 {object} APIResponse{data=measurement.Result}
// @Router /measurements [post]
func (c *MeasurementController) Record(w http.ResponseWriter, r *http.Request) {
	var req RecordRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	operator := middleware.OperatorOr(r.Context(), req.OperatorName)
	res := c.recorder.RecordMeasurement(r.Context(), req.ParameterID, operator, req.Submission)
	if !res.Success {
		render.Status(r, qcerror.HTTPStatus(&qcerror.Error{Type: res.ErrorType, Message: res.Error}))
		render.JSON(w, r, ErrorResponse(res.Error, res))
		return
	}
	render.JSON(w, r, SuccessResponse("measurement recorded", res))
}

// RecordBulk records several measurements independently.
// @Summary Record measurements in bulk
// @Tags measurements
// @Accept json
// @Produce json
// @Param request body BulkRequest true "measurements"
// @Success 200 {object} APIResponse{data=measurement.BulkResult}
// @Failure 400 {object} APIResponse
// @Router /measurements/bulk [post]
func (c *MeasurementController) RecordBulk(w http.ResponseWriter, r *http.Request) {
	var req BulkRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if len(req.Measurements) == 0 {
		badRequest(w, r, "measurements must not be empty")
		return
	}
	for i := range req.Measurements {
		req.Measurements[i].OperatorName = middleware.OperatorOr(r.Context(), req.Measurements[i].OperatorName)
	}
	res := c.recorder.RecordBulkMeasurements(r.Context(), req.Measurements)
	render.JSON(w, r, SuccessResponse(fmt.Sprintf("%d of %d recorded", res.Successful, res.TotalProcessed), res))
}

// List returns measurement history, newest first.
// @Summary List measurements
// @Tags measurements
// @Produce json
// @Param parameter_id query string false "parameter id"
// @Param date query string false "measurement date YYYY-MM-DD"
// @Param from query string false "first date, inclusive"
// @Param to query string false "last date, inclusive"
// @Param shift query string false "A, B or C"
// @Param nc_only query bool false "only non-conformities"
// @Param page query int false "page" default(1)
// @Param size query int false "page size" default(50)
// @Success 200 {object} PaginatedResponse{data=[]models.OptimizedMeasurement}
// @Router /measurements [get]
func (c *MeasurementController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, size := paging(r)
	ncOnly, _ := strconv.ParseBool(q.Get("nc_only"))
	items, total, err := c.recorder.ListMeasurements(r.Context(), measurement.ListFilter{
		ParameterID: q.Get("parameter_id"),
		Date:        q.Get("date"),
		From:        q.Get("from"),
		To:          q.Get("to"),
		Shift:       q.Get("shift"),
		NCOnly:      ncOnly,
	}, page, size)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, &PaginatedResponse{Status: 0, Msg: "ok", Data: items, Total: total, Page: page, Size: size})
}
