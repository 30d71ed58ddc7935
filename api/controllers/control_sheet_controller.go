/*
 * @module api/controllers/control_sheet_controller
 * @description Data contracts for control-sheet exports, export records, process capability and the dashboard
 * @architecture MVC - controller layer
 * @stateFlow schedule + measurements -> sheet contract -> client renders the workbook -> export record saved
 * @rules Dates default to today in the plant timezone; a weekly sheet always spans seven days
 * @dependencies github.com/go-chi/render
 * @refs service/controlsheet/service.go, service/controlsheet/stats.go
 */

package controllers

import (
	"ceramiqc/api/middleware"
	"ceramiqc/service/controlsheet"
	"ceramiqc/service/qcerror"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// ControlSheetController serves sheet contracts and statistics.
type ControlSheetController struct {
	sheets *controlsheet.Service
	now    func() time.Time
}

// NewControlSheetController creates the controller.
func NewControlSheetController(sheets *controlsheet.Service, now func() time.Time) *ControlSheetController {
	return &ControlSheetController{sheets: sheets, now: now}
}

// Daily returns the daily or per-shift sheet contract.
// @Summary Daily control sheet
// @Tags control-sheets
// @Produce json
// @Param date query string false "YYYY-MM-DD, defaults to today"
// @Param shift query string false "A, B or C"
// @Success 200 {object} APIResponse{data=controlsheet.DailySheet}
// @Failure 400 {object} APIResponse
// @Router /control-sheets/daily [get]
func (c *ControlSheetController) Daily(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r, "date", c.now)
	if err != nil {
		renderError(w, r, err)
		return
	}
	shift, err := shiftParam(r)
	if err != nil {
		renderError(w, r, err)
		return
	}
	sheet, err := c.sheets.DailySheet(r.Context(), date, shift)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("ok", sheet))
}

// Weekly returns the weekly report contract.
// @Summary Weekly report
// @Tags control-sheets
// @Produce json
// @Param start query string false "first day YYYY-MM-DD, defaults to the Monday of this week"
// @Success 200 {object} APIResponse{data=controlsheet.WeeklySheet}
// @Failure 400 {object} APIResponse
// @Router /control-sheets/weekly [get]
func (c *ControlSheetController) Weekly(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	if start == "" {
		today := c.now()
		start = today.AddDate(0, 0, -((int(today.Weekday())+6)%7)).Format("2006-01-02")
	}
	sheet, err := c.sheets.WeeklySheet(r.Context(), start)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("ok", sheet))
}

// SaveRecord stores an exported sheet.
// @Summary Save an export record
// @Tags control-sheets
// @Accept json
// @Produce json
// @Param request body controlsheet.SaveInput true "export"
// @Success 201 {object} APIResponse{data=models.ControlSheet}
// @Failure 400 {object} APIResponse
// @Router /control-sheets/records [post]
func (c *ControlSheetController) SaveRecord(w http.ResponseWriter, r *http.Request) {
	var in controlsheet.SaveInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		badRequest(w, r, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	in.GeneratedBy = middleware.OperatorOr(r.Context(), in.GeneratedBy)
	sheet, err := c.sheets.SaveSheet(r.Context(), in)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, SuccessResponse("sheet saved", sheet))
}

// Records lists export records in a date range.
// @Summary List export records
// @Tags control-sheets
// @Produce json
// @Param from query string false "first date"
// @Param to query string false "last date"
// @Success 200 {object} APIResponse{data=[]models.ControlSheet}
// @Router /control-sheets/records [get]
func (c *ControlSheetController) Records(w http.ResponseWriter, r *http.Request) {
	sheets, err := c.sheets.ListSheets(r.Context(), r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("ok", sheets))
}

// Capability computes Cp and Cpk of a numeric parameter.
// @Summary Process capability
// @Tags control-sheets
// @Produce json
// @Param parameter_id query string true "parameter id"
// @Param from query string true "first date"
// @Param to query string true "last date"
// @Success 200 {object} APIResponse{data=controlsheet.Capability}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /control-sheets/capability [get]
func (c *ControlSheetController) Capability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("parameter_id") == "" {
		renderError(w, r, qcerror.Validation("parameter_id is required"))
		return
	}
	from, err := dateParam(r, "from", c.now)
	if err != nil {
		renderError(w, r, err)
		return
	}
	to, err := dateParam(r, "to", c.now)
	if err != nil {
		renderError(w, r, err)
		return
	}
	capability, err := c.sheets.ProcessCapability(r.Context(), q.Get("parameter_id"), from, to)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("ok", capability))
}

// Dashboard returns the day's compliance figures.
// @Summary Dashboard statistics
// @Tags control-sheets
// @Produce json
// @Param date query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {object} APIResponse{data=controlsheet.DashboardStats}
// @Router /control-sheets/dashboard [get]
func (c *ControlSheetController) Dashboard(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r, "date", c.now)
	if err != nil {
		renderError(w, r, err)
		return
	}
	stats, err := c.sheets.Dashboard(r.Context(), date)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("ok", stats))
}

// Trend returns the daily compliance rate of the seven days ending on end.
// @Summary Weekly compliance trend
// @Tags control-sheets
// @Produce json
// @Param end query string false "last day, YYYY-MM-DD, defaults to today"
// @Success 200 {object} APIResponse{data=[]controlsheet.TrendPoint}
// @Failure 400 {object} APIResponse
// @Router /control-sheets/trend [get]
func (c *ControlSheetController) Trend(w http.ResponseWriter, r *http.Request) {
	end, err := dateParam(r, "end", c.now)
	if err != nil {
		renderError(w, r, err)
		return
	}
	points, err := c.sheets.WeeklyTrend(r.Context(), end)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("ok", points))
}

// Defects averages observed defect percentages per stage.
// @Summary Defect analysis
// @Tags control-sheets
// @Produce json
// @Param from query string false "first date"
// @Param to query string false "last date"
// @Success 200 {object} APIResponse{data=[]controlsheet.StageDefects}
// @Failure 400 {object} APIResponse
// @Router /control-sheets/defects [get]
func (c *ControlSheetController) Defects(w http.ResponseWriter, r *http.Request) {
	from, to, err := rangeParams(r)
	if err != nil {
		renderError(w, r, err)
		return
	}
	defects, err := c.sheets.DefectAnalysis(r.Context(), from, to)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("ok", defects))
}

// Formats counts measurements per tile format.
// @Summary Format distribution
// @Tags control-sheets
// @Produce json
// @Param from query string false "first date"
// @Param to query string false "last date"
// @Success 200 {object} APIResponse{data=[]controlsheet.FormatCount}
// @Failure 400 {object} APIResponse
// @Router /control-sheets/formats [get]
func (c *ControlSheetController) Formats(w http.ResponseWriter, r *http.Request) {
	from, to, err := rangeParams(r)
	if err != nil {
		renderError(w, r, err)
		return
	}
	dist, err := c.sheets.FormatDistribution(r.Context(), from, to)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("ok", dist))
}
