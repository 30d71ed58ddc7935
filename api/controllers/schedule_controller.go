/*
 * @module api/controllers/schedule_controller
 * @description Schedule generation and daily schedule queries
 * @architecture MVC - controller layer
 * @stateFlow generate (replace a day's slots) -> query -> summary
 * @rules Generation without a date targets tomorrow; weekly generation targets next Monday
 * @dependencies github.com/go-chi/render
 * @refs service/scheduling/scheduler.go
 */

package controllers

import (
	"ceramiqc/service/models"
	"ceramiqc/service/qcerror"
	"ceramiqc/service/scheduling"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// ScheduleController serves the control schedule.
type ScheduleController struct {
	scheduler *scheduling.Scheduler
	now       func() time.Time
}

// NewScheduleController creates the controller.
func NewScheduleController(scheduler *scheduling.Scheduler, now func() time.Time) *ScheduleController {
	return &ScheduleController{scheduler: scheduler, now: now}
}

// Generate regenerates the slots of a day.
// @Summary Generate a daily schedule
// @Tags schedule
// @Produce json
// @Param date query string false "target date YYYY-MM-DD, defaults to tomorrow"
// @Success 200 {object} APIResponse{data=scheduling.GenerateResult}
// @Failure 400 {object} APIResponse
// @Router /schedule/generate [post]
func (c *ScheduleController) Generate(w http.ResponseWriter, r *http.Request) {
	var target *time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := models.ParseDate(raw, c.now().Location())
		if err != nil {
			renderError(w, r, qcerror.Validation("%v", err))
			return
		}
		target = &d
	}
	res, err := c.scheduler.GenerateDailySchedule(r.Context(), target)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("schedule generated", res))
}

// GenerateWeekly regenerates next Monday, including weekly parameters.
// @Summary Generate next Monday's schedule
// @Tags schedule
// @Produce json
// @Success 200 {object} APIResponse{data=scheduling.GenerateResult}
// @Router /schedule/generate-weekly [post]
func (c *ScheduleController) GenerateWeekly(w http.ResponseWriter, r *http.Request) {
	res, err := c.scheduler.GenerateWeeklySchedule(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("weekly schedule generated", res))
}

// Get returns the slots of a day.
// @Summary Daily schedule
// @Tags schedule
// @Produce json
// @Param date query string false "YYYY-MM-DD, defaults to today"
// @Param shift query string false "A, B or C"
// @Success 200 {object} APIResponse{data=[]models.ScheduledControl}
// @Router /schedule [get]
func (c *ScheduleController) Get(w http.ResponseWriter, r *http.Request) {
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
	slots, err := c.scheduler.GetDailySchedule(r.Context(), date, shift)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("ok", slots))
}

// Summary counts the slots of a day by shift and status.
// @Summary Daily schedule summary
// @Tags schedule
// @Produce json
// @Param date query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {object} APIResponse{data=scheduling.ScheduleSummary}
// @Router /schedule/summary [get]
func (c *ScheduleController) Summary(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r, "date", c.now)
	if err != nil {
		renderError(w, r, err)
		return
	}
	summary, err := c.scheduler.GetScheduleSummary(r.Context(), date)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("ok", summary))
}
