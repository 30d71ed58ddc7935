/*
 * @module api/controllers/control_controller
 * @description Scheduled control slots: overdue sweep, operator worklists, assignment and skipping
 * @architecture MVC - controller layer
 * @stateFlow pending -> completed | skipped | overdue
 * @rules Only pending slots can be assigned or skipped
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/scheduling/scheduler.go, service/measurement/overdue.go
 */

package controllers

import (
	"ceramiqc/api/middleware"
	"ceramiqc/service/measurement"
	"ceramiqc/service/scheduling"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// ControlController manages individual slots.
type ControlController struct {
	scheduler *scheduling.Scheduler
	recorder  *measurement.Recorder
}

// NewControlController creates the controller.
func NewControlController(scheduler *scheduling.Scheduler, recorder *measurement.Recorder) *ControlController {
	return &ControlController{scheduler: scheduler, recorder: recorder}
}

// AssignRequest is the body of POST /controls/assign.
type AssignRequest struct {
	ControlIDs   []string `json:"control_ids"`
	OperatorName string   `json:"operator_name" example:"karim"`
}

// SkipRequest is the body of POST /controls/{id}/skip.
type SkipRequest struct {
	Reason string `json:"reason" example:"line stopped"`
}

// Overdue lists pending slots whose time has passed.
// @Summary List overdue controls
// @Tags controls
// @Produce json
// @Success 200 {object} APIResponse{data=[]models.ScheduledControl}
// @Router /controls/overdue [get]
func (c *ControlController) Overdue(w http.ResponseWriter, r *http.Request) {
	slots, err := c.recorder.GetOverdueControls(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("ok", slots))
}

// MarkOverdue flips overdue pending slots to overdue.
// @Summary Mark overdue controls
// @Tags controls
// @Produce json
// @Success 200 {object} APIResponse
// @Router /controls/overdue/mark [post]
func (c *ControlController) MarkOverdue(w http.ResponseWriter, r *http.Request) {
	n, err := c.recorder.MarkOverdueControls(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse(fmt.Sprintf("%d controls marked overdue", n), map[string]int64{"marked": n}))
}

// Pending lists today's pending slots for an operator.
// @Summary Pending controls
// @Tags controls
// @Produce json
// @Param operator query string false "operator name, defaults to X-Operator-Name"
// @Param shift query string false "A, B or C"
// @Success 200 {object} APIResponse{data=[]models.ScheduledControl}
// @Router /controls/pending [get]
func (c *ControlController) Pending(w http.ResponseWriter, r *http.Request) {
	shift, err := shiftParam(r)
	if err != nil {
		renderError(w, r, err)
		return
	}
	operator := middleware.OperatorOr(r.Context(), r.URL.Query().Get("operator"))
	slots, err := c.scheduler.GetPendingControls(r.Context(), operator, shift)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("ok", slots))
}

// Assign assigns pending slots to an operator.
// @Summary Assign operator
// @Tags controls
// @Accept json
// @Produce json
// @Param request body AssignRequest true "assignment"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Router /controls/assign [post]
func (c *ControlController) Assign(w http.ResponseWriter, r *http.Request) {
	var req AssignRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	n, err := c.scheduler.AssignOperator(r.Context(), req.ControlIDs, middleware.OperatorOr(r.Context(), req.OperatorName))
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse(fmt.Sprintf("%d controls assigned", n), map[string]int64{"assigned": n}))
}

// Skip marks a pending slot skipped.
// @Summary Skip a control
// @Tags controls
// @Accept json
// @Produce json
// @Param id path string true "scheduled control id"
// @Param request body SkipRequest false "reason"
// @Success 200 {object} APIResponse{data=models.ScheduledControl}
// @Failure 404 {object} APIResponse
// @Failure 409 {object} APIResponse
// @Router /controls/{id}/skip [post]
func (c *ControlController) Skip(w http.ResponseWriter, r *http.Request) {
	var req SkipRequest
	if r.ContentLength != 0 {
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			badRequest(w, r, fmt.Sprintf("invalid request body: %v", err))
			return
		}
	}
	slot, err := c.scheduler.SkipControl(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("control skipped", slot))
}
