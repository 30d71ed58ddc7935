package controllers

import (
	"ceramiqc/service/automation"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// AutomationController exposes the scheduled jobs.
type AutomationController struct {
	runner *automation.Runner
}

// NewAutomationController creates the controller.
func NewAutomationController(runner *automation.Runner) *AutomationController {
	return &AutomationController{runner: runner}
}

// Jobs reports the runner state and every registered job.
// @Summary List automation jobs
// @Tags automation
// @Produce json
// @Success 200 {object} APIResponse{data=automation.Status}
// @Router /automation/jobs [get]
func (c *AutomationController) Jobs(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, SuccessResponse("ok", c.runner.Status()))
}

// Trigger runs a job now and waits for it.
// @Summary Run a job now
// @Tags automation
// @Produce json
// @Param id path string true "job id"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /automation/jobs/{id}/trigger [post]
func (c *AutomationController) Trigger(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := c.runner.Trigger(r.Context(), id); err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, SuccessResponse("job "+id+" completed", nil))
}
