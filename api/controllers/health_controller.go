/*
 * @module api/controllers/health_controller
 * @description Liveness and readiness probes
 * @architecture MVC - controller layer
 * @stateFlow HTTP request -> optional database ping -> response
 * @rules /health never touches dependencies; /ready fails with 503 when the database does not answer
 * @dependencies github.com/go-chi/render
 * @refs service/container.go
 */

package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// Version is reported by the probes.
var Version = "1.0.0"

// HealthController serves the probes.
type HealthController struct {
	ready func() error
}

// NewHealthController creates the controller. ready may be nil.
func NewHealthController(ready func() error) *HealthController {
	return &HealthController{ready: ready}
}

// HealthResponse is the probe payload.
type HealthResponse struct {
	Status    string    `json:"status" example:"ok"`
	Timestamp time.Time `json:"timestamp" example:"2025-01-01T00:00:00Z"`
	Version   string    `json:"version" example:"1.0.0"`
	Service   string    `json:"service" example:"ceramiqc"`
	Error     string    `json:"error,omitempty"`
}

// Health reports liveness.
// @Summary Liveness probe
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   Version,
		Service:   "ceramiqc",
	})
}

// Ready reports whether the database answers.
// @Summary Readiness probe
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /ready [get]
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   Version,
		Service:   "ceramiqc",
	}
	if c.ready != nil {
		if err := c.ready(); err != nil {
			resp.Status = "unavailable"
			resp.Error = err.Error()
			render.Status(r, http.StatusServiceUnavailable)
		}
	}
	render.JSON(w, r, resp)
}
