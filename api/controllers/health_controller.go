/*
 * @module api/controllers/health_controller
 * @description Liveness and readiness endpoints for container probes
 * @architecture MVC - controller layer
 * @documentReference DESIGN.md
 * @stateFlow HTTP request -> health checker -> envelope
 * @rules /health answers while the process runs; /ready is 503 until a dataset snapshot is active
 * @dependencies github.com/go-chi/render
 * @refs service/monitoring/health_checker.go
 */

package controllers

import (
	"net/http"
	"time"

	"peer-funding-service/service/monitoring"

	"github.com/go-chi/render"
)

const (
	serviceName    = "peer-funding-service"
	serviceVersion = "1.0.0"
)

// HealthController serves health probes.
type HealthController struct {
	checker *monitoring.HealthChecker
}

// NewHealthController creates the controller.
func NewHealthController(checker *monitoring.HealthChecker) *HealthController {
	return &HealthController{checker: checker}
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status    string    `json:"status" example:"ok"`
	Timestamp time.Time `json:"timestamp" example:"2025-01-01T00:00:00Z"`
	Version   string    `json:"version" example:"1.0.0"`
	Service   string    `json:"service" example:"peer-funding-service"`
}

// Health liveness probe
// @Summary Liveness probe
// @Description Reports that the process is serving requests
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   serviceVersion,
		Service:   serviceName,
	})
}

// Ready readiness probe
// @Summary Readiness probe
// @Description Runs the registered component checks; not ready until a dataset is loaded
// @Tags system
// @Produce json
// @Success 200 {object} APIResponse{data=monitoring.HealthStatus}
// @Failure 503 {object} APIResponse{data=monitoring.HealthStatus}
// @Router /ready [get]
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	status := c.checker.Check(r.Context())
	if !status.Ready {
		resp := ServiceUnavailableResponse("service not ready", nil)
		resp.Data = status
		render.Render(w, r, resp)
		return
	}
	render.JSON(w, r, SuccessResponse("ready", status))
}
