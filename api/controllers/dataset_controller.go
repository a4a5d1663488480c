/*
 * @module api/controllers/dataset_controller
 * @description Dataset administration: version history and on-demand reload
 * @architecture MVC - controller layer
 * @documentReference DESIGN.md
 * @stateFlow HTTP request -> dataset service -> envelope
 * @rules Reload is admin-only; a failed reload leaves the active snapshot in place
 * @dependencies github.com/go-chi/render, github.com/spf13/cast
 * @refs service/dataset/service.go, api/middleware/admin_auth.go
 */

package controllers

import (
	"net/http"
	"time"

	"peer-funding-service/service/dataset"

	"github.com/go-chi/render"
	"github.com/spf13/cast"
)

// DatasetController serves dataset administration.
type DatasetController struct {
	datasets *dataset.Service
}

// NewDatasetController creates the controller.
func NewDatasetController(svc *dataset.Service) *DatasetController {
	return &DatasetController{datasets: svc}
}

// ReloadResult summarises a completed reload.
type ReloadResult struct {
	VersionID    string    `json:"version_id"`
	Districts    int       `json:"districts"`
	CoverageRows int       `json:"coverage_rows"`
	LoadedAt     time.Time `json:"loaded_at"`
}

// ListVersions dataset versions
// @Summary List dataset versions
// @Description Most recent load attempts, newest first
// @Tags datasets
// @Produce json
// @Param limit query int false "max versions" default(20)
// @Success 200 {object} APIResponse{data=[]models.DatasetVersion}
// @Failure 400 {object} APIResponse
// @Router /datasets/versions [get]
func (c *DatasetController) ListVersions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := cast.ToIntE(raw)
		if err != nil || parsed < 0 {
			render.Render(w, r, BadRequestResponse("invalid limit", err))
			return
		}
		limit = parsed
	}

	versions, err := c.datasets.Versions(r.Context(), limit)
	if err != nil {
		renderError(w, r, "list dataset versions failed", err)
		return
	}
	render.JSON(w, r, SuccessResponse("ok", versions))
}

// Reload reloads the dataset files
// @Summary Reload dataset
// @Description Reads both source files, persists a new version and swaps it in
// @Tags datasets
// @Produce json
// @Security AdminToken
// @Success 200 {object} APIResponse{data=ReloadResult}
// @Failure 401 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /datasets/reload [post]
func (c *DatasetController) Reload(w http.ResponseWriter, r *http.Request) {
	snapshot, err := c.datasets.Load(r.Context())
	if err != nil {
		renderError(w, r, "dataset reload failed", err)
		return
	}
	render.JSON(w, r, SuccessResponse("dataset reloaded", ReloadResult{
		VersionID:    snapshot.VersionID(),
		Districts:    snapshot.DistrictCount(),
		CoverageRows: snapshot.CoverageCount(),
		LoadedAt:     snapshot.LoadedAt(),
	}))
}
