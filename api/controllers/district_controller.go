/*
 * @module api/controllers/district_controller
 * @description School-district view endpoints: selector options, raw metrics, view models and
 *              staffing explainers
 * @architecture MVC - controller layer
 * @documentReference DESIGN.md
 * @stateFlow HTTP request -> selector/mode parsing -> dashboard service -> envelope
 * @rules The view mode is always taken from the request; the server keeps no session state
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/dashboard/service.go
 */

package controllers

import (
	"net/http"

	"peer-funding-service/service/dashboard"
	"peer-funding-service/service/dataset"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// DistrictController serves the school-district view.
type DistrictController struct {
	dashboard *dashboard.Service
}

// NewDistrictController creates the controller.
func NewDistrictController(svc *dashboard.Service) *DistrictController {
	return &DistrictController{dashboard: svc}
}

// DistrictList is the payload of the district list.
type DistrictList struct {
	VersionID string                `json:"version_id"`
	Default   dataset.DistrictRef   `json:"default"`
	Districts []dataset.DistrictRef `json:"districts"`
}

// GetOptions selector options
// @Summary Selector options
// @Description Districts, chambers, district numbers, legislators, staffing roles and view modes of the active dataset
// @Tags dashboard
// @Produce json
// @Success 200 {object} APIResponse{data=dashboard.Options}
// @Failure 503 {object} APIResponse
// @Router /options [get]
func (c *DistrictController) GetOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := c.dashboard.Options(r.Context())
	if err != nil {
		renderError(w, r, "load options failed", err)
		return
	}
	render.JSON(w, r, SuccessResponse("ok", opts))
}

// ListDistricts district list
// @Summary List districts
// @Description District names and RCDTS codes in file order, with the default selection
// @Tags districts
// @Produce json
// @Success 200 {object} APIResponse{data=DistrictList}
// @Failure 503 {object} APIResponse
// @Router /districts [get]
func (c *DistrictController) ListDistricts(w http.ResponseWriter, r *http.Request) {
	opts, err := c.dashboard.Options(r.Context())
	if err != nil {
		renderError(w, r, "list districts failed", err)
		return
	}
	render.JSON(w, r, SuccessResponse("ok", DistrictList{
		VersionID: opts.VersionID,
		Default:   opts.DefaultDistrict,
		Districts: opts.Districts,
	}))
}

// GetMetrics raw reshaper output
// @Summary District metrics
// @Description Long-format resource, demographic and revenue tables plus derived values
// @Tags districts
// @Produce json
// @Param rcdts path string true "district RCDTS"
// @Success 200 {object} APIResponse{data=dashboard.DistrictMetrics}
// @Failure 404 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /districts/{rcdts}/metrics [get]
func (c *DistrictController) GetMetrics(w http.ResponseWriter, r *http.Request) {
	dm, err := c.dashboard.DistrictMetrics(r.Context(), dashboard.Selector{RCDTS: chi.URLParam(r, "rcdts")})
	if err != nil {
		renderError(w, r, "load district metrics failed", err)
		return
	}
	render.JSON(w, r, SuccessResponse("ok", dm))
}

// GetView district view
// @Summary District view
// @Description Headline, dollar cards, staffing explainers and charts of a district
// @Tags districts
// @Produce json
// @Param rcdts path string true "district RCDTS"
// @Param mode query string false "total or per_pupil" Enums(total, per_pupil)
// @Success 200 {object} APIResponse{data=dashboard.DistrictView}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /districts/{rcdts}/view [get]
func (c *DistrictController) GetView(w http.ResponseWriter, r *http.Request) {
	c.renderView(w, r, dashboard.Selector{RCDTS: chi.URLParam(r, "rcdts")})
}

// GetViewByName district view by name
// @Summary District view by name
// @Description Same as the RCDTS view; an empty name selects the default district
// @Tags districts
// @Produce json
// @Param name query string false "district name"
// @Param mode query string false "total or per_pupil" Enums(total, per_pupil)
// @Success 200 {object} APIResponse{data=dashboard.DistrictView}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Failure 500 {object} APIResponse "name matches several districts"
// @Router /districts/by-name/view [get]
func (c *DistrictController) GetViewByName(w http.ResponseWriter, r *http.Request) {
	c.renderView(w, r, dashboard.Selector{Name: r.URL.Query().Get("name")})
}

func (c *DistrictController) renderView(w http.ResponseWriter, r *http.Request, selector dashboard.Selector) {
	mode, err := dashboard.ParseViewMode(r.URL.Query().Get("mode"))
	if err != nil {
		render.Render(w, r, BadRequestResponse("invalid mode", err))
		return
	}
	view, err := c.dashboard.DistrictView(r.Context(), selector, mode)
	if err != nil {
		renderError(w, r, "build district view failed", err)
		return
	}
	render.JSON(w, r, SuccessResponse("ok", view))
}

// GetStaffing staffing explainer
// @Summary Staffing explainer
// @Description What full funding means for one staffing role of a district
// @Tags districts
// @Produce json
// @Param rcdts path string true "district RCDTS"
// @Param role query string true "role name or selector label"
// @Success 200 {object} APIResponse{data=dashboard.StaffingExplainer}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /districts/{rcdts}/staffing [get]
func (c *DistrictController) GetStaffing(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role == "" {
		render.Render(w, r, BadRequestResponse("role is required", nil))
		return
	}
	explainer, err := c.dashboard.StaffingExplainer(r.Context(), dashboard.Selector{RCDTS: chi.URLParam(r, "rcdts")}, role)
	if err != nil {
		renderError(w, r, "build staffing explainer failed", err)
		return
	}
	render.JSON(w, r, SuccessResponse("ok", explainer))
}
