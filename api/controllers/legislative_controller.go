/*
 * @module api/controllers/legislative_controller
 * @description Legislative lookup endpoints: chambers, district numbers, legislators and the
 *              five-table legislative view
 * @architecture MVC - controller layer
 * @documentReference DESIGN.md
 * @stateFlow HTTP request -> query parsing -> dashboard service -> envelope
 * @rules A view query names either chamber and district number or a legislator
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/render, github.com/spf13/cast
 * @refs service/dashboard/legislative.go
 */

package controllers

import (
	"net/http"
	"strings"

	"peer-funding-service/service/dashboard"
	"peer-funding-service/service/dataset"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/spf13/cast"
)

// LegislativeController serves the legislative view.
type LegislativeController struct {
	dashboard *dashboard.Service
}

// NewLegislativeController creates the controller.
func NewLegislativeController(svc *dashboard.Service) *LegislativeController {
	return &LegislativeController{dashboard: svc}
}

// ListChambers chambers
// @Summary List chambers
// @Tags legislative
// @Produce json
// @Success 200 {object} APIResponse{data=[]string}
// @Failure 503 {object} APIResponse
// @Router /legislative/chambers [get]
func (c *LegislativeController) ListChambers(w http.ResponseWriter, r *http.Request) {
	opts, err := c.dashboard.Options(r.Context())
	if err != nil {
		renderError(w, r, "list chambers failed", err)
		return
	}
	render.JSON(w, r, SuccessResponse("ok", opts.Chambers))
}

// ListDistrictNumbers district numbers of a chamber
// @Summary List district numbers
// @Tags legislative
// @Produce json
// @Param chamber path string true "chamber" example(House)
// @Success 200 {object} APIResponse{data=[]int}
// @Failure 404 {object} APIResponse
// @Router /legislative/chambers/{chamber}/districts [get]
func (c *LegislativeController) ListDistrictNumbers(w http.ResponseWriter, r *http.Request) {
	opts, err := c.dashboard.Options(r.Context())
	if err != nil {
		renderError(w, r, "list district numbers failed", err)
		return
	}
	chamber := chi.URLParam(r, "chamber")
	numbers, ok := opts.DistrictNumbers[chamber]
	if !ok {
		renderError(w, r, "unknown chamber", dataset.ErrLegislatorNotFound)
		return
	}
	render.JSON(w, r, SuccessResponse("ok", numbers))
}

// ListLegislators legislators
// @Summary List legislators
// @Tags legislative
// @Produce json
// @Success 200 {object} APIResponse{data=[]string}
// @Failure 503 {object} APIResponse
// @Router /legislative/legislators [get]
func (c *LegislativeController) ListLegislators(w http.ResponseWriter, r *http.Request) {
	opts, err := c.dashboard.Options(r.Context())
	if err != nil {
		renderError(w, r, "list legislators failed", err)
		return
	}
	render.JSON(w, r, SuccessResponse("ok", opts.Legislators))
}

// GetView legislative view
// @Summary Legislative view
// @Description Covered districts, adequacy, position gaps, demographics and revenue tables in coverage order
// @Tags legislative
// @Produce json
// @Param chamber query string false "chamber, with district"
// @Param district query int false "district number, with chamber"
// @Param legislator query string false "legislator name"
// @Success 200 {object} APIResponse{data=dashboard.LegislativeView}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /legislative/view [get]
func (c *LegislativeController) GetView(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := dashboard.LegislativeQuery{
		Chamber:    strings.TrimSpace(q.Get("chamber")),
		Legislator: strings.TrimSpace(q.Get("legislator")),
	}
	if raw := q.Get("district"); raw != "" {
		number, err := cast.ToIntE(raw)
		if err != nil {
			render.Render(w, r, BadRequestResponse("invalid district number", err))
			return
		}
		query.DistrictNumber = number
	}

	view, err := c.dashboard.LegislativeView(r.Context(), query)
	if err != nil {
		renderError(w, r, "build legislative view failed", err)
		return
	}
	render.JSON(w, r, SuccessResponse("ok", view))
}
