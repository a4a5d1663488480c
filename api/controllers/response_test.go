package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"peer-funding-service/service/dashboard"
	"peer-funding-service/service/dataset"
	"peer-funding-service/service/funding"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"district not found", fmt.Errorf("lookup: %w", dataset.ErrDistrictNotFound), http.StatusNotFound},
		{"legislator not found", dataset.ErrLegislatorNotFound, http.StatusNotFound},
		{"invalid mode", dashboard.ErrInvalidViewMode, http.StatusBadRequest},
		{"invalid query", dashboard.ErrInvalidQuery, http.StatusBadRequest},
		{"unknown role", funding.ErrUnknownRole, http.StatusBadRequest},
		{"no snapshot", dataset.ErrNoSnapshot, http.StatusServiceUnavailable},
		{"data unavailable", &dataset.DataUnavailableError{Path: "x.csv", Err: errors.New("missing")}, http.StatusServiceUnavailable},
		{"schema", &funding.SchemaError{Missing: []string{"RCDTS"}}, http.StatusServiceUnavailable},
		{"ambiguous selection", &funding.EmptyInputError{Rows: 2}, http.StatusInternalServerError},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusOf(tt.err))
		})
	}
}

func TestRenderError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/districts/1/view", nil)
	w := httptest.NewRecorder()

	renderError(w, req, "failed to build district view", dataset.ErrDistrictNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"status":404,"msg":"failed to build district view: district not found"}`, w.Body.String())
}

func TestSuccessResponse(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	render.JSON(w, req, SuccessResponse("ok", []int{1}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":0,"msg":"ok","data":[1]}`, w.Body.String())
}
