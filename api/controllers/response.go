package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"peer-funding-service/service/dashboard"
	"peer-funding-service/service/dataset"
	"peer-funding-service/service/funding"

	"github.com/go-chi/render"
)

// APIResponse is the envelope of every JSON response. Status is 0 on success and the
// HTTP status code otherwise.
type APIResponse struct {
	Status int         `json:"status" example:"0"`
	Msg    string      `json:"msg" example:"ok"`
	Data   interface{} `json:"data,omitempty"`
}

// Render sets the HTTP status of error envelopes.
func (a *APIResponse) Render(_ http.ResponseWriter, r *http.Request) error {
	if a.Status != 0 {
		render.Status(r, a.Status)
	}
	return nil
}

// SuccessResponse wraps data in a success envelope.
func SuccessResponse(msg string, data interface{}) *APIResponse {
	return &APIResponse{Status: 0, Msg: msg, Data: data}
}

// ErrorResponse builds an error envelope; err, when set, is appended to msg.
func ErrorResponse(status int, msg string, err error) *APIResponse {
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	return &APIResponse{Status: status, Msg: msg}
}

func BadRequestResponse(msg string, err error) *APIResponse {
	return ErrorResponse(http.StatusBadRequest, msg, err)
}

func NotFoundResponse(msg string, err error) *APIResponse {
	return ErrorResponse(http.StatusNotFound, msg, err)
}

func ServiceUnavailableResponse(msg string, err error) *APIResponse {
	return ErrorResponse(http.StatusServiceUnavailable, msg, err)
}

func InternalErrorResponse(msg string, err error) *APIResponse {
	return ErrorResponse(http.StatusInternalServerError, msg, err)
}

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, dataset.ErrDistrictNotFound), errors.Is(err, dataset.ErrLegislatorNotFound):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrInvalidViewMode), errors.Is(err, dashboard.ErrInvalidQuery),
		errors.Is(err, funding.ErrUnknownRole):
		return http.StatusBadRequest
	case errors.Is(err, dataset.ErrNoSnapshot), errors.Is(err, dataset.ErrDataUnavailable),
		errors.Is(err, funding.ErrSchema):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// renderError writes the envelope for err. Server-side failures are logged.
func renderError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		level := slog.LevelError
		if status == http.StatusServiceUnavailable {
			level = slog.LevelWarn
		}
		slog.Log(r.Context(), level, msg, "path", r.URL.Path, "status", status, "error", err)
	}
	render.Render(w, r, ErrorResponse(status, msg, err))
}
