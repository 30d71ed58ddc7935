package controllers

import (
	"ceramiqc/service/models"
	"ceramiqc/service/qcerror"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"
)

// APIResponse is the envelope of every JSON response. Status is 0 on success.
type APIResponse struct {
	Status int         `json:"status" example:"0"`
	Msg    string      `json:"msg" example:"ok"`
	Data   interface{} `json:"data,omitempty"`
}

// PaginatedResponse is APIResponse for list endpoints.
type PaginatedResponse struct {
	Status int         `json:"status" example:"0"`
	Msg    string      `json:"msg" example:"ok"`
	Data   interface{} `json:"data"`
	Total  int64       `json:"total" example:"100"`
	Page   int         `json:"page" example:"1"`
	Size   int         `json:"size" example:"50"`
}

// SuccessResponse wraps data in a success envelope.
func SuccessResponse(msg string, data interface{}) *APIResponse {
	return &APIResponse{Status: 0, Msg: msg, Data: data}
}

// ErrorResponse wraps an error message.
func ErrorResponse(msg string, data interface{}) *APIResponse {
	return &APIResponse{Status: 1, Msg: msg, Data: data}
}

// renderError writes err with the status code of its qcerror type.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := qcerror.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse(err.Error(), nil))
}

func badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ErrorResponse(msg, nil))
}

func paging(r *http.Request) (page, size int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	size, _ = strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 {
		size = 50
	}
	return page, size
}

// shiftParam reads an optional ?shift= query value.
func shiftParam(r *http.Request) (*models.Shift, error) {
	raw := r.URL.Query().Get("shift")
	if raw == "" {
		return nil, nil
	}
	shift, err := models.ParseShift(raw)
	if err != nil {
		return nil, qcerror.Validation("%v", err)
	}
	return &shift, nil
}

// dateParam reads a YYYY-MM-DD query value, defaulting to today.
func dateParam(r *http.Request, name string, now func() time.Time) (string, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return models.FormatDate(now()), nil
	}
	d, err := models.ParseDate(raw, now().Location())
	if err != nil {
		return "", qcerror.Validation("%v", err)
	}
	return models.FormatDate(d), nil
}

// rangeParams reads optional from/to dates; a missing bound stays empty.
func rangeParams(r *http.Request) (string, string, error) {
	bounds := make([]string, 2)
	for i, name := range []string{"from", "to"} {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		d, err := models.ParseDate(raw, time.UTC)
		if err != nil {
			return "", "", qcerror.Validation("%v", err)
		}
		bounds[i] = models.FormatDate(d)
	}
	return bounds[0], bounds[1], nil
}
