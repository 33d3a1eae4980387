package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"delivery-pipeline/internal/pipeline"
)

// APIError is the JSON body of every failed request
type APIError struct {
	HTTPStatusCode int    `json:"-"`
	Status         string `json:"status"`
	Message        string `json:"message"`
	RequestID      string `json:"request_id,omitempty"`
}

// Render sets the response status
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func newAPIError(code int, msg string) *APIError {
	return &APIError{
		HTTPStatusCode: code,
		Status:         http.StatusText(code),
		Message:        msg,
	}
}

// ErrBadRequest is a 400 with msg
func ErrBadRequest(msg string) *APIError { return newAPIError(http.StatusBadRequest, msg) }

// ErrNotFound is a 404 with msg
func ErrNotFound(msg string) *APIError { return newAPIError(http.StatusNotFound, msg) }

// ErrUnprocessable is a 422 for uploads that cannot be read as a spreadsheet
func ErrUnprocessable(msg string) *APIError {
	return newAPIError(http.StatusUnprocessableEntity, msg)
}

// ErrInternal is a 500 that hides the cause
func ErrInternal() *APIError {
	return newAPIError(http.StatusInternalServerError, "internal server error")
}

// errorForRun maps a pipeline error to the response it deserves
func errorForRun(err error) *APIError {
	var loadErr *pipeline.LoadError
	if errors.As(err, &loadErr) {
		return ErrUnprocessable(loadErr.Error())
	}
	return ErrInternal()
}

func renderError(w http.ResponseWriter, r *http.Request, apiErr *APIError) {
	apiErr.RequestID = requestID(r)
	_ = render.Render(w, r, apiErr)
}
