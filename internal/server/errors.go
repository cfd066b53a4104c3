// Package server provides the HTTP JSON API over the tailoring core.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-tailor/internal/compiler"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/tailoring"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates the requested resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnavailable indicates a feature that is not configured on this server
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validation *ErrValidation
	var notFound *ErrNotFound
	var unavailable *ErrUnavailable
	var tailorErr *tailoring.Error
	var compileErr *compiler.Error

	switch {
	case errors.As(err, &tailorErr):
		return tailoringStatus(tailorErr)
	case errors.As(err, &validation), errors.As(err, &compileErr):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func tailoringStatus(err *tailoring.Error) int {
	switch {
	case err.Stage == tailoring.StageValidate:
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, llm.ErrCircuitOpen):
		return http.StatusServiceUnavailable
	case err.Stage == tailoring.StageCompile:
		return http.StatusInternalServerError
	default:
		// rewrite and analysis failures come from the upstream model
		return http.StatusBadGateway
	}
}
