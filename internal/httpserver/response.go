package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	modkiterrors "github.com/kbukum/modkit/errors"
)

// DataResponse is the standard success envelope.
type DataResponse struct {
	Data any `json:"data"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 response wrapping data.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}

// RespondError derives the status from err. Container errors keep their
// code; anything else is reported as an upstream failure.
func RespondError(c *gin.Context, err error) {
	status, code := StatusFor(err)
	c.JSON(status, ErrorResponse{Code: code, Message: err.Error()})
}

// RespondBadRequest sends a 400 with the given message.
func RespondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Code: "BAD_REQUEST", Message: message})
}

// StatusFor maps an error to an HTTP status and code.
func StatusFor(err error) (int, string) {
	if e, ok := modkiterrors.As(err); ok {
		switch e.Code {
		case modkiterrors.ErrCodeProviderNotFound:
			return http.StatusNotFound, string(e.Code)
		case modkiterrors.ErrCodeInvalidConfig:
			return http.StatusServiceUnavailable, string(e.Code)
		default:
			return http.StatusInternalServerError, string(e.Code)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, "TIMEOUT"
	}
	return http.StatusBadGateway, "UPSTREAM_ERROR"
}
