package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"evalgo.org/erdgen/internal/layout"
	"evalgo.org/erdgen/internal/parser"
)

// APIError represents a structured API error with HTTP status code.
type APIError struct {
	Code       int                    `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	FieldError map[string]string      `json:"field_errors,omitempty"`
	Context    map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// NewAPIError creates a new API error.
func NewAPIError(code int, message string, details string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Common error constructors
func BadRequestError(message, details string) *APIError {
	return NewAPIError(http.StatusBadRequest, message, details)
}

func ValidationError(message string, fieldErrors map[string]string) *APIError {
	return &APIError{
		Code:       http.StatusBadRequest,
		Message:    message,
		FieldError: fieldErrors,
	}
}

func UnprocessableError(message, details string) *APIError {
	return NewAPIError(http.StatusUnprocessableEntity, message, details)
}

func BadGatewayError(message, details string) *APIError {
	return NewAPIError(http.StatusBadGateway, message, details)
}

func InternalError(message, details string) *APIError {
	return NewAPIError(http.StatusInternalServerError, message, details)
}

// pipelineError maps parser and layout failures onto API errors.
func pipelineError(err error) *APIError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return NewAPIError(http.StatusGatewayTimeout, "Diagram generation timed out", err.Error())
	case errors.Is(err, parser.ErrEmptyInput):
		return BadRequestError("Empty DBML document", err.Error())
	case errors.Is(err, parser.ErrServiceUnavailable):
		return BadGatewayError("Parse service unavailable", err.Error())
	case errors.Is(err, parser.ErrParseFailed):
		return UnprocessableError("DBML could not be parsed", err.Error())
	case errors.Is(err, layout.ErrLayout):
		return BadGatewayError("Layout engine failed", err.Error())
	default:
		return InternalError("Diagram generation failed", err.Error())
	}
}

// timeoutError turns a request deadline that escaped a handler unmapped
// into a 504.
func timeoutError(err error, c echo.Context) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) && errors.Is(err, context.DeadlineExceeded) {
		return pipelineError(err)
	}
	return err
}

// HTTPErrorHandler is a custom error handler for Echo.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError
	code := http.StatusInternalServerError

	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		code = he.Code
		apiErr = &APIError{
			Code:    code,
			Message: getHTTPMessage(code),
			Details: fmt.Sprintf("%v", he.Message),
		}
	case errors.As(err, &apiErr):
		code = apiErr.Code
	default:
		apiErr = &APIError{
			Code:    code,
			Message: "Internal server error",
			Details: err.Error(),
		}
	}

	// Don't expose internal errors in production
	if code == http.StatusInternalServerError && !c.Echo().Debug {
		apiErr.Details = "An internal error occurred. Please try again later."
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, apiErr)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}

// getHTTPMessage returns a user-friendly message for HTTP status codes.
func getHTTPMessage(code int) string {
	messages := map[int]string{
		http.StatusBadRequest:            "Bad request",
		http.StatusUnauthorized:          "Unauthorized",
		http.StatusForbidden:             "Forbidden",
		http.StatusNotFound:              "Resource not found",
		http.StatusMethodNotAllowed:      "Method not allowed",
		http.StatusRequestEntityTooLarge: "Request entity too large",
		http.StatusUnprocessableEntity:   "Unprocessable entity",
		http.StatusTooManyRequests:       "Too many requests",
		http.StatusInternalServerError:   "Internal server error",
		http.StatusBadGateway:            "Bad gateway",
		http.StatusServiceUnavailable:    "Service unavailable",
		http.StatusGatewayTimeout:        "Gateway timeout",
	}

	if msg, ok := messages[code]; ok {
		return msg
	}
	return http.StatusText(code)
}
