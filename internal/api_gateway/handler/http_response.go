package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/interest-ledger/internal/api_gateway/middleware"
	"github.com/interest-ledger/internal/domain/ledger"
)

// Response represents a standard API response
type Response struct {
	Data          interface{} `json:"data,omitempty"`
	Error         *ErrorInfo  `json:"error,omitempty"`
	CorrelationID string      `json:"correlation_id,omitempty"`
}

// ErrorInfo represents error information in a response
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// NewResponse creates a new response with data
func NewResponse(data interface{}) *Response {
	return &Response{
		Data: data,
	}
}

// NewErrorResponse creates a new error response
func NewErrorResponse(code, message string) *Response {
	return &Response{
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// RespondWithData sends a JSON response with data
func RespondWithData(c *gin.Context, statusCode int, data interface{}) {
	response := NewResponse(data)
	response.CorrelationID = middleware.GetCorrelationID(c)
	c.JSON(statusCode, response)
}

// RespondWithError sends a JSON response with an error
func RespondWithError(c *gin.Context, statusCode int, code, message string) {
	response := NewErrorResponse(code, message)
	response.CorrelationID = middleware.GetCorrelationID(c)
	c.JSON(statusCode, response)
}

// RespondOK sends a 200 OK response with data
func RespondOK(c *gin.Context, data interface{}) {
	RespondWithData(c, http.StatusOK, data)
}

// RespondCreated sends a 201 Created response with data
func RespondCreated(c *gin.Context, data interface{}) {
	RespondWithData(c, http.StatusCreated, data)
}

// RespondText sends a plain text body such as a rendered statement
func RespondText(c *gin.Context, statusCode int, body string) {
	c.Header(middleware.CorrelationIDHeader, middleware.GetCorrelationID(c))
	c.String(statusCode, body)
}

// RespondBadRequest sends a 400 Bad Request response with an error
func RespondBadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// RespondNotFound sends a 404 Not Found response with an error
func RespondNotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, "NOT_FOUND", message)
}

// RespondConflict sends a 409 Conflict response with an error
func RespondConflict(c *gin.Context, message string) {
	RespondWithError(c, http.StatusConflict, "CONFLICT", message)
}

// RespondInternalError sends a 500 Internal Server Error response with an error
func RespondInternalError(c *gin.Context) {
	RespondWithError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An internal server error occurred")
}

// RespondDomainError maps ledger errors to status codes. Anything that is not a
// domain rejection is reported as an internal error without details.
func RespondDomainError(c *gin.Context, err error) {
	var validationErr ledger.ValidationError
	var fundsErr ledger.InsufficientFundsError
	var notFoundErr ledger.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		response := NewErrorResponse("VALIDATION_ERROR", validationErr.Error())
		response.Error.Field = validationErr.Field
		response.CorrelationID = middleware.GetCorrelationID(c)
		c.JSON(http.StatusBadRequest, response)
	case errors.As(err, &fundsErr):
		RespondConflict(c, fundsErr.Error())
	case errors.As(err, &notFoundErr):
		RespondNotFound(c, notFoundErr.Error())
	default:
		_ = c.Error(err)
		RespondInternalError(c)
	}
}
