package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stwalsh4118/landregistry/internal/middleware"
)

// Error code constants for standardized error responses
const (
	ErrNotFound           = "NOT_FOUND"
	ErrBadRequest         = "BAD_REQUEST"
	ErrInternalServer     = "INTERNAL_SERVER_ERROR"
	ErrValidation         = "VALIDATION_ERROR"
	ErrConflict           = "CONFLICT"
	ErrDatabaseConnection = "DATABASE_CONNECTION_ERROR"
)

// ErrorResponse is the top-level error response structure.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// respond logs the failure through the request logger, when one is set,
// and writes the error envelope. A non-nil cause is logged at error level;
// client errors are logged as warnings.
func respond(c *gin.Context, status int, detail ErrorDetail, summary string, cause error, extra map[string]interface{}) {
	detail.RequestID = middleware.GetRequestID(c)

	if log := middleware.GetLogger(c); log != nil {
		fields := map[string]interface{}{
			"request_id": detail.RequestID,
			"path":       c.Request.URL.Path,
			"status":     status,
		}
		for k, v := range extra {
			fields[k] = v
		}
		if cause != nil {
			log.Error(summary, cause, fields)
		} else {
			log.Warn(summary, fields)
		}
	}

	c.JSON(status, ErrorResponse{Error: detail})
}

// NotFound returns a 404 Not Found error response.
func NotFound(c *gin.Context, message string) {
	respond(c, http.StatusNotFound, ErrorDetail{Code: ErrNotFound, Message: message},
		"Resource not found", nil, map[string]interface{}{"message": message})
}

// BadRequest returns a 400 Bad Request error response with optional details.
func BadRequest(c *gin.Context, message string, details map[string]interface{}) {
	extra := map[string]interface{}{"message": message}
	if details != nil {
		extra["details"] = details
	}
	respond(c, http.StatusBadRequest, ErrorDetail{Code: ErrBadRequest, Message: message, Details: details},
		"Bad request", nil, extra)
}

// Conflict returns a 409 for a well-formed request that clashes with the
// current state of a parcel or inheritance request.
func Conflict(c *gin.Context, message string) {
	respond(c, http.StatusConflict, ErrorDetail{Code: ErrConflict, Message: message},
		"Conflict", nil, map[string]interface{}{"message": message})
}

// InternalServerError returns a 500 Internal Server Error response.
// The cause is logged but never sent to the client.
func InternalServerError(c *gin.Context, message string, err error) {
	respond(c, http.StatusInternalServerError, ErrorDetail{Code: ErrInternalServer, Message: message},
		"Internal server error", err, map[string]interface{}{
			"message": message,
			"method":  c.Request.Method,
		})
}

// ValidationError returns a 400 with one message per failed field, keyed by
// the field name the validator reports (the json tag for request DTOs).
func ValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	details := make(map[string]interface{}, len(validationErrors))
	for _, fe := range validationErrors {
		details[fe.Field()] = formatValidationError(fe)
	}

	respond(c, http.StatusBadRequest, ErrorDetail{
		Code:    ErrValidation,
		Message: "Validation failed for one or more fields",
		Details: details,
	}, "Validation error", nil, map[string]interface{}{"fields": details})
}

// fixedMessages covers tags whose message does not depend on the tag parameter.
var fixedMessages = map[string]string{
	"required":  "This field is required",
	"email":     "Must be a valid email address",
	"url":       "Must be a valid URL",
	"uuid":      "Must be a valid UUID",
	"wallet":    "Must be a 0x-prefixed 40 character hex address",
	"parcel_id": "Must be a parcel code such as LP-2026-0001",
}

// paramMessages prefix the tag parameter.
var paramMessages = map[string]string{
	"len":     "Must have length of ",
	"gt":      "Must be greater than ",
	"gte":     "Must be greater than or equal to ",
	"lt":      "Must be less than ",
	"lte":     "Must be less than or equal to ",
	"oneof":   "Must be one of: ",
	"nefield": "Must differ from ",
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(fe validator.FieldError) string {
	if msg, ok := fixedMessages[fe.Tag()]; ok {
		return msg
	}
	if prefix, ok := paramMessages[fe.Tag()]; ok {
		return prefix + fe.Param()
	}

	switch fe.Tag() {
	case "min":
		return "Value is too short or small (minimum: " + fe.Param() + ")"
	case "max":
		return "Value is too long or large (maximum: " + fe.Param() + ")"
	case "datetime":
		if fe.Param() == "2006-01-02" {
			return "Must be a date in YYYY-MM-DD format"
		}
		return "Must match date layout " + fe.Param()
	case "required_without":
		return "This field is required when " + fe.Param() + " is absent"
	default:
		return "Validation failed for tag: " + fe.Tag()
	}
}
