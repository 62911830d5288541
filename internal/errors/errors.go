package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stwalsh4118/tc108/internal/form"
	"github.com/stwalsh4118/tc108/internal/middleware"
)

// Error code constants for standardized error responses
const (
	ErrNotFound       = "NOT_FOUND"
	ErrBadRequest     = "BAD_REQUEST"
	ErrInternalServer = "INTERNAL_SERVER_ERROR"
	ErrValidation     = "VALIDATION_ERROR"
	ErrImport         = "IMPORT_ERROR"
	ErrNotValid       = "NOT_VALID"
	ErrUnknownField   = "UNKNOWN_FIELD"
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

// NotFound returns a 404 Not Found error response.
func NotFound(c *gin.Context, message string) {
	warn(c, "Resource not found", message, nil)
	respond(c, http.StatusNotFound, ErrNotFound, message, nil)
}

// BadRequest returns a 400 Bad Request error response with optional details.
func BadRequest(c *gin.Context, message string, details map[string]interface{}) {
	warn(c, "Bad request", message, details)
	respond(c, http.StatusBadRequest, ErrBadRequest, message, details)
}

// UnknownField returns a 400 response for a field path the form does not have
// or cannot edit.
func UnknownField(c *gin.Context, path string, err error) {
	details := map[string]interface{}{
		"path":   path,
		"reason": err.Error(),
	}
	warn(c, "Unknown form field", "field cannot be addressed", details)
	respond(c, http.StatusBadRequest, ErrUnknownField, "The field path cannot be edited", details)
}

// ImportError returns a 400 response for a record file that could not be
// loaded. issues is set when the file parsed but failed validation.
func ImportError(c *gin.Context, message string, err error, issues []form.Issue) {
	var details map[string]interface{}
	if issues != nil {
		details = issueDetails(issues)
	}

	logFields := map[string]interface{}{
		"message":    message,
		"request_id": middleware.GetRequestID(c),
		"path":       c.Request.URL.Path,
	}
	if err != nil {
		logFields["cause"] = err.Error()
	}
	if issues != nil {
		logFields["issue_count"] = len(issues)
	}
	if log := middleware.GetLogger(c); log != nil {
		log.Warn("Import rejected", logFields)
	}

	respond(c, http.StatusBadRequest, ErrImport, message, details)
}

// NotValid returns a 409 Conflict response when an operation requires a
// valid record and the current one has issues.
func NotValid(c *gin.Context, issues []form.Issue) {
	details := issueDetails(issues)
	warn(c, "Record not valid", "operation requires a valid record", map[string]interface{}{
		"issue_count": len(issues),
	})
	respond(c, http.StatusConflict, ErrNotValid, "The form has errors and cannot be saved", details)
}

// InternalServerError returns a 500 Internal Server Error response.
// The actual error is logged and never exposed to the client.
func InternalServerError(c *gin.Context, message string, err error) {
	if log := middleware.GetLogger(c); log != nil {
		log.Error("Internal server error", err, map[string]interface{}{
			"message":    message,
			"request_id": middleware.GetRequestID(c),
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
		})
	}

	respond(c, http.StatusInternalServerError, ErrInternalServer, message, nil)
}

// ValidationError returns a 400 Bad Request error response with field-specific
// errors from request binding.
func ValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	details := make(map[string]interface{})
	for _, err := range validationErrors {
		details[err.Field()] = formatValidationError(err)
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Warn("Validation error", map[string]interface{}{
			"request_id": middleware.GetRequestID(c),
			"path":       c.Request.URL.Path,
			"fields":     details,
		})
	}

	respond(c, http.StatusBadRequest, ErrValidation, "Validation failed for one or more fields", details)
}

// issueDetails renders form issues as the details of an error envelope. The
// ordered list is kept under "issues" and the first message per path under
// "fields".
func issueDetails(issues []form.Issue) map[string]interface{} {
	list := make([]form.Issue, len(issues))
	copy(list, issues)

	fields := make(map[string]string, len(issues))
	for _, issue := range issues {
		if _, seen := fields[issue.Path]; !seen {
			fields[issue.Path] = issue.Message
		}
	}

	return map[string]interface{}{
		"issues": list,
		"fields": fields,
	}
}

func respond(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: middleware.GetRequestID(c),
		},
	})
}

func warn(c *gin.Context, event, message string, details map[string]interface{}) {
	log := middleware.GetLogger(c)
	if log == nil {
		return
	}

	fields := map[string]interface{}{
		"message":    message,
		"request_id": middleware.GetRequestID(c),
		"path":       c.Request.URL.Path,
	}
	if details != nil {
		fields["details"] = details
	}
	log.Warn(event, fields)
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is too short or small (minimum: " + err.Param() + ")"
	case "max":
		return "Value is too long or large (maximum: " + err.Param() + ")"
	case "oneof":
		return "Must be one of: " + err.Param()
	default:
		return "Validation failed for tag: " + err.Tag()
	}
}
