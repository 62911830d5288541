package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/tc108/internal/form"
	"github.com/stwalsh4118/tc108/internal/logger"
	"github.com/stwalsh4118/tc108/internal/middleware"
)

func init() {
	// Set Gin to test mode to suppress logs during tests
	gin.SetMode(gin.TestMode)
}

// setupTestContext creates a test Gin context with logger and request ID in context.
func setupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	c.Set("logger", logger.Nop())
	c.Set(middleware.RequestIDKey, "test-request-id")

	return c, w
}

// parseErrorResponse parses the JSON response into an ErrorResponse struct.
func parseErrorResponse(t *testing.T, body *bytes.Buffer) ErrorResponse {
	var response ErrorResponse
	err := json.Unmarshal(body.Bytes(), &response)
	require.NoError(t, err, "Failed to parse error response JSON")
	return response
}

func sampleIssues() []form.Issue {
	return []form.Issue{
		{Path: "valuation.assessedValue", Code: form.CodeBusinessRule, Message: "Line c must be greater than or equal to line b (0.06 × a)"},
		{Path: "applicant.applicantOther", Code: form.CodeRequired, Message: "Describe other"},
		{Path: "applicant.applicantOther", Code: form.CodeInvalid, Message: "second message"},
	}
}

func TestNotFound(t *testing.T) {
	c, w := setupTestContext()

	NotFound(c, "Resource not found")

	assert.Equal(t, http.StatusNotFound, w.Code, "Expected status 404 Not Found")

	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrNotFound, response.Error.Code, "Expected NOT_FOUND error code")
	assert.Equal(t, "Resource not found", response.Error.Message)
	assert.Equal(t, "test-request-id", response.Error.RequestID, "Expected request ID in response")
	assert.Nil(t, response.Error.Details, "Expected no details for NotFound")
}

func TestBadRequest(t *testing.T) {
	t.Run("without details", func(t *testing.T) {
		c, w := setupTestContext()

		BadRequest(c, "Invalid input", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		response := parseErrorResponse(t, w.Body)
		assert.Equal(t, ErrBadRequest, response.Error.Code)
		assert.Equal(t, "Invalid input", response.Error.Message)
		assert.Nil(t, response.Error.Details, "Expected no details when nil is passed")
	})

	t.Run("with details", func(t *testing.T) {
		c, w := setupTestContext()

		BadRequest(c, "Invalid input", map[string]interface{}{"field": "path"})

		assert.Equal(t, http.StatusBadRequest, w.Code)

		response := parseErrorResponse(t, w.Body)
		assert.Equal(t, ErrBadRequest, response.Error.Code)
		assert.Equal(t, "path", response.Error.Details["field"], "Expected field in details")
	})
}

func TestUnknownField(t *testing.T) {
	c, w := setupTestContext()

	UnknownField(c, "applicant.nickname", form.ErrUnknownField)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrUnknownField, response.Error.Code)
	assert.Equal(t, "applicant.nickname", response.Error.Details["path"])
	assert.Equal(t, form.ErrUnknownField.Error(), response.Error.Details["reason"])
}

func TestImportError(t *testing.T) {
	t.Run("unparsable file has no issue details", func(t *testing.T) {
		c, w := setupTestContext()

		ImportError(c, "The file is not a valid form record", errors.New("unexpected end of JSON input"), nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		response := parseErrorResponse(t, w.Body)
		assert.Equal(t, ErrImport, response.Error.Code)
		assert.Nil(t, response.Error.Details)
	})

	t.Run("invalid record carries its issues", func(t *testing.T) {
		c, w := setupTestContext()

		ImportError(c, "The file holds an invalid record", nil, sampleIssues())

		response := parseErrorResponse(t, w.Body)
		assert.Equal(t, ErrImport, response.Error.Code)
		require.NotNil(t, response.Error.Details)
		assert.Len(t, response.Error.Details["issues"], 3)
	})
}

func TestNotValid(t *testing.T) {
	c, w := setupTestContext()

	NotValid(c, sampleIssues())

	assert.Equal(t, http.StatusConflict, w.Code, "Expected status 409 Conflict")

	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrNotValid, response.Error.Code)
	assert.Equal(t, "test-request-id", response.Error.RequestID)

	fields, ok := response.Error.Details["fields"].(map[string]interface{})
	require.True(t, ok, "Expected fields map in details")
	assert.Equal(t, "Describe other", fields["applicant.applicantOther"], "Expected first message per path")
	assert.Len(t, fields, 2)
}

func TestInternalServerError(t *testing.T) {
	c, w := setupTestContext()

	InternalServerError(c, "An unexpected error occurred", errors.New("encoder failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrInternalServer, response.Error.Code)
	assert.Equal(t, "An unexpected error occurred", response.Error.Message)
	assert.NotContains(t, w.Body.String(), "encoder failed", "Expected cause to stay out of the response")
}

func TestValidationError(t *testing.T) {
	c, w := setupTestContext()

	type fieldRequest struct {
		Path string `validate:"required"`
	}

	err := validator.New().Struct(fieldRequest{})
	require.Error(t, err, "Expected validation to fail")

	var validationErrors validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrors), "Expected validator.ValidationErrors")

	ValidationError(c, validationErrors)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrValidation, response.Error.Code)
	assert.Equal(t, "This field is required", response.Error.Details["Path"])
}

func TestFormatValidationError(t *testing.T) {
	tests := []struct {
		name     string
		tag      string
		param    string
		expected string
	}{
		{name: "required", tag: "required", expected: "This field is required"},
		{name: "min", tag: "min", param: "1", expected: "Value is too short or small (minimum: 1)"},
		{name: "max", tag: "max", param: "100", expected: "Value is too long or large (maximum: 100)"},
		{name: "oneof", tag: "oneof", param: "a b", expected: "Must be one of: a b"},
		{name: "unknown", tag: "unknown_tag", expected: "Validation failed for tag: unknown_tag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatValidationError(&mockFieldError{tag: tt.tag, param: tt.param})
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestErrorResponseWithoutContext(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	NotValid(c, sampleIssues())

	assert.Equal(t, http.StatusConflict, w.Code, "Expected status 409 even without context")

	response := parseErrorResponse(t, w.Body)
	assert.Equal(t, ErrNotValid, response.Error.Code)
	assert.Empty(t, response.Error.RequestID, "Expected empty request ID when not in context")
}

// mockFieldError is a mock implementation of validator.FieldError for testing.
type mockFieldError struct {
	tag   string
	param string
}

func (m *mockFieldError) Tag() string                    { return m.tag }
func (m *mockFieldError) ActualTag() string              { return m.tag }
func (m *mockFieldError) Namespace() string              { return "" }
func (m *mockFieldError) StructNamespace() string        { return "" }
func (m *mockFieldError) Field() string                  { return "TestField" }
func (m *mockFieldError) StructField() string            { return "TestField" }
func (m *mockFieldError) Value() interface{}             { return nil }
func (m *mockFieldError) Param() string                  { return m.param }
func (m *mockFieldError) Kind() reflect.Kind             { return reflect.String }
func (m *mockFieldError) Type() reflect.Type             { return nil }
func (m *mockFieldError) Translate(ut.Translator) string { return "" }
func (m *mockFieldError) Error() string                  { return "" }
