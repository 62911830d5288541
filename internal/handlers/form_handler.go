package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/stwalsh4118/tc108/internal/errors"
	"github.com/stwalsh4118/tc108/internal/form"
	"github.com/stwalsh4118/tc108/internal/middleware"
	"github.com/stwalsh4118/tc108/internal/services"
	"github.com/stwalsh4118/tc108/internal/session"
)

// ImportFileField is the multipart field that carries an uploaded record.
const ImportFileField = "file"

// FormHandler handles requests against the form session.
type FormHandler struct {
	service services.FormService
}

// NewFormHandler creates a new FormHandler instance.
func NewFormHandler(service services.FormService) *FormHandler {
	return &FormHandler{
		service: service,
	}
}

// Register mounts the form routes on rg.
func (h *FormHandler) Register(rg *gin.RouterGroup) {
	f := rg.Group("/form")
	f.GET("", h.Get)
	f.PUT("/fields", h.SetField)
	f.POST("/blur", h.Blur)
	f.POST("/validate", h.Validate)
	f.POST("/clear", h.Clear)
	f.POST("/import", h.Import)
	f.GET("/export", h.Export)

	rg.GET("/schema/rules", h.Rules)
}

// SetFieldRequest is the body of PUT /form/fields. Value is text for text
// and select fields, a boolean for checkboxes, and a number, numeric text
// or null for numeric inputs.
type SetFieldRequest struct {
	Value any    `json:"value"`
	Path  string `json:"path" binding:"required"`
}

// BlurRequest is the body of POST /form/blur.
type BlurRequest struct {
	Path string `json:"path" binding:"required"`
}

// SetFieldResponse returns the visibility after an edit.
type SetFieldResponse struct {
	Visibility map[string]bool `json:"visibility"`
}

// BlurResponse returns the issues to display on the blurred control.
type BlurResponse struct {
	Path   string       `json:"path"`
	Issues []form.Issue `json:"issues"`
}

// ImportResponse returns the validation of the imported record.
type ImportResponse struct {
	Result form.Result `json:"result"`
}

// RulesResponse serves the conditional rule table.
type RulesResponse struct {
	Rules []form.Rule `json:"rules"`
	Count int         `json:"count"`
}

// Get handles GET /api/v1/form.
func (h *FormHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Snapshot(c.Request.Context()))
}

// SetField handles PUT /api/v1/form/fields.
func (h *FormHandler) SetField(c *gin.Context) {
	var req SetFieldRequest
	if !bindJSON(c, &req) {
		return
	}

	visibility, err := h.service.SetField(c.Request.Context(), req.Path, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, form.ErrUnknownField), errors.Is(err, form.ErrReadOnlyField):
			apierrors.UnknownField(c, req.Path, err)
		case errors.Is(err, form.ErrInvalidValue):
			apierrors.BadRequest(c, err.Error(), map[string]interface{}{"path": req.Path})
		default:
			apierrors.InternalServerError(c, "Failed to update field", err)
		}
		return
	}

	c.JSON(http.StatusOK, SetFieldResponse{Visibility: visibility})
}

// Blur handles POST /api/v1/form/blur.
func (h *FormHandler) Blur(c *gin.Context) {
	var req BlurRequest
	if !bindJSON(c, &req) {
		return
	}

	c.JSON(http.StatusOK, BlurResponse{
		Path:   req.Path,
		Issues: h.service.Blur(c.Request.Context(), req.Path),
	})
}

// Validate handles POST /api/v1/form/validate.
func (h *FormHandler) Validate(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Validate(c.Request.Context()))
}

// Clear handles POST /api/v1/form/clear and returns the reset form.
func (h *FormHandler) Clear(c *gin.Context) {
	h.service.Clear(c.Request.Context())
	c.JSON(http.StatusOK, h.service.Snapshot(c.Request.Context()))
}

// Import handles POST /api/v1/form/import. The record comes either as the
// "file" field of a multipart upload or as the raw request body.
func (h *FormHandler) Import(c *gin.Context) {
	body, closeBody, err := importSource(c)
	if err != nil {
		apierrors.BadRequest(c, err.Error(), nil)
		return
	}
	defer closeBody()

	result, err := h.service.Import(c.Request.Context(), body)
	if err != nil {
		var invalid *session.InvalidError
		switch {
		case errors.As(err, &invalid):
			apierrors.ImportError(c, "The file holds a record that does not validate", err, invalid.Result.Issues)
		case errors.Is(err, services.ErrImportTooLarge):
			apierrors.ImportError(c, "The file is too large", err, nil)
		case errors.Is(err, session.ErrImport):
			apierrors.ImportError(c, "The file is not a readable form record", err, nil)
		default:
			apierrors.InternalServerError(c, "Failed to import form", err)
		}
		return
	}

	c.JSON(http.StatusOK, ImportResponse{Result: result})
}

// Export handles GET /api/v1/form/export. A valid record is sent as a
// result.json attachment; an invalid one gets 409 with its issues.
func (h *FormHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.service.Export(c.Request.Context(), &buf); err != nil {
		var invalid *session.InvalidError
		if errors.As(err, &invalid) {
			apierrors.NotValid(c, invalid.Result.Issues)
			return
		}
		apierrors.InternalServerError(c, "Failed to export form", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", form.ExportFilename))
	c.Data(http.StatusOK, "application/json; charset=utf-8", buf.Bytes())
}

// Rules handles GET /api/v1/schema/rules.
func (h *FormHandler) Rules(c *gin.Context) {
	rules := h.service.Rules(c.Request.Context())
	c.JSON(http.StatusOK, RulesResponse{Rules: rules, Count: len(rules)})
}

// bindJSON binds the request body, answering the request itself on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return false
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return false
	}
	return true
}

func importSource(c *gin.Context) (io.Reader, func(), error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return c.Request.Body, func() {}, nil
	}

	header, err := c.FormFile(ImportFileField)
	if err != nil {
		return nil, nil, fmt.Errorf("multipart upload must carry the record in the %q field", ImportFileField)
	}
	file, err := header.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Debug("Reading uploaded record", map[string]interface{}{
			"filename": header.Filename,
			"size":     header.Size,
		})
	}
	return file, func() { _ = file.Close() }, nil
}
