package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/stwalsh4118/tc108/internal/form"
	"github.com/stwalsh4118/tc108/internal/logger"
	"github.com/stwalsh4118/tc108/internal/session"
)

// Service-level errors
var (
	ErrImportTooLarge = errors.New("import file exceeds the size limit")
	ErrNotReady       = errors.New("form service not ready")
)

// FormStore is the state a FormService operates on. *session.Session
// satisfies it.
type FormStore interface {
	Snapshot() session.Snapshot
	SetField(path string, value any) error
	Blur(path string) []form.Issue
	Validate() form.Result
	Visibility() map[string]bool
	Rules() []form.Rule
	Clear()
	Import(r io.Reader) (form.Result, error)
	Export(w io.Writer) error
}

// FormService defines the interface for form editing operations.
type FormService interface {
	// Snapshot returns the record, a fresh validation and the visibility map.
	Snapshot(ctx context.Context) session.Snapshot

	// SetField stores one field and returns the resulting visibility map.
	// Returns form.ErrUnknownField, form.ErrInvalidValue or
	// form.ErrReadOnlyField for edits the form cannot take.
	SetField(ctx context.Context, path string, value any) (map[string]bool, error)

	// Blur validates the record and returns the issues at path.
	Blur(ctx context.Context, path string) []form.Issue

	// Validate runs full validation.
	Validate(ctx context.Context) form.Result

	// Rules returns the conditional rule table.
	Rules(ctx context.Context) []form.Rule

	// Clear resets the form to its defaults.
	Clear(ctx context.Context)

	// Import replaces the record with the file read from r.
	// Returns ErrImportTooLarge for files above the configured limit, and
	// session.ErrImport or session.ErrImportInvalid when the file is refused.
	Import(ctx context.Context, r io.Reader) (form.Result, error)

	// Export writes the record to w.
	// Returns session.ErrNotValid while the record has issues.
	Export(ctx context.Context, w io.Writer) error

	// Ready reports whether the service can take requests.
	Ready(ctx context.Context) error
}

// formService is the concrete implementation of FormService.
type formService struct {
	store          FormStore
	log            *logger.Logger
	importMaxBytes int64
}

// NewFormService creates a new instance of FormService. Imports larger than
// importMaxBytes are refused.
func NewFormService(store FormStore, log *logger.Logger, importMaxBytes int64) FormService {
	return &formService{
		store:          store,
		log:            log.WithComponent("form"),
		importMaxBytes: importMaxBytes,
	}
}

func (s *formService) Snapshot(ctx context.Context) session.Snapshot {
	return s.store.Snapshot()
}

func (s *formService) SetField(ctx context.Context, path string, value any) (map[string]bool, error) {
	if err := s.store.SetField(path, value); err != nil {
		s.log.Warn("Field edit rejected", logger.Fields{
			"path":  path,
			"error": err.Error(),
		})
		return nil, err
	}

	s.log.Debug("Field updated", logger.Fields{"path": path})
	return s.store.Visibility(), nil
}

func (s *formService) Blur(ctx context.Context, path string) []form.Issue {
	issues := s.store.Blur(path)
	if issues == nil {
		issues = []form.Issue{}
	}
	return issues
}

func (s *formService) Validate(ctx context.Context) form.Result {
	result := s.store.Validate()
	s.log.Debug("Form validated", logger.Fields{
		"valid":       result.Valid,
		"issue_count": len(result.Issues),
	})
	return result
}

func (s *formService) Rules(ctx context.Context) []form.Rule {
	return s.store.Rules()
}

func (s *formService) Clear(ctx context.Context) {
	s.store.Clear()
	s.log.Info("Form cleared", nil)
}

// Import reads at most importMaxBytes+1 bytes so an oversized file is
// detected without buffering all of it.
func (s *formService) Import(ctx context.Context, r io.Reader) (form.Result, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.importMaxBytes+1))
	if err != nil {
		s.log.Error("Failed to read import", err, nil)
		return form.Result{}, fmt.Errorf("%w: %w", session.ErrImport, err)
	}
	if int64(len(data)) > s.importMaxBytes {
		s.log.Warn("Import too large", logger.Fields{"limit_bytes": s.importMaxBytes})
		return form.Result{}, fmt.Errorf("%w: limit is %d bytes", ErrImportTooLarge, s.importMaxBytes)
	}

	result, err := s.store.Import(bytes.NewReader(data))
	if err != nil {
		s.log.Warn("Import refused", logger.Fields{
			"bytes": len(data),
			"error": err.Error(),
		})
		return result, err
	}

	s.log.Info("Form imported", logger.Fields{
		"bytes":       len(data),
		"valid":       result.Valid,
		"issue_count": len(result.Issues),
	})
	return result, nil
}

func (s *formService) Export(ctx context.Context, w io.Writer) error {
	if err := s.store.Export(w); err != nil {
		if errors.Is(err, session.ErrNotValid) {
			s.log.Info("Export refused, form has errors", nil)
		} else {
			s.log.Error("Failed to export form", err, nil)
		}
		return err
	}

	s.log.Info("Form exported", logger.Fields{"file": form.ExportFilename})
	return nil
}

// Ready checks that the store answers and the rule table is loaded.
func (s *formService) Ready(ctx context.Context) error {
	done := make(chan int, 1)
	go func() {
		done <- len(s.store.Rules())
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrNotReady, ctx.Err())
	case n := <-done:
		if n == 0 {
			return fmt.Errorf("%w: no conditional rules loaded", ErrNotReady)
		}
		return nil
	}
}
