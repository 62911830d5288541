// Package session holds the one form being edited: its defaults, its
// current values and the errors of the last validation pass.
package session

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/stwalsh4118/tc108/internal/form"
)

// Session errors.
var (
	// ErrImport is returned when an import source cannot be read or parsed.
	// The session is left untouched.
	ErrImport = errors.New("failed to import record")
	// ErrImportInvalid is returned by a strict session for a file that
	// parsed but does not validate. The session is left untouched.
	ErrImportInvalid = errors.New("imported record is not valid")
	// ErrNotValid is returned when saving a record that has issues.
	ErrNotValid = errors.New("record is not valid")
)

// InvalidError carries the validation result that caused an operation to
// be refused. It unwraps to ErrImportInvalid or ErrNotValid.
type InvalidError struct {
	Err    error
	Result form.Result
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Result.Error())
}

func (e *InvalidError) Unwrap() error {
	return e.Err
}

// Snapshot is a consistent view of the session at one instant. Errors are
// the issues currently on display; CanSave comes from a fresh full
// validation that does not change them.
type Snapshot struct {
	Record     form.Record     `json:"record"`
	Errors     form.Result     `json:"errors"`
	Visibility map[string]bool `json:"visibility"`
	CanSave    bool            `json:"canSave"`
}

// Option configures a Session.
type Option func(*Session)

// WithStrictImport makes Import reject records that fail validation.
func WithStrictImport(strict bool) Option {
	return func(s *Session) {
		s.strict = strict
	}
}

// WithDefaults replaces the blank record the session starts from and
// returns to on Clear.
func WithDefaults(r form.Record) Option {
	return func(s *Session) {
		s.defaults = r.Clone()
	}
}

// Session owns the defaults, the current values and the current errors of
// a single form. It is safe for concurrent use.
type Session struct {
	schema *form.Schema
	strict bool

	mu       sync.Mutex
	defaults form.Record
	values   form.Record
	errors   form.Result
}

// New creates a Session validated by schema.
func New(schema *form.Schema, opts ...Option) *Session {
	s := &Session{
		schema:   schema,
		defaults: form.Defaults(),
	}
	for _, opt := range opts {
		opt(s)
	}
	form.Derive(&s.defaults)
	s.values = s.defaults.Clone()
	s.errors = form.NewResult(nil)
	return s
}

// StrictImport reports whether Import rejects invalid records.
func (s *Session) StrictImport() bool {
	return s.strict
}

// Record returns a copy of the current values.
func (s *Session) Record() form.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.Clone()
}

// Errors returns the result of the last validation pass. A fresh or
// cleared session has none.
func (s *Session) Errors() form.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors
}

// Snapshot returns the values, the displayed errors and the visibility of
// every conditional control.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Record:     s.values.Clone(),
		Errors:     s.errors,
		Visibility: s.schema.Visibility(s.values),
		CanSave:    s.schema.Validate(s.values).Valid,
	}
}

// SetField stores value at path. A change to market value recomputes the
// derived six-percent value. No validation runs.
func (s *Session) SetField(path string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := form.Set(&s.values, path, value); err != nil {
		return err
	}
	if path == form.PathMarketValue {
		form.Derive(&s.values)
	}
	return nil
}

// Blur validates the whole record, keeps the result and returns the issues
// attached to path.
func (s *Session) Blur(path string) []form.Issue {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateLocked().For(path)
}

// Validate runs full validation and keeps the result.
func (s *Session) Validate() form.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateLocked()
}

// CanSave reports whether the current record passes full validation.
func (s *Session) CanSave() bool {
	return s.Validate().Valid
}

// Visibility returns the visibility of every conditional control.
func (s *Session) Visibility() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schema.Visibility(s.values)
}

// Rules returns the conditional rule table behind validation and
// visibility.
func (s *Session) Rules() []form.Rule {
	return s.schema.Rules()
}

// Clear resets the values to the defaults and drops all errors.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = s.defaults.Clone()
	s.errors = form.NewResult(nil)
}

// Import replaces the record with the one read from rd and returns its
// validation result. Read and parse failures wrap ErrImport. A strict
// session refuses an invalid record with an *InvalidError. In both cases
// the current record is kept.
func (s *Session) Import(rd io.Reader) (form.Result, error) {
	r, err := form.Decode(rd)
	if err != nil {
		return form.Result{}, fmt.Errorf("%w: %w", ErrImport, err)
	}
	form.Derive(&r)

	result := s.schema.Validate(r)
	if s.strict && !result.Valid {
		return result, &InvalidError{Err: ErrImportInvalid, Result: result}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = r
	s.errors = result
	return result, nil
}

// Export writes the record to w. It refuses with an *InvalidError wrapping
// ErrNotValid while the record has issues.
func (s *Session) Export(w io.Writer) error {
	s.mu.Lock()
	result := s.validateLocked()
	r := s.values.Clone()
	s.mu.Unlock()

	if !result.Valid {
		return &InvalidError{Err: ErrNotValid, Result: result}
	}
	return form.Encode(w, r)
}

func (s *Session) validateLocked() form.Result {
	s.errors = s.schema.Validate(s.values)
	return s.errors
}
