package form

import (
	"fmt"
	"strings"
)

// Issue codes.
const (
	CodeRequired           = "required"
	CodeInvalidEnum        = "invalid_enum"
	CodeInvalidEmail       = "invalid_email"
	CodePattern            = "pattern"
	CodeInvalidNumber      = "invalid_number"
	CodeTooSmall           = "too_small"
	CodeOutOfRange         = "out_of_range"
	CodeInvalidLength      = "invalid_length"
	CodeAggregateViolation = "aggregate_violation"
	CodeBusinessRule       = "business_rule"
	CodeInvalid            = "invalid"
)

// Issue is one validation error attached to the control that produced it.
// Path is dot-addressed and rooted at the section key, with array
// elements addressed by index (support.sales.0.salesPrice).
type Issue struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s (%s)", i.Path, i.Message, i.Code)
}

// Result is the outcome of a validation pass. Valid holds iff Issues is
// empty.
type Result struct {
	Issues []Issue `json:"issues"`
	Valid  bool    `json:"valid"`
}

// NewResult builds a Result from issues.
func NewResult(issues []Issue) Result {
	if issues == nil {
		issues = []Issue{}
	}
	return Result{Issues: issues, Valid: len(issues) == 0}
}

// For returns the issues attached exactly to path.
func (r Result) For(path string) []Issue {
	var out []Issue
	for _, iss := range r.Issues {
		if iss.Path == path {
			out = append(out, iss)
		}
	}
	return out
}

// Under returns the issues at prefix or anywhere below it.
func (r Result) Under(prefix string) []Issue {
	var out []Issue
	for _, iss := range r.Issues {
		if iss.Path == prefix || strings.HasPrefix(iss.Path, prefix+".") {
			out = append(out, iss)
		}
	}
	return out
}

// Paths returns the distinct issue paths in first-seen order.
func (r Result) Paths() []string {
	seen := make(map[string]bool, len(r.Issues))
	var out []string
	for _, iss := range r.Issues {
		if !seen[iss.Path] {
			seen[iss.Path] = true
			out = append(out, iss.Path)
		}
	}
	return out
}

// Error summarizes the first few issues so a Result can travel as an error.
func (r Result) Error() string {
	if r.Valid {
		return ""
	}
	const maxShown = 3
	parts := make([]string, 0, maxShown)
	for i, iss := range r.Issues {
		if i == maxShown {
			parts = append(parts, fmt.Sprintf("... (total %d)", len(r.Issues)))
			break
		}
		parts = append(parts, iss.Code+" at "+iss.Path)
	}
	return strings.Join(parts, "; ")
}
