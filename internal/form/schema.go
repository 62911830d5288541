// Package form holds the TC108 record, its per-section validation
// schemas and the conditional-field rule table shared by validation and
// field visibility.
package form

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSection is returned when a section key is not part of the record.
var ErrUnknownSection = errors.New("unknown section")

// Schema validates a whole record as the disjoint union of the ten
// section schemas. Sections never see each other's fields.
type Schema struct {
	byName   map[string]section
	sections []section
}

// NewSchema builds the TC108 schema.
func NewSchema() (*Schema, error) {
	fv, err := newFieldValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to build field validator: %w", err)
	}

	sections := []section{
		bind(propertySchema(fv), func(r *Record) *Property { return &r.Property }),
		bind(applicantSchema(fv), func(r *Record) *Applicant { return &r.Applicant }),
		bind(contactSchema(fv), func(r *Record) *Contact { return &r.Contact }),
		bind(valuationSchema(fv), func(r *Record) *Valuation { return &r.Valuation }),
		bind(hearingSchema(fv), func(r *Record) *Hearing { return &r.Hearing }),
		bind(propertyDescriptionSchema(fv), func(r *Record) *PropertyDescription { return &r.PropertyDescription }),
		bind(nonresidentialSchema(fv), func(r *Record) *Nonresidential { return &r.Nonresidential }),
		bind(saleConstructionSchema(fv), func(r *Record) *SaleConstruction { return &r.SaleConstruction }),
		bind(supportSchema(fv), func(r *Record) *Support { return &r.Support }),
		bind(signatureSchema(fv), func(r *Record) *Signature { return &r.Signature }),
	}

	byName := make(map[string]section, len(sections))
	for _, s := range sections {
		byName[s.Name()] = s
	}
	return &Schema{byName: byName, sections: sections}, nil
}

// MustSchema is NewSchema for package-level initialization and tests.
func MustSchema() *Schema {
	s, err := NewSchema()
	if err != nil {
		panic(err)
	}
	return s
}

// Sections lists the section keys in form order.
func (s *Schema) Sections() []string {
	names := make([]string, len(s.sections))
	for i, sec := range s.sections {
		names[i] = sec.Name()
	}
	return names
}

// Rules returns the conditional rule table of every section, in form order.
func (s *Schema) Rules() []Rule {
	var out []Rule
	for _, sec := range s.sections {
		out = append(out, sec.Rules()...)
	}
	return out
}

// Validate checks the whole record. The same call serves live per-field
// display (filter with Result.For) and the Save gate.
func (s *Schema) Validate(r Record) Result {
	var issues []Issue
	for _, sec := range s.sections {
		issues = append(issues, sec.issuesIn(&r)...)
	}
	return NewResult(issues)
}

// ValidateSection checks one section of the record in isolation.
func (s *Schema) ValidateSection(r Record, name string) (Result, error) {
	sec, ok := s.byName[name]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownSection, name)
	}
	return NewResult(sec.issuesIn(&r)), nil
}

// Visible reports whether the control at path is currently reachable.
// A field governed by rules is visible iff one of its rules is active;
// every other field is always visible. Hiding never clears a value.
func (s *Schema) Visible(r Record, path string) bool {
	name, field, ok := strings.Cut(path, ".")
	if !ok {
		return true
	}
	sec, ok := s.byName[name]
	if !ok {
		return false
	}

	governed := false
	v := sec.valueIn(&r)
	for _, rule := range sec.Rules() {
		if rule.Field != field {
			continue
		}
		governed = true
		if rule.active(v) {
			return true
		}
	}
	return !governed
}

// Visibility returns the visibility of every rule-governed control, keyed
// by path.
func (s *Schema) Visibility(r Record) map[string]bool {
	out := make(map[string]bool)
	for _, sec := range s.sections {
		v := sec.valueIn(&r)
		for _, rule := range sec.Rules() {
			out[rule.Path()] = out[rule.Path()] || rule.active(v)
		}
	}
	return out
}
