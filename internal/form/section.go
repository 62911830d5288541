package form

import "reflect"

// Check is a section-wide rule that needs more than a presence test, such
// as a comparison or an aggregate over a collection. Issue paths returned
// by a Check are relative to the section.
type Check[T any] func(v *T) []Issue

// SectionSchema validates one section in isolation. It sees only its own
// section type, so no rule can read another section's fields.
type SectionSchema[T any] struct {
	fields   *fieldValidator
	messages map[string]string
	name     string
	rules    []Rule
	checks   []Check[T]
}

func newSectionSchema[T any](fv *fieldValidator, name string, rules []Rule, messages map[string]string, checks ...Check[T]) *SectionSchema[T] {
	bound := make([]Rule, len(rules))
	for i, r := range rules {
		r.Section = name
		bound[i] = r
	}
	return &SectionSchema[T]{
		fields:   fv,
		messages: messages,
		name:     name,
		rules:    bound,
		checks:   checks,
	}
}

// Name is the section's top-level key in the record.
func (s *SectionSchema[T]) Name() string {
	return s.name
}

// Rules returns the section's conditional rule table.
func (s *SectionSchema[T]) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Validate runs base field checks in declaration order, then the
// conditional rules in table order, then the section's checks.
func (s *SectionSchema[T]) Validate(v T) Result {
	return NewResult(s.issues(&v))
}

func (s *SectionSchema[T]) issues(v *T) []Issue {
	issues := s.fields.check(s.name, *v, s.messages)
	issues = append(issues, evaluateRules(s.name, s.rules, reflect.ValueOf(v).Elem())...)
	for _, check := range s.checks {
		for _, iss := range check(v) {
			iss.Path = s.name + "." + iss.Path
			issues = append(issues, iss)
		}
	}
	return issues
}

// section is the type-erased view the composer holds of each
// SectionSchema bound to its place in the record.
type section interface {
	Name() string
	Rules() []Rule
	issuesIn(r *Record) []Issue
	valueIn(r *Record) reflect.Value
}

type boundSection[T any] struct {
	*SectionSchema[T]
	get func(r *Record) *T
}

func bind[T any](s *SectionSchema[T], get func(r *Record) *T) section {
	return boundSection[T]{SectionSchema: s, get: get}
}

func (b boundSection[T]) issuesIn(r *Record) []Issue {
	return b.issues(b.get(r))
}

func (b boundSection[T]) valueIn(r *Record) reflect.Value {
	return reflect.ValueOf(b.get(r)).Elem()
}
