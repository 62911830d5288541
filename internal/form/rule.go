package form

import (
	"fmt"
	"reflect"
	"strings"
)

// Presence is the emptiness test applied to a dependent field.
type Presence int

const (
	// Blank: a text field is empty after trimming.
	Blank Presence = iota
	// Unset: a numeric input holds no number.
	Unset
	// Unselected: no enum option is chosen.
	Unselected
	// Display rules only govern visibility; the dependent is never required.
	Display
)

func (p Presence) String() string {
	switch p {
	case Blank:
		return "blank"
	case Unset:
		return "unset"
	case Unselected:
		return "unselected"
	case Display:
		return "display"
	default:
		return fmt.Sprintf("presence(%d)", int(p))
	}
}

// MarshalText lets rule tables be served as JSON.
func (p Presence) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Condition holds when the discriminator Field equals Equals.
type Condition struct {
	Equals any    `json:"equals"`
	Field  string `json:"field"`
}

// Rule makes Field reachable, and required unless Presence is Display,
// while every condition in When holds. Field names are relative to
// Section; a rule never looks outside its own section.
type Rule struct {
	Section  string      `json:"section"`
	Field    string      `json:"field"`
	Message  string      `json:"message,omitempty"`
	When     []Condition `json:"when"`
	Presence Presence    `json:"presence"`
}

// Path is the dependent's path rooted at the section.
func (r Rule) Path() string {
	return r.Section + "." + r.Field
}

// Requires reports whether the rule can produce an issue.
func (r Rule) Requires() bool {
	return r.Presence != Display
}

// When builds a condition list for rule tables.
func When(field string, equals any) []Condition {
	return []Condition{{Field: field, Equals: equals}}
}

// active reports whether every condition of r holds for section value v.
func (r Rule) active(v reflect.Value) bool {
	for _, c := range r.When {
		fv, ok := fieldByName(v, c.Field)
		if !ok || !valueEquals(fv, c.Equals) {
			return false
		}
	}
	return true
}

// missing applies the rule's emptiness test to the dependent.
func (r Rule) missing(v reflect.Value) bool {
	fv, ok := fieldByName(v, r.Field)
	if !ok {
		// Virtual display elements have no backing field.
		return false
	}
	switch r.Presence {
	case Blank:
		return strings.TrimSpace(fv.String()) == ""
	case Unset:
		return Number(fv.String()).IsBlank()
	case Unselected:
		return fv.String() == ""
	default:
		return false
	}
}

// evaluateRules runs a rule table against one section value. Issues are
// attached to the dependent field, never to the discriminator.
func evaluateRules(section string, rules []Rule, v reflect.Value) []Issue {
	var issues []Issue
	for _, r := range rules {
		if !r.Requires() || !r.active(v) || !r.missing(v) {
			continue
		}
		issues = append(issues, Issue{
			Path:    section + "." + r.Field,
			Code:    CodeRequired,
			Message: r.Message,
		})
	}
	return issues
}

func valueEquals(v reflect.Value, want any) bool {
	switch v.Kind() {
	case reflect.String:
		s, ok := want.(string)
		return ok && v.String() == s
	case reflect.Bool:
		b, ok := want.(bool)
		return ok && v.Bool() == b
	default:
		return reflect.DeepEqual(v.Interface(), want)
	}
}

// fieldByName finds the field of struct v whose JSON name is name.
func fieldByName(v reflect.Value, name string) (reflect.Value, bool) {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if jsonName(t.Field(i)) == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "" {
		return f.Name
	}
	return name
}
