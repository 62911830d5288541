package form

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Year of construction bounds when the year is given numerically.
const (
	MinYearBuilt = 1700
	MaxYearBuilt = 3000
)

var (
	phonePattern = regexp.MustCompile(`^(?:\(\d{3}\)|\d{3})[-.\s]?\d{3}[-.\s]?\d{4}$`)
	zipPattern   = regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`)
	blockPattern = regexp.MustCompile(`^\d{1,5}$`)
	lotPattern   = regexp.MustCompile(`^\d{1,4}$`)
)

// customTag describes a validation tag registered on top of the
// validator's built-in set.
type customTag struct {
	tag  string
	fn   validator.Func
	text string
}

var customTags = []customTag{
	{tag: "notblank", fn: validators.NotBlank, text: "{0} is required"},
	{tag: "nanp", fn: matchTrimmed(phonePattern), text: "{0} must be a 10-digit phone number"},
	{tag: "zip", fn: containsTrimmed(zipPattern), text: "{0} must include a ZIP code"},
	{tag: "block", fn: matchTrimmed(blockPattern), text: "{0} must be 1 to 5 digits"},
	{tag: "lot", fn: matchTrimmed(lotPattern), text: "{0} must be 1 to 4 digits"},
	{tag: "numtext", fn: isNumericText, text: "{0} must be a number"},
	{tag: "nonneg", fn: isNonNegative, text: "{0} must be 0 or greater"},
	{tag: "yearbuilt", fn: isYearBuilt, text: "{0} must be a 4-digit year"},
}

// tagCodes maps validation tags to issue codes.
var tagCodes = map[string]string{
	"required":  CodeRequired,
	"notblank":  CodeRequired,
	"oneof":     CodeInvalidEnum,
	"email":     CodeInvalidEmail,
	"nanp":      CodePattern,
	"zip":       CodePattern,
	"block":     CodePattern,
	"lot":       CodePattern,
	"numtext":   CodeInvalidNumber,
	"nonneg":    CodeTooSmall,
	"gte":       CodeTooSmall,
	"yearbuilt": CodeOutOfRange,
	"len":       CodeInvalidLength,
}

// fieldValidator runs struct-tag constraints and turns failures into
// issues.
type fieldValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func newFieldValidator() (*fieldValidator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	trans, _ := ut.New(english, english).GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	for _, ct := range customTags {
		if err := v.RegisterValidation(ct.tag, ct.fn); err != nil {
			return nil, fmt.Errorf("failed to register %q validation: %w", ct.tag, err)
		}
		if err := registerText(v, trans, ct.tag, ct.text); err != nil {
			return nil, err
		}
	}

	return &fieldValidator{validate: v, trans: trans}, nil
}

func registerText(v *validator.Validate, trans ut.Translator, tag, text string) error {
	err := v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error {
			return t.Add(tag, text, true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
	if err != nil {
		return fmt.Errorf("failed to register %q translation: %w", tag, err)
	}
	return nil
}

// check validates one section value. Issue paths are rooted at section;
// messages come from the section's message table first.
func (fv *fieldValidator) check(section string, value any, messages map[string]string) []Issue {
	err := fv.validate.Struct(value)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []Issue{{Path: section, Code: CodeInvalid, Message: err.Error()}}
	}

	issues := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		rel := relativePath(fe.Namespace())
		issues = append(issues, Issue{
			Path:    section + "." + rel,
			Code:    codeForTag(fe.Tag()),
			Message: fv.message(rel, fe, messages),
		})
	}
	return issues
}

func (fv *fieldValidator) message(rel string, fe validator.FieldError, messages map[string]string) string {
	key := messageKey(rel)
	if msg, ok := messages[key+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := messages[key]; ok {
		return msg
	}
	return fe.Translate(fv.trans)
}

func codeForTag(tag string) string {
	if code, ok := tagCodes[tag]; ok {
		return code
	}
	return CodeInvalid
}

// relativePath turns a validator namespace such as
// "Support.sales[1].salesPrice" into "sales.1.salesPrice".
func relativePath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		namespace = namespace[i+1:]
	}
	namespace = strings.ReplaceAll(namespace, "[", ".")
	return strings.ReplaceAll(namespace, "]", "")
}

// messageKey drops array indexes so one message covers every element.
func messageKey(rel string) string {
	parts := strings.Split(rel, ".")
	out := parts[:0]
	for _, p := range parts {
		if _, err := strconv.Atoi(p); err == nil {
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, ".")
}

func matchTrimmed(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(strings.TrimSpace(fl.Field().String()))
	}
}

func containsTrimmed(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.FindStringIndex(strings.TrimSpace(fl.Field().String())) != nil
	}
}

// isNumericText accepts blank text or text that parses to a finite number.
func isNumericText(fl validator.FieldLevel) bool {
	n := Number(fl.Field().String())
	if n.IsBlank() {
		return true
	}
	_, ok := n.Float()
	return ok
}

// isNonNegative rejects parsed numbers below zero. Blank and unparsable
// text pass; numtext reports the latter.
func isNonNegative(fl validator.FieldLevel) bool {
	f, ok := Number(fl.Field().String()).Float()
	return !ok || f >= 0
}

// isYearBuilt accepts blank text, any 4-character text, or an integer
// within [MinYearBuilt, MaxYearBuilt].
func isYearBuilt(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" || len([]rune(s)) == 4 {
		return true
	}
	f, ok := Number(s).Float()
	if !ok || f != math.Trunc(f) {
		return false
	}
	return f >= MinYearBuilt && f <= MaxYearBuilt
}
