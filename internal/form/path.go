package form

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Field addressing errors.
var (
	ErrUnknownField  = errors.New("unknown field")
	ErrInvalidValue  = errors.New("invalid value for field")
	ErrReadOnlyField = errors.New("field is derived and cannot be edited")
)

// PathSixPercent is the derived valuation line b.
const PathSixPercent = SectionValuation + ".sixPercent"

// PathMarketValue is valuation line a, the input of the derived value.
const PathMarketValue = SectionValuation + ".marketValue"

// Get returns the value stored at path, such as "applicant.applicantName"
// or "support.sales.2.saleDate".
func Get(r Record, path string) (any, error) {
	v, err := resolve(reflect.ValueOf(&r).Elem(), path)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// Set stores value at path. Text fields take strings, checkboxes take
// booleans, and numeric inputs take strings or JSON numbers. The derived
// six-percent value is rejected; use Derive after changing market value.
func Set(r *Record, path string, value any) error {
	if path == PathSixPercent {
		return fmt.Errorf("%w: %s", ErrReadOnlyField, path)
	}
	v, err := resolve(reflect.ValueOf(r).Elem(), path)
	if err != nil {
		return err
	}
	if !v.CanSet() || v.Kind() == reflect.Struct || v.Kind() == reflect.Slice {
		return fmt.Errorf("%w: %s is not an editable field", ErrUnknownField, path)
	}
	return assign(v, path, value)
}

func resolve(v reflect.Value, path string) (reflect.Value, error) {
	if path == "" {
		return reflect.Value{}, fmt.Errorf("%w: empty path", ErrUnknownField)
	}
	for _, part := range strings.Split(path, ".") {
		switch v.Kind() {
		case reflect.Struct:
			next, ok := fieldByName(v, part)
			if !ok {
				return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnknownField, path)
			}
			v = next
		case reflect.Slice:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= v.Len() {
				return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnknownField, path)
			}
			v = v.Index(i)
		default:
			return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnknownField, path)
		}
	}
	return v, nil
}

var numberType = reflect.TypeOf(Number(""))

func assign(v reflect.Value, path string, value any) error {
	switch {
	case v.Type() == numberType:
		n, ok := numberFrom(value)
		if !ok {
			return fmt.Errorf("%w: %s expects a number or numeric text, got %T", ErrInvalidValue, path, value)
		}
		v.SetString(string(n))
	case v.Kind() == reflect.String:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s expects text, got %T", ErrInvalidValue, path, value)
		}
		v.SetString(s)
	case v.Kind() == reflect.Bool:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: %s expects true or false, got %T", ErrInvalidValue, path, value)
		}
		v.SetBool(b)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, path)
	}
	return nil
}

func numberFrom(value any) (Number, bool) {
	switch n := value.(type) {
	case nil:
		return "", true
	case Number:
		return n, true
	case string:
		return Number(n), true
	case float64:
		return NumberOf(n), true
	case int:
		return Number(strconv.Itoa(n)), true
	default:
		return "", false
	}
}
