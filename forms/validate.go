package forms

import (
	"math"
	"strconv"
	"strings"

	"dossierportal-backend/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var (
	errNotString  = validation.NewError("validation_is_string", "must be a string")
	errNotBool    = validation.NewError("validation_is_bool", "must be true or false")
	errNotInteger = validation.NewError("validation_is_integer", "must be an integer")
	errUnknown    = validation.NewError("validation_unknown_field", "is not a field of this form")
)

// Validate checks data against the schema and returns the normalized values.
// Text is trimmed, integers become int64, booleans default to false.
// The error, when not nil, is a validation.Errors keyed by field name.
func (s *Schema) Validate(data map[string]interface{}) (models.FormData, error) {
	out := make(models.FormData, len(s.Fields))
	errs := validation.Errors{}

	known := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		known[f.Name] = true
	}
	for name := range data {
		if !known[name] {
			errs[name] = errUnknown
		}
	}

	// Coerce first so conditions can look at normalized values
	for _, f := range s.Fields {
		v, err := coerce(f, data[f.Name])
		if err != nil {
			errs[f.Name] = err
			continue
		}
		if v != nil {
			out[f.Name] = v
		}
	}

	for _, f := range s.Fields {
		if _, failed := errs[f.Name]; failed {
			continue
		}
		if err := validation.Validate(out[f.Name], f.rules(out)...); err != nil {
			errs[f.Name] = err
		}
	}

	if err := errs.Filter(); err != nil {
		return nil, err
	}
	return out, nil
}

func (f Field) rules(values models.FormData) []validation.Rule {
	required := f.Required
	if c := f.RequiredIf; c != nil {
		required = required || values[c.Field] == c.Equals
	}

	var rules []validation.Rule
	if required && f.Kind != KindBoolean {
		rules = append(rules, validation.Required)
	}

	switch f.Kind {
	case KindText:
		if f.MaxLength > 0 {
			rules = append(rules, validation.RuneLength(0, f.MaxLength))
		}
	case KindDate:
		rules = append(rules, validation.Date(DateLayout))
	case KindEmail:
		rules = append(rules, is.EmailFormat)
	case KindPhone:
		rules = append(rules, validation.Match(PhonePattern).Error("must be a valid phone number"))
	case KindInteger:
		rules = append(rules, validation.Min(int64(0)))
	case KindEnum:
		opts := make([]interface{}, len(f.Options))
		for i, o := range f.Options {
			opts[i] = o
		}
		rules = append(rules, validation.In(opts...))
	}
	return rules
}

// coerce converts a decoded JSON value to the field's Go type. Empty values
// come back as nil, except booleans which default to false.
func coerce(f Field, raw interface{}) (interface{}, error) {
	if f.Kind == KindBoolean {
		switch v := raw.(type) {
		case nil:
			return false, nil
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, errNotBool
			}
			return b, nil
		default:
			return nil, errNotBool
		}
	}

	if raw == nil {
		return nil, nil
	}

	if f.Kind == KindInteger {
		switch v := raw.(type) {
		case float64:
			if v != math.Trunc(v) || math.Abs(v) > 1<<53 {
				return nil, errNotInteger
			}
			return int64(v), nil
		case int:
			return int64(v), nil
		case int64:
			return v, nil
		case string:
			v = strings.TrimSpace(v)
			if v == "" {
				return nil, nil
			}
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, errNotInteger
			}
			return n, nil
		default:
			return nil, errNotInteger
		}
	}

	str, ok := raw.(string)
	if !ok {
		return nil, errNotString
	}
	str = strings.TrimSpace(str)
	if str == "" {
		return nil, nil
	}
	if f.Kind == KindEmail {
		str = strings.ToLower(str)
	}
	return str, nil
}
