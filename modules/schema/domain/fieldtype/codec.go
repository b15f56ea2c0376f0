package fieldtype

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mariselv/helping-hands/modules/schema/domain/types"
)

var decimalRe = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)
var dateRe = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}$`)

// Validate coerces one supplied raw client value into its canonical form, or
// reports a single field-level error. Required-ness and empty-value skipping
// are the validation service's concern; raw here is a present, non-empty value.
//
// Canonical forms: string for text/textarea/number/date/select/file, bool for
// switch, []string for multiselect/tags. Numbers canonicalize to a plain
// decimal string so storage round-trips stay exact.
func Validate(def types.FieldDefinition, raw any) (any, *types.FieldError) {
	kind, ok := Parse(def.Type)
	if !ok {
		return nil, fieldErr(def.Name, types.FieldErrTypeMismatch, fmt.Sprintf("unknown field type %q", def.Type))
	}

	switch kind {
	case Text, Textarea, File:
		s, ok := rawString(raw)
		if !ok {
			return nil, fieldErr(def.Name, types.FieldErrTypeMismatch, "expected a string")
		}
		return s, nil

	case Number:
		s, ok := rawNumberString(raw)
		if !ok {
			return nil, fieldErr(def.Name, types.FieldErrTypeMismatch, "expected a decimal number")
		}
		canonical, ok := normalizeDecimal(s)
		if !ok {
			return nil, fieldErr(def.Name, types.FieldErrTypeMismatch, fmt.Sprintf("%q is not a decimal number", s))
		}
		return canonical, nil

	case Date:
		s, ok := rawString(raw)
		if !ok {
			return nil, fieldErr(def.Name, types.FieldErrTypeMismatch, "expected a date string")
		}
		s = strings.TrimSpace(s)
		if !dateRe.MatchString(s) {
			return nil, fieldErr(def.Name, types.FieldErrTypeMismatch, "expected YYYY-MM-DD")
		}
		if _, err := time.Parse(DateLayout, s); err != nil {
			return nil, fieldErr(def.Name, types.FieldErrTypeMismatch, fmt.Sprintf("%q is not a calendar date", s))
		}
		return s, nil

	case Select:
		s, ok := rawString(raw)
		if !ok {
			return nil, fieldErr(def.Name, types.FieldErrTypeMismatch, "expected a string")
		}
		if !containsOption(def.Options, s) {
			return nil, fieldErr(def.Name, types.FieldErrOptionInvalid, fmt.Sprintf("%q is not an allowed option", s))
		}
		return s, nil

	case MultiSelect, Tags:
		items, ok := rawStringSlice(raw)
		if !ok {
			return nil, fieldErr(def.Name, types.FieldErrTypeMismatch, "expected a list of strings")
		}
		for i, item := range items {
			item = strings.TrimSpace(item)
			if item == "" {
				return nil, fieldErr(def.Name, types.FieldErrTypeMismatch, "list elements must be non-empty")
			}
			if strings.Contains(item, Delimiter) {
				return nil, fieldErr(def.Name, types.FieldErrDelimiter, "value contains a reserved character")
			}
			if kind == MultiSelect && !containsOption(def.Options, item) {
				return nil, fieldErr(def.Name, types.FieldErrOptionInvalid, fmt.Sprintf("%q is not an allowed option", item))
			}
			items[i] = item
		}
		return items, nil

	case Switch:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return nil, fieldErr(def.Name, types.FieldErrTypeMismatch, "expected a boolean")
			}
			return b, nil
		default:
			return nil, fieldErr(def.Name, types.FieldErrTypeMismatch, "expected a boolean")
		}
	}

	return nil, fieldErr(def.Name, types.FieldErrTypeMismatch, fmt.Sprintf("unknown field type %q", def.Type))
}

// Encode serializes a canonical value to its flat storage form.
func Encode(kind Kind, canonical any) (string, error) {
	switch kind {
	case Text, Textarea, Number, Date, Select, File:
		s, ok := canonical.(string)
		if !ok {
			return "", fmt.Errorf("fieldtype: %s expects string canonical value, got %T", kind, canonical)
		}
		return s, nil
	case Switch:
		b, ok := canonical.(bool)
		if !ok {
			return "", fmt.Errorf("fieldtype: switch expects bool canonical value, got %T", canonical)
		}
		return strconv.FormatBool(b), nil
	case MultiSelect, Tags:
		items, ok := canonical.([]string)
		if !ok {
			return "", fmt.Errorf("fieldtype: %s expects []string canonical value, got %T", kind, canonical)
		}
		for _, item := range items {
			if strings.Contains(item, Delimiter) {
				return "", errors.New("fieldtype: element contains the reserved delimiter")
			}
		}
		return strings.Join(items, Delimiter), nil
	}
	return "", fmt.Errorf("fieldtype: unknown kind %q", kind)
}

// Decode reconstructs the canonical value from flat storage. Kinds with a
// constrained storage shape re-validate it to catch corruption.
func Decode(kind Kind, stored string) (any, error) {
	switch kind {
	case Text, Textarea, Select, File:
		return stored, nil
	case Number:
		if !decimalRe.MatchString(stored) {
			return nil, fmt.Errorf("fieldtype: stored number %q is corrupt", stored)
		}
		return stored, nil
	case Date:
		if !dateRe.MatchString(stored) {
			return nil, fmt.Errorf("fieldtype: stored date %q is corrupt", stored)
		}
		if _, err := time.Parse(DateLayout, stored); err != nil {
			return nil, fmt.Errorf("fieldtype: stored date %q is corrupt", stored)
		}
		return stored, nil
	case Switch:
		switch stored {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, fmt.Errorf("fieldtype: stored switch %q is corrupt", stored)
	case MultiSelect, Tags:
		if stored == "" {
			return []string{}, nil
		}
		return strings.Split(stored, Delimiter), nil
	}
	return nil, fmt.Errorf("fieldtype: unknown kind %q", kind)
}

func rawString(raw any) (string, bool) {
	s, ok := raw.(string)
	return s, ok
}

// JSON decoding hands numbers over as float64; forms hand them over as
// strings. Both are accepted; the canonical form is always the string.
func rawNumberString(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	default:
		return "", false
	}
}

func rawStringSlice(raw any) ([]string, bool) {
	switch v := raw.(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func containsOption(options []string, value string) bool {
	for _, opt := range options {
		if opt == value {
			return true
		}
	}
	return false
}

// normalizeDecimal strips a leading plus sign, redundant leading zeros and
// trailing fraction zeros so equal numbers share one canonical spelling.
func normalizeDecimal(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !decimalRe.MatchString(s) {
		return "", false
	}

	neg := false
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		neg = true
		s = s[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		intPart = "0"
	}
	if hasFrac {
		fracPart = strings.TrimRight(fracPart, "0")
	}

	out := intPart
	if fracPart != "" {
		out = intPart + "." + fracPart
	}
	if neg && out != "0" {
		out = "-" + out
	}
	return out, true
}

func fieldErr(field string, code string, msg string) *types.FieldError {
	return &types.FieldError{Field: field, Code: code, Message: msg}
}
