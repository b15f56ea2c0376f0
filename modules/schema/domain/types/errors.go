package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCategoryNotFound     = errors.New("CATEGORY_NOT_FOUND")
	ErrCategoryNameConflict = errors.New("CATEGORY_NAME_CONFLICT")
	ErrCategoryInUse        = errors.New("CATEGORY_IN_USE")
	ErrFieldNotFound        = errors.New("FIELD_NOT_FOUND")
	ErrFieldNameConflict    = errors.New("FIELD_NAME_CONFLICT")
	ErrFieldOptionsRequired = errors.New("FIELD_OPTIONS_REQUIRED")
	ErrFieldInUse           = errors.New("FIELD_IN_USE")
	ErrFieldUnknown         = errors.New("FIELD_UNKNOWN")
	ErrFieldOrderIncomplete = errors.New("FIELD_ORDER_INCOMPLETE")
	ErrFieldRuleInvalid     = errors.New("FIELD_RULE_INVALID")
	ErrFieldTypeUnknown     = errors.New("FIELD_TYPE_UNKNOWN")
)

// Per-field validation error codes. These surface verbatim in API responses
// so form clients can attach messages to individual inputs.
const (
	FieldErrRequired      = "FIELD_REQUIRED"
	FieldErrTypeMismatch  = "FIELD_TYPE_MISMATCH"
	FieldErrOptionInvalid = "FIELD_OPTION_INVALID"
	FieldErrUnknown       = "FIELD_UNKNOWN"
	FieldErrDelimiter     = "FIELD_VALUE_DELIMITER"
	FieldErrRuleViolation = "FIELD_RULE_VIOLATION"
)

type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError carries every field-level problem found in a submission.
// Validation never stops at the first bad field: a form with a dozen inputs
// must not force the user through a one-error-per-submit loop.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, fe := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s:%s", fe.Field, fe.Code))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
