package services

import (
	"context"
	"strings"

	"github.com/mariselv/helping-hands/modules/schema/domain/fieldtype"
	"github.com/mariselv/helping-hands/modules/schema/domain/ports"
	"github.com/mariselv/helping-hands/modules/schema/domain/types"
)

// CoercedSubmission is the successful output of validation: the same values
// keyed by field id, once in typed canonical form and once in the flat form
// the value store persists.
type CoercedSubmission struct {
	Canonical map[string]any
	Stored    map[string]string
}

type ValidationService interface {
	// ValidateAndCoerce checks a raw submission (field name -> raw client
	// value) against the category's current field list. Errors accumulate
	// across all fields; a canonical mapping is returned only when the error
	// list is empty.
	ValidateAndCoerce(ctx context.Context, categoryID string, raw map[string]any) (CoercedSubmission, error)
}

type validationService struct {
	store ports.SchemaStore
}

func NewValidationService(store ports.SchemaStore) ValidationService {
	return &validationService{store: store}
}

func (s *validationService) ValidateAndCoerce(ctx context.Context, categoryID string, raw map[string]any) (CoercedSubmission, error) {
	if _, err := s.store.GetCategory(ctx, categoryID); err != nil {
		return CoercedSubmission{}, err
	}
	fields, err := s.store.ListFields(ctx, categoryID)
	if err != nil {
		return CoercedSubmission{}, err
	}
	return coerceSubmission(fields, raw)
}

func coerceSubmission(fields []types.FieldDefinition, raw map[string]any) (CoercedSubmission, error) {
	var fieldErrs []types.FieldError
	canonical := make(map[string]any)
	stored := make(map[string]string)

	known := make(map[string]struct{}, len(fields))
	for _, def := range fields {
		known[def.Name] = struct{}{}
	}
	for name := range raw {
		if _, ok := known[name]; !ok {
			fieldErrs = append(fieldErrs, types.FieldError{
				Field:   name,
				Code:    types.FieldErrUnknown,
				Message: "field is not part of the category schema",
			})
		}
	}

	for _, def := range fields {
		value, supplied := raw[def.Name]
		if !supplied || isEmptyRaw(def, value) {
			if def.Required {
				fieldErrs = append(fieldErrs, types.FieldError{
					Field:   def.Name,
					Code:    types.FieldErrRequired,
					Message: "value is required",
				})
			}
			// Optional fields may be omitted or cleared.
			continue
		}

		canonicalValue, fieldErr := fieldtype.Validate(def, value)
		if fieldErr != nil {
			fieldErrs = append(fieldErrs, *fieldErr)
			continue
		}

		if def.Rule != "" {
			kind, _ := fieldtype.Parse(def.Type)
			ok, ruleErr := fieldtype.EvalRule(kind, def.Rule, canonicalValue)
			if ruleErr != nil || !ok {
				fieldErrs = append(fieldErrs, types.FieldError{
					Field:   def.Name,
					Code:    types.FieldErrRuleViolation,
					Message: "value does not satisfy the field constraint",
				})
				continue
			}
		}

		kind, _ := fieldtype.Parse(def.Type)
		flat, encErr := fieldtype.Encode(kind, canonicalValue)
		if encErr != nil {
			return CoercedSubmission{}, encErr
		}
		canonical[def.ID] = canonicalValue
		stored[def.ID] = flat
	}

	if len(fieldErrs) > 0 {
		return CoercedSubmission{}, &types.ValidationError{Fields: fieldErrs}
	}
	return CoercedSubmission{Canonical: canonical, Stored: stored}, nil
}

// isEmptyRaw reports whether a supplied value counts as "not provided":
// blank post-trim for scalar kinds, empty sequence for multi-value kinds.
func isEmptyRaw(def types.FieldDefinition, raw any) bool {
	if raw == nil {
		return true
	}
	kind, ok := fieldtype.Parse(def.Type)
	if ok && fieldtype.IsMultiValue(kind) {
		switch v := raw.(type) {
		case []string:
			return len(v) == 0
		case []any:
			return len(v) == 0
		}
		return false
	}
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
