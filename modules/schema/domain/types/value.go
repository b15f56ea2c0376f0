package types

import "time"

// AttributeValue is one stored row of the (cause, field, value) triple store.
// Value holds the canonical serialized form per the field's type. Stale rows
// reference a field definition that was force-deleted or force-retyped; they
// stay queryable for audit but are excluded from current-schema validation.
type AttributeValue struct {
	CauseID    string    `json:"cause_id"`
	CategoryID string    `json:"category_id"`
	FieldID    string    `json:"field_id"`
	Value      string    `json:"value"`
	Stale      bool      `json:"stale"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DecodedValue is an AttributeValue decoded back into its typed form.
// FieldName is empty when the defining field no longer exists.
type DecodedValue struct {
	FieldID   string `json:"field_id"`
	FieldName string `json:"field_name,omitempty"`
	FieldType string `json:"field_type,omitempty"`
	Value     any    `json:"value"`
	Stale     bool   `json:"stale"`
}
