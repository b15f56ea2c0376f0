package types

import "time"

// FieldDefinition describes one admin-defined attribute a cause of the owning
// category must or may collect. Name is the machine key, unique within the
// category; DisplayOrder drives form layout (ties broken by id).
type FieldDefinition struct {
	ID           string    `json:"id"`
	CategoryID   string    `json:"category_id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Required     bool      `json:"required"`
	Options      []string  `json:"options,omitempty"`
	Placeholder  string    `json:"placeholder,omitempty"`
	Rule         string    `json:"rule,omitempty"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type FieldPatch struct {
	Name        *string
	Type        *string
	Required    *bool
	Options     *[]string
	Placeholder *string
	Rule        *string
}

// Schema is one category plus its ordered field list, the unit a client
// fetches to render a submission form.
type Schema struct {
	Category Category          `json:"category"`
	Fields   []FieldDefinition `json:"fields"`
}
