package server

import (
	"context"
	"sort"
	"strings"

	causetypes "github.com/mariselv/helping-hands/modules/cause/domain/types"
	schematypes "github.com/mariselv/helping-hands/modules/schema/domain/types"
)

// In-memory stores with the same uniqueness, in-use and replace-of-set rules
// as the pg stores, so handler tests run the real service stack.
type fakeSchemaStore struct {
	categories map[string]schematypes.Category
	fields     map[string]schematypes.FieldDefinition
	valueRefs  map[string]int
}

func newFakeSchemaStore() *fakeSchemaStore {
	return &fakeSchemaStore{
		categories: make(map[string]schematypes.Category),
		fields:     make(map[string]schematypes.FieldDefinition),
		valueRefs:  make(map[string]int),
	}
}

func (f *fakeSchemaStore) CreateCategory(_ context.Context, category schematypes.Category) (schematypes.Category, error) {
	for _, existing := range f.categories {
		if strings.EqualFold(existing.Name, category.Name) {
			return schematypes.Category{}, schematypes.ErrCategoryNameConflict
		}
	}
	f.categories[category.ID] = category
	return category, nil
}

func (f *fakeSchemaStore) GetCategory(_ context.Context, categoryID string) (schematypes.Category, error) {
	c, ok := f.categories[categoryID]
	if !ok {
		return schematypes.Category{}, schematypes.ErrCategoryNotFound
	}
	return c, nil
}

func (f *fakeSchemaStore) ListCategories(context.Context) ([]schematypes.Category, error) {
	out := make([]schematypes.Category, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeSchemaStore) UpdateCategory(_ context.Context, categoryID string, patch schematypes.CategoryPatch) (schematypes.Category, error) {
	c, ok := f.categories[categoryID]
	if !ok {
		return schematypes.Category{}, schematypes.ErrCategoryNotFound
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.Icon != nil {
		c.Icon = *patch.Icon
	}
	f.categories[categoryID] = c
	return c, nil
}

func (f *fakeSchemaStore) DeleteCategory(_ context.Context, categoryID string, cascade bool) error {
	if _, ok := f.categories[categoryID]; !ok {
		return schematypes.ErrCategoryNotFound
	}
	for id, def := range f.fields {
		if def.CategoryID != categoryID {
			continue
		}
		if !cascade {
			return schematypes.ErrCategoryInUse
		}
		delete(f.fields, id)
	}
	delete(f.categories, categoryID)
	return nil
}

func (f *fakeSchemaStore) ListFields(_ context.Context, categoryID string) ([]schematypes.FieldDefinition, error) {
	if _, ok := f.categories[categoryID]; !ok {
		return nil, schematypes.ErrCategoryNotFound
	}
	out := make([]schematypes.FieldDefinition, 0)
	for _, def := range f.fields {
		if def.CategoryID == categoryID {
			out = append(out, def)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeSchemaStore) GetField(_ context.Context, fieldID string) (schematypes.FieldDefinition, error) {
	def, ok := f.fields[fieldID]
	if !ok {
		return schematypes.FieldDefinition{}, schematypes.ErrFieldNotFound
	}
	return def, nil
}

func (f *fakeSchemaStore) AddField(_ context.Context, def schematypes.FieldDefinition) (schematypes.FieldDefinition, error) {
	if _, ok := f.categories[def.CategoryID]; !ok {
		return schematypes.FieldDefinition{}, schematypes.ErrCategoryNotFound
	}
	maxOrder := -1
	for _, existing := range f.fields {
		if existing.CategoryID != def.CategoryID {
			continue
		}
		if existing.Name == def.Name {
			return schematypes.FieldDefinition{}, schematypes.ErrFieldNameConflict
		}
		if existing.DisplayOrder > maxOrder {
			maxOrder = existing.DisplayOrder
		}
	}
	def.DisplayOrder = maxOrder + 1
	f.fields[def.ID] = def
	return def, nil
}

func (f *fakeSchemaStore) UpdateField(_ context.Context, fieldID string, patch schematypes.FieldPatch, force bool) (schematypes.FieldDefinition, error) {
	def, ok := f.fields[fieldID]
	if !ok {
		return schematypes.FieldDefinition{}, schematypes.ErrFieldNotFound
	}
	if patch.Type != nil && *patch.Type != def.Type && f.valueRefs[fieldID] > 0 && !force {
		return schematypes.FieldDefinition{}, schematypes.ErrFieldInUse
	}
	if patch.Name != nil {
		def.Name = *patch.Name
	}
	if patch.Type != nil {
		def.Type = *patch.Type
	}
	if patch.Required != nil {
		def.Required = *patch.Required
	}
	if patch.Options != nil {
		def.Options = *patch.Options
	}
	if patch.Placeholder != nil {
		def.Placeholder = *patch.Placeholder
	}
	if patch.Rule != nil {
		def.Rule = *patch.Rule
	}
	f.fields[fieldID] = def
	return def, nil
}

func (f *fakeSchemaStore) DeleteField(_ context.Context, fieldID string, force bool) error {
	if _, ok := f.fields[fieldID]; !ok {
		return schematypes.ErrFieldNotFound
	}
	if f.valueRefs[fieldID] > 0 && !force {
		return schematypes.ErrFieldInUse
	}
	delete(f.fields, fieldID)
	return nil
}

func (f *fakeSchemaStore) ReorderFields(_ context.Context, categoryID string, orderedFieldIDs []string) error {
	current := make(map[string]struct{})
	for id, def := range f.fields {
		if def.CategoryID == categoryID {
			current[id] = struct{}{}
		}
	}
	for _, id := range orderedFieldIDs {
		if _, ok := current[id]; !ok {
			return schematypes.ErrFieldUnknown
		}
	}
	if len(orderedFieldIDs) != len(current) {
		return schematypes.ErrFieldOrderIncomplete
	}
	for i, id := range orderedFieldIDs {
		def := f.fields[id]
		def.DisplayOrder = i
		f.fields[id] = def
	}
	return nil
}

type fakeValueStore struct {
	rows map[string][]schematypes.AttributeValue
}

func newFakeValueStore() *fakeValueStore {
	return &fakeValueStore{rows: make(map[string][]schematypes.AttributeValue)}
}

func (f *fakeValueStore) GetValues(_ context.Context, causeID string) ([]schematypes.AttributeValue, error) {
	out := make([]schematypes.AttributeValue, len(f.rows[causeID]))
	copy(out, f.rows[causeID])
	return out, nil
}

func (f *fakeValueStore) SaveValues(_ context.Context, causeID string, categoryID string, stored map[string]string) error {
	kept := make([]schematypes.AttributeValue, 0, len(stored))
	for _, row := range f.rows[causeID] {
		if _, ok := stored[row.FieldID]; ok {
			continue
		}
		if row.Stale {
			kept = append(kept, row)
		}
	}
	for fieldID, value := range stored {
		kept = append(kept, schematypes.AttributeValue{
			CauseID:    causeID,
			CategoryID: categoryID,
			FieldID:    fieldID,
			Value:      value,
		})
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].FieldID < kept[j].FieldID })
	f.rows[causeID] = kept
	return nil
}

func (f *fakeValueStore) DeleteValues(_ context.Context, causeID string) error {
	delete(f.rows, causeID)
	return nil
}

type fakeCauseStore struct {
	causes map[string]causetypes.Cause
}

func newFakeCauseStore() *fakeCauseStore {
	return &fakeCauseStore{causes: make(map[string]causetypes.Cause)}
}

func (f *fakeCauseStore) CreateCause(_ context.Context, cause causetypes.Cause) (causetypes.Cause, error) {
	f.causes[cause.ID] = cause
	return cause, nil
}

func (f *fakeCauseStore) GetCause(_ context.Context, causeID string) (causetypes.Cause, error) {
	cause, ok := f.causes[causeID]
	if !ok {
		return causetypes.Cause{}, causetypes.ErrCauseNotFound
	}
	return cause, nil
}

func (f *fakeCauseStore) ListCauses(_ context.Context, categoryID string) ([]causetypes.Cause, error) {
	out := make([]causetypes.Cause, 0)
	for _, cause := range f.causes {
		if categoryID == "" || cause.CategoryID == categoryID {
			out = append(out, cause)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCauseStore) UpdateCause(_ context.Context, causeID string, patch causetypes.CausePatch) (causetypes.Cause, error) {
	cause, ok := f.causes[causeID]
	if !ok {
		return causetypes.Cause{}, causetypes.ErrCauseNotFound
	}
	if patch.Title != nil {
		cause.Title = *patch.Title
	}
	if patch.Summary != nil {
		cause.Summary = *patch.Summary
	}
	if patch.Status != nil {
		cause.Status = *patch.Status
	}
	f.causes[causeID] = cause
	return cause, nil
}

func (f *fakeCauseStore) DeleteCause(_ context.Context, causeID string) error {
	if _, ok := f.causes[causeID]; !ok {
		return causetypes.ErrCauseNotFound
	}
	delete(f.causes, causeID)
	return nil
}
