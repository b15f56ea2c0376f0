package services

import (
	"context"
	"sort"
	"strings"

	"github.com/mariselv/helping-hands/modules/schema/domain/types"
)

// fakeSchemaStore keeps categories and fields in memory with the same
// uniqueness and in-use rules the pg store enforces.
type fakeSchemaStore struct {
	categories map[string]types.Category
	fields     map[string]types.FieldDefinition
	valueRefs  map[string]int // field id -> stored row count
	reordered  [][]string
}

func newFakeSchemaStore() *fakeSchemaStore {
	return &fakeSchemaStore{
		categories: make(map[string]types.Category),
		fields:     make(map[string]types.FieldDefinition),
		valueRefs:  make(map[string]int),
	}
}

func (f *fakeSchemaStore) CreateCategory(_ context.Context, category types.Category) (types.Category, error) {
	for _, existing := range f.categories {
		if strings.EqualFold(existing.Name, category.Name) {
			return types.Category{}, types.ErrCategoryNameConflict
		}
	}
	f.categories[category.ID] = category
	return category, nil
}

func (f *fakeSchemaStore) GetCategory(_ context.Context, categoryID string) (types.Category, error) {
	c, ok := f.categories[categoryID]
	if !ok {
		return types.Category{}, types.ErrCategoryNotFound
	}
	return c, nil
}

func (f *fakeSchemaStore) ListCategories(context.Context) ([]types.Category, error) {
	out := make([]types.Category, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSchemaStore) UpdateCategory(_ context.Context, categoryID string, patch types.CategoryPatch) (types.Category, error) {
	c, ok := f.categories[categoryID]
	if !ok {
		return types.Category{}, types.ErrCategoryNotFound
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
		return types.ErrCategoryNotFound
	}
	for id, def := range f.fields {
		if def.CategoryID != categoryID {
			continue
		}
		if !cascade {
			return types.ErrCategoryInUse
		}
		delete(f.fields, id)
	}
	delete(f.categories, categoryID)
	return nil
}

func (f *fakeSchemaStore) ListFields(_ context.Context, categoryID string) ([]types.FieldDefinition, error) {
	if _, ok := f.categories[categoryID]; !ok {
		return nil, types.ErrCategoryNotFound
	}
	out := make([]types.FieldDefinition, 0)
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

func (f *fakeSchemaStore) GetField(_ context.Context, fieldID string) (types.FieldDefinition, error) {
	def, ok := f.fields[fieldID]
	if !ok {
		return types.FieldDefinition{}, types.ErrFieldNotFound
	}
	return def, nil
}

func (f *fakeSchemaStore) AddField(_ context.Context, def types.FieldDefinition) (types.FieldDefinition, error) {
	if _, ok := f.categories[def.CategoryID]; !ok {
		return types.FieldDefinition{}, types.ErrCategoryNotFound
	}
	maxOrder := -1
	for _, existing := range f.fields {
		if existing.CategoryID != def.CategoryID {
			continue
		}
		if existing.Name == def.Name {
			return types.FieldDefinition{}, types.ErrFieldNameConflict
		}
		if existing.DisplayOrder > maxOrder {
			maxOrder = existing.DisplayOrder
		}
	}
	def.DisplayOrder = maxOrder + 1
	f.fields[def.ID] = def
	return def, nil
}

func (f *fakeSchemaStore) UpdateField(_ context.Context, fieldID string, patch types.FieldPatch, force bool) (types.FieldDefinition, error) {
	def, ok := f.fields[fieldID]
	if !ok {
		return types.FieldDefinition{}, types.ErrFieldNotFound
	}
	if patch.Type != nil && *patch.Type != def.Type && f.valueRefs[fieldID] > 0 && !force {
		return types.FieldDefinition{}, types.ErrFieldInUse
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
		return types.ErrFieldNotFound
	}
	if f.valueRefs[fieldID] > 0 && !force {
		return types.ErrFieldInUse
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
			return types.ErrFieldUnknown
		}
	}
	if len(orderedFieldIDs) != len(current) {
		return types.ErrFieldOrderIncomplete
	}
	for i, id := range orderedFieldIDs {
		def := f.fields[id]
		def.DisplayOrder = i
		f.fields[id] = def
	}
	f.reordered = append(f.reordered, orderedFieldIDs)
	return nil
}

type fakeValueStore struct {
	rows map[string][]types.AttributeValue // cause id -> rows
}

func newFakeValueStore() *fakeValueStore {
	return &fakeValueStore{rows: make(map[string][]types.AttributeValue)}
}

func (f *fakeValueStore) GetValues(_ context.Context, causeID string) ([]types.AttributeValue, error) {
	out := make([]types.AttributeValue, len(f.rows[causeID]))
	copy(out, f.rows[causeID])
	return out, nil
}

func (f *fakeValueStore) SaveValues(_ context.Context, causeID string, categoryID string, stored map[string]string) error {
	kept := make([]types.AttributeValue, 0, len(stored))
	for _, row := range f.rows[causeID] {
		if _, ok := stored[row.FieldID]; ok {
			continue
		}
		if row.Stale {
			kept = append(kept, row)
		}
	}
	for fieldID, value := range stored {
		kept = append(kept, types.AttributeValue{
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

func (f *fakeValueStore) markStale(causeID string, fieldID string) {
	rows := f.rows[causeID]
	for i := range rows {
		if rows[i].FieldID == fieldID {
			rows[i].Stale = true
		}
	}
	f.rows[causeID] = rows
}
