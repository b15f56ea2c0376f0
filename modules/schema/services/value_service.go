package services

import (
	"context"
	"sort"

	"github.com/mariselv/helping-hands/modules/schema/domain/fieldtype"
	"github.com/mariselv/helping-hands/modules/schema/domain/ports"
	"github.com/mariselv/helping-hands/modules/schema/domain/types"
)

type ValueService interface {
	// GetValues decodes every stored row for the cause. Rows whose field no
	// longer resolves to a live definition (or that were stale-marked by a
	// forced schema edit) come back with Stale set and the raw stored string
	// as their value; callers decide whether to display or discard them.
	GetValues(ctx context.Context, causeID string) ([]types.DecodedValue, error)

	// SaveValues persists a validated submission with replace-of-set
	// semantics: rows for field ids absent from the submission are removed.
	SaveValues(ctx context.Context, causeID string, categoryID string, sub CoercedSubmission) error

	// DeleteValues removes every stored row for the cause, stale rows
	// included.
	DeleteValues(ctx context.Context, causeID string) error
}

type valueService struct {
	values ports.ValueStore
	schema ports.SchemaStore
}

func NewValueService(values ports.ValueStore, schema ports.SchemaStore) ValueService {
	return &valueService{values: values, schema: schema}
}

func (s *valueService) GetValues(ctx context.Context, causeID string) ([]types.DecodedValue, error) {
	rows, err := s.values.GetValues(ctx, causeID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []types.DecodedValue{}, nil
	}

	defsByID := make(map[string]types.FieldDefinition)
	seenCategories := make(map[string]struct{})
	for _, row := range rows {
		if _, ok := seenCategories[row.CategoryID]; ok {
			continue
		}
		seenCategories[row.CategoryID] = struct{}{}
		fields, listErr := s.schema.ListFields(ctx, row.CategoryID)
		if listErr != nil {
			return nil, listErr
		}
		for _, def := range fields {
			defsByID[def.ID] = def
		}
	}

	out := make([]types.DecodedValue, 0, len(rows))
	for _, row := range rows {
		def, live := defsByID[row.FieldID]
		if !live || row.Stale {
			decoded := types.DecodedValue{FieldID: row.FieldID, Value: row.Value, Stale: true}
			if live {
				decoded.FieldName = def.Name
				decoded.FieldType = def.Type
			}
			out = append(out, decoded)
			continue
		}

		kind, ok := fieldtype.Parse(def.Type)
		if !ok {
			out = append(out, types.DecodedValue{FieldID: row.FieldID, FieldName: def.Name, Value: row.Value, Stale: true})
			continue
		}
		value, decErr := fieldtype.Decode(kind, row.Value)
		if decErr != nil {
			return nil, decErr
		}
		out = append(out, types.DecodedValue{
			FieldID:   row.FieldID,
			FieldName: def.Name,
			FieldType: def.Type,
			Value:     value,
		})
	}

	// Live values in form order, stale rows after them.
	orderByID := make(map[string]int, len(defsByID))
	for id, def := range defsByID {
		orderByID[id] = def.DisplayOrder
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Stale != out[j].Stale {
			return !out[i].Stale
		}
		oi, oki := orderByID[out[i].FieldID]
		oj, okj := orderByID[out[j].FieldID]
		if oki && okj && oi != oj {
			return oi < oj
		}
		return out[i].FieldID < out[j].FieldID
	})
	return out, nil
}

func (s *valueService) SaveValues(ctx context.Context, causeID string, categoryID string, sub CoercedSubmission) error {
	stored := sub.Stored
	if stored == nil {
		stored = map[string]string{}
	}
	return s.values.SaveValues(ctx, causeID, categoryID, stored)
}

func (s *valueService) DeleteValues(ctx context.Context, causeID string) error {
	return s.values.DeleteValues(ctx, causeID)
}
