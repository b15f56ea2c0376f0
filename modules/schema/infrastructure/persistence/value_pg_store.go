package persistence

import (
	"context"
	"sort"

	"github.com/mariselv/helping-hands/modules/schema/domain/ports"
	"github.com/mariselv/helping-hands/modules/schema/domain/types"
)

type ValuePGStore struct {
	pool pgBeginner
}

func NewValuePGStore(pool pgBeginner) ports.ValueStore {
	return &ValuePGStore{pool: pool}
}

func (s *ValuePGStore) GetValues(ctx context.Context, causeID string) ([]types.AttributeValue, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	rows, err := tx.Query(ctx, `
SELECT cause_id, category_id, field_id, value, stale, updated_at
FROM cause_attribute_values
WHERE cause_id = $1
ORDER BY field_id ASC
`, causeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]types.AttributeValue, 0)
	for rows.Next() {
		var row types.AttributeValue
		if err := rows.Scan(&row.CauseID, &row.CategoryID, &row.FieldID, &row.Value, &row.Stale, &row.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveValues reconciles the stored row set to exactly the supplied mapping
// inside one transaction: rows for cleared fields are deleted, supplied rows
// are upserted, and a concurrent reader sees the old set or the new set,
// never a mixture. Stale rows from earlier forced schema edits are left in
// place unless the same field is being re-supplied.
func (s *ValuePGStore) SaveValues(ctx context.Context, causeID string, categoryID string, stored map[string]string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	fieldIDs := make([]string, 0, len(stored))
	for fieldID := range stored {
		fieldIDs = append(fieldIDs, fieldID)
	}
	sort.Strings(fieldIDs)

	if _, err := tx.Exec(ctx, `
DELETE FROM cause_attribute_values
WHERE cause_id = $1 AND stale = false AND NOT (field_id = ANY($2))
`, causeID, fieldIDs); err != nil {
		return err
	}

	for _, fieldID := range fieldIDs {
		if _, err := tx.Exec(ctx, `
INSERT INTO cause_attribute_values (cause_id, category_id, field_id, value)
VALUES ($1, $2, $3, $4)
ON CONFLICT (cause_id, field_id)
DO UPDATE SET value = EXCLUDED.value, category_id = EXCLUDED.category_id, stale = false, updated_at = now()
`, causeID, categoryID, fieldID, stored[fieldID]); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *ValuePGStore) DeleteValues(ctx context.Context, causeID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	if _, err := tx.Exec(ctx, `DELETE FROM cause_attribute_values WHERE cause_id = $1`, causeID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
