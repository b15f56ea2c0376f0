package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/mariselv/helping-hands/modules/cause/domain/ports"
	"github.com/mariselv/helping-hands/modules/cause/domain/types"
)

type pgBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type CausePGStore struct {
	pool pgBeginner
}

func NewCausePGStore(pool pgBeginner) ports.CauseStore {
	return &CausePGStore{pool: pool}
}

func (s *CausePGStore) CreateCause(ctx context.Context, cause types.Cause) (types.Cause, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return types.Cause{}, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	var created types.Cause
	if err := tx.QueryRow(ctx, `
INSERT INTO causes (id, category_id, title, summary, creator, status)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, category_id, title, summary, creator, status, created_at, updated_at
`, cause.ID, cause.CategoryID, cause.Title, cause.Summary, cause.Creator, cause.Status).Scan(
		&created.ID, &created.CategoryID, &created.Title, &created.Summary,
		&created.Creator, &created.Status, &created.CreatedAt, &created.UpdatedAt,
	); err != nil {
		return types.Cause{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return types.Cause{}, err
	}
	return created, nil
}

func (s *CausePGStore) GetCause(ctx context.Context, causeID string) (types.Cause, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return types.Cause{}, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	cause, err := getCauseTx(ctx, tx, causeID)
	if err != nil {
		return types.Cause{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return types.Cause{}, err
	}
	return cause, nil
}

func getCauseTx(ctx context.Context, tx pgx.Tx, causeID string) (types.Cause, error) {
	var cause types.Cause
	err := tx.QueryRow(ctx, `
SELECT id, category_id, title, summary, creator, status, created_at, updated_at
FROM causes
WHERE id = $1
`, causeID).Scan(
		&cause.ID, &cause.CategoryID, &cause.Title, &cause.Summary,
		&cause.Creator, &cause.Status, &cause.CreatedAt, &cause.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Cause{}, types.ErrCauseNotFound
	}
	if err != nil {
		return types.Cause{}, err
	}
	return cause, nil
}

func (s *CausePGStore) ListCauses(ctx context.Context, categoryID string) ([]types.Cause, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	sql := `
SELECT id, category_id, title, summary, creator, status, created_at, updated_at
FROM causes
ORDER BY created_at DESC, id DESC
`
	args := []any{}
	if categoryID != "" {
		sql = `
SELECT id, category_id, title, summary, creator, status, created_at, updated_at
FROM causes
WHERE category_id = $1
ORDER BY created_at DESC, id DESC
`
		args = []any{categoryID}
	}

	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]types.Cause, 0)
	for rows.Next() {
		var cause types.Cause
		if err := rows.Scan(
			&cause.ID, &cause.CategoryID, &cause.Title, &cause.Summary,
			&cause.Creator, &cause.Status, &cause.CreatedAt, &cause.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, cause)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CausePGStore) UpdateCause(ctx context.Context, causeID string, patch types.CausePatch) (types.Cause, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return types.Cause{}, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	current, err := getCauseTx(ctx, tx, causeID)
	if err != nil {
		return types.Cause{}, err
	}
	if patch.Title != nil {
		current.Title = *patch.Title
	}
	if patch.Summary != nil {
		current.Summary = *patch.Summary
	}
	if patch.Status != nil {
		current.Status = *patch.Status
	}

	var updated types.Cause
	if err := tx.QueryRow(ctx, `
UPDATE causes
SET title = $2, summary = $3, status = $4, updated_at = now()
WHERE id = $1
RETURNING id, category_id, title, summary, creator, status, created_at, updated_at
`, causeID, current.Title, current.Summary, current.Status).Scan(
		&updated.ID, &updated.CategoryID, &updated.Title, &updated.Summary,
		&updated.Creator, &updated.Status, &updated.CreatedAt, &updated.UpdatedAt,
	); err != nil {
		return types.Cause{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return types.Cause{}, err
	}
	return updated, nil
}

func (s *CausePGStore) DeleteCause(ctx context.Context, causeID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	if _, err := getCauseTx(ctx, tx, causeID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM causes WHERE id = $1`, causeID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
