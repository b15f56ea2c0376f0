package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mariselv/helping-hands/modules/schema/domain/ports"
	"github.com/mariselv/helping-hands/modules/schema/domain/types"
)

type SchemaPGStore struct {
	pool pgBeginner
}

func NewSchemaPGStore(pool pgBeginner) ports.SchemaStore {
	return &SchemaPGStore{pool: pool}
}

func (s *SchemaPGStore) CreateCategory(ctx context.Context, category types.Category) (types.Category, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return types.Category{}, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	var exists bool
	if err := tx.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM categories WHERE lower(name) = lower($1))
`, category.Name).Scan(&exists); err != nil {
		return types.Category{}, err
	}
	if exists {
		return types.Category{}, types.ErrCategoryNameConflict
	}

	var created types.Category
	if err := tx.QueryRow(ctx, `
INSERT INTO categories (id, name, description, icon)
VALUES ($1, $2, $3, $4)
RETURNING id, name, description, icon, created_at, updated_at
`, category.ID, category.Name, category.Description, category.Icon).Scan(
		&created.ID, &created.Name, &created.Description, &created.Icon, &created.CreatedAt, &created.UpdatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return types.Category{}, types.ErrCategoryNameConflict
		}
		return types.Category{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return types.Category{}, err
	}
	return created, nil
}

func (s *SchemaPGStore) GetCategory(ctx context.Context, categoryID string) (types.Category, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return types.Category{}, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	category, err := getCategoryTx(ctx, tx, categoryID)
	if err != nil {
		return types.Category{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return types.Category{}, err
	}
	return category, nil
}

func getCategoryTx(ctx context.Context, tx pgx.Tx, categoryID string) (types.Category, error) {
	var category types.Category
	err := tx.QueryRow(ctx, `
SELECT id, name, description, icon, created_at, updated_at
FROM categories
WHERE id = $1
`, categoryID).Scan(&category.ID, &category.Name, &category.Description, &category.Icon, &category.CreatedAt, &category.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Category{}, types.ErrCategoryNotFound
	}
	if err != nil {
		return types.Category{}, err
	}
	return category, nil
}

func (s *SchemaPGStore) ListCategories(ctx context.Context) ([]types.Category, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	rows, err := tx.Query(ctx, `
SELECT id, name, description, icon, created_at, updated_at
FROM categories
ORDER BY lower(name) ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]types.Category, 0)
	for rows.Next() {
		var category types.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Description, &category.Icon, &category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, category)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SchemaPGStore) UpdateCategory(ctx context.Context, categoryID string, patch types.CategoryPatch) (types.Category, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return types.Category{}, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	current, err := getCategoryTx(ctx, tx, categoryID)
	if err != nil {
		return types.Category{}, err
	}

	if patch.Name != nil && *patch.Name != current.Name {
		var exists bool
		if err := tx.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM categories WHERE lower(name) = lower($1) AND id <> $2)
`, *patch.Name, categoryID).Scan(&exists); err != nil {
			return types.Category{}, err
		}
		if exists {
			return types.Category{}, types.ErrCategoryNameConflict
		}
		current.Name = *patch.Name
	}
	if patch.Description != nil {
		current.Description = *patch.Description
	}
	if patch.Icon != nil {
		current.Icon = *patch.Icon
	}

	var updated types.Category
	if err := tx.QueryRow(ctx, `
UPDATE categories
SET name = $2, description = $3, icon = $4, updated_at = now()
WHERE id = $1
RETURNING id, name, description, icon, created_at, updated_at
`, categoryID, current.Name, current.Description, current.Icon).Scan(
		&updated.ID, &updated.Name, &updated.Description, &updated.Icon, &updated.CreatedAt, &updated.UpdatedAt,
	); err != nil {
		return types.Category{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return types.Category{}, err
	}
	return updated, nil
}

// DeleteCategory refuses while any field definition or cause attribute row
// still references the category. With cascade it removes the dependent field
// definitions and value rows in the same transaction; cause records keep
// their (now dangling) category reference, which stays a soft one by design.
func (s *SchemaPGStore) DeleteCategory(ctx context.Context, categoryID string, cascade bool) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	if _, err := getCategoryTx(ctx, tx, categoryID); err != nil {
		return err
	}

	var fieldCount, valueCount int
	if err := tx.QueryRow(ctx, `
SELECT
  (SELECT count(*) FROM field_definitions WHERE category_id = $1),
  (SELECT count(*) FROM cause_attribute_values WHERE category_id = $1)
`, categoryID).Scan(&fieldCount, &valueCount); err != nil {
		return err
	}
	if (fieldCount > 0 || valueCount > 0) && !cascade {
		return types.ErrCategoryInUse
	}

	if cascade {
		if _, err := tx.Exec(ctx, `DELETE FROM cause_attribute_values WHERE category_id = $1`, categoryID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM field_definitions WHERE category_id = $1`, categoryID); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1`, categoryID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *SchemaPGStore) ListFields(ctx context.Context, categoryID string) ([]types.FieldDefinition, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	if _, err := getCategoryTx(ctx, tx, categoryID); err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT id, category_id, name, field_type, required, options, placeholder, rule, display_order, created_at, updated_at
FROM field_definitions
WHERE category_id = $1
ORDER BY display_order ASC, id ASC
`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]types.FieldDefinition, 0)
	for rows.Next() {
		def, scanErr := scanFieldDefinition(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, def)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SchemaPGStore) GetField(ctx context.Context, fieldID string) (types.FieldDefinition, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return types.FieldDefinition{}, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	def, err := getFieldTx(ctx, tx, fieldID)
	if err != nil {
		return types.FieldDefinition{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return types.FieldDefinition{}, err
	}
	return def, nil
}

func getFieldTx(ctx context.Context, tx pgx.Tx, fieldID string) (types.FieldDefinition, error) {
	row := tx.QueryRow(ctx, `
SELECT id, category_id, name, field_type, required, options, placeholder, rule, display_order, created_at, updated_at
FROM field_definitions
WHERE id = $1
`, fieldID)
	def, err := scanFieldDefinition(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.FieldDefinition{}, types.ErrFieldNotFound
	}
	if err != nil {
		return types.FieldDefinition{}, err
	}
	return def, nil
}

func (s *SchemaPGStore) AddField(ctx context.Context, def types.FieldDefinition) (types.FieldDefinition, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return types.FieldDefinition{}, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	if _, err := getCategoryTx(ctx, tx, def.CategoryID); err != nil {
		return types.FieldDefinition{}, err
	}

	var exists bool
	if err := tx.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM field_definitions WHERE category_id = $1 AND name = $2)
`, def.CategoryID, def.Name).Scan(&exists); err != nil {
		return types.FieldDefinition{}, err
	}
	if exists {
		return types.FieldDefinition{}, types.ErrFieldNameConflict
	}

	options := def.Options
	if options == nil {
		options = []string{}
	}

	// New fields append after the current tail of the form.
	row := tx.QueryRow(ctx, `
INSERT INTO field_definitions (id, category_id, name, field_type, required, options, placeholder, rule, display_order)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
        (SELECT COALESCE(MAX(display_order), -1) + 1 FROM field_definitions WHERE category_id = $2))
RETURNING id, category_id, name, field_type, required, options, placeholder, rule, display_order, created_at, updated_at
`, def.ID, def.CategoryID, def.Name, def.Type, def.Required, options, def.Placeholder, def.Rule)
	created, err := scanFieldDefinition(row)
	if err != nil {
		if isUniqueViolation(err) {
			return types.FieldDefinition{}, types.ErrFieldNameConflict
		}
		return types.FieldDefinition{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return types.FieldDefinition{}, err
	}
	return created, nil
}

// UpdateField treats a type change on a field with live value rows as a
// breaking change: it refuses unless forced, and a forced retype stale-marks
// every existing row instead of attempting any coercion.
func (s *SchemaPGStore) UpdateField(ctx context.Context, fieldID string, patch types.FieldPatch, force bool) (types.FieldDefinition, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return types.FieldDefinition{}, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	current, err := getFieldTx(ctx, tx, fieldID)
	if err != nil {
		return types.FieldDefinition{}, err
	}

	if patch.Name != nil && *patch.Name != current.Name {
		var exists bool
		if err := tx.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM field_definitions WHERE category_id = $1 AND name = $2 AND id <> $3)
`, current.CategoryID, *patch.Name, fieldID).Scan(&exists); err != nil {
			return types.FieldDefinition{}, err
		}
		if exists {
			return types.FieldDefinition{}, types.ErrFieldNameConflict
		}
		current.Name = *patch.Name
	}

	retyped := patch.Type != nil && *patch.Type != current.Type
	if retyped {
		liveRows, err := countLiveValueRowsTx(ctx, tx, fieldID)
		if err != nil {
			return types.FieldDefinition{}, err
		}
		if liveRows > 0 {
			if !force {
				return types.FieldDefinition{}, types.ErrFieldInUse
			}
			if _, err := tx.Exec(ctx, `
UPDATE cause_attribute_values SET stale = true, updated_at = now() WHERE field_id = $1
`, fieldID); err != nil {
				return types.FieldDefinition{}, err
			}
		}
		current.Type = *patch.Type
	}

	if patch.Required != nil {
		current.Required = *patch.Required
	}
	if patch.Options != nil {
		current.Options = *patch.Options
	}
	if patch.Placeholder != nil {
		current.Placeholder = *patch.Placeholder
	}
	if patch.Rule != nil {
		current.Rule = *patch.Rule
	}
	options := current.Options
	if options == nil {
		options = []string{}
	}

	row := tx.QueryRow(ctx, `
UPDATE field_definitions
SET name = $2, field_type = $3, required = $4, options = $5, placeholder = $6, rule = $7, updated_at = now()
WHERE id = $1
RETURNING id, category_id, name, field_type, required, options, placeholder, rule, display_order, created_at, updated_at
`, fieldID, current.Name, current.Type, current.Required, options, current.Placeholder, current.Rule)
	updated, err := scanFieldDefinition(row)
	if err != nil {
		return types.FieldDefinition{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return types.FieldDefinition{}, err
	}
	return updated, nil
}

// DeleteField refuses while live value rows reference the field unless
// forced; a forced delete stale-marks those rows so history survives the
// schema edit, then removes the definition.
func (s *SchemaPGStore) DeleteField(ctx context.Context, fieldID string, force bool) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	if _, err := getFieldTx(ctx, tx, fieldID); err != nil {
		return err
	}

	liveRows, err := countLiveValueRowsTx(ctx, tx, fieldID)
	if err != nil {
		return err
	}
	if liveRows > 0 {
		if !force {
			return types.ErrFieldInUse
		}
		if _, err := tx.Exec(ctx, `
UPDATE cause_attribute_values SET stale = true, updated_at = now() WHERE field_id = $1
`, fieldID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM field_definitions WHERE id = $1`, fieldID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *SchemaPGStore) ReorderFields(ctx context.Context, categoryID string, orderedFieldIDs []string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	if _, err := getCategoryTx(ctx, tx, categoryID); err != nil {
		return err
	}

	rows, err := tx.Query(ctx, `
SELECT id FROM field_definitions WHERE category_id = $1 FOR UPDATE
`, categoryID)
	if err != nil {
		return err
	}
	current := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		current[id] = struct{}{}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
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
		if _, err := tx.Exec(ctx, `
UPDATE field_definitions SET display_order = $2, updated_at = now() WHERE id = $1
`, id, i); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func countLiveValueRowsTx(ctx context.Context, tx pgx.Tx, fieldID string) (int, error) {
	var n int
	err := tx.QueryRow(ctx, `
SELECT count(*) FROM cause_attribute_values WHERE field_id = $1 AND stale = false
`, fieldID).Scan(&n)
	return n, err
}

func scanFieldDefinition(row pgx.Row) (types.FieldDefinition, error) {
	var def types.FieldDefinition
	var options []string
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&def.ID, &def.CategoryID, &def.Name, &def.Type, &def.Required,
		&options, &def.Placeholder, &def.Rule, &def.DisplayOrder,
		&createdAt, &updatedAt,
	); err != nil {
		return types.FieldDefinition{}, err
	}
	def.Options = options
	def.CreatedAt = createdAt
	def.UpdatedAt = updatedAt
	return def, nil
}
