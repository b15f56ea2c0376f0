package ports

import (
	"context"

	"github.com/mariselv/helping-hands/modules/schema/domain/types"
)

// SchemaStore owns Category and FieldDefinition persistence. Mutations that
// would orphan stored values (delete or retype a field with data, delete a
// category in use) refuse by default and only proceed when the caller forces
// them, in which case affected value rows are marked stale, never dropped.
type SchemaStore interface {
	CreateCategory(ctx context.Context, category types.Category) (types.Category, error)
	GetCategory(ctx context.Context, categoryID string) (types.Category, error)
	ListCategories(ctx context.Context) ([]types.Category, error)
	UpdateCategory(ctx context.Context, categoryID string, patch types.CategoryPatch) (types.Category, error)
	DeleteCategory(ctx context.Context, categoryID string, cascade bool) error

	ListFields(ctx context.Context, categoryID string) ([]types.FieldDefinition, error)
	GetField(ctx context.Context, fieldID string) (types.FieldDefinition, error)
	AddField(ctx context.Context, def types.FieldDefinition) (types.FieldDefinition, error)
	UpdateField(ctx context.Context, fieldID string, patch types.FieldPatch, force bool) (types.FieldDefinition, error)
	DeleteField(ctx context.Context, fieldID string, force bool) error

	ReorderFields(ctx context.Context, categoryID string, orderedFieldIDs []string) error
}
