package ports

import (
	"context"

	"github.com/mariselv/helping-hands/modules/schema/domain/types"
)

// ValueStore owns the cause attribute triple store. SaveValues has
// replace-of-set semantics and must be atomic: a concurrent reader never
// observes a partially replaced set.
type ValueStore interface {
	GetValues(ctx context.Context, causeID string) ([]types.AttributeValue, error)
	SaveValues(ctx context.Context, causeID string, categoryID string, stored map[string]string) error
	DeleteValues(ctx context.Context, causeID string) error
}
