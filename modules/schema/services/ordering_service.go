package services

import (
	"context"
	"strings"

	"github.com/mariselv/helping-hands/modules/schema/domain/ports"
	"github.com/mariselv/helping-hands/modules/schema/domain/types"
)

type OrderingService interface {
	// Reorder assigns display_order 0..N-1 in the supplied sequence. The
	// sequence must be a total order over the category's current fields:
	// unknown ids and partial lists are rejected so tie-breaks never become
	// ambiguous.
	Reorder(ctx context.Context, categoryID string, orderedFieldIDs []string) error
}

type orderingService struct {
	store ports.SchemaStore
}

func NewOrderingService(store ports.SchemaStore) OrderingService {
	return &orderingService{store: store}
}

func (s *orderingService) Reorder(ctx context.Context, categoryID string, orderedFieldIDs []string) error {
	if len(orderedFieldIDs) == 0 {
		return types.ErrFieldOrderIncomplete
	}

	seen := make(map[string]struct{}, len(orderedFieldIDs))
	ids := make([]string, 0, len(orderedFieldIDs))
	for _, id := range orderedFieldIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return types.ErrFieldUnknown
		}
		if _, dup := seen[id]; dup {
			// A duplicate means some other field was omitted.
			return types.ErrFieldOrderIncomplete
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return s.store.ReorderFields(ctx, strings.TrimSpace(categoryID), ids)
}
