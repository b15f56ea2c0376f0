package ports

import (
	"context"

	"github.com/mariselv/helping-hands/modules/cause/domain/types"
)

type CauseStore interface {
	CreateCause(ctx context.Context, cause types.Cause) (types.Cause, error)
	GetCause(ctx context.Context, causeID string) (types.Cause, error)
	// ListCauses returns causes newest first; categoryID narrows the listing
	// when non-empty.
	ListCauses(ctx context.Context, categoryID string) ([]types.Cause, error)
	UpdateCause(ctx context.Context, causeID string, patch types.CausePatch) (types.Cause, error)
	DeleteCause(ctx context.Context, causeID string) error
}
