package hospital

import (
	"context"

	"github.com/google/uuid"

	"github.com/medsync/medsync/pkg/apperr"
)

var ErrNotFound = apperr.New(apperr.CodeNotFound, "hospital not found")

type Repository interface {
	Create(ctx context.Context, h *Hospital) error
	GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error)
	Update(ctx context.Context, h *Hospital) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Hospital, int, error)
}
