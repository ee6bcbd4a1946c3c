package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/medsync/medsync/pkg/apperr"
)

var ErrNotFound = apperr.New(apperr.CodeNotFound, "resource not found")

type Repository interface {
	Create(ctx context.Context, r *Resource) error
	GetByID(ctx context.Context, id uuid.UUID) (*Resource, error)
	Update(ctx context.Context, r *Resource) error
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Resource, int, error)
	// ListByHospital returns every resource owned by hospitalID, unpaginated.
	ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*Resource, error)
	ListCritical(ctx context.Context) ([]*Resource, error)
}
