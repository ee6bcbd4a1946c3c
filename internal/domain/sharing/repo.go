package sharing

import (
	"context"

	"github.com/google/uuid"

	"github.com/medsync/medsync/pkg/apperr"
)

var ErrNotFound = apperr.New(apperr.CodeNotFound, "resource request not found")

type Repository interface {
	Create(ctx context.Context, r *ResourceRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*ResourceRequest, error)
	// Update persists the decision fields of r unconditionally. The last
	// writer wins; no version is compared.
	Update(ctx context.Context, r *ResourceRequest) error
	// List returns every request ordered by s.
	List(ctx context.Context, s Sort) ([]*ResourceRequest, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
}
