package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medsync/medsync/internal/domain/hospital"
	"github.com/medsync/medsync/pkg/apperr"
)

// HospitalLookup resolves the owning hospital of a resource.
type HospitalLookup interface {
	GetHospital(ctx context.Context, id uuid.UUID) (*hospital.Hospital, error)
}

type Service struct {
	repo      Repository
	hospitals HospitalLookup
	logger    zerolog.Logger
}

func NewService(repo Repository, hospitals HospitalLookup) *Service {
	return &Service{repo: repo, hospitals: hospitals, logger: zerolog.Nop()}
}

func (s *Service) SetLogger(l zerolog.Logger) {
	s.logger = l.With().Str("component", "inventory").Logger()
}

func validate(r *Resource) error {
	r.ResourceName = strings.TrimSpace(r.ResourceName)
	if r.HospitalID == uuid.Nil {
		return apperr.Invalid("hospital_id is required")
	}
	if r.ResourceName == "" {
		return apperr.Invalid("resource_name is required")
	}
	if r.ResourceType == "" {
		return apperr.Invalid("resource_type is required")
	}
	if !r.ResourceType.Valid() {
		return apperr.Invalid("invalid resource_type: %s", r.ResourceType)
	}
	if r.TotalQuantity < 0 || r.AvailableQuantity < 0 {
		return apperr.Invalid("quantities must not be negative")
	}
	if r.AvailableQuantity > r.TotalQuantity {
		return apperr.Invalid("available_quantity (%d) exceeds total_quantity (%d)", r.AvailableQuantity, r.TotalQuantity)
	}
	if r.Status == "" {
		r.Status = StatusAvailable
	}
	if !r.Status.Valid() {
		return apperr.Invalid("invalid status: %s", r.Status)
	}
	return nil
}

// snapshotHospital copies the owning hospital's name onto r.
func (s *Service) snapshotHospital(ctx context.Context, r *Resource) error {
	h, err := s.hospitals.GetHospital(ctx, r.HospitalID)
	if errors.Is(err, hospital.ErrNotFound) {
		return apperr.Invalid("hospital %s does not exist", r.HospitalID)
	}
	if err != nil {
		return err
	}
	r.HospitalName = h.Name
	return nil
}

func (s *Service) CreateResource(ctx context.Context, r *Resource) error {
	if err := validate(r); err != nil {
		return err
	}
	if err := s.snapshotHospital(ctx, r); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return err
	}
	r.derive()
	s.logger.Info().
		Str("resource_id", r.ID.String()).
		Str("hospital_id", r.HospitalID.String()).
		Str("resource_type", string(r.ResourceType)).
		Msg("resource created")
	return nil
}

func (s *Service) GetResource(ctx context.Context, id uuid.UUID) (*Resource, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.derive()
	return r, nil
}

// UpdateResource overwrites the stored record. The hospital name snapshot is
// refreshed from the directory.
func (s *Service) UpdateResource(ctx context.Context, r *Resource) error {
	if err := validate(r); err != nil {
		return err
	}
	if err := s.snapshotHospital(ctx, r); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, r); err != nil {
		return err
	}
	r.derive()
	if r.Critical {
		s.logger.Warn().
			Str("resource_id", r.ID.String()).
			Int("available_quantity", r.AvailableQuantity).
			Int("total_quantity", r.TotalQuantity).
			Msg("resource at critical level")
	}
	return nil
}

func (s *Service) SearchResources(ctx context.Context, params map[string]string, limit, offset int) ([]*Resource, int, error) {
	if v, ok := params["type"]; ok && !Type(v).Valid() {
		return nil, 0, apperr.Invalid("invalid type filter: %s", v)
	}
	if v, ok := params["status"]; ok && !Status(v).Valid() {
		return nil, 0, apperr.Invalid("invalid status filter: %s", v)
	}
	if v, ok := params["hospital_id"]; ok {
		if _, err := uuid.Parse(v); err != nil {
			return nil, 0, apperr.Invalid("invalid hospital_id filter: %s", v)
		}
	}
	items, total, err := s.repo.Search(ctx, params, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for _, r := range items {
		r.derive()
	}
	return items, total, nil
}

// ListAlerts returns resources that are unavailable or below the critical
// availability ratio.
func (s *Service) ListAlerts(ctx context.Context) ([]*Resource, error) {
	items, err := s.repo.ListCritical(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range items {
		r.derive()
	}
	return items, nil
}

// EligibleResources lists what providingID can currently offer: resources it
// owns with available_quantity > 0 and status available. The result guides
// request composition and is not enforced when a request is created.
func (s *Service) EligibleResources(ctx context.Context, providingID uuid.UUID) ([]*Resource, error) {
	if _, err := s.hospitals.GetHospital(ctx, providingID); err != nil {
		return nil, err
	}
	all, err := s.repo.ListByHospital(ctx, providingID)
	if err != nil {
		return nil, err
	}
	out := make([]*Resource, 0, len(all))
	for _, r := range all {
		if r.Eligible() {
			r.derive()
			out = append(out, r)
		}
	}
	return out, nil
}
