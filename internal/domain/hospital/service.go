package hospital

import (
	"context"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medsync/medsync/pkg/apperr"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, logger: zerolog.Nop()}
}

func (s *Service) SetLogger(l zerolog.Logger) {
	s.logger = l.With().Str("component", "hospital").Logger()
}

func validate(h *Hospital) error {
	h.Name = strings.TrimSpace(h.Name)
	h.City = strings.TrimSpace(h.City)
	if h.Name == "" {
		return apperr.Invalid("name is required")
	}
	if h.City == "" {
		return apperr.Invalid("city is required")
	}
	if h.TotalBeds < 0 || h.AvailableBeds < 0 || h.ICUBedsTotal < 0 || h.ICUBedsAvailable < 0 {
		return apperr.Invalid("bed counts must not be negative")
	}
	if h.AvailableBeds > h.TotalBeds {
		return apperr.Invalid("available_beds (%d) exceeds total_beds (%d)", h.AvailableBeds, h.TotalBeds)
	}
	if h.ICUBedsAvailable > h.ICUBedsTotal {
		return apperr.Invalid("icu_beds_available (%d) exceeds icu_beds_total (%d)", h.ICUBedsAvailable, h.ICUBedsTotal)
	}
	if h.Rating < 0 || h.Rating > 5 {
		return apperr.Invalid("rating must be between 0 and 5")
	}
	if h.ContactEmail != nil && *h.ContactEmail != "" {
		if _, err := mail.ParseAddress(*h.ContactEmail); err != nil {
			return apperr.Invalid("invalid contact_email: %s", *h.ContactEmail)
		}
	}
	if h.Specialties == nil {
		h.Specialties = []string{}
	}
	if h.Status == "" {
		h.Status = StatusActive
	}
	if !h.Status.Valid() {
		return apperr.Invalid("invalid status: %s", h.Status)
	}
	return nil
}

func (s *Service) CreateHospital(ctx context.Context, h *Hospital) error {
	if err := validate(h); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, h); err != nil {
		return err
	}
	h.derive()
	s.logger.Info().Str("hospital_id", h.ID.String()).Str("name", h.Name).Msg("hospital created")
	return nil
}

func (s *Service) GetHospital(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	h.derive()
	return h, nil
}

func (s *Service) UpdateHospital(ctx context.Context, h *Hospital) error {
	if err := validate(h); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, h); err != nil {
		return err
	}
	h.derive()
	return nil
}

func (s *Service) SearchHospitals(ctx context.Context, params map[string]string, limit, offset int) ([]*Hospital, int, error) {
	if st, ok := params["status"]; ok && !Status(st).Valid() {
		return nil, 0, apperr.Invalid("invalid status filter: %s", st)
	}
	items, total, err := s.repo.Search(ctx, params, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for _, h := range items {
		h.derive()
	}
	return items, total, nil
}
