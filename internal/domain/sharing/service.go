package sharing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medsync/medsync/internal/domain/hospital"
	"github.com/medsync/medsync/internal/domain/inventory"
	"github.com/medsync/medsync/internal/platform/auth"
	"github.com/medsync/medsync/pkg/apperr"
	"github.com/medsync/medsync/pkg/calendar"
)

type HospitalLookup interface {
	GetHospital(ctx context.Context, id uuid.UUID) (*hospital.Hospital, error)
}

type ResourceLookup interface {
	GetResource(ctx context.Context, id uuid.UUID) (*inventory.Resource, error)
}

// CreateInput holds the fields a requester may set. Status, approval and
// snapshot fields are always derived server-side.
type CreateInput struct {
	RequestingHospitalID uuid.UUID      `json:"requesting_hospital_id"`
	ProvidingHospitalID  uuid.UUID      `json:"providing_hospital_id"`
	ResourceID           uuid.UUID      `json:"resource_id"`
	QuantityRequested    int            `json:"quantity_requested"`
	Urgency              Urgency        `json:"urgency"`
	Reason               string         `json:"reason"`
	RequestedDate        *calendar.Date `json:"requested_date"`
	RequiredByDate       *calendar.Date `json:"required_by_date"`
	ContactPerson        string         `json:"contact_person"`
	ContactPhone         string         `json:"contact_phone"`
}

type ApproveInput struct {
	// QuantityApproved defaults to the requested quantity when nil.
	QuantityApproved *int   `json:"quantity_approved"`
	ResponseNotes    string `json:"response_notes"`
}

type RejectInput struct {
	ResponseNotes string `json:"response_notes"`
}

type Service struct {
	repo      Repository
	hospitals HospitalLookup
	resources ResourceLookup
	logger    zerolog.Logger
	now       func() time.Time
}

func NewService(repo Repository, hospitals HospitalLookup, resources ResourceLookup) *Service {
	return &Service{
		repo:      repo,
		hospitals: hospitals,
		resources: resources,
		logger:    zerolog.Nop(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) SetLogger(l zerolog.Logger) {
	s.logger = l.With().Str("component", "sharing").Logger()
}

func validateCreate(in *CreateInput) error {
	in.Reason = strings.TrimSpace(in.Reason)
	in.ContactPerson = strings.TrimSpace(in.ContactPerson)
	in.ContactPhone = strings.TrimSpace(in.ContactPhone)

	if in.RequestingHospitalID == uuid.Nil {
		return apperr.Invalid("requesting_hospital_id is required")
	}
	if in.ProvidingHospitalID == uuid.Nil {
		return apperr.Invalid("providing_hospital_id is required")
	}
	if in.RequestingHospitalID == in.ProvidingHospitalID {
		return apperr.Invalid("a hospital cannot request resources from itself")
	}
	if in.ResourceID == uuid.Nil {
		return apperr.Invalid("resource_id is required")
	}
	if in.QuantityRequested <= 0 {
		return apperr.Invalid("quantity_requested must be a positive integer")
	}
	if in.Urgency == "" {
		in.Urgency = UrgencyMedium
	}
	if !in.Urgency.Valid() {
		return apperr.Invalid("invalid urgency: %s", in.Urgency)
	}
	if in.Reason == "" {
		return apperr.Invalid("reason is required")
	}
	if in.RequestedDate != nil && in.RequestedDate.IsZero() {
		in.RequestedDate = nil
	}
	if in.RequiredByDate != nil && in.RequiredByDate.IsZero() {
		in.RequiredByDate = nil
	}
	return nil
}

func (s *Service) lookupHospital(ctx context.Context, id uuid.UUID, role string) (*hospital.Hospital, error) {
	h, err := s.hospitals.GetHospital(ctx, id)
	if errors.Is(err, hospital.ErrNotFound) {
		return nil, apperr.Invalid("%s hospital %s does not exist", role, id)
	}
	return h, err
}

// CreateRequest validates in, snapshots hospital and resource names, and
// stores a new pending request. The resource is not reserved or decremented.
func (s *Service) CreateRequest(ctx context.Context, in CreateInput) (*ResourceRequest, error) {
	if err := validateCreate(&in); err != nil {
		return nil, err
	}

	requesting, err := s.lookupHospital(ctx, in.RequestingHospitalID, "requesting")
	if err != nil {
		return nil, err
	}
	providing, err := s.lookupHospital(ctx, in.ProvidingHospitalID, "providing")
	if err != nil {
		return nil, err
	}
	res, err := s.resources.GetResource(ctx, in.ResourceID)
	if errors.Is(err, inventory.ErrNotFound) {
		return nil, apperr.Invalid("resource %s does not exist", in.ResourceID)
	}
	if err != nil {
		return nil, err
	}
	if in.QuantityRequested > res.AvailableQuantity {
		return nil, apperr.Invalid("quantity_requested (%d) exceeds available quantity (%d) of %s",
			in.QuantityRequested, res.AvailableQuantity, res.ResourceName)
	}

	requested := calendar.New(s.now())
	if in.RequestedDate != nil {
		requested = *in.RequestedDate
	}
	if in.RequiredByDate != nil && in.RequiredByDate.Before(requested) {
		return nil, apperr.Invalid("required_by_date must not be before requested_date")
	}

	r := &ResourceRequest{
		RequestingHospitalID:   requesting.ID,
		RequestingHospitalName: requesting.Name,
		ProvidingHospitalID:    providing.ID,
		ProvidingHospitalName:  providing.Name,
		ResourceID:             res.ID,
		ResourceName:           res.ResourceName,
		ResourceType:           res.ResourceType,
		QuantityRequested:      in.QuantityRequested,
		Urgency:                in.Urgency,
		Status:                 StatusPending,
		Reason:                 in.Reason,
		RequestedDate:          requested,
		RequiredByDate:         in.RequiredByDate,
		ContactPerson:          in.ContactPerson,
		ContactPhone:           in.ContactPhone,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	r.derive()

	s.logger.Info().
		Str("resource_request_id", r.ID.String()).
		Str("requesting_hospital_id", r.RequestingHospitalID.String()).
		Str("providing_hospital_id", r.ProvidingHospitalID.String()).
		Str("resource_id", r.ResourceID.String()).
		Int("quantity_requested", r.QuantityRequested).
		Str("urgency", string(r.Urgency)).
		Msg("resource request created")
	return r, nil
}

func (s *Service) GetRequest(ctx context.Context, id uuid.UUID) (*ResourceRequest, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.derive()
	return r, nil
}

// decide loads the request, applies mutate, and writes the result back.
// When mutate fails the store is not touched.
func (s *Service) decide(ctx context.Context, id uuid.UUID, ev Event, mutate func(*ResourceRequest) error) (*ResourceRequest, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := r.Status
	if err := mutate(r); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	r.derive()

	evt := s.logger.Info().
		Str("resource_request_id", r.ID.String()).
		Str("event", string(ev)).
		Str("from", string(from)).
		Str("to", string(r.Status))
	if r.QuantityApproved != nil {
		evt = evt.Int("quantity_approved", *r.QuantityApproved)
	}
	evt.Msg("resource request transitioned")
	return r, nil
}

// Approve moves a pending request to approved, granting between 1 and the
// requested quantity.
func (s *Service) Approve(ctx context.Context, id uuid.UUID, in ApproveInput) (*ResourceRequest, error) {
	if in.QuantityApproved != nil && *in.QuantityApproved < 1 {
		return nil, apperr.Invalid("quantity_approved must be at least 1")
	}
	notes := strings.TrimSpace(in.ResponseNotes)
	actor := auth.UserIDFromContext(ctx)
	return s.decide(ctx, id, EventApprove, func(r *ResourceRequest) error {
		return r.approve(in.QuantityApproved, notes, actor, s.now())
	})
}

// Reject moves a pending request to rejected. Notes explaining the decision
// are mandatory and checked before the request is read.
func (s *Service) Reject(ctx context.Context, id uuid.UUID, in RejectInput) (*ResourceRequest, error) {
	notes := strings.TrimSpace(in.ResponseNotes)
	if notes == "" {
		return nil, apperr.Invalid("response_notes is required to reject a request")
	}
	actor := auth.UserIDFromContext(ctx)
	return s.decide(ctx, id, EventReject, func(r *ResourceRequest) error {
		return r.reject(notes, actor, s.now())
	})
}

// Fulfill marks an approved request as fulfilled.
func (s *Service) Fulfill(ctx context.Context, id uuid.UUID) (*ResourceRequest, error) {
	return s.decide(ctx, id, EventFulfill, func(r *ResourceRequest) error {
		return r.fulfill(s.now())
	})
}

// ListRequests returns all requests ordered by sortKey, then narrowed by
// status. Order survives the filter.
func (s *Service) ListRequests(ctx context.Context, status, sortKey string) ([]*ResourceRequest, error) {
	sort, err := ParseSort(sortKey)
	if err != nil {
		return nil, err
	}
	filter, err := ParseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx, sort)
	if err != nil {
		return nil, err
	}
	out := FilterByStatus(items, filter)
	for _, r := range out {
		r.derive()
	}
	return out, nil
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return Summary{}, err
	}
	var sum Summary
	for st, n := range counts {
		sum.add(st, n)
	}
	return sum, nil
}
