package sharing

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medsync/medsync/internal/domain/inventory"
	"github.com/medsync/medsync/pkg/apperr"
	"github.com/medsync/medsync/pkg/calendar"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusFulfilled Status = "fulfilled"
	// StatusCancelled is terminal. No operation produces it; it only appears
	// when a record is changed outside this service.
	StatusCancelled Status = "cancelled"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusApproved, StatusRejected, StatusFulfilled, StatusCancelled}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusFulfilled, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	switch s {
	case StatusRejected, StatusFulfilled, StatusCancelled:
		return true
	}
	return false
}

type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

// Tone is the presentation hint attached to a status or urgency badge.
type Tone string

const (
	ToneInfo    Tone = "info"
	ToneWarning Tone = "warning"
	ToneCaution Tone = "caution"
	ToneDanger  Tone = "danger"
	ToneSuccess Tone = "success"
	ToneNeutral Tone = "neutral"
)

func (s Status) Tone() Tone {
	switch s {
	case StatusPending:
		return ToneWarning
	case StatusApproved:
		return ToneSuccess
	case StatusRejected:
		return ToneDanger
	case StatusFulfilled, StatusCancelled:
		return ToneNeutral
	}
	panic(fmt.Sprintf("sharing: no tone for status %q", string(s)))
}

func (u Urgency) Tone() Tone {
	switch u {
	case UrgencyLow:
		return ToneInfo
	case UrgencyMedium:
		return ToneWarning
	case UrgencyHigh:
		return ToneCaution
	case UrgencyCritical:
		return ToneDanger
	}
	panic(fmt.Sprintf("sharing: no tone for urgency %q", string(u)))
}

// Event is an operation that moves a request between statuses.
type Event string

const (
	EventApprove Event = "approve"
	EventReject  Event = "reject"
	EventFulfill Event = "fulfill"
)

var transitions = map[Status]map[Event]Status{
	StatusPending: {
		EventApprove: StatusApproved,
		EventReject:  StatusRejected,
	},
	StatusApproved: {
		EventFulfill: StatusFulfilled,
	},
}

var ErrInvalidTransition = apperr.New(apperr.CodeConflict, "invalid status transition")

// Next returns the status reached by applying ev to from.
func Next(from Status, ev Event) (Status, error) {
	if to, ok := transitions[from][ev]; ok {
		return to, nil
	}
	return from, apperr.Wrap(ErrInvalidTransition, apperr.CodeConflict,
		fmt.Sprintf("cannot %s a request that is %s", ev, from))
}

// ResourceRequest maps to the resource_request table. Hospital and resource
// names and the resource type are copied at creation and never refreshed.
type ResourceRequest struct {
	ID                     uuid.UUID      `db:"id" json:"id"`
	RequestingHospitalID   uuid.UUID      `db:"requesting_hospital_id" json:"requesting_hospital_id"`
	RequestingHospitalName string         `db:"requesting_hospital_name" json:"requesting_hospital_name"`
	ProvidingHospitalID    uuid.UUID      `db:"providing_hospital_id" json:"providing_hospital_id"`
	ProvidingHospitalName  string         `db:"providing_hospital_name" json:"providing_hospital_name"`
	ResourceID             uuid.UUID      `db:"resource_id" json:"resource_id"`
	ResourceName           string         `db:"resource_name" json:"resource_name"`
	ResourceType           inventory.Type `db:"resource_type" json:"resource_type"`
	QuantityRequested      int            `db:"quantity_requested" json:"quantity_requested"`
	QuantityApproved       *int           `db:"quantity_approved" json:"quantity_approved,omitempty"`
	Urgency                Urgency        `db:"urgency" json:"urgency"`
	Status                 Status         `db:"status" json:"status"`
	Reason                 string         `db:"reason" json:"reason"`
	RequestedDate          calendar.Date  `db:"requested_date" json:"requested_date"`
	RequiredByDate         *calendar.Date `db:"required_by_date" json:"required_by_date,omitempty"`
	ContactPerson          string         `db:"contact_person" json:"contact_person,omitempty"`
	ContactPhone           string         `db:"contact_phone" json:"contact_phone,omitempty"`
	ResponseNotes          string         `db:"response_notes" json:"response_notes,omitempty"`
	RespondedBy            string         `db:"responded_by" json:"responded_by,omitempty"`
	RespondedAt            *time.Time     `db:"responded_at" json:"responded_at,omitempty"`
	FulfilledAt            *time.Time     `db:"fulfilled_at" json:"fulfilled_at,omitempty"`
	CreatedAt              time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time      `db:"updated_at" json:"updated_at"`

	StatusTone  Tone `db:"-" json:"status_tone,omitempty"`
	UrgencyTone Tone `db:"-" json:"urgency_tone,omitempty"`
}

// Clone returns a deep copy.
func (r *ResourceRequest) Clone() *ResourceRequest {
	c := *r
	if r.QuantityApproved != nil {
		q := *r.QuantityApproved
		c.QuantityApproved = &q
	}
	if r.RequiredByDate != nil {
		d := *r.RequiredByDate
		c.RequiredByDate = &d
	}
	if r.RespondedAt != nil {
		t := *r.RespondedAt
		c.RespondedAt = &t
	}
	if r.FulfilledAt != nil {
		t := *r.FulfilledAt
		c.FulfilledAt = &t
	}
	return &c
}

// derive fills the presentation fields. Records carrying a status or urgency
// outside the known sets keep empty tones.
func (r *ResourceRequest) derive() {
	r.StatusTone, r.UrgencyTone = "", ""
	if r.Status.Valid() {
		r.StatusTone = r.Status.Tone()
	}
	if r.Urgency.Valid() {
		r.UrgencyTone = r.Urgency.Tone()
	}
}

// approve applies the approve event. qty nil means the requested quantity.
// Nothing on r changes unless every check passes.
func (r *ResourceRequest) approve(qty *int, notes, actor string, at time.Time) error {
	to, err := Next(r.Status, EventApprove)
	if err != nil {
		return err
	}
	granted := r.QuantityRequested
	if qty != nil {
		granted = *qty
	}
	if granted < 1 {
		return apperr.Invalid("quantity_approved must be at least 1")
	}
	if granted > r.QuantityRequested {
		return apperr.Invalid("quantity_approved (%d) exceeds quantity_requested (%d)", granted, r.QuantityRequested)
	}
	r.Status = to
	r.QuantityApproved = &granted
	r.ResponseNotes = notes
	r.RespondedBy = actor
	r.RespondedAt = &at
	return nil
}

func (r *ResourceRequest) reject(notes, actor string, at time.Time) error {
	to, err := Next(r.Status, EventReject)
	if err != nil {
		return err
	}
	if notes == "" {
		return apperr.Invalid("response_notes is required to reject a request")
	}
	r.Status = to
	r.ResponseNotes = notes
	r.RespondedBy = actor
	r.RespondedAt = &at
	return nil
}

// fulfill leaves the decision fields, including notes, as they were.
func (r *ResourceRequest) fulfill(at time.Time) error {
	to, err := Next(r.Status, EventFulfill)
	if err != nil {
		return err
	}
	r.Status = to
	r.FulfilledAt = &at
	return nil
}

// Summary counts requests per status.
type Summary struct {
	All       int `json:"all"`
	Pending   int `json:"pending"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
	Fulfilled int `json:"fulfilled"`
	Cancelled int `json:"cancelled"`
}

func (s *Summary) add(st Status, n int) {
	s.All += n
	switch st {
	case StatusPending:
		s.Pending += n
	case StatusApproved:
		s.Approved += n
	case StatusRejected:
		s.Rejected += n
	case StatusFulfilled:
		s.Fulfilled += n
	case StatusCancelled:
		s.Cancelled += n
	}
}
