package hospital

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive      Status = "active"
	StatusInactive    Status = "inactive"
	StatusMaintenance Status = "maintenance"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusMaintenance:
		return true
	}
	return false
}

// Hospital maps to the hospital table.
type Hospital struct {
	ID               uuid.UUID `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Location         string    `db:"location" json:"location"`
	City             string    `db:"city" json:"city"`
	TotalBeds        int       `db:"total_beds" json:"total_beds"`
	AvailableBeds    int       `db:"available_beds" json:"available_beds"`
	ICUBedsTotal     int       `db:"icu_beds_total" json:"icu_beds_total"`
	ICUBedsAvailable int       `db:"icu_beds_available" json:"icu_beds_available"`
	Specialties      []string  `db:"specialties" json:"specialties"`
	ContactPhone     *string   `db:"contact_phone" json:"contact_phone,omitempty"`
	ContactEmail     *string   `db:"contact_email" json:"contact_email,omitempty"`
	Rating           float64   `db:"rating" json:"rating"`
	Status           Status    `db:"status" json:"status"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`

	// OccupancyPercent is derived on read, never stored.
	OccupancyPercent float64 `db:"-" json:"occupancy_percent"`
}

// Occupancy returns the share of general beds in use, 0 when the hospital
// reports no beds.
func (h *Hospital) Occupancy() float64 {
	if h.TotalBeds <= 0 {
		return 0
	}
	return float64(h.TotalBeds-h.AvailableBeds) / float64(h.TotalBeds) * 100
}

func (h *Hospital) derive() {
	h.OccupancyPercent = h.Occupancy()
	if h.Specialties == nil {
		h.Specialties = []string{}
	}
}
