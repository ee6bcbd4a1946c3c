package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/medsync/medsync/pkg/calendar"
)

type Type string

const (
	TypeMedicalEquipment Type = "medical_equipment"
	TypeStaff            Type = "staff"
	TypeBed              Type = "bed"
	TypeOperationTheater Type = "operation_theater"
	TypeAmbulance        Type = "ambulance"
	TypeLaboratory       Type = "laboratory"
	TypeOther            Type = "other"
)

func (t Type) Valid() bool {
	switch t {
	case TypeMedicalEquipment, TypeStaff, TypeBed, TypeOperationTheater,
		TypeAmbulance, TypeLaboratory, TypeOther:
		return true
	}
	return false
}

type Status string

const (
	StatusAvailable   Status = "available"
	StatusLimited     Status = "limited"
	StatusUnavailable Status = "unavailable"
	StatusMaintenance Status = "maintenance"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusLimited, StatusUnavailable, StatusMaintenance:
		return true
	}
	return false
}

// criticalRatio is the available/total share below which a resource is
// flagged on the alerts view.
const criticalRatio = 0.2

// Resource maps to the resource table.
type Resource struct {
	ID                uuid.UUID      `db:"id" json:"id"`
	HospitalID        uuid.UUID      `db:"hospital_id" json:"hospital_id"`
	HospitalName      string         `db:"hospital_name" json:"hospital_name"`
	ResourceName      string         `db:"resource_name" json:"resource_name"`
	ResourceType      Type           `db:"resource_type" json:"resource_type"`
	TotalQuantity     int            `db:"total_quantity" json:"total_quantity"`
	AvailableQuantity int            `db:"available_quantity" json:"available_quantity"`
	Unit              *string        `db:"unit" json:"unit,omitempty"`
	Status            Status         `db:"status" json:"status"`
	Location          *string        `db:"location" json:"location,omitempty"`
	LastMaintenance   *calendar.Date `db:"last_maintenance" json:"last_maintenance,omitempty"`
	Notes             *string        `db:"notes" json:"notes,omitempty"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`

	UtilizationPercent float64 `db:"-" json:"utilization_percent"`
	Critical           bool    `db:"-" json:"critical"`
}

// Utilization is the share of the resource currently in use.
func (r *Resource) Utilization() float64 {
	if r.TotalQuantity <= 0 {
		return 0
	}
	return float64(r.TotalQuantity-r.AvailableQuantity) / float64(r.TotalQuantity) * 100
}

func (r *Resource) IsCritical() bool {
	if r.Status == StatusUnavailable {
		return true
	}
	return r.TotalQuantity > 0 && float64(r.AvailableQuantity)/float64(r.TotalQuantity) < criticalRatio
}

// Eligible reports whether the resource may be offered to another hospital.
func (r *Resource) Eligible() bool {
	return r.AvailableQuantity > 0 && r.Status == StatusAvailable
}

func (r *Resource) derive() {
	r.UtilizationPercent = r.Utilization()
	r.Critical = r.IsCritical()
}
