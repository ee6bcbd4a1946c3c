package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medsync/medsync/internal/domain/hospital"
	"github.com/medsync/medsync/pkg/apperr"
)

// -- Mocks --

type mockRepo struct {
	resources map[uuid.UUID]*Resource
	order     []uuid.UUID
}

func newMockRepo() *mockRepo {
	return &mockRepo{resources: make(map[uuid.UUID]*Resource)}
}

func (m *mockRepo) Create(_ context.Context, r *Resource) error {
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	m.resources[r.ID] = r
	m.order = append(m.order, r.ID)
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Resource, error) {
	r, ok := m.resources[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

func (m *mockRepo) Update(_ context.Context, r *Resource) error {
	if _, ok := m.resources[r.ID]; !ok {
		return ErrNotFound
	}
	m.resources[r.ID] = r
	return nil
}

func (m *mockRepo) all() []*Resource {
	out := make([]*Resource, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.resources[id])
	}
	return out
}

func (m *mockRepo) Search(_ context.Context, params map[string]string, limit, offset int) ([]*Resource, int, error) {
	var result []*Resource
	for _, r := range m.all() {
		if v, ok := params["type"]; ok && string(r.ResourceType) != v {
			continue
		}
		if v, ok := params["hospital_id"]; ok && r.HospitalID.String() != v {
			continue
		}
		if v, ok := params["status"]; ok && string(r.Status) != v {
			continue
		}
		result = append(result, r)
	}
	total := len(result)
	if offset >= len(result) {
		return nil, total, nil
	}
	return result[offset:min(offset+limit, len(result))], total, nil
}

func (m *mockRepo) ListByHospital(_ context.Context, hospitalID uuid.UUID) ([]*Resource, error) {
	var out []*Resource
	for _, r := range m.all() {
		if r.HospitalID == hospitalID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRepo) ListCritical(_ context.Context) ([]*Resource, error) {
	var out []*Resource
	for _, r := range m.all() {
		if r.IsCritical() {
			out = append(out, r)
		}
	}
	return out, nil
}

type stubHospitals map[uuid.UUID]*hospital.Hospital

func (s stubHospitals) GetHospital(_ context.Context, id uuid.UUID) (*hospital.Hospital, error) {
	h, ok := s[id]
	if !ok {
		return nil, fmt.Errorf("lookup %s: %w", id, hospital.ErrNotFound)
	}
	return h, nil
}

type fixture struct {
	svc      *Service
	repo     *mockRepo
	hospital *hospital.Hospital
}

func newFixture() fixture {
	h := &hospital.Hospital{ID: uuid.New(), Name: "Sassoon General", City: "Pune"}
	repo := newMockRepo()
	return fixture{
		svc:      NewService(repo, stubHospitals{h.ID: h}),
		repo:     repo,
		hospital: h,
	}
}

func (f fixture) resource(name string, total, avail int, st Status) *Resource {
	return &Resource{
		HospitalID:        f.hospital.ID,
		ResourceName:      name,
		ResourceType:      TypeMedicalEquipment,
		TotalQuantity:     total,
		AvailableQuantity: avail,
		Status:            st,
	}
}

func TestCreateResource_SnapshotsHospitalName(t *testing.T) {
	f := newFixture()
	r := f.resource("Ventilator", 10, 4, "")
	r.HospitalName = "client supplied"

	if err := f.svc.CreateResource(context.Background(), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.HospitalName != "Sassoon General" {
		t.Errorf("expected hospital name snapshot, got %q", r.HospitalName)
	}
	if r.Status != StatusAvailable {
		t.Errorf("expected default status available, got %s", r.Status)
	}
	if r.UtilizationPercent != 60 {
		t.Errorf("expected utilization 60, got %v", r.UtilizationPercent)
	}
}

func TestCreateResource_Validation(t *testing.T) {
	f := newFixture()
	tests := []struct {
		name   string
		mutate func(*Resource)
		want   string
	}{
		{"missing hospital", func(r *Resource) { r.HospitalID = uuid.Nil }, "hospital_id is required"},
		{"unknown hospital", func(r *Resource) { r.HospitalID = uuid.New() }, "does not exist"},
		{"missing name", func(r *Resource) { r.ResourceName = " " }, "resource_name is required"},
		{"missing type", func(r *Resource) { r.ResourceType = "" }, "resource_type is required"},
		{"bad type", func(r *Resource) { r.ResourceType = "drone" }, "invalid resource_type"},
		{"negative", func(r *Resource) { r.TotalQuantity = -1 }, "must not be negative"},
		{"available over total", func(r *Resource) { r.AvailableQuantity = 11 }, "exceeds total_quantity"},
		{"bad status", func(r *Resource) { r.Status = "lost" }, "invalid status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := f.resource("Monitor", 10, 5, StatusAvailable)
			tt.mutate(r)
			err := f.svc.CreateResource(context.Background(), r)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
			if !apperr.IsCode(err, apperr.CodeInvalid) {
				t.Errorf("expected invalid code, got %s", apperr.CodeOf(err))
			}
		})
	}
	if len(f.repo.resources) != 0 {
		t.Errorf("expected no resources persisted, got %d", len(f.repo.resources))
	}
}

func TestGetResource_NotFound(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.GetResource(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateResource(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	r := f.resource("Beds", 20, 10, StatusAvailable)
	f.svc.CreateResource(ctx, r)

	upd := f.resource("Beds", 20, 2, StatusLimited)
	upd.ID = r.ID
	if err := f.svc.UpdateResource(ctx, upd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !upd.Critical {
		t.Error("expected 2/20 to be flagged critical")
	}
	got, _ := f.svc.GetResource(ctx, r.ID)
	if got.AvailableQuantity != 2 || got.Status != StatusLimited {
		t.Errorf("update not persisted: %+v", got)
	}

	missing := f.resource("Ghost", 1, 1, StatusAvailable)
	missing.ID = uuid.New()
	if err := f.svc.UpdateResource(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestIsCritical(t *testing.T) {
	tests := []struct {
		total, avail int
		status       Status
		want         bool
	}{
		{10, 1, StatusAvailable, true},
		{10, 2, StatusAvailable, false},
		{10, 10, StatusUnavailable, true},
		{0, 0, StatusAvailable, false},
		{5, 0, StatusMaintenance, true},
	}
	for _, tt := range tests {
		r := &Resource{TotalQuantity: tt.total, AvailableQuantity: tt.avail, Status: tt.status}
		if got := r.IsCritical(); got != tt.want {
			t.Errorf("IsCritical(%d/%d %s) = %v, want %v", tt.avail, tt.total, tt.status, got, tt.want)
		}
	}
}

func TestListAlerts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.svc.CreateResource(ctx, f.resource("Plenty", 10, 9, StatusAvailable))
	f.svc.CreateResource(ctx, f.resource("Scarce", 10, 1, StatusAvailable))
	f.svc.CreateResource(ctx, f.resource("Down", 10, 10, StatusUnavailable))

	alerts, err := f.svc.ListAlerts(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}
	for _, a := range alerts {
		if !a.Critical {
			t.Errorf("expected %s to carry critical=true", a.ResourceName)
		}
	}
}

func TestEligibleResources(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.svc.CreateResource(ctx, f.resource("Ventilator", 5, 5, StatusAvailable))
	f.svc.CreateResource(ctx, f.resource("Empty", 5, 0, StatusAvailable))
	f.svc.CreateResource(ctx, f.resource("Limited", 5, 3, StatusLimited))
	f.svc.CreateResource(ctx, f.resource("Servicing", 5, 5, StatusMaintenance))

	other := &hospital.Hospital{ID: uuid.New(), Name: "Other"}
	f.svc.hospitals.(stubHospitals)[other.ID] = other
	foreign := f.resource("Foreign", 5, 5, StatusAvailable)
	foreign.HospitalID = other.ID
	f.svc.CreateResource(ctx, foreign)

	items, err := f.svc.EligibleResources(ctx, f.hospital.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].ResourceName != "Ventilator" {
		names := make([]string, len(items))
		for i, r := range items {
			names[i] = r.ResourceName
		}
		t.Fatalf("expected only Ventilator, got %v", names)
	}

	if _, err := f.svc.EligibleResources(ctx, uuid.New()); !errors.Is(err, hospital.ErrNotFound) {
		t.Errorf("expected hospital.ErrNotFound for unknown hospital, got %v", err)
	}
}

func TestEligibleResources_EmptyIsNotNil(t *testing.T) {
	f := newFixture()
	items, err := f.svc.EligibleResources(context.Background(), f.hospital.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items == nil {
		t.Error("expected empty slice, got nil")
	}
}

func TestSearchResources_Filters(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	bed := f.resource("Ward bed", 30, 12, StatusAvailable)
	bed.ResourceType = TypeBed
	f.svc.CreateResource(ctx, bed)
	f.svc.CreateResource(ctx, f.resource("ECG", 3, 3, StatusAvailable))

	items, total, err := f.svc.SearchResources(ctx, map[string]string{"type": "bed"}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || items[0].ResourceType != TypeBed {
		t.Errorf("expected one bed, got %d", total)
	}

	for _, bad := range []map[string]string{
		{"type": "drone"},
		{"status": "lost"},
		{"hospital_id": "nope"},
	} {
		if _, _, err := f.svc.SearchResources(ctx, bad, 20, 0); !apperr.IsCode(err, apperr.CodeInvalid) {
			t.Errorf("expected invalid filter error for %v, got %v", bad, err)
		}
	}
}
