package sharing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const requestCols = `id, requesting_hospital_id, requesting_hospital_name,
	providing_hospital_id, providing_hospital_name,
	resource_id, resource_name, resource_type,
	quantity_requested, quantity_approved, urgency, status, reason,
	requested_date, required_by_date, contact_person, contact_phone,
	response_notes, responded_by, responded_at, fulfilled_at,
	created_at, updated_at`

func scanRequest(row pgx.Row) (*ResourceRequest, error) {
	var r ResourceRequest
	err := row.Scan(&r.ID, &r.RequestingHospitalID, &r.RequestingHospitalName,
		&r.ProvidingHospitalID, &r.ProvidingHospitalName,
		&r.ResourceID, &r.ResourceName, &r.ResourceType,
		&r.QuantityRequested, &r.QuantityApproved, &r.Urgency, &r.Status, &r.Reason,
		&r.RequestedDate, &r.RequiredByDate, &r.ContactPerson, &r.ContactPhone,
		&r.ResponseNotes, &r.RespondedBy, &r.RespondedAt, &r.FulfilledAt,
		&r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (p *repoPG) Create(ctx context.Context, r *ResourceRequest) error {
	r.ID = uuid.New()
	return p.pool.QueryRow(ctx, `
		INSERT INTO resource_request (id, requesting_hospital_id, requesting_hospital_name,
			providing_hospital_id, providing_hospital_name,
			resource_id, resource_name, resource_type,
			quantity_requested, quantity_approved, urgency, status, reason,
			requested_date, required_by_date, contact_person, contact_phone, response_notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		RETURNING created_at, updated_at`,
		r.ID, r.RequestingHospitalID, r.RequestingHospitalName,
		r.ProvidingHospitalID, r.ProvidingHospitalName,
		r.ResourceID, r.ResourceName, r.ResourceType,
		r.QuantityRequested, r.QuantityApproved, r.Urgency, r.Status, r.Reason,
		r.RequestedDate, r.RequiredByDate, r.ContactPerson, r.ContactPhone, r.ResponseNotes,
	).Scan(&r.CreatedAt, &r.UpdatedAt)
}

func (p *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*ResourceRequest, error) {
	return scanRequest(p.pool.QueryRow(ctx, `SELECT `+requestCols+` FROM resource_request WHERE id = $1`, id))
}

func (p *repoPG) Update(ctx context.Context, r *ResourceRequest) error {
	err := p.pool.QueryRow(ctx, `
		UPDATE resource_request SET status=$2, quantity_approved=$3, response_notes=$4,
			responded_by=$5, responded_at=$6, fulfilled_at=$7, updated_at=NOW()
		WHERE id = $1
		RETURNING updated_at`,
		r.ID, r.Status, r.QuantityApproved, r.ResponseNotes,
		r.RespondedBy, r.RespondedAt, r.FulfilledAt,
	).Scan(&r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// orderBy is keyed by Sort so only whitelisted clauses reach the query.
var orderBy = map[Sort]string{
	{Field: SortCreatedAt}:                  `created_at ASC, id ASC`,
	{Field: SortCreatedAt, Desc: true}:      `created_at DESC, id DESC`,
	{Field: SortRequestedDate}:              `requested_date ASC, created_at ASC, id ASC`,
	{Field: SortRequestedDate, Desc: true}:  `requested_date DESC, created_at DESC, id DESC`,
	{Field: SortRequiredByDate}:             `required_by_date ASC NULLS LAST, created_at ASC, id ASC`,
	{Field: SortRequiredByDate, Desc: true}: `required_by_date DESC NULLS LAST, created_at DESC, id DESC`,
}

func (p *repoPG) List(ctx context.Context, s Sort) ([]*ResourceRequest, error) {
	clause, ok := orderBy[s]
	if !ok {
		clause = orderBy[DefaultSort]
	}
	rows, err := p.pool.Query(ctx, `SELECT `+requestCols+` FROM resource_request ORDER BY `+clause)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*ResourceRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

func (p *repoPG) CountByStatus(ctx context.Context) (map[Status]int, error) {
	rows, err := p.pool.Query(ctx, `SELECT status, COUNT(*) FROM resource_request GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[Status]int)
	for rows.Next() {
		var st Status
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, err
		}
		counts[st] = n
	}
	return counts, rows.Err()
}
