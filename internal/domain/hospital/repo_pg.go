package hospital

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const hospitalCols = `id, name, location, city, total_beds, available_beds,
	icu_beds_total, icu_beds_available, specialties, contact_phone, contact_email,
	rating, status, created_at, updated_at`

func scanHospital(row pgx.Row) (*Hospital, error) {
	var h Hospital
	err := row.Scan(&h.ID, &h.Name, &h.Location, &h.City, &h.TotalBeds, &h.AvailableBeds,
		&h.ICUBedsTotal, &h.ICUBedsAvailable, &h.Specialties, &h.ContactPhone, &h.ContactEmail,
		&h.Rating, &h.Status, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *repoPG) Create(ctx context.Context, h *Hospital) error {
	h.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO hospital (id, name, location, city, total_beds, available_beds,
			icu_beds_total, icu_beds_available, specialties, contact_phone, contact_email,
			rating, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING created_at, updated_at`,
		h.ID, h.Name, h.Location, h.City, h.TotalBeds, h.AvailableBeds,
		h.ICUBedsTotal, h.ICUBedsAvailable, h.Specialties, h.ContactPhone, h.ContactEmail,
		h.Rating, h.Status).Scan(&h.CreatedAt, &h.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return scanHospital(r.pool.QueryRow(ctx, `SELECT `+hospitalCols+` FROM hospital WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, h *Hospital) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE hospital SET name=$2, location=$3, city=$4, total_beds=$5, available_beds=$6,
			icu_beds_total=$7, icu_beds_available=$8, specialties=$9, contact_phone=$10,
			contact_email=$11, rating=$12, status=$13, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		h.ID, h.Name, h.Location, h.City, h.TotalBeds, h.AvailableBeds,
		h.ICUBedsTotal, h.ICUBedsAvailable, h.Specialties, h.ContactPhone,
		h.ContactEmail, h.Rating, h.Status).Scan(&h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Hospital, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["status"]; ok {
		where += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["city"]; ok {
		where += fmt.Sprintf(` AND city ILIKE $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["name"]; ok {
		where += fmt.Sprintf(` AND name ILIKE $%d`, idx)
		args = append(args, "%"+p+"%")
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM hospital`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + hospitalCols + ` FROM hospital` + where +
		fmt.Sprintf(` ORDER BY name ASC, id ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Hospital
	for rows.Next() {
		h, err := scanHospital(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, h)
	}
	return items, total, rows.Err()
}
