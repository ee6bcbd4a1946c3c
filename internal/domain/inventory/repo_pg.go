package inventory

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

const resourceCols = `id, hospital_id, hospital_name, resource_name, resource_type,
	total_quantity, available_quantity, unit, status, location, last_maintenance, notes,
	created_at, updated_at`

func scanResource(row pgx.Row) (*Resource, error) {
	var r Resource
	err := row.Scan(&r.ID, &r.HospitalID, &r.HospitalName, &r.ResourceName, &r.ResourceType,
		&r.TotalQuantity, &r.AvailableQuantity, &r.Unit, &r.Status, &r.Location, &r.LastMaintenance, &r.Notes,
		&r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func collect(rows pgx.Rows) ([]*Resource, error) {
	defer rows.Close()
	var items []*Resource
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

func (p *repoPG) Create(ctx context.Context, r *Resource) error {
	r.ID = uuid.New()
	return p.pool.QueryRow(ctx, `
		INSERT INTO resource (id, hospital_id, hospital_name, resource_name, resource_type,
			total_quantity, available_quantity, unit, status, location, last_maintenance, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING created_at, updated_at`,
		r.ID, r.HospitalID, r.HospitalName, r.ResourceName, r.ResourceType,
		r.TotalQuantity, r.AvailableQuantity, r.Unit, r.Status, r.Location, r.LastMaintenance, r.Notes,
	).Scan(&r.CreatedAt, &r.UpdatedAt)
}

func (p *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Resource, error) {
	return scanResource(p.pool.QueryRow(ctx, `SELECT `+resourceCols+` FROM resource WHERE id = $1`, id))
}

func (p *repoPG) Update(ctx context.Context, r *Resource) error {
	err := p.pool.QueryRow(ctx, `
		UPDATE resource SET hospital_id=$2, hospital_name=$3, resource_name=$4, resource_type=$5,
			total_quantity=$6, available_quantity=$7, unit=$8, status=$9, location=$10,
			last_maintenance=$11, notes=$12, updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		r.ID, r.HospitalID, r.HospitalName, r.ResourceName, r.ResourceType,
		r.TotalQuantity, r.AvailableQuantity, r.Unit, r.Status, r.Location,
		r.LastMaintenance, r.Notes,
	).Scan(&r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (p *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Resource, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if v, ok := params["type"]; ok {
		where += fmt.Sprintf(` AND resource_type = $%d`, idx)
		args = append(args, v)
		idx++
	}
	if v, ok := params["hospital_id"]; ok {
		where += fmt.Sprintf(` AND hospital_id = $%d`, idx)
		args = append(args, v)
		idx++
	}
	if v, ok := params["status"]; ok {
		where += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, v)
		idx++
	}

	var total int
	if err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM resource`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + resourceCols + ` FROM resource` + where +
		fmt.Sprintf(` ORDER BY created_at DESC, id ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	items, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (p *repoPG) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*Resource, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+resourceCols+` FROM resource
		WHERE hospital_id = $1 ORDER BY resource_name ASC, id ASC`, hospitalID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (p *repoPG) ListCritical(ctx context.Context) ([]*Resource, error) {
	rows, err := p.pool.Query(ctx, fmt.Sprintf(`SELECT %s FROM resource
		WHERE status = 'unavailable'
		   OR (total_quantity > 0 AND available_quantity::float8 / total_quantity < %g)
		ORDER BY hospital_name ASC, resource_name ASC`, resourceCols, criticalRatio))
	if err != nil {
		return nil, err
	}
	return collect(rows)
}
