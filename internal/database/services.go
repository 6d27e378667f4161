package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const serviceColumns = `id, name, description, icon, category, requirements, fee, display_order, is_active, created_at, updated_at`

func scanService(row interface{ Scan(dest ...any) error }) (Service, error) {
	var s Service
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Icon, &s.Category, &s.Requirements, &s.Fee, &s.DisplayOrder, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// Display order is ascending with created_at as tiebreak, so rows persisted
// with colliding display_order values still render deterministically.
const listServices = `
SELECT ` + serviceColumns + `
FROM services
WHERE is_active = true
ORDER BY display_order, created_at
`

func (q *Queries) ListServices(ctx context.Context) ([]Service, error) {
	rows, err := q.db.Query(ctx, listServices)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

const listServicesByCategory = `
SELECT ` + serviceColumns + `
FROM services
WHERE is_active = true AND category = $1
ORDER BY display_order, created_at
`

func (q *Queries) ListServicesByCategory(ctx context.Context, category string) ([]Service, error) {
	rows, err := q.db.Query(ctx, listServicesByCategory, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

const countServices = `
SELECT count(*) FROM services WHERE is_active = true
`

func (q *Queries) CountServices(ctx context.Context) (int64, error) {
	row := q.db.QueryRow(ctx, countServices)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createService = `
INSERT INTO services (name, description, icon, category, requirements, fee, display_order)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + serviceColumns + `
`

type CreateServiceParams struct {
	Name         string
	Description  pgtype.Text
	Icon         string
	Category     string
	Requirements pgtype.Text
	Fee          pgtype.Numeric
	DisplayOrder int32
}

func (q *Queries) CreateService(ctx context.Context, arg CreateServiceParams) (Service, error) {
	return scanService(q.db.QueryRow(ctx, createService,
		arg.Name, arg.Description, arg.Icon, arg.Category, arg.Requirements, arg.Fee, arg.DisplayOrder))
}

const updateService = `
UPDATE services
SET name = $1, description = $2, icon = $3, category = $4, requirements = $5, fee = $6, updated_at = now()
WHERE id = $7 AND is_active = true
RETURNING ` + serviceColumns + `
`

type UpdateServiceParams struct {
	Name         string
	Description  pgtype.Text
	Icon         string
	Category     string
	Requirements pgtype.Text
	Fee          pgtype.Numeric
	ID           uuid.UUID
}

func (q *Queries) UpdateService(ctx context.Context, arg UpdateServiceParams) (Service, error) {
	return scanService(q.db.QueryRow(ctx, updateService,
		arg.Name, arg.Description, arg.Icon, arg.Category, arg.Requirements, arg.Fee, arg.ID))
}

// UpdateServiceDisplayOrder touches only display_order; all other fields are
// left untouched so parallel writes for different ids cannot interfere.
const updateServiceDisplayOrder = `
UPDATE services
SET display_order = $1, updated_at = now()
WHERE id = $2 AND is_active = true
RETURNING id
`

type UpdateServiceDisplayOrderParams struct {
	DisplayOrder int32
	ID           uuid.UUID
}

func (q *Queries) UpdateServiceDisplayOrder(ctx context.Context, arg UpdateServiceDisplayOrderParams) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, updateServiceDisplayOrder, arg.DisplayOrder, arg.ID)
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}

const softDeleteService = `
UPDATE services
SET is_active = false, updated_at = now()
WHERE id = $1 AND is_active = true
RETURNING id
`

func (q *Queries) SoftDeleteService(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, softDeleteService, id)
	var out uuid.UUID
	err := row.Scan(&out)
	return out, err
}
