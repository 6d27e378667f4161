package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const eventColumns = `id, title, description, location, starts_at, ends_at, image_url, is_active, created_at`

func scanEvent(row interface{ Scan(dest ...any) error }) (Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.StartsAt, &e.EndsAt, &e.ImageUrl, &e.IsActive, &e.CreatedAt)
	return e, err
}

const listUpcomingEvents = `
SELECT ` + eventColumns + `
FROM events
WHERE is_active = true AND starts_at >= now()
ORDER BY starts_at
`

func (q *Queries) ListUpcomingEvents(ctx context.Context) ([]Event, error) {
	rows, err := q.db.Query(ctx, listUpcomingEvents)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

const listEvents = `
SELECT ` + eventColumns + `
FROM events
WHERE is_active = true
ORDER BY starts_at DESC
`

func (q *Queries) ListEvents(ctx context.Context) ([]Event, error) {
	rows, err := q.db.Query(ctx, listEvents)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

const createEvent = `
INSERT INTO events (title, description, location, starts_at, ends_at, image_url)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + eventColumns + `
`

type CreateEventParams struct {
	Title       string
	Description pgtype.Text
	Location    pgtype.Text
	StartsAt    pgtype.Timestamptz
	EndsAt      pgtype.Timestamptz
	ImageUrl    pgtype.Text
}

func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (Event, error) {
	return scanEvent(q.db.QueryRow(ctx, createEvent,
		arg.Title, arg.Description, arg.Location, arg.StartsAt, arg.EndsAt, arg.ImageUrl))
}

const updateEvent = `
UPDATE events
SET title = $1, description = $2, location = $3, starts_at = $4, ends_at = $5, image_url = $6
WHERE id = $7 AND is_active = true
RETURNING ` + eventColumns + `
`

type UpdateEventParams struct {
	Title       string
	Description pgtype.Text
	Location    pgtype.Text
	StartsAt    pgtype.Timestamptz
	EndsAt      pgtype.Timestamptz
	ImageUrl    pgtype.Text
	ID          uuid.UUID
}

func (q *Queries) UpdateEvent(ctx context.Context, arg UpdateEventParams) (Event, error) {
	return scanEvent(q.db.QueryRow(ctx, updateEvent,
		arg.Title, arg.Description, arg.Location, arg.StartsAt, arg.EndsAt, arg.ImageUrl, arg.ID))
}

const softDeleteEvent = `
UPDATE events
SET is_active = false
WHERE id = $1 AND is_active = true
RETURNING id
`

func (q *Queries) SoftDeleteEvent(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, softDeleteEvent, id)
	var out uuid.UUID
	err := row.Scan(&out)
	return out, err
}
