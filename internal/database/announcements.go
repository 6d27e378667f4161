package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const announcementColumns = `id, title, body, priority, starts_at, ends_at, is_active, created_at`

func scanAnnouncement(row interface{ Scan(dest ...any) error }) (Announcement, error) {
	var a Announcement
	err := row.Scan(&a.ID, &a.Title, &a.Body, &a.Priority, &a.StartsAt, &a.EndsAt, &a.IsActive, &a.CreatedAt)
	return a, err
}

const listActiveAnnouncements = `
SELECT ` + announcementColumns + `
FROM announcements
WHERE is_active = true
  AND starts_at <= now()
  AND (ends_at IS NULL OR ends_at >= now())
ORDER BY priority DESC, created_at DESC
`

func (q *Queries) ListActiveAnnouncements(ctx context.Context) ([]Announcement, error) {
	rows, err := q.db.Query(ctx, listActiveAnnouncements)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

const listAllAnnouncements = `
SELECT ` + announcementColumns + `
FROM announcements
WHERE is_active = true
ORDER BY created_at DESC
`

func (q *Queries) ListAllAnnouncements(ctx context.Context) ([]Announcement, error) {
	rows, err := q.db.Query(ctx, listAllAnnouncements)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

const createAnnouncement = `
INSERT INTO announcements (title, body, priority, starts_at, ends_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + announcementColumns + `
`

type CreateAnnouncementParams struct {
	Title    string
	Body     string
	Priority string
	StartsAt pgtype.Timestamptz
	EndsAt   pgtype.Timestamptz
}

func (q *Queries) CreateAnnouncement(ctx context.Context, arg CreateAnnouncementParams) (Announcement, error) {
	return scanAnnouncement(q.db.QueryRow(ctx, createAnnouncement,
		arg.Title, arg.Body, arg.Priority, arg.StartsAt, arg.EndsAt))
}

const updateAnnouncement = `
UPDATE announcements
SET title = $1, body = $2, priority = $3, starts_at = $4, ends_at = $5
WHERE id = $6 AND is_active = true
RETURNING ` + announcementColumns + `
`

type UpdateAnnouncementParams struct {
	Title    string
	Body     string
	Priority string
	StartsAt pgtype.Timestamptz
	EndsAt   pgtype.Timestamptz
	ID       uuid.UUID
}

func (q *Queries) UpdateAnnouncement(ctx context.Context, arg UpdateAnnouncementParams) (Announcement, error) {
	return scanAnnouncement(q.db.QueryRow(ctx, updateAnnouncement,
		arg.Title, arg.Body, arg.Priority, arg.StartsAt, arg.EndsAt, arg.ID))
}

const softDeleteAnnouncement = `
UPDATE announcements
SET is_active = false
WHERE id = $1 AND is_active = true
RETURNING id
`

func (q *Queries) SoftDeleteAnnouncement(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, softDeleteAnnouncement, id)
	var out uuid.UUID
	err := row.Scan(&out)
	return out, err
}
