package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const galleryColumns = `id, title, caption, image_url, taken_at, is_active, created_at`

func scanGalleryItem(row interface{ Scan(dest ...any) error }) (GalleryItem, error) {
	var g GalleryItem
	err := row.Scan(&g.ID, &g.Title, &g.Caption, &g.ImageUrl, &g.TakenAt, &g.IsActive, &g.CreatedAt)
	return g, err
}

const listGalleryItems = `
SELECT ` + galleryColumns + `
FROM gallery_items
WHERE is_active = true
ORDER BY taken_at DESC NULLS LAST, created_at DESC
`

func (q *Queries) ListGalleryItems(ctx context.Context) ([]GalleryItem, error) {
	rows, err := q.db.Query(ctx, listGalleryItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GalleryItem
	for rows.Next() {
		g, err := scanGalleryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

const createGalleryItem = `
INSERT INTO gallery_items (title, caption, image_url, taken_at)
VALUES ($1, $2, $3, $4)
RETURNING ` + galleryColumns + `
`

type CreateGalleryItemParams struct {
	Title    string
	Caption  pgtype.Text
	ImageUrl string
	TakenAt  pgtype.Timestamptz
}

func (q *Queries) CreateGalleryItem(ctx context.Context, arg CreateGalleryItemParams) (GalleryItem, error) {
	return scanGalleryItem(q.db.QueryRow(ctx, createGalleryItem,
		arg.Title, arg.Caption, arg.ImageUrl, arg.TakenAt))
}

const updateGalleryItem = `
UPDATE gallery_items
SET title = $1, caption = $2, image_url = $3, taken_at = $4
WHERE id = $5 AND is_active = true
RETURNING ` + galleryColumns + `
`

type UpdateGalleryItemParams struct {
	Title    string
	Caption  pgtype.Text
	ImageUrl string
	TakenAt  pgtype.Timestamptz
	ID       uuid.UUID
}

func (q *Queries) UpdateGalleryItem(ctx context.Context, arg UpdateGalleryItemParams) (GalleryItem, error) {
	return scanGalleryItem(q.db.QueryRow(ctx, updateGalleryItem,
		arg.Title, arg.Caption, arg.ImageUrl, arg.TakenAt, arg.ID))
}

const softDeleteGalleryItem = `
UPDATE gallery_items
SET is_active = false
WHERE id = $1 AND is_active = true
RETURNING id
`

func (q *Queries) SoftDeleteGalleryItem(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, softDeleteGalleryItem, id)
	var out uuid.UUID
	err := row.Scan(&out)
	return out, err
}
