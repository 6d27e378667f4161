package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const newsColumns = `id, title, slug, excerpt, body, image_url, status, published_at, created_by, created_at, updated_at`

func scanNews(row interface{ Scan(dest ...any) error }) (News, error) {
	var n News
	err := row.Scan(&n.ID, &n.Title, &n.Slug, &n.Excerpt, &n.Body, &n.ImageUrl, &n.Status, &n.PublishedAt, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

const listPublishedNews = `
SELECT ` + newsColumns + `
FROM news
WHERE status = 'PUBLISHED'
ORDER BY published_at DESC
LIMIT $1 OFFSET $2
`

type ListPublishedNewsParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) ListPublishedNews(ctx context.Context, arg ListPublishedNewsParams) ([]News, error) {
	rows, err := q.db.Query(ctx, listPublishedNews, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []News
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

const listAllNews = `
SELECT ` + newsColumns + `
FROM news
ORDER BY created_at DESC
`

func (q *Queries) ListAllNews(ctx context.Context) ([]News, error) {
	rows, err := q.db.Query(ctx, listAllNews)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []News
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

const getNewsBySlug = `
SELECT ` + newsColumns + `
FROM news
WHERE slug = $1 AND status = 'PUBLISHED'
`

func (q *Queries) GetNewsBySlug(ctx context.Context, slug string) (News, error) {
	return scanNews(q.db.QueryRow(ctx, getNewsBySlug, slug))
}

const createNews = `
INSERT INTO news (title, slug, excerpt, body, image_url, status, published_at, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + newsColumns + `
`

type CreateNewsParams struct {
	Title       string
	Slug        string
	Excerpt     pgtype.Text
	Body        string
	ImageUrl    pgtype.Text
	Status      string
	PublishedAt pgtype.Timestamptz
	CreatedBy   uuid.UUID
}

func (q *Queries) CreateNews(ctx context.Context, arg CreateNewsParams) (News, error) {
	return scanNews(q.db.QueryRow(ctx, createNews,
		arg.Title, arg.Slug, arg.Excerpt, arg.Body, arg.ImageUrl, arg.Status, arg.PublishedAt, arg.CreatedBy))
}

const updateNews = `
UPDATE news
SET title = $1, slug = $2, excerpt = $3, body = $4, image_url = $5, status = $6, published_at = $7, updated_at = now()
WHERE id = $8
RETURNING ` + newsColumns + `
`

type UpdateNewsParams struct {
	Title       string
	Slug        string
	Excerpt     pgtype.Text
	Body        string
	ImageUrl    pgtype.Text
	Status      string
	PublishedAt pgtype.Timestamptz
	ID          uuid.UUID
}

func (q *Queries) UpdateNews(ctx context.Context, arg UpdateNewsParams) (News, error) {
	return scanNews(q.db.QueryRow(ctx, updateNews,
		arg.Title, arg.Slug, arg.Excerpt, arg.Body, arg.ImageUrl, arg.Status, arg.PublishedAt, arg.ID))
}

const deleteNews = `
DELETE FROM news
WHERE id = $1
RETURNING id
`

func (q *Queries) DeleteNews(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deleteNews, id)
	var out uuid.UUID
	err := row.Scan(&out)
	return out, err
}
