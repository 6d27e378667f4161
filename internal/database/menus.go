package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const menuColumns = `id, label, url, icon, location, parent_id, display_order, is_active, created_at`

func scanMenu(row interface{ Scan(dest ...any) error }) (Menu, error) {
	var m Menu
	err := row.Scan(&m.ID, &m.Label, &m.Url, &m.Icon, &m.Location, &m.ParentID, &m.DisplayOrder, &m.IsActive, &m.CreatedAt)
	return m, err
}

const listMenusByLocation = `
SELECT ` + menuColumns + `
FROM menus
WHERE is_active = true AND location = $1
ORDER BY display_order, created_at
`

func (q *Queries) ListMenusByLocation(ctx context.Context, location string) ([]Menu, error) {
	rows, err := q.db.Query(ctx, listMenusByLocation, location)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Menu
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// One logical list is all siblings sharing (location, parent_id). Reordering
// never crosses group boundaries; reparenting is an explicit update instead.
const listMenusByGroup = `
SELECT ` + menuColumns + `
FROM menus
WHERE is_active = true AND location = $1 AND parent_id IS NOT DISTINCT FROM $2
ORDER BY display_order, created_at
`

type ListMenusByGroupParams struct {
	Location string
	ParentID pgtype.UUID
}

func (q *Queries) ListMenusByGroup(ctx context.Context, arg ListMenusByGroupParams) ([]Menu, error) {
	rows, err := q.db.Query(ctx, listMenusByGroup, arg.Location, arg.ParentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Menu
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

const countMenusInGroup = `
SELECT count(*)
FROM menus
WHERE is_active = true AND location = $1 AND parent_id IS NOT DISTINCT FROM $2
`

type CountMenusInGroupParams struct {
	Location string
	ParentID pgtype.UUID
}

func (q *Queries) CountMenusInGroup(ctx context.Context, arg CountMenusInGroupParams) (int64, error) {
	row := q.db.QueryRow(ctx, countMenusInGroup, arg.Location, arg.ParentID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createMenu = `
INSERT INTO menus (label, url, icon, location, parent_id, display_order)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + menuColumns + `
`

type CreateMenuParams struct {
	Label        string
	Url          string
	Icon         pgtype.Text
	Location     string
	ParentID     pgtype.UUID
	DisplayOrder int32
}

func (q *Queries) CreateMenu(ctx context.Context, arg CreateMenuParams) (Menu, error) {
	return scanMenu(q.db.QueryRow(ctx, createMenu,
		arg.Label, arg.Url, arg.Icon, arg.Location, arg.ParentID, arg.DisplayOrder))
}

const updateMenu = `
UPDATE menus
SET label = $1, url = $2, icon = $3, location = $4, parent_id = $5
WHERE id = $6 AND is_active = true
RETURNING ` + menuColumns + `
`

type UpdateMenuParams struct {
	Label    string
	Url      string
	Icon     pgtype.Text
	Location string
	ParentID pgtype.UUID
	ID       uuid.UUID
}

func (q *Queries) UpdateMenu(ctx context.Context, arg UpdateMenuParams) (Menu, error) {
	return scanMenu(q.db.QueryRow(ctx, updateMenu,
		arg.Label, arg.Url, arg.Icon, arg.Location, arg.ParentID, arg.ID))
}

// UpdateMenuDisplayOrder touches only display_order so concurrent writes for
// different ids cannot interfere.
const updateMenuDisplayOrder = `
UPDATE menus
SET display_order = $1
WHERE id = $2 AND is_active = true
RETURNING id
`

type UpdateMenuDisplayOrderParams struct {
	DisplayOrder int32
	ID           uuid.UUID
}

func (q *Queries) UpdateMenuDisplayOrder(ctx context.Context, arg UpdateMenuDisplayOrderParams) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, updateMenuDisplayOrder, arg.DisplayOrder, arg.ID)
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}

const softDeleteMenu = `
UPDATE menus
SET is_active = false
WHERE id = $1 AND is_active = true
RETURNING id
`

func (q *Queries) SoftDeleteMenu(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, softDeleteMenu, id)
	var out uuid.UUID
	err := row.Scan(&out)
	return out, err
}
