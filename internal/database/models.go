package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID             uuid.UUID
	FullName       string
	Email          string
	HashedPassword string
	Role           string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type News struct {
	ID          uuid.UUID
	Title       string
	Slug        string
	Excerpt     pgtype.Text
	Body        string
	ImageUrl    pgtype.Text
	Status      string
	PublishedAt pgtype.Timestamptz
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Announcement struct {
	ID        uuid.UUID
	Title     string
	Body      string
	Priority  string
	StartsAt  time.Time
	EndsAt    pgtype.Timestamptz
	IsActive  bool
	CreatedAt time.Time
}

type Event struct {
	ID          uuid.UUID
	Title       string
	Description pgtype.Text
	Location    pgtype.Text
	StartsAt    time.Time
	EndsAt      pgtype.Timestamptz
	ImageUrl    pgtype.Text
	IsActive    bool
	CreatedAt   time.Time
}

type GalleryItem struct {
	ID        uuid.UUID
	Title     string
	Caption   pgtype.Text
	ImageUrl  string
	TakenAt   pgtype.Timestamptz
	IsActive  bool
	CreatedAt time.Time
}

type Service struct {
	ID           uuid.UUID
	Name         string
	Description  pgtype.Text
	Icon         string
	Category     string
	Requirements pgtype.Text
	Fee          pgtype.Numeric
	DisplayOrder int32
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Menu struct {
	ID           uuid.UUID
	Label        string
	Url          string
	Icon         pgtype.Text
	Location     string
	ParentID     pgtype.UUID
	DisplayOrder int32
	IsActive     bool
	CreatedAt    time.Time
}

type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
