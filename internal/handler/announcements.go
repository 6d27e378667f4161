package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/database"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/enum"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// AnnouncementStore defines the database methods needed by announcement
// handlers. Satisfied by *database.Queries; narrow interface for testability.
type AnnouncementStore interface {
	ListActiveAnnouncements(ctx context.Context) ([]database.Announcement, error)
	ListAllAnnouncements(ctx context.Context) ([]database.Announcement, error)
	CreateAnnouncement(ctx context.Context, arg database.CreateAnnouncementParams) (database.Announcement, error)
	UpdateAnnouncement(ctx context.Context, arg database.UpdateAnnouncementParams) (database.Announcement, error)
	SoftDeleteAnnouncement(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// AnnouncementHandler handles announcement (pengumuman) endpoints.
type AnnouncementHandler struct {
	store AnnouncementStore
	hub   *ws.Hub
}

// NewAnnouncementHandler creates a new AnnouncementHandler.
func NewAnnouncementHandler(store AnnouncementStore, hub *ws.Hub) *AnnouncementHandler {
	return &AnnouncementHandler{store: store, hub: hub}
}

// RegisterPublicRoutes registers the public announcement endpoint.
func (h *AnnouncementHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.ListActive)
}

// RegisterAdminRoutes registers announcement management endpoints.
// Expected to be mounted under /admin/announcements.
func (h *AnnouncementHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/", h.ListAll)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type announcementRequest struct {
	Title    string     `json:"title"`
	Body     string     `json:"body"`
	Priority string     `json:"priority"`
	StartsAt time.Time  `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
}

type announcementResponse struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Priority  string     `json:"priority"`
	StartsAt  time.Time  `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
}

func toAnnouncementResponse(a database.Announcement) announcementResponse {
	resp := announcementResponse{
		ID:        a.ID,
		Title:     a.Title,
		Body:      a.Body,
		Priority:  a.Priority,
		StartsAt:  a.StartsAt,
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt,
	}
	if a.EndsAt.Valid {
		resp.EndsAt = &a.EndsAt.Time
	}
	return resp
}

func validPriority(p string) bool {
	switch p {
	case enum.AnnouncementPriorityInfo, enum.AnnouncementPriorityImportant, enum.AnnouncementPriorityUrgent:
		return true
	}
	return false
}

// validateAnnouncement normalizes and checks one request, returning the params
// shared by create and update.
func validateAnnouncement(req *announcementRequest) (pgtype.Timestamptz, pgtype.Timestamptz, string, bool) {
	if req.Priority == "" {
		req.Priority = enum.AnnouncementPriorityInfo
	}
	if req.Title == "" || req.Body == "" || !validPriority(req.Priority) {
		return pgtype.Timestamptz{}, pgtype.Timestamptz{}, "", false
	}

	startsAt := req.StartsAt
	if startsAt.IsZero() {
		startsAt = time.Now()
	}
	endsAt := pgtype.Timestamptz{}
	if req.EndsAt != nil {
		if req.EndsAt.Before(startsAt) {
			return pgtype.Timestamptz{}, pgtype.Timestamptz{}, "", false
		}
		endsAt = pgtype.Timestamptz{Time: *req.EndsAt, Valid: true}
	}
	return pgtype.Timestamptz{Time: startsAt, Valid: true}, endsAt, req.Priority, true
}

// --- Handlers ---

// ListActive returns announcements currently inside their display window,
// urgent first.
func (h *AnnouncementHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListActiveAnnouncements(r.Context())
	if err != nil {
		log.Printf("ERROR: list active announcements: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]announcementResponse, len(items))
	for i, a := range items {
		resp[i] = toAnnouncementResponse(a)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListAll returns every non-deleted announcement for the admin list.
func (h *AnnouncementHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListAllAnnouncements(r.Context())
	if err != nil {
		log.Printf("ERROR: list announcements: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]announcementResponse, len(items))
	for i, a := range items {
		resp[i] = toAnnouncementResponse(a)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create adds a new announcement.
func (h *AnnouncementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req announcementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	startsAt, endsAt, priority, ok := validateAnnouncement(&req)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title, body and a valid priority are required; ends_at must not precede starts_at"})
		return
	}

	item, err := h.store.CreateAnnouncement(r.Context(), database.CreateAnnouncementParams{
		Title:    req.Title,
		Body:     req.Body,
		Priority: priority,
		StartsAt: startsAt,
		EndsAt:   endsAt,
	})
	if err != nil {
		log.Printf("ERROR: create announcement: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.broadcastContentChanged()
	writeJSON(w, http.StatusCreated, toAnnouncementResponse(item))
}

// Update modifies an existing announcement.
func (h *AnnouncementHandler) Update(w http.ResponseWriter, r *http.Request) {
	annID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid announcement ID"})
		return
	}

	var req announcementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	startsAt, endsAt, priority, ok := validateAnnouncement(&req)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title, body and a valid priority are required; ends_at must not precede starts_at"})
		return
	}

	item, err := h.store.UpdateAnnouncement(r.Context(), database.UpdateAnnouncementParams{
		Title:    req.Title,
		Body:     req.Body,
		Priority: priority,
		StartsAt: startsAt,
		EndsAt:   endsAt,
		ID:       annID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "announcement not found"})
			return
		}
		log.Printf("ERROR: update announcement: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.broadcastContentChanged()
	writeJSON(w, http.StatusOK, toAnnouncementResponse(item))
}

// Delete soft-deletes an announcement.
func (h *AnnouncementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	annID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid announcement ID"})
		return
	}

	_, err = h.store.SoftDeleteAnnouncement(r.Context(), annID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "announcement not found"})
			return
		}
		log.Printf("ERROR: delete announcement: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.broadcastContentChanged()
	w.WriteHeader(http.StatusNoContent)
}

func (h *AnnouncementHandler) broadcastContentChanged() {
	h.hub.Broadcast(enum.ChannelContent, ws.Event{
		Type:    "content.changed",
		Payload: json.RawMessage(`{"entity":"announcements"}`),
	})
}
