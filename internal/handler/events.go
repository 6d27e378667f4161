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

// EventStore defines the database methods needed by event handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type EventStore interface {
	ListUpcomingEvents(ctx context.Context) ([]database.Event, error)
	ListEvents(ctx context.Context) ([]database.Event, error)
	CreateEvent(ctx context.Context, arg database.CreateEventParams) (database.Event, error)
	UpdateEvent(ctx context.Context, arg database.UpdateEventParams) (database.Event, error)
	SoftDeleteEvent(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// EventHandler handles community event (agenda) endpoints.
type EventHandler struct {
	store EventStore
	hub   *ws.Hub
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(store EventStore, hub *ws.Hub) *EventHandler {
	return &EventHandler{store: store, hub: hub}
}

// RegisterPublicRoutes registers the public agenda endpoint.
func (h *EventHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.ListUpcoming)
}

// RegisterAdminRoutes registers event management endpoints.
// Expected to be mounted under /admin/events.
func (h *EventHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/", h.ListAll)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type eventRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	ImageUrl    string     `json:"image_url"`
}

type eventResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	ImageUrl    *string    `json:"image_url"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toEventResponse(e database.Event) eventResponse {
	resp := eventResponse{
		ID:        e.ID,
		Title:     e.Title,
		StartsAt:  e.StartsAt,
		IsActive:  e.IsActive,
		CreatedAt: e.CreatedAt,
	}
	if e.Description.Valid {
		resp.Description = &e.Description.String
	}
	if e.Location.Valid {
		resp.Location = &e.Location.String
	}
	if e.EndsAt.Valid {
		resp.EndsAt = &e.EndsAt.Time
	}
	if e.ImageUrl.Valid {
		resp.ImageUrl = &e.ImageUrl.String
	}
	return resp
}

func eventParamsFromRequest(req eventRequest) (database.CreateEventParams, bool) {
	if req.Title == "" || req.StartsAt.IsZero() {
		return database.CreateEventParams{}, false
	}

	endsAt := pgtype.Timestamptz{}
	if req.EndsAt != nil {
		if req.EndsAt.Before(req.StartsAt) {
			return database.CreateEventParams{}, false
		}
		endsAt = pgtype.Timestamptz{Time: *req.EndsAt, Valid: true}
	}

	desc := pgtype.Text{}
	if req.Description != "" {
		desc = pgtype.Text{String: req.Description, Valid: true}
	}
	loc := pgtype.Text{}
	if req.Location != "" {
		loc = pgtype.Text{String: req.Location, Valid: true}
	}
	imageUrl := pgtype.Text{}
	if req.ImageUrl != "" {
		imageUrl = pgtype.Text{String: req.ImageUrl, Valid: true}
	}

	return database.CreateEventParams{
		Title:       req.Title,
		Description: desc,
		Location:    loc,
		StartsAt:    pgtype.Timestamptz{Time: req.StartsAt, Valid: true},
		EndsAt:      endsAt,
		ImageUrl:    imageUrl,
	}, true
}

// --- Handlers ---

// ListUpcoming returns active events that have not started yet, soonest first.
func (h *EventHandler) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListUpcomingEvents(r.Context())
	if err != nil {
		log.Printf("ERROR: list upcoming events: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]eventResponse, len(items))
	for i, e := range items {
		resp[i] = toEventResponse(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListAll returns every active event including past ones for the admin list.
func (h *EventHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListEvents(r.Context())
	if err != nil {
		log.Printf("ERROR: list events: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]eventResponse, len(items))
	for i, e := range items {
		resp[i] = toEventResponse(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create adds a new event.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	params, ok := eventParamsFromRequest(req)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title and starts_at are required; ends_at must not precede starts_at"})
		return
	}

	item, err := h.store.CreateEvent(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: create event: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.broadcastContentChanged()
	writeJSON(w, http.StatusCreated, toEventResponse(item))
}

// Update modifies an existing event.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid event ID"})
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	params, ok := eventParamsFromRequest(req)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title and starts_at are required; ends_at must not precede starts_at"})
		return
	}

	item, err := h.store.UpdateEvent(r.Context(), database.UpdateEventParams{
		Title:       params.Title,
		Description: params.Description,
		Location:    params.Location,
		StartsAt:    params.StartsAt,
		EndsAt:      params.EndsAt,
		ImageUrl:    params.ImageUrl,
		ID:          eventID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "event not found"})
			return
		}
		log.Printf("ERROR: update event: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.broadcastContentChanged()
	writeJSON(w, http.StatusOK, toEventResponse(item))
}

// Delete soft-deletes an event.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid event ID"})
		return
	}

	_, err = h.store.SoftDeleteEvent(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "event not found"})
			return
		}
		log.Printf("ERROR: delete event: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.broadcastContentChanged()
	w.WriteHeader(http.StatusNoContent)
}

func (h *EventHandler) broadcastContentChanged() {
	h.hub.Broadcast(enum.ChannelContent, ws.Event{
		Type:    "content.changed",
		Payload: json.RawMessage(`{"entity":"events"}`),
	})
}
