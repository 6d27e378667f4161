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

// GalleryStore defines the database methods needed by gallery handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type GalleryStore interface {
	ListGalleryItems(ctx context.Context) ([]database.GalleryItem, error)
	CreateGalleryItem(ctx context.Context, arg database.CreateGalleryItemParams) (database.GalleryItem, error)
	UpdateGalleryItem(ctx context.Context, arg database.UpdateGalleryItemParams) (database.GalleryItem, error)
	SoftDeleteGalleryItem(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// GalleryHandler handles photo gallery endpoints.
type GalleryHandler struct {
	store GalleryStore
	hub   *ws.Hub
}

// NewGalleryHandler creates a new GalleryHandler.
func NewGalleryHandler(store GalleryStore, hub *ws.Hub) *GalleryHandler {
	return &GalleryHandler{store: store, hub: hub}
}

// RegisterPublicRoutes registers the public gallery endpoint.
func (h *GalleryHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.List)
}

// RegisterAdminRoutes registers gallery management endpoints.
// Expected to be mounted under /admin/gallery.
func (h *GalleryHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type galleryItemRequest struct {
	Title    string     `json:"title"`
	Caption  string     `json:"caption"`
	ImageUrl string     `json:"image_url"`
	TakenAt  *time.Time `json:"taken_at"`
}

type galleryItemResponse struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Caption   *string    `json:"caption"`
	ImageUrl  string     `json:"image_url"`
	TakenAt   *time.Time `json:"taken_at"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
}

func toGalleryItemResponse(g database.GalleryItem) galleryItemResponse {
	resp := galleryItemResponse{
		ID:        g.ID,
		Title:     g.Title,
		ImageUrl:  g.ImageUrl,
		IsActive:  g.IsActive,
		CreatedAt: g.CreatedAt,
	}
	if g.Caption.Valid {
		resp.Caption = &g.Caption.String
	}
	if g.TakenAt.Valid {
		resp.TakenAt = &g.TakenAt.Time
	}
	return resp
}

// --- Handlers ---

// List returns all active gallery items, newest shot first.
func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListGalleryItems(r.Context())
	if err != nil {
		log.Printf("ERROR: list gallery items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]galleryItemResponse, len(items))
	for i, g := range items {
		resp[i] = toGalleryItemResponse(g)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create adds a new gallery item.
func (h *GalleryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req galleryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}
	if req.ImageUrl == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "image_url is required"})
		return
	}

	caption := pgtype.Text{}
	if req.Caption != "" {
		caption = pgtype.Text{String: req.Caption, Valid: true}
	}
	takenAt := pgtype.Timestamptz{}
	if req.TakenAt != nil {
		takenAt = pgtype.Timestamptz{Time: *req.TakenAt, Valid: true}
	}

	item, err := h.store.CreateGalleryItem(r.Context(), database.CreateGalleryItemParams{
		Title:    req.Title,
		Caption:  caption,
		ImageUrl: req.ImageUrl,
		TakenAt:  takenAt,
	})
	if err != nil {
		log.Printf("ERROR: create gallery item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.broadcastContentChanged()
	writeJSON(w, http.StatusCreated, toGalleryItemResponse(item))
}

// Update modifies an existing gallery item.
func (h *GalleryHandler) Update(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid gallery item ID"})
		return
	}

	var req galleryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}
	if req.ImageUrl == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "image_url is required"})
		return
	}

	caption := pgtype.Text{}
	if req.Caption != "" {
		caption = pgtype.Text{String: req.Caption, Valid: true}
	}
	takenAt := pgtype.Timestamptz{}
	if req.TakenAt != nil {
		takenAt = pgtype.Timestamptz{Time: *req.TakenAt, Valid: true}
	}

	item, err := h.store.UpdateGalleryItem(r.Context(), database.UpdateGalleryItemParams{
		Title:    req.Title,
		Caption:  caption,
		ImageUrl: req.ImageUrl,
		TakenAt:  takenAt,
		ID:       itemID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "gallery item not found"})
			return
		}
		log.Printf("ERROR: update gallery item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.broadcastContentChanged()
	writeJSON(w, http.StatusOK, toGalleryItemResponse(item))
}

// Delete soft-deletes a gallery item.
func (h *GalleryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid gallery item ID"})
		return
	}

	_, err = h.store.SoftDeleteGalleryItem(r.Context(), itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "gallery item not found"})
			return
		}
		log.Printf("ERROR: delete gallery item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.broadcastContentChanged()
	w.WriteHeader(http.StatusNoContent)
}

func (h *GalleryHandler) broadcastContentChanged() {
	h.hub.Broadcast(enum.ChannelContent, ws.Event{
		Type:    "content.changed",
		Payload: json.RawMessage(`{"entity":"gallery"}`),
	})
}
