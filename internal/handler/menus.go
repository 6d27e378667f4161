package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/database"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/enum"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/icon"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/service"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// MenuStore defines the database methods needed by menu handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type MenuStore interface {
	ListMenusByLocation(ctx context.Context, location string) ([]database.Menu, error)
	ListMenusByGroup(ctx context.Context, arg database.ListMenusByGroupParams) ([]database.Menu, error)
	CountMenusInGroup(ctx context.Context, arg database.CountMenusInGroupParams) (int64, error)
	CreateMenu(ctx context.Context, arg database.CreateMenuParams) (database.Menu, error)
	UpdateMenu(ctx context.Context, arg database.UpdateMenuParams) (database.Menu, error)
	UpdateMenuDisplayOrder(ctx context.Context, arg database.UpdateMenuDisplayOrderParams) (uuid.UUID, error)
	SoftDeleteMenu(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// MenuHandler handles navigation menu endpoints.
type MenuHandler struct {
	store MenuStore
	hub   *ws.Hub
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(store MenuStore, hub *ws.Hub) *MenuHandler {
	return &MenuHandler{store: store, hub: hub}
}

// RegisterPublicRoutes registers the public navigation endpoint.
func (h *MenuHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.List)
}

// RegisterAdminRoutes registers menu management endpoints.
// Expected to be mounted under /admin/menus.
func (h *MenuHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/reorder", h.Reorder)
}

// --- Request / Response types ---

type createMenuRequest struct {
	Label    string `json:"label"`
	Url      string `json:"url"`
	Icon     string `json:"icon"`
	Location string `json:"location"`
	ParentID string `json:"parent_id"`
}

type updateMenuRequest struct {
	Label    string `json:"label"`
	Url      string `json:"url"`
	Icon     string `json:"icon"`
	Location string `json:"location"`
	// Reparenting happens here, through an explicit field -- never by drag.
	ParentID string `json:"parent_id"`
}

type reorderMenusRequest struct {
	ActiveID string `json:"active_id"`
	OverID   string `json:"over_id"`
	Location string `json:"location"`
	// Optional: reorder within the children of this parent. Empty means the
	// top-level list for the location.
	ParentID string `json:"parent_id"`
}

type menuResponse struct {
	ID           uuid.UUID  `json:"id"`
	Label        string     `json:"label"`
	Url          string     `json:"url"`
	Icon         *string    `json:"icon"`
	IconName     *string    `json:"icon_name"`
	Location     string     `json:"location"`
	ParentID     *uuid.UUID `json:"parent_id"`
	DisplayOrder int32      `json:"display_order"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
}

func toMenuResponse(m database.Menu) menuResponse {
	resp := menuResponse{
		ID:           m.ID,
		Label:        m.Label,
		Url:          m.Url,
		Location:     m.Location,
		DisplayOrder: m.DisplayOrder,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
	}
	if m.Icon.Valid {
		resp.Icon = &m.Icon.String
		name := icon.Resolve(m.Icon.String)
		resp.IconName = &name
	}
	if m.ParentID.Valid {
		id := uuid.UUID(m.ParentID.Bytes)
		resp.ParentID = &id
	}
	return resp
}

// --- Helpers ---

func parseLocation(s string) (string, bool) {
	switch strings.ToUpper(s) {
	case enum.MenuLocationHeader:
		return enum.MenuLocationHeader, true
	case enum.MenuLocationFooter:
		return enum.MenuLocationFooter, true
	}
	return "", false
}

// parseParentID maps an empty string to the null UUID (top-level group).
func parseParentID(s string) (pgtype.UUID, error) {
	if s == "" {
		return pgtype.UUID{}, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{}, err
	}
	return pgtype.UUID{Bytes: id, Valid: true}, nil
}

// --- Handlers ---

// List returns all active menus for the given location in display order.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	location, ok := parseLocation(r.URL.Query().Get("location"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "location must be header or footer"})
		return
	}

	menus, err := h.store.ListMenusByLocation(r.Context(), location)
	if err != nil {
		log.Printf("ERROR: list menus: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]menuResponse, len(menus))
	for i, m := range menus {
		resp[i] = toMenuResponse(m)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create adds a new menu at the end of its sibling group (display_order = n).
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Label == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "label is required"})
		return
	}
	if req.Url == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "url is required"})
		return
	}
	location, ok := parseLocation(req.Location)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "location must be header or footer"})
		return
	}
	parentID, err := parseParentID(req.ParentID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid parent_id"})
		return
	}

	count, err := h.store.CountMenusInGroup(r.Context(), database.CountMenusInGroupParams{
		Location: location,
		ParentID: parentID,
	})
	if err != nil {
		log.Printf("ERROR: count menus: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	iconText := pgtype.Text{}
	if req.Icon != "" {
		iconText = pgtype.Text{String: normalizeIcon(req.Icon), Valid: true}
	}

	menu, err := h.store.CreateMenu(r.Context(), database.CreateMenuParams{
		Label:        req.Label,
		Url:          req.Url,
		Icon:         iconText,
		Location:     location,
		ParentID:     parentID,
		DisplayOrder: int32(count),
	})
	if err != nil {
		log.Printf("ERROR: create menu: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.broadcastContentChanged()
	writeJSON(w, http.StatusCreated, toMenuResponse(menu))
}

// Update modifies an existing menu, including reparenting via parent_id.
func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	menuID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu ID"})
		return
	}

	var req updateMenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Label == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "label is required"})
		return
	}
	if req.Url == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "url is required"})
		return
	}
	location, ok := parseLocation(req.Location)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "location must be header or footer"})
		return
	}
	parentID, err := parseParentID(req.ParentID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid parent_id"})
		return
	}
	if parentID.Valid && uuid.UUID(parentID.Bytes) == menuID {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "menu cannot be its own parent"})
		return
	}

	iconText := pgtype.Text{}
	if req.Icon != "" {
		iconText = pgtype.Text{String: normalizeIcon(req.Icon), Valid: true}
	}

	menu, err := h.store.UpdateMenu(r.Context(), database.UpdateMenuParams{
		Label:    req.Label,
		Url:      req.Url,
		Icon:     iconText,
		Location: location,
		ParentID: parentID,
		ID:       menuID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu not found"})
			return
		}
		log.Printf("ERROR: update menu: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.broadcastContentChanged()
	writeJSON(w, http.StatusOK, toMenuResponse(menu))
}

// Delete soft-deletes a menu by setting is_active=false.
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	menuID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu ID"})
		return
	}

	_, err = h.store.SoftDeleteMenu(r.Context(), menuID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu not found"})
			return
		}
		log.Printf("ERROR: delete menu: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.broadcastContentChanged()
	w.WriteHeader(http.StatusNoContent)
}

// Reorder persists the new order within one sibling group after a drag.
// Reordering never crosses group boundaries: the dragged menu stays under the
// same (location, parent) and only its position among siblings changes.
func (h *MenuHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderMenusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	activeID, err := uuid.Parse(req.ActiveID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid active_id"})
		return
	}
	overID, err := uuid.Parse(req.OverID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid over_id"})
		return
	}
	location, ok := parseLocation(req.Location)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "location must be header or footer"})
		return
	}
	parentID, err := parseParentID(req.ParentID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid parent_id"})
		return
	}

	group := database.ListMenusByGroupParams{Location: location, ParentID: parentID}
	current, err := h.store.ListMenusByGroup(r.Context(), group)
	if err != nil {
		log.Printf("ERROR: list menus for reorder: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	ids := make([]uuid.UUID, len(current))
	for i, m := range current {
		ids[i] = m.ID
	}

	_, writes := service.ComputeReorder(ids, activeID, overID)
	if len(writes) > 0 {
		reorderer := service.NewReorderer(service.OrderStoreFunc(
			func(ctx context.Context, id uuid.UUID, displayOrder int32) error {
				_, err := h.store.UpdateMenuDisplayOrder(ctx, database.UpdateMenuDisplayOrderParams{
					DisplayOrder: displayOrder,
					ID:           id,
				})
				return err
			},
		))
		if err := reorderer.Apply(r.Context(), writes); err != nil {
			log.Printf("ERROR: reorder menus: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": service.ErrReorderFailed.Error()})
			return
		}
		h.broadcastContentChanged()
	}

	updated, err := h.store.ListMenusByGroup(r.Context(), group)
	if err != nil {
		log.Printf("ERROR: list menus after reorder: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]menuResponse, len(updated))
	for i, m := range updated {
		resp[i] = toMenuResponse(m)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *MenuHandler) broadcastContentChanged() {
	h.hub.Broadcast(enum.ChannelContent, ws.Event{
		Type:    "content.changed",
		Payload: json.RawMessage(`{"entity":"menus"}`),
	})
}
