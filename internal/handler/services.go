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
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/icon"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/service"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// ServiceStore defines the database methods needed by service handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ServiceStore interface {
	ListServices(ctx context.Context) ([]database.Service, error)
	ListServicesByCategory(ctx context.Context, category string) ([]database.Service, error)
	CountServices(ctx context.Context) (int64, error)
	CreateService(ctx context.Context, arg database.CreateServiceParams) (database.Service, error)
	UpdateService(ctx context.Context, arg database.UpdateServiceParams) (database.Service, error)
	UpdateServiceDisplayOrder(ctx context.Context, arg database.UpdateServiceDisplayOrderParams) (uuid.UUID, error)
	SoftDeleteService(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// ServiceHandler handles the administrative service directory (layanan).
type ServiceHandler struct {
	store ServiceStore
	hub   *ws.Hub
}

// NewServiceHandler creates a new ServiceHandler.
func NewServiceHandler(store ServiceStore, hub *ws.Hub) *ServiceHandler {
	return &ServiceHandler{store: store, hub: hub}
}

// RegisterPublicRoutes registers the public directory endpoint.
func (h *ServiceHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.List)
}

// RegisterAdminRoutes registers service management endpoints.
// Expected to be mounted under /admin/services.
func (h *ServiceHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/reorder", h.Reorder)
}

// --- Request / Response types ---

type createServiceRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	Category     string `json:"category"`
	Requirements string `json:"requirements"`
	Fee          string `json:"fee"`
}

type updateServiceRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	Category     string `json:"category"`
	Requirements string `json:"requirements"`
	Fee          string `json:"fee"`
}

type reorderServicesRequest struct {
	ActiveID string `json:"active_id"`
	OverID   string `json:"over_id"`
	// Optional: the category filter under which the list was rendered. The
	// reorder then operates on that visible subset only.
	Category string `json:"category"`
}

type serviceResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	Icon         string    `json:"icon"`
	IconName     string    `json:"icon_name"`
	Category     string    `json:"category"`
	Requirements *string   `json:"requirements"`
	Fee          string    `json:"fee"`
	DisplayOrder int32     `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func toServiceResponse(s database.Service) serviceResponse {
	resp := serviceResponse{
		ID:           s.ID,
		Name:         s.Name,
		Icon:         s.Icon,
		IconName:     icon.Resolve(s.Icon),
		Category:     s.Category,
		DisplayOrder: s.DisplayOrder,
		IsActive:     s.IsActive,
		CreatedAt:    s.CreatedAt,
		Fee:          "0.00",
	}

	// Convert pgtype.Numeric to string for fee.
	// Always format with 2 decimal places for consistent money representation.
	if s.Fee.Valid {
		val, err := s.Fee.Value()
		if err == nil && val != nil {
			d, err := decimal.NewFromString(val.(string))
			if err == nil {
				resp.Fee = d.StringFixed(2)
			}
		}
	}

	if s.Description.Valid {
		resp.Description = &s.Description.String
	}
	if s.Requirements.Valid {
		resp.Requirements = &s.Requirements.String
	}
	return resp
}

// --- Helpers ---

var errNegativeFee = errors.New("negative fee")

func parseFee(s string) (pgtype.Numeric, error) {
	if s == "" {
		s = "0"
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return pgtype.Numeric{}, err
	}
	if d.IsNegative() {
		return pgtype.Numeric{}, errNegativeFee
	}
	var n pgtype.Numeric
	if err := n.Scan(d.String()); err != nil {
		return pgtype.Numeric{}, err
	}
	return n, nil
}

// normalizeIcon falls back to the default for unknown keys instead of
// rejecting, so a stale admin client cannot create an unrenderable row.
func normalizeIcon(key string) string {
	if icon.Valid(key) {
		return key
	}
	return icon.DefaultKey
}

// --- Handlers ---

// List returns all active services, optionally filtered by category, in
// display order.
func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		services []database.Service
		err      error
	)
	if category := r.URL.Query().Get("category"); category != "" {
		services, err = h.store.ListServicesByCategory(r.Context(), category)
	} else {
		services, err = h.store.ListServices(r.Context())
	}
	if err != nil {
		log.Printf("ERROR: list services: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]serviceResponse, len(services))
	for i, s := range services {
		resp[i] = toServiceResponse(s)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create adds a new service at the end of the directory (display_order = n).
func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.Category == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "category is required"})
		return
	}

	fee, err := parseFee(req.Fee)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid fee"})
		return
	}

	count, err := h.store.CountServices(r.Context())
	if err != nil {
		log.Printf("ERROR: count services: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	desc := pgtype.Text{}
	if req.Description != "" {
		desc = pgtype.Text{String: req.Description, Valid: true}
	}
	reqs := pgtype.Text{}
	if req.Requirements != "" {
		reqs = pgtype.Text{String: req.Requirements, Valid: true}
	}

	svc, err := h.store.CreateService(r.Context(), database.CreateServiceParams{
		Name:         req.Name,
		Description:  desc,
		Icon:         normalizeIcon(req.Icon),
		Category:     req.Category,
		Requirements: reqs,
		Fee:          fee,
		DisplayOrder: int32(count),
	})
	if err != nil {
		log.Printf("ERROR: create service: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.broadcastContentChanged("services")
	writeJSON(w, http.StatusCreated, toServiceResponse(svc))
}

// Update modifies an existing service. display_order is not editable here;
// use Reorder.
func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	svcID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid service ID"})
		return
	}

	var req updateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.Category == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "category is required"})
		return
	}

	fee, err := parseFee(req.Fee)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid fee"})
		return
	}

	desc := pgtype.Text{}
	if req.Description != "" {
		desc = pgtype.Text{String: req.Description, Valid: true}
	}
	reqs := pgtype.Text{}
	if req.Requirements != "" {
		reqs = pgtype.Text{String: req.Requirements, Valid: true}
	}

	svc, err := h.store.UpdateService(r.Context(), database.UpdateServiceParams{
		Name:         req.Name,
		Description:  desc,
		Icon:         normalizeIcon(req.Icon),
		Category:     req.Category,
		Requirements: reqs,
		Fee:          fee,
		ID:           svcID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "service not found"})
			return
		}
		log.Printf("ERROR: update service: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.broadcastContentChanged("services")
	writeJSON(w, http.StatusOK, toServiceResponse(svc))
}

// Delete soft-deletes a service by setting is_active=false.
func (h *ServiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	svcID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid service ID"})
		return
	}

	_, err = h.store.SoftDeleteService(r.Context(), svcID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "service not found"})
			return
		}
		log.Printf("ERROR: delete service: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.broadcastContentChanged("services")
	w.WriteHeader(http.StatusNoContent)
}

// Reorder persists the new order after an operator drags a service onto a new
// position. The server re-derives the rendered list (under the same category
// filter the client displayed), computes the full renumbering, and writes
// every position in parallel. On partial failure the succeeded writes stay;
// the client re-fetches the authoritative order.
func (h *ServiceHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderServicesRequest
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

	current, err := h.listFiltered(r.Context(), req.Category)
	if err != nil {
		log.Printf("ERROR: list services for reorder: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	ids := make([]uuid.UUID, len(current))
	for i, s := range current {
		ids[i] = s.ID
	}

	_, writes := service.ComputeReorder(ids, activeID, overID)
	if len(writes) > 0 {
		reorderer := service.NewReorderer(service.OrderStoreFunc(
			func(ctx context.Context, id uuid.UUID, displayOrder int32) error {
				_, err := h.store.UpdateServiceDisplayOrder(ctx, database.UpdateServiceDisplayOrderParams{
					DisplayOrder: displayOrder,
					ID:           id,
				})
				return err
			},
		))
		if err := reorderer.Apply(r.Context(), writes); err != nil {
			log.Printf("ERROR: reorder services: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": service.ErrReorderFailed.Error()})
			return
		}
		h.broadcastContentChanged("services")
	}

	// Return the authoritative post-write order.
	updated, err := h.listFiltered(r.Context(), req.Category)
	if err != nil {
		log.Printf("ERROR: list services after reorder: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]serviceResponse, len(updated))
	for i, s := range updated {
		resp[i] = toServiceResponse(s)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ServiceHandler) listFiltered(ctx context.Context, category string) ([]database.Service, error) {
	if category != "" {
		return h.store.ListServicesByCategory(ctx, category)
	}
	return h.store.ListServices(ctx)
}

func (h *ServiceHandler) broadcastContentChanged(entity string) {
	h.hub.Broadcast(enum.ChannelContent, ws.Event{
		Type:    "content.changed",
		Payload: json.RawMessage(`{"entity":"` + entity + `"}`),
	})
}
