package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/database"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/enum"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/settings"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/ws"
	"github.com/go-chi/chi/v5"
)

// SettingsStore defines the database methods needed by settings handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type SettingsStore interface {
	UpsertSetting(ctx context.Context, arg database.UpsertSettingParams) (database.Setting, error)
}

// SettingsHandler handles site settings endpoints. Reads go through the
// process-wide cache; writes upsert the key/value rows and invalidate it.
type SettingsHandler struct {
	store SettingsStore
	cache *settings.Cache
	hub   *ws.Hub
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(store SettingsStore, cache *settings.Cache, hub *ws.Hub) *SettingsHandler {
	return &SettingsHandler{store: store, cache: cache, hub: hub}
}

// RegisterPublicRoutes registers the public settings endpoint.
func (h *SettingsHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.Get)
}

// RegisterAdminRoutes registers settings management endpoints.
// Expected to be mounted under /admin/settings.
func (h *SettingsHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Put("/", h.Update)
}

var knownSettingKeys = map[string]bool{
	settings.KeySiteName:    true,
	settings.KeyTagline:     true,
	settings.KeyAddress:     true,
	settings.KeyPhone:       true,
	settings.KeyEmail:       true,
	settings.KeyLogoURL:     true,
	settings.KeyFacebook:    true,
	settings.KeyInstagram:   true,
	settings.KeyYoutube:     true,
	settings.KeyThemeColor:  true,
	settings.KeyChatContext: true,
}

// Get returns the normalized site settings view model.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	site, err := h.cache.Get(r.Context())
	if err != nil {
		log.Printf("ERROR: load settings: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, site)
}

// Update upserts a batch of settings keys. Unknown keys are rejected so typos
// in admin clients surface instead of silently accumulating dead rows.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no settings provided"})
		return
	}

	for key := range req {
		if !knownSettingKeys[key] {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown setting key: " + key})
			return
		}
	}

	for key, value := range req {
		if _, err := h.store.UpsertSetting(r.Context(), database.UpsertSettingParams{
			Key:   key,
			Value: value,
		}); err != nil {
			log.Printf("ERROR: upsert setting %s: %v", key, err)
			// Keys upserted earlier in the batch are already persisted;
			// drop the cached view so reads do not serve stale values.
			h.cache.Invalidate()
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
	}

	h.cache.Invalidate()
	h.hub.Broadcast(enum.ChannelSettings, ws.Event{
		Type:    "settings.updated",
		Payload: json.RawMessage(`{}`),
	})

	site, err := h.cache.Get(r.Context())
	if err != nil {
		log.Printf("ERROR: reload settings: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, site)
}
