package handler

import (
	"net/http"

	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/icon"
	"github.com/go-chi/chi/v5"
)

// IconHandler lists the icon keys admin clients may assign to services and
// menus.
type IconHandler struct{}

// NewIconHandler creates a new IconHandler.
func NewIconHandler() *IconHandler {
	return &IconHandler{}
}

// RegisterAdminRoutes registers the icon listing endpoint.
// Expected to be mounted under /admin/icons.
func (h *IconHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/", h.List)
}

// List returns the registered icon keys in sorted order.
func (h *IconHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"icons": icon.Keys()})
}
