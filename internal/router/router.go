package router

import (
	"net/http"

	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/chat"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/config"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/database"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/enum"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/handler"
	mw "github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/middleware"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/settings"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// New creates a Chi router with all application routes wired up. The public
// surface is read-only plus chat; everything mutating lives under /admin
// behind JWT auth.
func New(cfg *config.Config, queries *database.Queries, cache *settings.Cache, assistant *chat.Assistant, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket subscriptions (public; change events carry entity names only)
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, w, r)
	})

	newsHandler := handler.NewNewsHandler(queries, hub)
	announcementHandler := handler.NewAnnouncementHandler(queries, hub)
	eventHandler := handler.NewEventHandler(queries, hub)
	galleryHandler := handler.NewGalleryHandler(queries, hub)
	serviceHandler := handler.NewServiceHandler(queries, hub)
	menuHandler := handler.NewMenuHandler(queries, hub)
	settingsHandler := handler.NewSettingsHandler(queries, cache, hub)

	// Public read-only surface
	r.Route("/news", newsHandler.RegisterPublicRoutes)
	r.Route("/announcements", announcementHandler.RegisterPublicRoutes)
	r.Route("/events", eventHandler.RegisterPublicRoutes)
	r.Route("/gallery", galleryHandler.RegisterPublicRoutes)
	r.Route("/services", serviceHandler.RegisterPublicRoutes)
	r.Route("/menus", menuHandler.RegisterPublicRoutes)
	r.Route("/settings", settingsHandler.RegisterPublicRoutes)

	// Public AI assistant
	chatHandler := handler.NewChatHandler(assistant)
	chatHandler.RegisterRoutes(r)

	// Admin surface (require authentication)
	r.Route("/admin", func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))
		r.Use(mw.RequireRole(enum.UserRoleSuperadmin, enum.UserRoleAdmin))

		r.Route("/news", newsHandler.RegisterAdminRoutes)
		r.Route("/announcements", announcementHandler.RegisterAdminRoutes)
		r.Route("/events", eventHandler.RegisterAdminRoutes)
		r.Route("/gallery", galleryHandler.RegisterAdminRoutes)
		r.Route("/services", serviceHandler.RegisterAdminRoutes)
		r.Route("/menus", menuHandler.RegisterAdminRoutes)
		r.Route("/settings", settingsHandler.RegisterAdminRoutes)

		iconHandler := handler.NewIconHandler()
		r.Route("/icons", iconHandler.RegisterAdminRoutes)

		// Operator management (SUPERADMIN only)
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.UserRoleSuperadmin))
			userHandler := handler.NewUserHandler(queries)
			r.Route("/users", userHandler.RegisterAdminRoutes)
		})
	})

	return r
}
