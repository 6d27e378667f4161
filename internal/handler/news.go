package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/database"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/enum"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/middleware"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// NewsStore defines the database methods needed by news handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type NewsStore interface {
	ListPublishedNews(ctx context.Context, arg database.ListPublishedNewsParams) ([]database.News, error)
	ListAllNews(ctx context.Context) ([]database.News, error)
	GetNewsBySlug(ctx context.Context, slug string) (database.News, error)
	CreateNews(ctx context.Context, arg database.CreateNewsParams) (database.News, error)
	UpdateNews(ctx context.Context, arg database.UpdateNewsParams) (database.News, error)
	DeleteNews(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// NewsHandler handles news article endpoints.
type NewsHandler struct {
	store NewsStore
	hub   *ws.Hub
}

// NewNewsHandler creates a new NewsHandler.
func NewNewsHandler(store NewsStore, hub *ws.Hub) *NewsHandler {
	return &NewsHandler{store: store, hub: hub}
}

// RegisterPublicRoutes registers the public news endpoints.
func (h *NewsHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.ListPublished)
	r.Get("/{slug}", h.GetBySlug)
}

// RegisterAdminRoutes registers news management endpoints.
// Expected to be mounted under /admin/news.
func (h *NewsHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/", h.ListAll)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type createNewsRequest struct {
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Excerpt  string `json:"excerpt"`
	Body     string `json:"body"`
	ImageUrl string `json:"image_url"`
	Status   string `json:"status"`
}

type newsResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     *string    `json:"excerpt"`
	Body        string     `json:"body"`
	ImageUrl    *string    `json:"image_url"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toNewsResponse(n database.News) newsResponse {
	resp := newsResponse{
		ID:        n.ID,
		Title:     n.Title,
		Slug:      n.Slug,
		Body:      n.Body,
		Status:    n.Status,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
	if n.Excerpt.Valid {
		resp.Excerpt = &n.Excerpt.String
	}
	if n.ImageUrl.Valid {
		resp.ImageUrl = &n.ImageUrl.String
	}
	if n.PublishedAt.Valid {
		resp.PublishedAt = &n.PublishedAt.Time
	}
	return resp
}

// --- Helpers ---

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// slugify derives a URL slug from a title when the client did not supply one.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugUnsafe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func validNewsStatus(s string) bool {
	switch s {
	case enum.NewsStatusDraft, enum.NewsStatusPublished, enum.NewsStatusArchived:
		return true
	}
	return false
}

// --- Handlers ---

// ListPublished returns published news, newest first, with limit/offset
// pagination (default 10, max 50).
func (h *NewsHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	limit := int32(10)
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 50 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be between 1 and 50"})
			return
		}
		limit = int32(n)
	}
	offset := int32(0)
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid offset"})
			return
		}
		offset = int32(n)
	}

	items, err := h.store.ListPublishedNews(r.Context(), database.ListPublishedNewsParams{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		log.Printf("ERROR: list published news: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]newsResponse, len(items))
	for i, n := range items {
		resp[i] = toNewsResponse(n)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetBySlug returns one published article by slug.
func (h *NewsHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	item, err := h.store.GetNewsBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "news not found"})
			return
		}
		log.Printf("ERROR: get news by slug: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toNewsResponse(item))
}

// ListAll returns every article regardless of status, for the admin list.
func (h *NewsHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListAllNews(r.Context())
	if err != nil {
		log.Printf("ERROR: list news: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]newsResponse, len(items))
	for i, n := range items {
		resp[i] = toNewsResponse(n)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create adds a new article. The author is taken from the JWT claims, and
// published_at is stamped when the article is created as PUBLISHED.
func (h *NewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req createNewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}
	if req.Body == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body is required"})
		return
	}
	if req.Status == "" {
		req.Status = enum.NewsStatusDraft
	}
	if !validNewsStatus(req.Status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = slugify(req.Title)
	}
	if slug == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "slug is required"})
		return
	}

	publishedAt := pgtype.Timestamptz{}
	if req.Status == enum.NewsStatusPublished {
		publishedAt = pgtype.Timestamptz{Time: time.Now(), Valid: true}
	}

	excerpt := pgtype.Text{}
	if req.Excerpt != "" {
		excerpt = pgtype.Text{String: req.Excerpt, Valid: true}
	}
	imageUrl := pgtype.Text{}
	if req.ImageUrl != "" {
		imageUrl = pgtype.Text{String: req.ImageUrl, Valid: true}
	}

	item, err := h.store.CreateNews(r.Context(), database.CreateNewsParams{
		Title:       req.Title,
		Slug:        slug,
		Excerpt:     excerpt,
		Body:        req.Body,
		ImageUrl:    imageUrl,
		Status:      req.Status,
		PublishedAt: publishedAt,
		CreatedBy:   claims.UserID,
	})
	if err != nil {
		log.Printf("ERROR: create news: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.broadcastContentChanged()
	writeJSON(w, http.StatusCreated, toNewsResponse(item))
}

// Update modifies an existing article. Moving into PUBLISHED stamps
// published_at if not already set; the original timestamp survives
// republishing.
func (h *NewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	newsID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid news ID"})
		return
	}

	var req createNewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}
	if req.Body == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body is required"})
		return
	}
	if !validNewsStatus(req.Status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = slugify(req.Title)
	}

	// Preserve the original published_at when the article is already published.
	publishedAt := pgtype.Timestamptz{}
	if req.Status == enum.NewsStatusPublished {
		existing, err := h.store.GetNewsBySlug(r.Context(), slug)
		if err == nil && existing.ID == newsID && existing.PublishedAt.Valid {
			publishedAt = existing.PublishedAt
		} else {
			publishedAt = pgtype.Timestamptz{Time: time.Now(), Valid: true}
		}
	}

	excerpt := pgtype.Text{}
	if req.Excerpt != "" {
		excerpt = pgtype.Text{String: req.Excerpt, Valid: true}
	}
	imageUrl := pgtype.Text{}
	if req.ImageUrl != "" {
		imageUrl = pgtype.Text{String: req.ImageUrl, Valid: true}
	}

	item, err := h.store.UpdateNews(r.Context(), database.UpdateNewsParams{
		Title:       req.Title,
		Slug:        slug,
		Excerpt:     excerpt,
		Body:        req.Body,
		ImageUrl:    imageUrl,
		Status:      req.Status,
		PublishedAt: publishedAt,
		ID:          newsID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "news not found"})
			return
		}
		log.Printf("ERROR: update news: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.broadcastContentChanged()
	writeJSON(w, http.StatusOK, toNewsResponse(item))
}

// Delete removes an article permanently.
func (h *NewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	newsID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid news ID"})
		return
	}

	_, err = h.store.DeleteNews(r.Context(), newsID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "news not found"})
			return
		}
		log.Printf("ERROR: delete news: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.broadcastContentChanged()
	w.WriteHeader(http.StatusNoContent)
}

func (h *NewsHandler) broadcastContentChanged() {
	h.hub.Broadcast(enum.ChannelContent, ws.Event{
		Type:    "content.changed",
		Payload: json.RawMessage(`{"entity":"news"}`),
	})
}
