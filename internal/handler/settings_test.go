package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/database"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/handler"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/settings"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/ws"
	"github.com/go-chi/chi/v5"
)

// --- Mock store ---

type mockSettingsTable struct {
	rows     map[string]string
	failKeys map[string]bool
}

func newMockSettingsTable() *mockSettingsTable {
	return &mockSettingsTable{
		rows:     make(map[string]string),
		failKeys: make(map[string]bool),
	}
}

func (m *mockSettingsTable) ListSettings(_ context.Context) ([]database.Setting, error) {
	var items []database.Setting
	for k, v := range m.rows {
		items = append(items, database.Setting{Key: k, Value: v, UpdatedAt: time.Now()})
	}
	return items, nil
}

func (m *mockSettingsTable) UpsertSetting(_ context.Context, arg database.UpsertSettingParams) (database.Setting, error) {
	// The row lands even for failing keys, like a timeout racing a
	// committed write.
	m.rows[arg.Key] = arg.Value
	if m.failKeys[arg.Key] {
		return database.Setting{}, errors.New("write failed")
	}
	return database.Setting{Key: arg.Key, Value: arg.Value, UpdatedAt: time.Now()}, nil
}

func setupSettingsRouter(table *mockSettingsTable) *chi.Mux {
	cache := settings.NewCache(table)
	h := handler.NewSettingsHandler(table, cache, ws.NewHub())
	r := chi.NewRouter()
	r.Route("/settings", h.RegisterPublicRoutes)
	r.Route("/admin/settings", h.RegisterAdminRoutes)
	return r
}

// --- Tests ---

func TestSettingsGet_Defaults(t *testing.T) {
	router := setupSettingsRouter(newMockSettingsTable())

	rr := doRequest(t, router, "GET", "/settings", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	resp := decodeObjectResponse(t, rr)
	if resp["site_name"] != "Kelurahan Semper Barat" {
		t.Errorf("site_name default: got %v", resp["site_name"])
	}
	if resp["theme_color"] != "#1e6b3a" {
		t.Errorf("theme_color default: got %v", resp["theme_color"])
	}
}

func TestSettingsUpdate_PersistsAndServesFreshValue(t *testing.T) {
	table := newMockSettingsTable()
	router := setupSettingsRouter(table)

	// Warm the cache first so the update must invalidate it.
	doRequest(t, router, "GET", "/settings", nil)

	rr := doRequest(t, router, "PUT", "/admin/settings", map[string]string{
		"tagline": "Melayani dengan hati",
		"phone":   "021-4400123",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeObjectResponse(t, rr)
	if resp["tagline"] != "Melayani dengan hati" {
		t.Errorf("tagline: got %v", resp["tagline"])
	}

	// A subsequent public read sees the new value too.
	rr = doRequest(t, router, "GET", "/settings", nil)
	resp = decodeObjectResponse(t, rr)
	if resp["phone"] != "021-4400123" {
		t.Errorf("phone after invalidate: got %v", resp["phone"])
	}
}

func TestSettingsUpdate_RejectsUnknownKey(t *testing.T) {
	table := newMockSettingsTable()
	router := setupSettingsRouter(table)

	rr := doRequest(t, router, "PUT", "/admin/settings", map[string]string{
		"site_nmae": "typo",
	})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if _, ok := table.rows["site_nmae"]; ok {
		t.Error("unknown key must not be persisted")
	}
}

func TestSettingsUpdate_FailedBatchStillInvalidatesCache(t *testing.T) {
	table := newMockSettingsTable()
	table.failKeys["phone"] = true
	router := setupSettingsRouter(table)

	// Warm the cache with the defaults.
	doRequest(t, router, "GET", "/settings", nil)

	rr := doRequest(t, router, "PUT", "/admin/settings", map[string]string{
		"phone": "021-4400999",
	})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusInternalServerError)
	}

	// The row was persisted despite the reported error; a public read must
	// reload instead of serving the cached pre-update value.
	rr = doRequest(t, router, "GET", "/settings", nil)
	resp := decodeObjectResponse(t, rr)
	if resp["phone"] != "021-4400999" {
		t.Errorf("phone after failed batch: got %v, want fresh value", resp["phone"])
	}
}

func TestSettingsUpdate_EmptyBody(t *testing.T) {
	router := setupSettingsRouter(newMockSettingsTable())

	rr := doRequest(t, router, "PUT", "/admin/settings", map[string]string{})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
