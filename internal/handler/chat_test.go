package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/chat"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/database"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/handler"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/settings"
	"github.com/go-chi/chi/v5"
)

type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(_ context.Context, _ string, _ []chat.Message, _ string) (string, error) {
	return s.reply, s.err
}

type emptyServiceStore struct{}

func (emptyServiceStore) ListServices(_ context.Context) ([]database.Service, error) {
	return nil, nil
}

func setupChatRouter(completer *stubCompleter) *chi.Mux {
	cache := settings.NewCache(newMockSettingsTable())
	assistant := chat.NewAssistant(completer, cache, emptyServiceStore{})
	h := handler.NewChatHandler(assistant)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func TestChat_ReturnsReply(t *testing.T) {
	router := setupChatRouter(&stubCompleter{reply: "Silakan datang ke kantor kelurahan."})

	rr := doRequest(t, router, "POST", "/chat", map[string]interface{}{
		"message": "Jam buka pelayanan?",
		"history": []map[string]string{
			{"role": "user", "content": "Halo"},
			{"role": "assistant", "content": "Halo, ada yang bisa dibantu?"},
		},
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeObjectResponse(t, rr)
	if resp["reply"] != "Silakan datang ke kantor kelurahan." {
		t.Errorf("reply: got %v", resp["reply"])
	}
}

func TestChat_MissingMessage(t *testing.T) {
	router := setupChatRouter(&stubCompleter{reply: "ok"})

	rr := doRequest(t, router, "POST", "/chat", map[string]interface{}{})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestChat_InvalidHistoryRole(t *testing.T) {
	router := setupChatRouter(&stubCompleter{reply: "ok"})

	rr := doRequest(t, router, "POST", "/chat", map[string]interface{}{
		"message": "Halo",
		"history": []map[string]string{{"role": "system", "content": "x"}},
	})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestChat_CompleterFailure(t *testing.T) {
	router := setupChatRouter(&stubCompleter{err: errors.New("model unavailable")})

	rr := doRequest(t, router, "POST", "/chat", map[string]interface{}{
		"message": "Halo",
	})

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}
