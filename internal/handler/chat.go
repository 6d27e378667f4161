package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/chat"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/enum"
	"github.com/go-chi/chi/v5"
)

// ChatHandler exposes the public AI assistant endpoint.
type ChatHandler struct {
	assistant *chat.Assistant
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(assistant *chat.Assistant) *ChatHandler {
	return &ChatHandler{assistant: assistant}
}

// RegisterRoutes registers the chat endpoint.
func (h *ChatHandler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.Chat)
}

type chatRequest struct {
	Message string         `json:"message"`
	History []chat.Message `json:"history"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// Chat forwards a resident question, with the client-held transcript, to the
// assistant and returns the reply.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}
	for _, m := range req.History {
		if m.Role != enum.ChatRoleUser && m.Role != enum.ChatRoleAssistant {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "history roles must be user or assistant"})
			return
		}
	}

	reply, err := h.assistant.Reply(r.Context(), req.History, req.Message)
	if err != nil {
		log.Printf("ERROR: chat completion: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "asisten sedang tidak tersedia"})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}
