package chat

import (
	"context"
	"testing"

	"google.golang.org/genai"
)

func TestContentRole(t *testing.T) {
	if got := contentRole("assistant"); got != genai.RoleModel {
		t.Errorf("assistant: got %q, want %q", got, genai.RoleModel)
	}
	if got := contentRole("user"); got != genai.RoleUser {
		t.Errorf("user: got %q, want %q", got, genai.RoleUser)
	}
	if got := contentRole(""); got != genai.RoleUser {
		t.Errorf("empty role: got %q, want %q", got, genai.RoleUser)
	}
}

func TestNewGemini_RequiresAPIKey(t *testing.T) {
	if _, err := NewGemini(context.Background(), "", "gemini-2.0-flash"); err == nil {
		t.Error("expected error for empty api key")
	}
}
