// Package chat implements the public AI assistant. Transcripts live on the
// client; the server only builds the system prompt and forwards one completion
// call per request.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/database"
	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/settings"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Limits the portion of a client-held transcript replayed into the prompt.
const maxHistoryMessages = 20

// Message is one turn of the client-held transcript.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Completer produces an assistant reply for a transcript.
type Completer interface {
	Complete(ctx context.Context, system string, history []Message, message string) (string, error)
}

// Disabled is the Completer used when no model is configured. Every request
// fails so the handler returns an unavailable error instead of the server
// refusing to boot.
type Disabled struct{}

func (Disabled) Complete(context.Context, string, []Message, string) (string, error) {
	return "", errDisabled
}

var errDisabled = errors.New("chat assistant is not configured")

// ServiceStore defines the database methods the assistant needs to describe
// the service directory. Satisfied by *database.Queries.
type ServiceStore interface {
	ListServices(ctx context.Context) ([]database.Service, error)
}

// Assistant answers resident questions grounded in the site settings and the
// service directory.
type Assistant struct {
	completer Completer
	settings  *settings.Cache
	store     ServiceStore
}

func NewAssistant(completer Completer, cache *settings.Cache, store ServiceStore) *Assistant {
	return &Assistant{completer: completer, settings: cache, store: store}
}

// Reply builds the system prompt and forwards the transcript to the model.
func (a *Assistant) Reply(ctx context.Context, history []Message, message string) (string, error) {
	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}

	system, err := a.buildSystemPrompt(ctx)
	if err != nil {
		return "", err
	}
	return a.completer.Complete(ctx, system, history, message)
}

func (a *Assistant) buildSystemPrompt(ctx context.Context) (string, error) {
	site, err := a.settings.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("load settings: %w", err)
	}
	services, err := a.store.ListServices(ctx)
	if err != nil {
		return "", fmt.Errorf("load services: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Anda adalah asisten virtual %s.\n", site.SiteName)
	b.WriteString("Jawab pertanyaan warga dengan singkat, ramah, dan dalam Bahasa Indonesia.\n")
	b.WriteString("Jika pertanyaan di luar layanan kelurahan, arahkan warga untuk datang langsung ke kantor kelurahan.\n\n")

	if site.Address != "" {
		fmt.Fprintf(&b, "Alamat kantor: %s\n", site.Address)
	}
	if site.Phone != "" {
		fmt.Fprintf(&b, "Telepon: %s\n", site.Phone)
	}
	if site.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", site.Email)
	}

	if len(services) > 0 {
		b.WriteString("\nDaftar layanan yang tersedia:\n")
		for _, s := range services {
			fmt.Fprintf(&b, "- %s (%s)", s.Name, s.Category)
			if fee := formatFee(s.Fee); fee != "" {
				fmt.Fprintf(&b, ", biaya Rp %s", fee)
			}
			if s.Requirements.Valid && s.Requirements.String != "" {
				fmt.Fprintf(&b, ". Persyaratan: %s", s.Requirements.String)
			}
			b.WriteString("\n")
		}
	}

	if site.ChatContext != "" {
		b.WriteString("\n")
		b.WriteString(site.ChatContext)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func formatFee(fee pgtype.Numeric) string {
	if !fee.Valid {
		return ""
	}
	val, err := fee.Value()
	if err != nil || val == nil {
		return ""
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil || d.IsZero() {
		return ""
	}
	return d.StringFixed(2)
}
