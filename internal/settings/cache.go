package settings

import (
	"context"
	"sync"

	"github.com/SemperBaratlurah/siladasembaraplikasi-mobile-sub000/internal/database"
)

// Setting keys as persisted in the settings table.
const (
	KeySiteName    = "site_name"
	KeyTagline     = "tagline"
	KeyAddress     = "address"
	KeyPhone       = "phone"
	KeyEmail       = "email"
	KeyLogoURL     = "logo_url"
	KeyFacebook    = "facebook_url"
	KeyInstagram   = "instagram_url"
	KeyYoutube     = "youtube_url"
	KeyThemeColor  = "theme_color"
	KeyChatContext = "chat_context"
)

// SiteSettings is the typed view model normalized from the key/value table.
type SiteSettings struct {
	SiteName    string `json:"site_name"`
	Tagline     string `json:"tagline"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	LogoURL     string `json:"logo_url"`
	Facebook    string `json:"facebook_url"`
	Instagram   string `json:"instagram_url"`
	Youtube     string `json:"youtube_url"`
	ThemeColor  string `json:"theme_color"`
	ChatContext string `json:"chat_context"`
}

// Store defines the database methods needed by the settings cache.
// Satisfied by *database.Queries.
type Store interface {
	ListSettings(ctx context.Context) ([]database.Setting, error)
}

// Cache is a process-wide read-through cache over the settings table. It loads
// lazily on first Get and serves the cached view model until Invalidate is
// called (by the settings update handler, or by a change-notification event in
// a multi-instance deployment).
type Cache struct {
	store Store

	mu     sync.RWMutex
	loaded bool
	value  SiteSettings
}

func NewCache(store Store) *Cache {
	return &Cache{store: store}
}

// Get returns the cached settings, loading from the store on first use or
// after an Invalidate.
func (c *Cache) Get(ctx context.Context) (SiteSettings, error) {
	c.mu.RLock()
	if c.loaded {
		v := c.value
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.value, nil
	}

	rows, err := c.store.ListSettings(ctx)
	if err != nil {
		return SiteSettings{}, err
	}
	c.value = normalize(rows)
	c.loaded = true
	return c.value, nil
}

// Invalidate drops the cached value; the next Get re-reads the store.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.mu.Unlock()
}

func normalize(rows []database.Setting) SiteSettings {
	s := SiteSettings{
		SiteName:   "Kelurahan Semper Barat",
		ThemeColor: "#1e6b3a",
	}
	for _, row := range rows {
		switch row.Key {
		case KeySiteName:
			s.SiteName = row.Value
		case KeyTagline:
			s.Tagline = row.Value
		case KeyAddress:
			s.Address = row.Value
		case KeyPhone:
			s.Phone = row.Value
		case KeyEmail:
			s.Email = row.Value
		case KeyLogoURL:
			s.LogoURL = row.Value
		case KeyFacebook:
			s.Facebook = row.Value
		case KeyInstagram:
			s.Instagram = row.Value
		case KeyYoutube:
			s.Youtube = row.Value
		case KeyThemeColor:
			s.ThemeColor = row.Value
		case KeyChatContext:
			s.ChatContext = row.Value
		}
		// Unknown keys are ignored; the table may carry keys newer than this
		// binary.
	}
	return s
}
