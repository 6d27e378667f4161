// Package icon maps persisted icon keys to the fixed set of icon names the
// frontend bundles. Unknown keys fall back to a default instead of failing, so
// stale rows never break rendering.
package icon

import "sort"

// DefaultKey is returned for any key not in the registry.
const DefaultKey = "file-text"

var registry = map[string]string{
	"file-text":    "FileText",
	"id-card":      "IdCard",
	"home":         "Home",
	"users":        "Users",
	"baby":         "Baby",
	"heart":        "Heart",
	"briefcase":    "Briefcase",
	"graduation":   "GraduationCap",
	"landmark":     "Landmark",
	"map-pin":      "MapPin",
	"phone":        "Phone",
	"mail":         "Mail",
	"calendar":     "Calendar",
	"camera":       "Camera",
	"newspaper":    "Newspaper",
	"megaphone":    "Megaphone",
	"shield":       "Shield",
	"stamp":        "Stamp",
	"scroll":       "Scroll",
	"handshake":    "Handshake",
	"building":     "Building2",
	"tree":         "TreePine",
	"recycle":      "Recycle",
	"chevron-down": "ChevronDown",
}

// Resolve returns the renderable icon name for a persisted key, falling back
// to the default for unknown or empty keys.
func Resolve(key string) string {
	if name, ok := registry[key]; ok {
		return name
	}
	return registry[DefaultKey]
}

// Valid reports whether key names a bundled icon.
func Valid(key string) bool {
	_, ok := registry[key]
	return ok
}

// Keys returns all registered icon keys in sorted order, for the admin icon
// picker.
func Keys() []string {
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
