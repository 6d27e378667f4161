package icon

import "testing"

func TestResolve_KnownKey(t *testing.T) {
	if got := Resolve("id-card"); got != "IdCard" {
		t.Errorf("resolve id-card: got %q, want IdCard", got)
	}
}

func TestResolve_UnknownKeyFallsBack(t *testing.T) {
	want := Resolve(DefaultKey)
	if got := Resolve("no-such-icon"); got != want {
		t.Errorf("resolve unknown: got %q, want fallback %q", got, want)
	}
	if got := Resolve(""); got != want {
		t.Errorf("resolve empty: got %q, want fallback %q", got, want)
	}
}

func TestValid(t *testing.T) {
	if !Valid("home") {
		t.Error("home should be a valid icon key")
	}
	if Valid("definitely-not-registered") {
		t.Error("unregistered key reported valid")
	}
}

func TestKeys_ContainsDefault(t *testing.T) {
	found := false
	for _, k := range Keys() {
		if k == DefaultKey {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("Keys() missing default key %q", DefaultKey)
	}
}
