package chi

import (
	"encoding/base64"
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func principalHeaderValue(t *testing.T, claims []principalClaim) string {
	t.Helper()
	raw, err := json.Marshal(clientPrincipal{Claims: claims})
	if err != nil {
		t.Fatalf("marshal principal: %v", err)
	}
	return base64.StdEncoding.EncodeToString(raw)
}

func TestResolve_EmailClaim(t *testing.T) {
	id := NewIdentity(nil)
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set(principalHeader, principalHeaderValue(t, []principalClaim{
		{Type: nameClaimType, Value: "Alice"},
		{Type: emailClaimType, Value: "alice@example.com"},
	}))

	if got := id.Resolve(r); got != "alice@example.com" {
		t.Errorf("expected email claim to win, got %q", got)
	}
}

func TestResolve_NameFallback(t *testing.T) {
	id := NewIdentity(nil)
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set(principalHeader, principalHeaderValue(t, []principalClaim{
		{Type: nameClaimType, Value: "Alice"},
	}))

	if got := id.Resolve(r); got != "Alice" {
		t.Errorf("expected name claim fallback, got %q", got)
	}
}

func TestResolve_Anonymous(t *testing.T) {
	id := NewIdentity(nil)

	r := httptest.NewRequest("GET", "/", nil)
	if got := id.Resolve(r); got != anonymousUser {
		t.Errorf("missing header: got %q", got)
	}

	r.Header.Set(principalHeader, "%%%not-base64%%%")
	if got := id.Resolve(r); got != anonymousUser {
		t.Errorf("malformed header: got %q", got)
	}

	r.Header.Set(principalHeader, base64.StdEncoding.EncodeToString([]byte("not json")))
	if got := id.Resolve(r); got != anonymousUser {
		t.Errorf("non-json payload: got %q", got)
	}
}

func TestIsAdmin_CaseInsensitive(t *testing.T) {
	id := NewIdentity([]string{" Admin@Example.com ", ""})

	if !id.IsAdmin("admin@example.com") {
		t.Error("lowercase email should match")
	}
	if !id.IsAdmin("ADMIN@EXAMPLE.COM") {
		t.Error("uppercase email should match")
	}
	if id.IsAdmin("other@example.com") {
		t.Error("unlisted email must not match")
	}
	if id.IsAdmin(anonymousUser) {
		t.Error("anonymous must never be admin")
	}
}

func TestHasAdmins(t *testing.T) {
	if NewIdentity(nil).HasAdmins() {
		t.Error("empty list should report no admins")
	}
	if NewIdentity([]string{""}).HasAdmins() {
		t.Error("blank entries should not count")
	}
	if !NewIdentity([]string{"a@b.c"}).HasAdmins() {
		t.Error("configured list should report admins")
	}
}
