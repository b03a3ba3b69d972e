package chi

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
)

// principalHeader carries the authenticated principal injected by the
// hosting platform's auth layer: a base64-encoded JSON claims document.
const principalHeader = "X-MS-Client-Principal"

// Claim type URIs checked when resolving the caller's identity.
const (
	emailClaimType = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress"
	nameClaimType  = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name"
)

// anonymousUser is attributed when no principal is present or it cannot
// be decoded. The platform owns authentication; a missing header is a
// valid unauthenticated request, not an error.
const anonymousUser = "anonymous"

type principalClaim struct {
	Type  string `json:"typ"`
	Value string `json:"val"`
}

type clientPrincipal struct {
	Claims []principalClaim `json:"claims"`
}

// Identity resolves callers from the platform principal header and
// answers admin checks against a configured email allowlist.
type Identity struct {
	admins map[string]struct{}
}

// NewIdentity creates an identity resolver. An empty admin list means
// nobody is an admin.
func NewIdentity(adminEmails []string) *Identity {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			admins[e] = struct{}{}
		}
	}
	return &Identity{admins: admins}
}

// Resolve returns the caller's identity: email claim first, then name
// claim, then "anonymous". A malformed header resolves to anonymous
// rather than failing the request.
func (i *Identity) Resolve(r *http.Request) string {
	raw := r.Header.Get(principalHeader)
	if raw == "" {
		return anonymousUser
	}

	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return anonymousUser
	}

	var principal clientPrincipal
	if err := json.Unmarshal(decoded, &principal); err != nil {
		return anonymousUser
	}

	for _, claim := range principal.Claims {
		if claim.Type == emailClaimType && claim.Value != "" {
			return claim.Value
		}
	}
	for _, claim := range principal.Claims {
		if claim.Type == nameClaimType && claim.Value != "" {
			return claim.Value
		}
	}
	return anonymousUser
}

// IsAdmin reports whether the identity is on the admin allowlist.
// Comparison is case-insensitive.
func (i *Identity) IsAdmin(user string) bool {
	_, ok := i.admins[strings.ToLower(user)]
	return ok
}

// HasAdmins reports whether an allowlist is configured at all.
func (i *Identity) HasAdmins() bool {
	return len(i.admins) > 0
}
