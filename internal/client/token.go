package client

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expirySkew refreshes a little early so a token does not expire on the
// wire between us and the backend.
const expirySkew = 30 * time.Second

// tokenStore holds the session token pair. Access expiry is read from the
// JWT exp claim without verifying the signature; the backend is the only
// party that needs to trust the token.
type tokenStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
	expiry  time.Time
}

func newTokenStore() *tokenStore {
	return &tokenStore{}
}

func (t *tokenStore) set(access, refresh string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.access = access
	if refresh != "" {
		t.refresh = refresh
	}
	t.expiry = parseExpiry(access)
}

func (t *tokenStore) clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.access = ""
	t.refresh = ""
	t.expiry = time.Time{}
}

func (t *tokenStore) get() (access, refresh string) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.access, t.refresh
}

// accessExpired reports whether the access token is known to be past (or
// within the skew of) its exp claim. Tokens without a readable exp are
// never considered expired; the 401 path handles those.
func (t *tokenStore) accessExpired() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.access == "" || t.expiry.IsZero() {
		return false
	}
	return time.Now().Add(expirySkew).After(t.expiry)
}

func parseExpiry(access string) time.Time {
	if access == "" {
		return time.Time{}
	}
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(access, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
