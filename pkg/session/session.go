// Package session manages server-side login sessions.
//
// A session maps an opaque random token to a small Identity record
// persisted in a Store (MongoDB or Redis), so logins survive process
// restarts. The browser holds the token in a cookie whose value is sealed
// with AES-GCM; a tampered cookie opens to nothing and the request is
// simply anonymous.
//
// Lifetime is fixed at the configured TTL — there is no renewal on access.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/floracart/floracart/pkg/crypt"
)

// CookieName is the session cookie issued to browsers.
const CookieName = "floracart_session"

// Identity is the logged-in user attached to a request.
type Identity struct {
	UserID   string `bson:"userId" json:"userId"`
	Username string `bson:"username" json:"username"`
	Email    string `bson:"email" json:"email"`
}

// Store persists session records keyed by token.
type Store interface {
	// Put stores identity under token for ttl.
	Put(ctx context.Context, token string, identity Identity, ttl time.Duration) error
	// Get returns the identity for token. ok is false when the token is
	// unknown or expired.
	Get(ctx context.Context, token string) (identity Identity, ok bool, err error)
	// Delete removes the session for token. Deleting an unknown token is
	// not an error.
	Delete(ctx context.Context, token string) error
}

// Options configures cookie behaviour.
type Options struct {
	TTL      time.Duration
	Secure   bool
	SameSite http.SameSite
}

// DefaultOptions returns the production cookie settings with the given TTL.
func DefaultOptions(ttl time.Duration) Options {
	return Options{
		TTL:      ttl,
		Secure:   false, // set true behind TLS
		SameSite: http.SameSiteLaxMode,
	}
}

// Manager issues, loads, and destroys sessions.
type Manager struct {
	store  Store
	sealer *crypt.Sealer
	opts   Options
}

// NewManager builds a Manager over store, sealing cookies with sealer.
func NewManager(store Store, sealer *crypt.Sealer, opts Options) *Manager {
	return &Manager{store: store, sealer: sealer, opts: opts}
}

// newToken generates a cryptographically random 32-byte hex session token.
func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Issue creates a new session for identity and sets the cookie on w.
func (m *Manager) Issue(ctx context.Context, w http.ResponseWriter, identity Identity) error {
	token, err := newToken()
	if err != nil {
		return fmt.Errorf("session: token: %w", err)
	}

	if err := m.store.Put(ctx, token, identity, m.opts.TTL); err != nil {
		return fmt.Errorf("session: store: %w", err)
	}

	sealed, err := m.sealer.Seal(token)
	if err != nil {
		return fmt.Errorf("session: seal: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sealed,
		Path:     "/",
		MaxAge:   int(m.opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: m.opts.SameSite,
	})
	return nil
}

// Destroy deletes the caller's session record and clears the cookie.
// A failing delete is swallowed: the caller is treated as already logged
// out either way.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if token, ok := m.token(r); ok {
		_ = m.store.Delete(ctx, token)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: m.opts.SameSite,
	})
}

// token unseals the cookie value. Missing, malformed, or tampered cookies
// all report ok=false.
func (m *Manager) token(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	token, err := m.sealer.Open(cookie.Value)
	if err != nil {
		return "", false
	}
	return token, true
}

// ------------------- Middleware -------------------

type ctxKey struct{}

// Middleware resolves the caller's identity before routing and stores it in
// the request context. Requests without a valid session proceed anonymously.
func (m *Manager) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := m.token(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			identity, found, err := m.store.Get(r.Context(), token)
			if err != nil || !found {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireLogin guards a route: anonymous requests are redirected to /login.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromCtx(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// FromCtx returns the identity attached by Middleware, if any.
func FromCtx(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(ctxKey{}).(Identity)
	return identity, ok
}
