/*
 * @module api/middleware/admin_auth
 * @description Admin token middleware guarding dataset administration routes
 * @architecture Middleware - HTTP request interception and verification
 * @documentReference DESIGN.md
 * @stateFlow token extraction -> verification cache -> bcrypt compare -> next handler
 * @rules Only a bcrypt hash is configured; verified tokens are cached by SHA-256 digest for a short TTL
 * @dependencies golang.org/x/crypto/bcrypt, github.com/go-chi/render
 * @refs api/routes.go
 */

package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/render"
	"golang.org/x/crypto/bcrypt"
)

// ContextKey is the type of context keys set by this package.
type ContextKey string

// AdminKey marks requests that passed admin verification.
const AdminKey ContextKey = "admin"

// AdminTokenHeader is accepted as an alternative to a bearer token.
const AdminTokenHeader = "X-Admin-Token"

// AdminAuthMiddleware verifies admin tokens against a bcrypt hash.
type AdminAuthMiddleware struct {
	tokenHash []byte

	cache      map[string]time.Time
	cacheMutex sync.RWMutex
	cacheTTL   time.Duration
}

// NewAdminAuthMiddleware creates the middleware. An empty hash rejects every request.
func NewAdminAuthMiddleware(tokenHash string) *AdminAuthMiddleware {
	return &AdminAuthMiddleware{
		tokenHash: []byte(tokenHash),
		cache:     make(map[string]time.Time),
		cacheTTL:  5 * time.Minute,
	}
}

// Enabled reports whether a token hash is configured.
func (m *AdminAuthMiddleware) Enabled() bool {
	return len(m.tokenHash) > 0
}

// Middleware rejects requests without a valid admin token.
func (m *AdminAuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.Enabled() {
			m.respond(w, r, http.StatusForbidden, "admin routes are disabled")
			return
		}

		token := extractToken(r)
		if token == "" {
			m.respond(w, r, http.StatusUnauthorized, "missing admin token")
			return
		}

		if !m.verify(token) {
			slog.Warn("admin token rejected", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
			m.respond(w, r, http.StatusUnauthorized, "invalid admin token")
			return
		}

		ctx := context.WithValue(r.Context(), AdminKey, true)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return strings.TrimSpace(r.Header.Get(AdminTokenHeader))
}

func (m *AdminAuthMiddleware) verify(token string) bool {
	digest := sha256.Sum256([]byte(token))
	key := hex.EncodeToString(digest[:])

	m.cacheMutex.RLock()
	expires, ok := m.cache[key]
	m.cacheMutex.RUnlock()
	if ok && time.Now().Before(expires) {
		return true
	}

	if err := bcrypt.CompareHashAndPassword(m.tokenHash, []byte(token)); err != nil {
		return false
	}

	m.cacheMutex.Lock()
	m.cache[key] = time.Now().Add(m.cacheTTL)
	m.cacheMutex.Unlock()
	return true
}

// errorResponse mirrors the controllers' APIResponse envelope.
type errorResponse struct {
	Status int         `json:"status"`
	Msg    string      `json:"msg"`
	Data   interface{} `json:"data,omitempty"`
}

func (m *AdminAuthMiddleware) respond(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Status: status, Msg: msg})
}

// IsAdmin reports whether the request passed admin verification.
func IsAdmin(ctx context.Context) bool {
	v, _ := ctx.Value(AdminKey).(bool)
	return v
}
