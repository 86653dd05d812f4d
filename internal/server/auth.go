package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/opencursor/editorhost/core/response"
)

// hashToken reduces a plaintext token to its storage/comparison-safe
// digest, mirroring core/session's TokenHash-not-Token discipline so a
// bearer token never reaches a log line in the clear.
func hashToken(token string) [blake2b.Size256]byte {
	return blake2b.Sum256([]byte(token))
}

func tokensEqual(a, b string) bool {
	ha, hb := hashToken(a), hashToken(b)
	return subtle.ConstantTimeCompare(ha[:], hb[:]) == 1
}

// requireBearer wraps next with HTTP Authorization: Bearer <token>
// enforcement. A mismatch returns 401 with the UNAUTHORIZED error
// envelope; a matching or absent-requirement request passes through.
func requireBearer(cfg Config, next http.Handler) http.Handler {
	if !cfg.RequireAuth() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || !cfg.authenticate(token) {
			writeUnauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	env := response.Error("UNAUTHORIZED", "http.unauthorized", nil, "", nil)
	_ = writeJSON(w, env)
}

// wsTokenValid reports whether r's "token" query parameter satisfies cfg's
// auth requirement (always true if auth is disabled).
func wsTokenValid(cfg Config, r *http.Request) bool {
	if !cfg.RequireAuth() {
		return true
	}
	return cfg.authenticate(r.URL.Query().Get("token"))
}
