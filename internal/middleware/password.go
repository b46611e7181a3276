package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
)

// PasswordHeader carries the hex SHA-256 digest of the shared password.
const PasswordHeader = "x-password-hash"

const (
	msgMissingPasswordHash = "Unauthorized: Missing password hash."
	msgInvalidPassword     = "Unauthorized: Invalid password."
)

// HashPassword returns the hex SHA-256 digest clients send in PasswordHeader.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// PasswordHash rejects requests whose header does not match the configured password.
// An empty password disables the check.
func PasswordHash(password string) func(http.Handler) http.Handler {
	if password == "" {
		return func(next http.Handler) http.Handler { return next }
	}
	expected := []byte(HashPassword(password))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := strings.TrimSpace(r.Header.Get(PasswordHeader))
			if got == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", msgMissingPasswordHash)
				return
			}
			if subtle.ConstantTimeCompare([]byte(strings.ToLower(got)), expected) != 1 {
				writeError(w, http.StatusUnauthorized, "unauthorized", msgInvalidPassword)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg, "code": code})
}
