package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"orgstack/internal/domain"
)

// Authenticator validates the Bearer token on every request and stores the
// resulting Identity in the context. Requests without a valid token are
// rejected with 401 before any handler or database work runs.
func Authenticator(validator JWTValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				writeUnauthorized(w, "missing bearer token")
				return
			}

			claims, err := validator.Validate(r.Context(), strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				writeUnauthorized(w, "invalid token")
				return
			}
			if claims.Subject == "" {
				writeUnauthorized(w, "token has no subject")
				return
			}

			id := domain.Identity{ID: claims.Subject}
			if claims.Name != nil {
				id.Name = *claims.Name
			}
			if claims.Email != nil {
				id.Email = *claims.Email
			}

			next.ServeHTTP(w, r.WithContext(domain.WithIdentity(r.Context(), id)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success":    false,
		"error":      message,
		"error_code": "UNAUTHENTICATED",
	})
}
