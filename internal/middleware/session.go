package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"orgstack/internal/domain"
	"orgstack/internal/session"
)

// SessionBinder wraps every request in a bound database session for the
// authenticated identity. Reads run on the read pool; anything that can
// mutate state runs on the serialized write pool. Must sit after
// Authenticator in the chain.
func SessionBinder(write, read *session.Propagator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := domain.IdentityFromContext(r.Context())
			if !ok {
				writeUnauthorized(w, "missing identity")
				return
			}

			p := write
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				p = read
			}

			err := p.WithIdentity(r.Context(), id, func(ctx context.Context) error {
				next.ServeHTTP(w, r.WithContext(ctx))
				return nil
			})
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"success":    false,
					"error":      "could not establish database session",
					"error_code": "INTERNAL",
				})
			}
		})
	}
}
