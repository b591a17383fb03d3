package middleware

import (
	"net/http"
	"strings"

	"nova/internal/auth"
	"nova/internal/httputil"
)

// AuthMiddleware verifies the bearer token and stores the session user ID in
// the request context. Requests without a valid session never reach a
// handler.
func AuthMiddleware(verifier *auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Health checks stay reachable without a session
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			userID, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid session token")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, userID))
		})
	}
}
