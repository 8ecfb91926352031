package middleware

import (
	"net/http"
	"strings"

	"doctracker/internal/auth"
	"doctracker/internal/httputil"
)

// skipAuthPaths are reachable without a token
var skipAuthPaths = map[string]bool{
	"/health": true,
}

// Auth validates the Bearer token on every request and stores the
// authenticated user's ID in the request context. OPTIONS requests pass
// through so CORS pre-flight works without credentials.
func Auth(verifier auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || skipAuthPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, claims.GetUserID()))
		})
	}
}
