package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/agrisense/agrisense-be/internal/auth"
	"github.com/agrisense/agrisense-be/internal/http/respond"
)

// RequireAuth verifies the bearer token on incoming requests and attaches
// the resolved principal to the request context. A missing header is
// rejected before any cryptographic work. The three failure modes (missing,
// invalid, expired) all answer 401 but are logged with distinct reasons.
func RequireAuth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				logAuthReject(r, "missing token")
				respond.Error(w, http.StatusUnauthorized, "Authorization token is required")
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logAuthReject(r, "malformed header")
				respond.Error(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			principal, err := tokens.Verify(parts[1])
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					logAuthReject(r, "expired token")
					respond.Error(w, http.StatusUnauthorized, "Token has expired")
					return
				}
				logAuthReject(r, "invalid token")
				respond.Error(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
		})
	}
}

func logAuthReject(r *http.Request, reason string) {
	logrus.WithFields(logrus.Fields{
		"path":   r.URL.Path,
		"reason": reason,
	}).Warn("authentication rejected")
}
