package middleware

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/agrisense/agrisense-be/internal/auth"
	"github.com/agrisense/agrisense-be/internal/http/respond"
	"github.com/agrisense/agrisense-be/internal/storage"
)

// RequireAdmin permits only principals whose stored account carries the
// admin flag. It must run after RequireAuth. The flag is read from the
// store on every request because tokens outlive role changes.
func RequireAdmin(users storage.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFrom(r.Context())
			if !ok {
				respond.Error(w, http.StatusUnauthorized, "Authorization token is required")
				return
			}

			user, err := users.FindByID(r.Context(), principal.UserID)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					respond.Error(w, http.StatusUnauthorized, "Not authorized as an admin")
					return
				}
				logrus.WithError(err).Error("admin check: fetch account failed")
				respond.Error(w, http.StatusInternalServerError, "Server error, please try again later")
				return
			}
			if !user.IsAdmin {
				logrus.WithFields(logrus.Fields{
					"user_id": principal.UserID,
					"path":    r.URL.Path,
				}).Warn("admin access denied")
				respond.Error(w, http.StatusUnauthorized, "Not authorized as an admin")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
