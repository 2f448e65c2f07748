package http

import (
	"context"
	"net/http"

	"authgate/internal/auth/session"
	"authgate/internal/common/constants"
	commonhttp "authgate/internal/common/http"
)

type identityKey struct{}

// IdentityFromContext returns the session bound by RequireSession.
func IdentityFromContext(ctx context.Context) (session.Session, bool) {
	sess, ok := ctx.Value(identityKey{}).(session.Session)
	return sess, ok
}

// RequireSession admits only requests carrying a valid session cookie and
// binds the session identity into the request context.
func RequireSession(sessions *session.Manager) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(constants.SessionCookieName)
			if err != nil || cookie.Value == "" {
				commonhttp.WriteMessage(w, http.StatusUnauthorized, "authorization required")
				return
			}

			sess, ok := sessions.Current(r.Context(), cookie.Value)
			if !ok {
				commonhttp.WriteMessage(w, http.StatusUnauthorized, "authorization required")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, sess)
			next(w, r.WithContext(ctx))
		}
	}
}
