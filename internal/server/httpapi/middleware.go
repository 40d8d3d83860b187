package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/mvalens/leadkeeper/internal/common"
)

type contextKey string

const userIDKey contextKey = "userID"

// tokenValidator resolves a bearer token to a user id.
type tokenValidator interface {
	UserIDFromToken(token string) (string, error)
}

// withAuth rejects requests without a valid bearer token and stores the
// authenticated user id in the request context.
func withAuth(v tokenValidator, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, common.ErrUnauthorized.Error())
			return
		}

		userID, err := v.UserIDFromToken(token)
		if err != nil {
			// Expired tokens get a distinct message so clients know to
			// refresh rather than re-login.
			if strings.Contains(err.Error(), "expired") {
				writeError(w, http.StatusUnauthorized, common.ErrTokenExpired.Error())
				return
			}
			writeError(w, http.StatusUnauthorized, common.ErrInvalidToken.Error())
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	}
}

// userID extracts the authenticated user id stored by withAuth.
func userID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
