package routing

import (
	"context"
	"net/http"

	"github.com/zeptools/gw-invoice/responses"
	"github.com/zeptools/gw-invoice/sec"
)

type ctxKey int

const userIDKey ctxKey = iota

// TokenVerifier maps a bearer token to a user id
type TokenVerifier interface {
	Verify(token string) (string, error)
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID is the authenticated user of the request, "" when none
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// AuthWrapper requires `Authorization: Bearer <token>`. With QueryToken set,
// a `?token=` parameter is accepted when the header is absent, so a browser
// can open a download link directly.
type AuthWrapper struct {
	Verifier   TokenVerifier
	QueryToken bool
}

func (a AuthWrapper) Wrap(inner http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sec.ExtractBearerToken(r.Header.Get("Authorization"))
		invalidMsg := "invalid token"
		if token == "" && a.QueryToken {
			token = r.URL.Query().Get("token")
			invalidMsg = "Invalid token in query"
		}
		if token == "" {
			responses.WriteSimpleErrorJSON(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		userID, err := a.Verifier.Verify(token)
		if err != nil {
			responses.WriteSimpleErrorJSON(w, http.StatusUnauthorized, invalidMsg)
			return
		}
		inner.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}
