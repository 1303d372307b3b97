package middleware

import (
	"net/http"
	"strings"

	"github.com/rsharan/dinehub/pkg/auth"
	"github.com/rsharan/dinehub/pkg/response"
)

// Auth validates the Bearer token and stores the resulting principal in the
// request context. Downstream handlers read it with auth.PrincipalFrom.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" || token == r.Header.Get("Authorization") {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Unauthorized(w)
			return
		}

		ctx := auth.WithPrincipal(r.Context(), auth.Principal{
			UserID: claims.UserID,
			Role:   claims.Role,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
