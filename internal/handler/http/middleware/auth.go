package middleware

import (
	"context"
	"net/http"

	"github.com/Horattiu/RemediumFarm-sub000/internal/handler/http/response"
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type callerKey struct{}

// AuthRequired rejects requests without a verified access token and stores
// the caller claims in the request context.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != jwt.TokenTypeAccess || !ok {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			caller := jwt.ClaimsFromMap(token.Subject(), token.PrivateClaims())
			ctx := context.WithValue(r.Context(), callerKey{}, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

// CallerFromContext returns the verified caller, if authentication is on.
func CallerFromContext(ctx context.Context) (jwt.Claims, bool) {
	caller, ok := ctx.Value(callerKey{}).(jwt.Claims)
	return caller, ok
}
