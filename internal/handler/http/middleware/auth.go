package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/mestri-payroll/internal/handler/http/response"
	"github.com/cmlabs-hris/mestri-payroll/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired accepts only verified access tokens.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}
		if token == nil {
			response.Unauthorized(w, "Invalid token")
			return
		}

		tokenType, ok := claims["type"].(string)
		if !ok || tokenType != jwt.TokenTypeAccess {
			response.Unauthorized(w, "Invalid token")
			return
		}

		next.ServeHTTP(w, r)
	})
}
