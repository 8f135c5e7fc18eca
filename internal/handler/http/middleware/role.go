package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/leave-tracker-go/internal/domain/employee"
	"github.com/cmlabs-hris/leave-tracker-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// RequireManager requires manager or CEO role
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, employee.ErrManagerAccessRequired)
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok {
			response.HandleError(w, employee.ErrManagerAccessRequired)
			return
		}

		role := employee.Role(roleStr)
		if role != employee.RoleManager && role != employee.RoleCEO {
			response.HandleError(w, employee.ErrManagerAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireCEO requires CEO role
func RequireCEO(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, employee.ErrCEOAccessRequired)
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok {
			response.HandleError(w, employee.ErrCEOAccessRequired)
			return
		}

		if employee.Role(roleStr) != employee.RoleCEO {
			response.HandleError(w, employee.ErrCEOAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
