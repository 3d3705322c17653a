package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/leavedesk/leavedesk-backend-go/internal/domain/user"
	"github.com/leavedesk/leavedesk-backend-go/internal/handler/http/response"
)

func claimsFromRequest(r *http.Request) (user.Role, bool, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", false, false
	}
	roleStr, ok := claims["role"].(string)
	if !ok {
		return "", false, false
	}
	isSuperuser, _ := claims["is_superuser"].(bool)
	return user.Role(roleStr), isSuperuser, true
}

// RequireHR gates HR administration: user management, departments, leave
// types and entitlements.
func RequireHR(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, isSuperuser, ok := claimsFromRequest(r)
		if !ok || !user.IsHR(role, isSuperuser) {
			response.HandleError(w, user.ErrHRAccessRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireApprover gates the approver views. Per-request decision rights are
// checked again in the service, where the designated approver is known.
func RequireApprover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, isSuperuser, ok := claimsFromRequest(r)
		if !ok || !user.IsApprover(role, isSuperuser) {
			response.HandleError(w, user.ErrApproverAccessRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}
