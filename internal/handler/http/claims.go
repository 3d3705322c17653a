package http

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/leavedesk/leavedesk-backend-go/internal/domain/leave"
	"github.com/leavedesk/leavedesk-backend-go/internal/domain/user"
)

// actorFromRequest rebuilds the acting user from the verified JWT claims.
func actorFromRequest(r *http.Request) (leave.Actor, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return leave.Actor{}, false
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return leave.Actor{}, false
	}
	roleStr, ok := claims["role"].(string)
	if !ok {
		return leave.Actor{}, false
	}
	isSuperuser, _ := claims["is_superuser"].(bool)

	return leave.Actor{
		ID:          userID,
		Role:        user.Role(roleStr),
		IsSuperuser: isSuperuser,
	}, true
}
