// internal/auth/identity.go
package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// UserIDFromRequest resolves the calling user from a bearer token or the
// auth_token cookie. A missing or invalid token means the caller is a
// guest and nil is returned; guests are first-class participants.
func UserIDFromRequest(r *http.Request) *uuid.UUID {
	var token string
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		token = strings.TrimPrefix(h, "Bearer ")
	} else if c, err := r.Cookie("auth_token"); err == nil {
		token = c.Value
	}
	if token == "" {
		return nil
	}

	sub, err := AuthenticateJWT(token)
	if err != nil {
		return nil
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil
	}
	return &id
}
