package taskapi

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"taskboard/internal/service"
)

// userIDFromToken reads the user id from the claims of a JWT access token.
// The signature is not verified: the server does that on every request, and
// the id only selects the URL path. Returns "" if the token is not a JWT or
// carries no usable claim.
func userIDFromToken(token string) service.ID {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return ""
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}

	switch v := claims["user_id"].(type) {
	case string:
		if v != "" {
			return service.ID(v)
		}
	case float64:
		return service.ID(strconv.FormatFloat(v, 'f', -1, 64))
	}

	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return service.ID(sub)
	}
	return ""
}
