package middleware

// identity.go defines helper functions shared across middleware files. It
// provides the user identifier lookup used by the rate limiter and the
// response cache when building per-user keys. JWTAuth stores the subject
// claim under "user_id"; when no token is present "anon" is returned so
// unauthenticated traffic shares one bucket per IP.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID extracts a user identifier from the request context. JWT
// subjects may arrive as strings or JSON numbers depending on the issuer,
// so both are normalized to their string form.
func currentUserID(c echo.Context) string {
	v := c.Get("user_id")
	if v == nil {
		return "anon"
	}
	switch t := v.(type) {
	case string:
		if t != "" {
			return t
		}
	case float64:
		return fmt.Sprintf("%.0f", t)
	case int64:
		return fmt.Sprintf("%d", t)
	}
	return "anon"
}
