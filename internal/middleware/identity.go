package middleware

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// OptionalJWT extracts the caller's identity from a Bearer token when one
// is present and valid, and passes the request through untouched
// otherwise.  Public routes use it so an authenticated caller can be
// linked to what they submit without making auth mandatory; an invalid or
// missing token just means the request stays anonymous.
func OptionalJWT(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				raw := strings.TrimPrefix(auth, "Bearer ")
				tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
					if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
						return nil, echo.ErrUnauthorized
					}
					return []byte(secret), nil
				})
				if err == nil && tok.Valid {
					if claims, ok := tok.Claims.(jwt.MapClaims); ok {
						c.Set("user_id", claims["sub"])
						c.Set("role", claims["role"])
					}
				}
			}
			return next(c)
		}
	}
}
