package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type tokenKey struct{}

// Bearer passes the caller's bearer token through to handlers. The token is
// not verified here; its "sub" claim, when readable, becomes c.Get("uid").
// With required=true a request without a token gets 401.
func Bearer(required bool) echo.MiddlewareFunc {
	parser := jwt.NewParser()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if raw == "" {
				if ck, err := c.Cookie("atlas_token"); err == nil {
					raw = ck.Value
				}
			}
			if raw == "" {
				if required {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
				}
				c.Set("uid", "")
				return next(c)
			}

			uid := ""
			claims := jwt.MapClaims{}
			if _, _, err := parser.ParseUnverified(raw, claims); err == nil {
				uid, _ = claims.GetSubject()
			}
			c.Set("uid", uid)
			c.Set("token", raw)
			req := c.Request()
			c.SetRequest(req.WithContext(context.WithValue(req.Context(), tokenKey{}, raw)))
			return next(c)
		}
	}
}

// TokenFromContext returns the raw bearer token stored by Bearer.
func TokenFromContext(ctx context.Context) string {
	s, _ := ctx.Value(tokenKey{}).(string)
	return s
}

func bearerToken(h string) string {
	const prefix = "bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}
