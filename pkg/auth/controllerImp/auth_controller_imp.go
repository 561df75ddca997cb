package controllerImp

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"fraatlas/pkg/auth/controller"
)

const devTokenTTL = 24 * time.Hour

type authCtrl struct{ secret []byte }

// NewAuthController signs development tokens with secret. Tokens are only a
// convenience for local runs; nothing in the API verifies them.
func NewAuthController(secret string) controller.AuthController {
	return &authCtrl{secret: []byte(secret)}
}

func (h *authCtrl) DevLogin(c echo.Context) error {
	uid := c.QueryParam("uid")
	if uid == "" {
		uid = "dev-officer"
	}
	now := time.Now()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   uid,
		Issuer:    "fra-atlas-dev",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(devTokenTTL)),
	}).SignedString(h.secret)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "sign token"})
	}
	c.SetCookie(&http.Cookie{Name: "atlas_token", Value: tok, Path: "/", HttpOnly: true, Expires: now.Add(devTokenTTL)})
	return c.JSON(http.StatusOK, map[string]string{"uid": uid, "token": tok})
}

func (h *authCtrl) WhoAmI(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	_, hasToken := c.Get("token").(string)
	return c.JSON(http.StatusOK, echo.Map{"uid": uid, "authenticated": hasToken})
}
