package jwtmiddleware

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Auth verifies the HS256 access token issued by the identity service and
// puts the subject into the echo context as "user_id". Token issuance and
// refresh live in the identity service; this side only parses.
type Auth struct {
	Secret []byte
}

func New(secret []byte) *Auth {
	return &Auth{Secret: secret}
}

func (a *Auth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		accessCookie, err := c.Cookie("accessToken")
		if err != nil || accessCookie.Value == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := claimsFromToken(accessCookie.Value, a.Secret)
		if err != nil || claims.Subject == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		c.Set("user_id", claims.Subject)
		return next(c)
	}
}

func claimsFromToken(tokenStr string, secret []byte) (*jwt.RegisteredClaims, error) {
	var claims jwt.RegisteredClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return &claims, nil
}
