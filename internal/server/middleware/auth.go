package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// AuthMiddleware checks the bearer token on every API request. A
// request is authorized when the token equals the configured static
// access token, or when JWKS keys are configured and the token is a
// valid signed JWT.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}

		token := strings.Split(authHeader, " ")[1]
		app := c.(*AppContext).App

		if app.AccessToken != "" && token == app.AccessToken {
			return next(c)
		}

		if app.Key != nil {
			k := *app.Key
			parsed, err := jwt.Parse(token, k.Keyfunc)
			if err == nil && parsed.Valid {
				return next(c)
			}
		}

		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}
}
