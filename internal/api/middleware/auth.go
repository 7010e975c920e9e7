package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/oubuilding/apartment-client/internal/core/ports"
)

// Context keys set by Auth.
const (
	ClientKey   = "client"
	UsernameKey = "username"
	RoleKey     = "role"
)

// Auth validates the gateway token, loads the application context it was
// issued for and injects it with the claims into the echo context.
func Auth(secret string, registry ports.ClientRegistry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearer(c.Request())
			if err != nil {
				return err
			}

			claims, err := ParseToken(secret, raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			client, ok := registry.Get(claims.SessionID)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
			}
			// The context may have logged out through another path.
			if client.State().Username() != claims.Username {
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
			}

			c.Set(ClientKey, client)
			c.Set(UsernameKey, claims.Username)
			c.Set(RoleKey, claims.Role)

			return next(c)
		}
	}
}

// bearer reads the token from the Authorization header. Browsers cannot set
// headers on a websocket handshake, so the access_token query parameter is
// accepted on upgrade requests.
func bearer(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
			if tok := r.URL.Query().Get("access_token"); tok != "" {
				return tok, nil
			}
		}
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return parts[1], nil
}
