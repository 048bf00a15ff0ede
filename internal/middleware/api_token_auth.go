package middleware

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type contextKey string

// IsAPITokenAuthKey is the context key indicating API token authentication
const IsAPITokenAuthKey contextKey = "is_api_token_auth"

// APITokenAuthMiddleware guards the API with a single static bearer token.
// The ledger has exactly one owner, so there is no user lookup.
type APITokenAuthMiddleware struct {
	token []byte
}

// NewAPITokenAuthMiddleware creates a new APITokenAuthMiddleware. An empty
// token disables authentication.
func NewAPITokenAuthMiddleware(token string) *APITokenAuthMiddleware {
	return &APITokenAuthMiddleware{token: []byte(token)}
}

// Enabled reports whether a token is configured
func (m *APITokenAuthMiddleware) Enabled() bool {
	return len(m.token) > 0
}

// Valid compares a presented token in constant time
func (m *APITokenAuthMiddleware) Valid(token string) bool {
	if !m.Enabled() {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(token), m.token) == 1
}

// Authenticate returns an Echo middleware that validates the bearer token.
// Browsers cannot set headers on WebSocket upgrades, so a "token" query
// parameter is accepted as well.
func (m *APITokenAuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !m.Enabled() {
				return next(c)
			}

			token := c.QueryParam("token")
			if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
					return unauthorizedError(c, "Invalid authorization header format")
				}
				token = parts[1]
			}

			if token == "" {
				return unauthorizedError(c, "Missing authorization header")
			}
			if !m.Valid(token) {
				log.Debug().Str("path", c.Request().URL.Path).Msg("API token rejected")
				return unauthorizedError(c, "Invalid API token")
			}

			ctx := context.WithValue(c.Request().Context(), IsAPITokenAuthKey, true)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// IsAPITokenAuth checks if the request was authenticated via API token
func IsAPITokenAuth(c echo.Context) bool {
	if isAPIToken, ok := c.Request().Context().Value(IsAPITokenAuthKey).(bool); ok {
		return isAPIToken
	}
	return false
}
