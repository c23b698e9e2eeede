// Package auth implements the shared-secret bearer token gate placed in front
// of every public route.
package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const bearerPrefix = "Bearer "

// BearerAuth rejects any request whose Authorization header does not carry
// the configured secret as a bearer token. There is no per-identifier
// scoping: a valid token grants access to every identifier.
func BearerAuth(secret string, logger *zap.Logger) echo.MiddlewareFunc {
	expected := []byte(secret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := extractBearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok || !ValidToken(expected, token) {
				logger.Warn("authentication failed",
					zap.String("method", c.Request().Method),
					zap.String("path", c.Request().URL.Path),
					zap.String("remote_ip", c.RealIP()),
					zap.Bool("header_present", ok),
				)
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer realm=""`)
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}
			return next(c)
		}
	}
}

// ValidToken compares token with expected in constant time. An empty
// expected secret never matches.
func ValidToken(expected []byte, token string) bool {
	if len(expected) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(expected, []byte(token)) == 1
}

// extractBearerToken returns the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func extractBearerToken(header string) (string, bool) {
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(bearerPrefix):]), true
}
