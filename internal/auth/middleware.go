package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JWTMiddleware authenticates the request with a bearer access token and
// exposes the caller's user id to downstream handlers as the "user_id" local.
func JWTMiddleware(secret string) fiber.Handler {
	keyFunc := func(_ *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}

	return func(c *fiber.Ctx) error {
		raw := bearerFromHeader(c.Get(fiber.HeaderAuthorization))
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "bearer token required")
		}

		var claims Claims
		parsed, err := jwt.ParseWithClaims(raw, &claims, keyFunc)
		if err != nil || !parsed.Valid || claims.UserID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "access token invalid")
		}

		c.Locals("user_id", claims.UserID)
		return c.Next()
	}
}

// bearerFromHeader extracts the token from an "Authorization: Bearer x"
// header, empty when the header is absent or uses another scheme.
func bearerFromHeader(header string) string {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
