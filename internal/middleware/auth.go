package middleware

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/services"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenKey     = "user"
	principalKey = "principal"
	roleKey      = "role"
)

// Authenticated requires a valid identity-provider bearer token and stores
// the caller's principal in the request locals.
func Authenticated(verifier *services.TokenVerifier) fiber.Handler {
	return jwtware.New(jwtware.Config{
		KeyFunc:    verifier.Keyfunc,
		ContextKey: tokenKey,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals(tokenKey).(*jwt.Token)
			if !ok {
				return unauthorized(c)
			}
			principal, err := verifier.Principal(token)
			if err != nil {
				slog.Warn("rejected identity token", "path", c.Path(), "error", err)
				return unauthorized(c)
			}
			c.Locals(principalKey, principal)
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c)
		},
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: "Unauthorized: invalid or expired token",
	})
}

// GetPrincipal returns the authenticated caller, or nil outside
// Authenticated routes.
func GetPrincipal(c *fiber.Ctx) *services.Principal {
	p, _ := c.Locals(principalKey).(*services.Principal)
	return p
}
