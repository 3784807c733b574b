package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Auth is an optional bearer-token gate for the facade. The gateway's own
// token never reaches the browser; this one only protects the facade itself.
type Auth struct {
	token string
}

// NewAuth creates the middleware. An empty token disables the gate.
func NewAuth(token string) *Auth {
	return &Auth{token: token}
}

// Require checks the request's bearer token or cookie when a token is
// configured.
func (a *Auth) Require(c *fiber.Ctx) error {
	if a == nil || a.token == "" {
		return c.Next()
	}

	presented := a.extractToken(c)
	if presented == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
	}
	if subtle.ConstantTimeCompare([]byte(presented), []byte(a.token)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}
	return c.Next()
}

func (a *Auth) extractToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	if cookie := c.Cookies("clawcrm_token"); cookie != "" {
		return cookie
	}
	return c.Query("token")
}
