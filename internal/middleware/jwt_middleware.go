package middleware

import (
	"log"
	"strings"

	"serverhub/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by the auth middleware.
const (
	LocalUserID  = "user_id"
	LocalIsAdmin = "is_admin"
)

// OptionalAuth attaches the caller's identity to the request context when a
// valid Bearer token is present, and lets the request through either way.
// Public listing reads use it to compute per-caller vote flags.
func OptionalAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := bearerToken(c); token != "" {
			if claims, err := authService.ValidateToken(token); err == nil {
				if id, ok := claims["user_id"].(float64); ok {
					c.Locals(LocalUserID, uint(id))
					isAdmin, _ := claims["is_admin"].(bool)
					c.Locals(LocalIsAdmin, isAdmin)
				}
			}
		}
		return c.Next()
	}
}

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		id, ok := claims["user_id"].(float64)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}
		c.Locals(LocalUserID, uint(id))
		isAdmin, _ := claims["is_admin"].(bool)
		c.Locals(LocalIsAdmin, isAdmin)

		return c.Next()
	}
}

// AdminRequired allows only authenticated admin callers through. It must be
// registered after AuthRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if isAdmin, ok := c.Locals(LocalIsAdmin).(bool); !ok || !isAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Admin access required",
			})
		}
		return c.Next()
	}
}

// CallerID returns the authenticated caller's user ID, or nil when the
// request is anonymous.
func CallerID(c *fiber.Ctx) *uint {
	if id, ok := c.Locals(LocalUserID).(uint); ok {
		return &id
	}
	return nil
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
