package middleware

import (
	"strings"

	"go-pos-backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Context local keys set by RequireAuth.
const (
	LocalUserID      = "user_id"
	LocalMerchantID  = "merchant_id"
	LocalUserName    = "user_name"
	LocalPermissions = "permissions"
)

// RequireAuth validates the bearer token and stores the caller identity
// (actor + merchant) in the request context. Issuing tokens and managing
// sessions happens upstream; this service only consumes the claims.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}
		if claims.UserID == uuid.Nil || claims.MerchantID == uuid.Nil {
			return c.Status(401).JSON(fiber.Map{"error": "Token is missing identity claims"})
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalMerchantID, claims.MerchantID)
		c.Locals(LocalUserName, claims.Name)
		c.Locals(LocalPermissions, claims.Permissions)

		return c.Next()
	}
}

// RequirePermission checks the permission codes carried in the token. The
// core treats this as a trusted pre-check boundary and never re-evaluates
// permissions itself.
func RequirePermission(code string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		permissions, ok := c.Locals(LocalPermissions).([]string)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No permissions found"})
		}

		for _, p := range permissions {
			if p == code {
				return c.Next()
			}
		}

		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires '" + code + "' permission",
		})
	}
}

// ActorID returns the authenticated user id set by RequireAuth.
func ActorID(c *fiber.Ctx) uuid.UUID {
	if id, ok := c.Locals(LocalUserID).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// MerchantID returns the caller's tenant id set by RequireAuth.
func MerchantID(c *fiber.Ctx) uuid.UUID {
	if id, ok := c.Locals(LocalMerchantID).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
