package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Sshrut/Smart-Task-Scheduler/internal/auth"
	"github.com/Sshrut/Smart-Task-Scheduler/pkg/logger"
)

// UseToken guards a route with bearer-token authentication and stores
// the token's subject in c.Locals("username").
func UseToken(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token is missing!"})
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token!"})
	}

	subject, err := auth.ValidateToken(parts[1])
	if err != nil {
		logger.SecurityLogger.Warn("Rejected token", zap.Error(err), zap.String("url", c.OriginalURL()))
		if errors.Is(err, auth.ErrExpiredToken) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token has expired!"})
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token!"})
	}

	c.Locals("username", subject)
	return c.Next()
}
