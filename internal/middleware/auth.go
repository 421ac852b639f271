package middleware

import (
	"database/sql"
	"strings"

	"blazely/internal/config"
	"blazely/internal/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UseToken memverifikasi access token lalu memuat flag privilege dan
// profile id langsung dari store, supaya keputusan otorisasi request
// ini konsisten dengan state account terkini (deaktivasi langsung
// berlaku, tidak menunggu token kedaluwarsa).
func UseToken(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "No token provided"})
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token format"})
	}

	claims, err := token.VerifyAccess(parts[1])
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
	}

	var (
		isStaff     bool
		isSuperuser bool
		isActive    bool
		profileID   uuid.UUID
	)
	err = config.DB.QueryRow(`
		SELECT a.is_staff, a.is_superuser, a.is_active, p.id
		FROM accounts a
		JOIN profiles p ON p.account_id = a.id
		WHERE a.id = $1`,
		claims.AccountID,
	).Scan(&isStaff, &isSuperuser, &isActive, &profileID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}
	if !isActive {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Account is inactive"})
	}

	c.Locals("accountID", claims.AccountID)
	c.Locals("profileID", profileID)
	c.Locals("isStaff", isStaff)
	c.Locals("isSuperuser", isSuperuser)
	return c.Next()
}
