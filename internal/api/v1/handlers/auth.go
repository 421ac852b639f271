package handlers

import (
	"blazely/internal/apperr"
	"blazely/internal/config"
	"blazely/internal/oauth"
	"blazely/internal/token"
	"blazely/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Auth handlers

// GoogleLogin mengembalikan URL login Google untuk client.
func GoogleLogin(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Login URL generated",
		"success": true,
		"status":  200,
		"data": fiber.Map{
			"login_url": oauth.LoginURL(),
		},
	})
}

// GoogleCallback menukar authorization code menjadi pasangan token
// aplikasi. Account+profile baru dibuat hanya setelah claims dari
// provider tervalidasi penuh; kegagalan upstream tidak menyentuh store.
func GoogleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return c.Status(400).JSON(fiber.Map{
			"message": "No authorization code provided",
			"success": false,
			"status":  400,
		})
	}

	providerToken, err := oauth.Exchange(c.Context(), code)
	if err != nil {
		logger.ErrorLogger.Error("Google token exchange failed", zap.Error(err))
		return apperr.Respond(c, err)
	}

	claims, err := oauth.FetchClaims(c.Context(), providerToken)
	if err != nil {
		logger.ErrorLogger.Error("Google claims fetch failed", zap.Error(err))
		return apperr.Respond(c, err)
	}

	accountID, err := oauth.GetOrCreateAccount(config.DB, claims)
	if err != nil {
		logger.ErrorLogger.Error("Error creating google account", zap.Error(err))
		return apperr.Respond(c, err)
	}

	var isStaff, isSuperuser bool
	err = config.DB.QueryRow(
		"SELECT is_staff, is_superuser FROM accounts WHERE id = $1", accountID,
	).Scan(&isStaff, &isSuperuser)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching account", zap.Error(err))
		return apperr.Respond(c, err)
	}

	pair, err := token.IssuePair(accountID, isStaff, isSuperuser)
	if err != nil {
		logger.ErrorLogger.Error("Error generating token", zap.Error(err))
		return apperr.Respond(c, err)
	}

	logger.AuditLogger.Info("Google login success", zap.Int("account_id", accountID))
	return c.JSON(fiber.Map{
		"message": "Login success",
		"success": true,
		"status":  200,
		"data":    pair,
	})
}

// CreateToken adalah endpoint login username/password yang hanya boleh
// dipakai admin. Akun non-staff ditolak 403 sebelum kredensialnya
// divalidasi; keberadaan akun bukan rahasia untuk endpoint ini.
func CreateToken(c *fiber.Ctx) error {
	type TokenRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	var req TokenRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create token", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	var account struct {
		ID          int
		Password    string
		IsStaff     bool
		IsSuperuser bool
		IsActive    bool
	}
	err := config.DB.QueryRow(
		"SELECT id, password, is_staff, is_superuser, is_active FROM accounts WHERE username = $1",
		req.Username,
	).Scan(&account.ID, &account.Password, &account.IsStaff, &account.IsSuperuser, &account.IsActive)
	if err == nil && !account.IsStaff && !account.IsSuperuser {
		logger.SecurityLogger.Warn("Password login attempt by non-admin", zap.String("username", req.Username))
		return c.Status(403).JSON(fiber.Map{
			"message": "Email and password authentication is not allowed for this user.",
			"success": false,
			"status":  403,
		})
	}
	if err != nil || !account.IsActive {
		logger.SecurityLogger.Warn("Invalid credentials", zap.String("username", req.Username))
		return c.Status(401).JSON(fiber.Map{
			"message": "Invalid credentials",
			"success": false,
			"status":  401,
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)); err != nil {
		logger.SecurityLogger.Warn("Invalid password", zap.String("username", req.Username))
		return c.Status(401).JSON(fiber.Map{
			"message": "Invalid credentials",
			"success": false,
			"status":  401,
		})
	}

	pair, err := token.IssuePair(account.ID, account.IsStaff, account.IsSuperuser)
	if err != nil {
		logger.ErrorLogger.Error("Error generating token", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error generating token",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Login success", zap.Int("account_id", account.ID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Login success",
		"success": true,
		"status":  201,
		"data":    pair,
	})
}

// RefreshToken me-rotate pasangan token; refresh lama masuk blacklist.
func RefreshToken(c *fiber.Ctx) error {
	type RefreshRequest struct {
		Refresh string `json:"refresh" validate:"required"`
	}

	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}
	if err := config.Validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	pair, err := token.Refresh(config.Ctx, req.Refresh)
	if err != nil {
		logger.SecurityLogger.Warn("Refresh token rejected", zap.Error(err))
		return c.Status(401).JSON(fiber.Map{
			"message": "Invalid token",
			"success": false,
			"status":  401,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Token refreshed",
		"success": true,
		"status":  200,
		"data":    pair,
	})
}

// BlacklistToken mencabut sebuah refresh token (logout).
func BlacklistToken(c *fiber.Ctx) error {
	type BlacklistRequest struct {
		Refresh string `json:"refresh" validate:"required"`
	}

	var req BlacklistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}
	if err := config.Validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	if err := token.Blacklist(config.Ctx, req.Refresh); err != nil {
		return c.Status(401).JSON(fiber.Map{
			"message": "Invalid token",
			"success": false,
			"status":  401,
		})
	}

	logger.AuditLogger.Info("Refresh token blacklisted")
	return c.JSON(fiber.Map{
		"message": "Token blacklisted",
		"success": true,
		"status":  200,
	})
}
