package handlers

import (
	"blazely/internal/apperr"
	"blazely/internal/config"
	"blazely/internal/identity"
	"blazely/internal/models"
	"blazely/internal/mutation"
	"blazely/internal/policy"
	"blazely/internal/query"
	"blazely/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Account handlers

// shapeAccount memilih field set sesuai keputusan policy: admin melihat
// bentuk elevated (flag kredensial ikut), selain itu bentuk minimal.
// Password mentah tidak pernah ikut di bentuk mana pun.
func shapeAccount(a models.Account, shape policy.Shape) interface{} {
	if shape == policy.ShapeElevated {
		return models.ElevatedAccount{
			ID:          a.ID,
			FirstName:   a.FirstName,
			LastName:    a.LastName,
			Username:    a.Username,
			IsStaff:     a.IsStaff,
			IsSuperuser: a.IsSuperuser,
			IsActive:    a.IsActive,
			Email:       a.Email,
		}
	}
	return models.SimpleAccount{
		Handle:    a.Username,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
	}
}

// ListAccounts hanya untuk admin.
func ListAccounts(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)
	role := policy.RoleOf(sc.IsStaff, sc.IsSuperuser)

	decision := policy.Resolve(policy.ResourceAccount, policy.ActionList, role)
	if !decision.Allowed {
		logger.SecurityLogger.Warn("Forbidden account list", zap.Int("account_id", sc.AccountID))
		return c.Status(403).JSON(fiber.Map{
			"message": "Forbidden",
			"success": false,
			"status":  403,
		})
	}

	accounts, err := query.Accounts(config.DB)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching accounts", zap.Error(err))
		return apperr.Respond(c, err)
	}

	shaped := make([]interface{}, 0, len(accounts))
	for _, a := range accounts {
		shaped = append(shaped, shapeAccount(a, decision.Shape))
	}

	return c.JSON(fiber.Map{
		"message": "Users fetched successfully",
		"success": true,
		"status":  200,
		"data":    shaped,
	})
}

// CreateAccount (admin-only) membuat account + profile secara atomik.
func CreateAccount(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)
	role := policy.RoleOf(sc.IsStaff, sc.IsSuperuser)

	decision := policy.Resolve(policy.ResourceAccount, policy.ActionCreate, role)
	if !decision.Allowed {
		logger.SecurityLogger.Warn("Forbidden account create", zap.Int("account_id", sc.AccountID))
		return c.Status(403).JSON(fiber.Map{
			"message": "Forbidden",
			"success": false,
			"status":  403,
		})
	}

	var req mutation.AccountCreate
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create account", zap.Error(err))
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

	account, err := mutation.CreateAccount(config.DB, req)
	if err != nil {
		logger.ErrorLogger.Error("Error creating account", zap.Error(err))
		return apperr.Respond(c, err)
	}

	logger.AuditLogger.Info("User created", zap.Int("account_id", account.ID))
	return c.Status(201).JSON(fiber.Map{
		"message": "User created successfully",
		"success": true,
		"status":  201,
		"data":    shapeAccount(*account, decision.Shape),
	})
}

// GetAccount: non-admin hanya melihat dirinya sendiri; id lain
// dilaporkan NotFound (absence), bukan Forbidden.
func GetAccount(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)
	role := policy.RoleOf(sc.IsStaff, sc.IsSuperuser)

	targetID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid user ID",
			"success": false,
			"status":  400,
		})
	}

	decision := policy.Resolve(policy.ResourceAccount, policy.ActionRetrieve, role)
	if !decision.Allowed {
		logger.SecurityLogger.Warn("Forbidden account retrieve", zap.Int("account_id", sc.AccountID))
		return c.Status(403).JSON(fiber.Map{
			"message": "Forbidden",
			"success": false,
			"status":  403,
		})
	}
	if !sc.IsAdmin() && targetID != sc.AccountID {
		return apperr.Respond(c, apperr.NotFound("User not found"))
	}

	account, err := query.AccountByID(config.DB, targetID)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "User found",
		"success": true,
		"status":  200,
		"data":    shapeAccount(*account, decision.Shape),
	})
}

// UpdateAccount: user biasa cuma boleh mengubah nama dirinya sendiri;
// admin mendapat field set yang lebih luas (termasuk kredensial, yang
// di-hash ulang sebelum disimpan). Field di luar allow-list diabaikan.
func UpdateAccount(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)
	role := policy.RoleOf(sc.IsStaff, sc.IsSuperuser)

	targetID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid user ID",
			"success": false,
			"status":  400,
		})
	}

	if !sc.IsAdmin() {
		if targetID != sc.AccountID {
			return apperr.Respond(c, apperr.NotFound("User not found"))
		}
		return updateAccountSelf(c, sc.AccountID, role)
	}

	var req mutation.AccountAdminUpdate
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

	if err := mutation.UpdateAccountAdmin(config.DB, targetID, req); err != nil {
		logger.ErrorLogger.Error("Error updating account", zap.Error(err))
		return apperr.Respond(c, err)
	}

	return respondAccount(c, targetID, role, "User updated successfully")
}

func updateAccountSelf(c *fiber.Ctx, accountID int, role policy.Role) error {
	var req mutation.AccountSelfUpdate
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

	if err := mutation.UpdateAccountSelf(config.DB, accountID, req); err != nil {
		logger.ErrorLogger.Error("Error updating account", zap.Error(err))
		return apperr.Respond(c, err)
	}

	return respondAccount(c, accountID, role, "User updated successfully")
}

func respondAccount(c *fiber.Ctx, accountID int, role policy.Role, message string) error {
	decision := policy.Resolve(policy.ResourceAccount, policy.ActionRetrieve, role)
	account, err := query.AccountByID(config.DB, accountID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	logger.AuditLogger.Info(message, zap.Int("account_id", accountID))
	return c.JSON(fiber.Map{
		"message": message,
		"success": true,
		"status":  200,
		"data":    shapeAccount(*account, decision.Shape),
	})
}

// AccountMe selalu me-resolve account caller sendiri; id dari client
// tidak pernah dipakai.
func AccountMe(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)
	role := policy.RoleOf(sc.IsStaff, sc.IsSuperuser)

	if c.Method() == fiber.MethodPatch {
		return updateAccountSelf(c, sc.AccountID, role)
	}
	return respondAccount(c, sc.AccountID, role, "User found")
}

// ActivateAccount / DeactivateAccount: admin-only, dengan idempotency
// guard: transisi no-op gagal dengan Conflict. Ini satu-satunya jalur
// yang membedakan Forbidden dari NotFound untuk mismatch privilege.
func ActivateAccount(c *fiber.Ctx) error {
	return setAccountActive(c, true, "User activated successfully.")
}

func DeactivateAccount(c *fiber.Ctx) error {
	return setAccountActive(c, false, "User deactivated successfully.")
}

func setAccountActive(c *fiber.Ctx, active bool, message string) error {
	sc := identity.FromCtx(c)
	role := policy.RoleOf(sc.IsStaff, sc.IsSuperuser)

	decision := policy.Resolve(policy.ResourceAccount, policy.ActionActivate, role)
	if !active {
		decision = policy.Resolve(policy.ResourceAccount, policy.ActionDeactivate, role)
	}
	if !decision.Allowed {
		logger.SecurityLogger.Warn("Forbidden account activation", zap.Int("account_id", sc.AccountID))
		return c.Status(403).JSON(fiber.Map{
			"message": "Forbidden",
			"success": false,
			"status":  403,
		})
	}

	targetID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid user ID",
			"success": false,
			"status":  400,
		})
	}

	if err := mutation.SetAccountActive(config.DB, targetID, active); err != nil {
		return apperr.Respond(c, err)
	}

	logger.AuditLogger.Info(message, zap.Int("account_id", targetID))
	return c.JSON(fiber.Map{
		"message": message,
		"success": true,
		"status":  200,
	})
}
