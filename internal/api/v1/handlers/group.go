package handlers

import (
	"blazely/internal/apperr"
	"blazely/internal/config"
	"blazely/internal/identity"
	"blazely/internal/mutation"
	"blazely/internal/query"
	"blazely/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Group list handlers

func ListGroups(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	groups, err := query.GroupLists(config.DB, sc, query.ParseGroupListFilter(c))
	if err != nil {
		logger.ErrorLogger.Error("Error fetching groups", zap.Error(err))
		return apperr.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Groups fetched successfully",
		"success": true,
		"status":  200,
		"data":    groups,
	})
}

func CreateGroup(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	type GroupRequest struct {
		Name string `json:"name" validate:"required,min=1,max=150"`
	}

	var req GroupRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create group", zap.Error(err))
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

	group, err := mutation.CreateGroupList(config.DB, sc, req.Name)
	if err != nil {
		logger.ErrorLogger.Error("Error creating group", zap.Error(err))
		return apperr.Respond(c, err)
	}

	logger.AuditLogger.Info("Group created", zap.Int("group_id", group.ID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Group created successfully",
		"success": true,
		"status":  201,
		"data":    group,
	})
}

func GetGroup(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid group ID",
			"success": false,
			"status":  400,
		})
	}

	group, err := query.GroupListByID(config.DB, sc, id)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Group found",
		"success": true,
		"status":  200,
		"data":    group,
	})
}

func UpdateGroup(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid group ID",
			"success": false,
			"status":  400,
		})
	}

	var req mutation.GroupListUpdate
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

	if err := mutation.UpdateGroupList(config.DB, sc, id, req); err != nil {
		logger.ErrorLogger.Error("Error updating group", zap.Error(err))
		return apperr.Respond(c, err)
	}

	group, err := query.GroupListByID(config.DB, sc, id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	logger.AuditLogger.Info("Group updated", zap.Int("group_id", id))
	return c.JSON(fiber.Map{
		"message": "Group updated successfully",
		"success": true,
		"status":  200,
		"data":    group,
	})
}

func DeleteGroup(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid group ID",
			"success": false,
			"status":  400,
		})
	}

	if err := mutation.DeleteGroupList(config.DB, sc, id); err != nil {
		return apperr.Respond(c, err)
	}

	logger.AuditLogger.Info("Group deleted", zap.Int("group_id", id))
	return c.JSON(fiber.Map{
		"message": "Group deleted successfully",
		"success": true,
		"status":  200,
	})
}

// ManageGroupLists memindahkan task list masuk/keluar group secara batch.
// Group di-resolve dulu lewat resolver (ownership check + 404 untuk
// group orang lain); relokasinya sendiri atomik dengan semantik
// partial-validity di mutation.ManageLists.
func ManageGroupLists(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid group ID",
			"success": false,
			"status":  400,
		})
	}

	group, err := query.GroupListByID(config.DB, sc, id)
	if err != nil {
		return apperr.Respond(c, err)
	}

	var req mutation.ManageListsRequest
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

	action := c.Query("action")
	if err := mutation.ManageLists(config.DB, group.ID, group.OwnerID, action, req.TaskListIDs); err != nil {
		logger.ErrorLogger.Error("Error relocating lists", zap.Error(err))
		return apperr.Respond(c, err)
	}

	group, err = query.GroupListByID(config.DB, sc, id)
	if err != nil {
		return apperr.Respond(c, err)
	}

	message := "Lists successfully added"
	if action == mutation.ActionRemove {
		message = "Lists successfully removed"
	}
	logger.AuditLogger.Info(message, zap.Int("group_id", id))
	return c.JSON(fiber.Map{
		"message": message,
		"success": true,
		"status":  200,
		"data":    group,
	})
}
