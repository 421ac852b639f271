package handlers

import (
	"blazely/internal/apperr"
	"blazely/internal/config"
	"blazely/internal/identity"
	"blazely/internal/models"
	"blazely/internal/mutation"
	"blazely/internal/query"
	"blazely/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Task list handlers

// serializeList: di bawah path group, field group di-drop dari bentuk
// serialisasi karena sudah implisit dari URL.
func serializeList(list models.TaskList, sc identity.Scope) interface{} {
	if sc.GroupID != nil {
		return list.WithoutGroup()
	}
	return list
}

func ListTaskLists(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	lists, err := query.TaskLists(config.DB, sc, query.ParseTaskListFilter(c))
	if err != nil {
		logger.ErrorLogger.Error("Error fetching lists", zap.Error(err))
		return apperr.Respond(c, err)
	}

	shaped := make([]interface{}, 0, len(lists))
	for _, list := range lists {
		shaped = append(shaped, serializeList(list, sc))
	}

	return c.JSON(fiber.Map{
		"message": "Lists fetched successfully",
		"success": true,
		"status":  200,
		"data":    shaped,
	})
}

// CreateTaskList: group dari path menang atas group dari body supaya
// nested create selalu mendarat di group yang di-address URL.
func CreateTaskList(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	var req mutation.TaskListCreate
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create list", zap.Error(err))
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
	if sc.GroupID != nil {
		req.Group = sc.GroupID
	}

	list, err := mutation.CreateTaskList(config.DB, sc, req)
	if err != nil {
		logger.ErrorLogger.Error("Error creating list", zap.Error(err))
		return apperr.Respond(c, err)
	}

	logger.AuditLogger.Info("List created", zap.Int("list_id", list.ID))
	return c.Status(201).JSON(fiber.Map{
		"message": "List created successfully",
		"success": true,
		"status":  201,
		"data":    serializeList(*list, sc),
	})
}

func GetTaskList(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid list ID",
			"success": false,
			"status":  400,
		})
	}

	list, err := query.TaskListByID(config.DB, sc, id)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "List found",
		"success": true,
		"status":  200,
		"data":    serializeList(*list, sc),
	})
}

func UpdateTaskList(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid list ID",
			"success": false,
			"status":  400,
		})
	}

	var req mutation.TaskListUpdate
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

	if err := mutation.UpdateTaskList(config.DB, sc, id, req); err != nil {
		logger.ErrorLogger.Error("Error updating list", zap.Error(err))
		return apperr.Respond(c, err)
	}

	list, err := query.TaskListByID(config.DB, sc, id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	logger.AuditLogger.Info("List updated", zap.Int("list_id", id))
	return c.JSON(fiber.Map{
		"message": "List updated successfully",
		"success": true,
		"status":  200,
		"data":    serializeList(*list, sc),
	})
}

func DeleteTaskList(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid list ID",
			"success": false,
			"status":  400,
		})
	}

	if err := mutation.DeleteTaskList(config.DB, sc, id); err != nil {
		return apperr.Respond(c, err)
	}

	logger.AuditLogger.Info("List deleted", zap.Int("list_id", id))
	return c.JSON(fiber.Map{
		"message": "List deleted successfully",
		"success": true,
		"status":  200,
	})
}
