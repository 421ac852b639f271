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

// Task handlers

func ListTasks(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	tasks, err := query.Tasks(config.DB, sc, query.ParseTaskFilter(c))
	if err != nil {
		logger.ErrorLogger.Error("Error fetching tasks", zap.Error(err))
		return apperr.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Tasks fetched successfully",
		"success": true,
		"status":  200,
		"data":    tasks,
	})
}

// CreateTask butuh parent list dari path; endpoint top-level /tasks
// sengaja tidak menerima create.
func CreateTask(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	if sc.ListID == nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Tasks can only be created via nested endpoints under a list or group. List ID must be passed through the URL.",
			"success": false,
			"status":  400,
		})
	}

	var req mutation.TaskCreate
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create task", zap.Error(err))
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

	task, err := mutation.CreateTask(config.DB, sc, req)
	if err != nil {
		logger.ErrorLogger.Error("Error creating task", zap.Error(err))
		return apperr.Respond(c, err)
	}

	logger.AuditLogger.Info("Task created", zap.Int("task_id", task.ID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Task created successfully",
		"success": true,
		"status":  201,
		"data":    task,
	})
}

func GetTask(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	task, err := query.TaskByID(config.DB, sc, id)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Task found",
		"success": true,
		"status":  200,
		"data":    task,
	})
}

func UpdateTask(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	var req mutation.TaskUpdate
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

	if err := mutation.UpdateTask(config.DB, sc, id, req); err != nil {
		logger.ErrorLogger.Error("Error updating task", zap.Error(err))
		return apperr.Respond(c, err)
	}

	task, err := query.TaskByID(config.DB, sc, id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	logger.AuditLogger.Info("Task updated", zap.Int("task_id", id))
	return c.JSON(fiber.Map{
		"message": "Task updated successfully",
		"success": true,
		"status":  200,
		"data":    task,
	})
}

func DeleteTask(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	if err := mutation.DeleteTask(config.DB, sc, id); err != nil {
		return apperr.Respond(c, err)
	}

	logger.AuditLogger.Info("Task deleted", zap.Int("task_id", id))
	return c.JSON(fiber.Map{
		"message": "Task deleted successfully",
		"success": true,
		"status":  200,
	})
}
