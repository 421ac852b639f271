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

// Task step handlers

type stepRequest struct {
	Text string `json:"text" validate:"required,max=255"`
}

func ListSteps(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	steps, err := query.Steps(config.DB, sc, query.ParseStepFilter(c))
	if err != nil {
		logger.ErrorLogger.Error("Error fetching steps", zap.Error(err))
		return apperr.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Steps fetched successfully",
		"success": true,
		"status":  200,
		"data":    steps,
	})
}

// CreateStep butuh parent task dari path, seperti CreateTask.
func CreateStep(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	if sc.TaskID == nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Steps can only be created via nested endpoints under a task. Task ID must be passed through the URL.",
			"success": false,
			"status":  400,
		})
	}

	var req stepRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create step", zap.Error(err))
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

	step, err := mutation.CreateStep(config.DB, sc, req.Text)
	if err != nil {
		logger.ErrorLogger.Error("Error creating step", zap.Error(err))
		return apperr.Respond(c, err)
	}

	logger.AuditLogger.Info("Step created", zap.Int("step_id", step.ID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Step created successfully",
		"success": true,
		"status":  201,
		"data":    step,
	})
}

func GetStep(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid step ID",
			"success": false,
			"status":  400,
		})
	}

	step, err := query.StepByID(config.DB, sc, id)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Step found",
		"success": true,
		"status":  200,
		"data":    step,
	})
}

func UpdateStep(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid step ID",
			"success": false,
			"status":  400,
		})
	}

	var req stepRequest
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

	if err := mutation.UpdateStep(config.DB, sc, id, req.Text); err != nil {
		logger.ErrorLogger.Error("Error updating step", zap.Error(err))
		return apperr.Respond(c, err)
	}

	step, err := query.StepByID(config.DB, sc, id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	logger.AuditLogger.Info("Step updated", zap.Int("step_id", id))
	return c.JSON(fiber.Map{
		"message": "Step updated successfully",
		"success": true,
		"status":  200,
		"data":    step,
	})
}

func DeleteStep(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid step ID",
			"success": false,
			"status":  400,
		})
	}

	if err := mutation.DeleteStep(config.DB, sc, id); err != nil {
		return apperr.Respond(c, err)
	}

	logger.AuditLogger.Info("Step deleted", zap.Int("step_id", id))
	return c.JSON(fiber.Map{
		"message": "Step deleted successfully",
		"success": true,
		"status":  200,
	})
}
