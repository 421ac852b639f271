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

// Label handlers

type labelRequest struct {
	Name string `json:"name" validate:"required,min=1,max=150"`
}

func ListLabels(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	labels, err := query.Labels(config.DB, sc)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching labels", zap.Error(err))
		return apperr.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Labels fetched successfully",
		"success": true,
		"status":  200,
		"data":    labels,
	})
}

func CreateLabel(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	var req labelRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create label", zap.Error(err))
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

	label, err := mutation.CreateLabel(config.DB, sc, req.Name)
	if err != nil {
		logger.ErrorLogger.Error("Error creating label", zap.Error(err))
		return apperr.Respond(c, err)
	}

	logger.AuditLogger.Info("Label created", zap.Int("label_id", label.ID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Label created successfully",
		"success": true,
		"status":  201,
		"data":    label,
	})
}

func GetLabel(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid label ID",
			"success": false,
			"status":  400,
		})
	}

	label, err := query.LabelByID(config.DB, sc, id)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Label found",
		"success": true,
		"status":  200,
		"data":    label,
	})
}

func UpdateLabel(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid label ID",
			"success": false,
			"status":  400,
		})
	}

	var req labelRequest
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

	if err := mutation.UpdateLabel(config.DB, sc, id, req.Name); err != nil {
		logger.ErrorLogger.Error("Error updating label", zap.Error(err))
		return apperr.Respond(c, err)
	}

	label, err := query.LabelByID(config.DB, sc, id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	logger.AuditLogger.Info("Label updated", zap.Int("label_id", id))
	return c.JSON(fiber.Map{
		"message": "Label updated successfully",
		"success": true,
		"status":  200,
		"data":    label,
	})
}

func DeleteLabel(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid label ID",
			"success": false,
			"status":  400,
		})
	}

	if err := mutation.DeleteLabel(config.DB, sc, id); err != nil {
		return apperr.Respond(c, err)
	}

	logger.AuditLogger.Info("Label deleted", zap.Int("label_id", id))
	return c.JSON(fiber.Map{
		"message": "Label deleted successfully",
		"success": true,
		"status":  200,
	})
}
