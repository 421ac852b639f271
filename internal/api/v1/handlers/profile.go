package handlers

import (
	"fmt"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"blazely/internal/apperr"
	"blazely/internal/config"
	"blazely/internal/identity"
	"blazely/internal/mutation"
	"blazely/internal/policy"
	"blazely/internal/query"
	"blazely/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Profile handlers

// ListProfiles hanya untuk superuser/staff; user biasa tetap bisa
// memanggil tapi hanya melihat profilenya sendiri lewat filter resolver.
func ListProfiles(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)
	role := policy.RoleOf(sc.IsStaff, sc.IsSuperuser)

	decision := policy.Resolve(policy.ResourceProfile, policy.ActionList, role)
	if !decision.Allowed {
		logger.SecurityLogger.Warn("Forbidden profile list", zap.Int("account_id", sc.AccountID))
		return c.Status(403).JSON(fiber.Map{
			"message": "Forbidden",
			"success": false,
			"status":  403,
		})
	}

	profiles, err := query.Profiles(config.DB, sc)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching profiles", zap.Error(err))
		return apperr.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Profiles fetched successfully",
		"success": true,
		"status":  200,
		"data":    profiles,
	})
}

func GetProfile(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid profile ID",
			"success": false,
			"status":  400,
		})
	}

	profile, err := query.ProfileByID(config.DB, sc, id)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Profile found",
		"success": true,
		"status":  200,
		"data":    profile,
	})
}

// UpdateProfile: user biasa cuma boleh menyentuh profilenya sendiri;
// id lain dilaporkan absence.
func UpdateProfile(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid profile ID",
			"success": false,
			"status":  400,
		})
	}
	if !sc.IsAdmin() && id != sc.ProfileID.String() {
		return apperr.Respond(c, apperr.NotFound("Profile not found"))
	}

	target, err := query.ProfileByID(config.DB, sc, id)
	if err != nil {
		return apperr.Respond(c, err)
	}

	var req mutation.ProfileUpdate
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

	if err := mutation.UpdateProfile(config.DB, target.ID, req); err != nil {
		logger.ErrorLogger.Error("Error updating profile", zap.Error(err))
		return apperr.Respond(c, err)
	}

	profile, err := query.ProfileByID(config.DB, sc, id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	logger.AuditLogger.Info("Profile updated", zap.String("profile_id", id))
	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"success": true,
		"status":  200,
		"data":    profile,
	})
}

// ProfileMe me-resolve profile caller sendiri tanpa id dari client.
func ProfileMe(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	if c.Method() == fiber.MethodPatch {
		var req mutation.ProfileUpdate
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
		if err := mutation.UpdateProfile(config.DB, sc.ProfileID, req); err != nil {
			logger.ErrorLogger.Error("Error updating profile", zap.Error(err))
			return apperr.Respond(c, err)
		}
	}

	profile, err := query.ProfileByAccount(config.DB, sc.AccountID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Profile found",
		"success": true,
		"status":  200,
		"data":    profile,
	})
}

// validasi file foto profil: maksimal 5MB, harus gambar.
func validatePicture(file *multipart.FileHeader) error {
	if file.Size > 5<<20 {
		return fiber.NewError(fiber.StatusBadRequest, "File size exceeds the limit of 5MB")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowedExts := map[string]bool{".jpg": true, ".jpeg": true, ".png": true}
	if !allowedExts[ext] {
		return fiber.NewError(fiber.StatusBadRequest, "File type not allowed")
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.Contains(contentType, "image") {
		return fiber.NewError(fiber.StatusBadRequest, "File must be an image")
	}
	return nil
}

// UploadProfilePicture menyimpan foto ke folder uploads dengan nama unik
// berbasis timestamp, lalu menulis URL-nya ke profile caller.
func UploadProfilePicture(c *fiber.Ctx) error {
	sc := identity.FromCtx(c)

	uploadDir := config.UploadDir
	if _, err := os.Stat(uploadDir); os.IsNotExist(err) {
		if err := os.MkdirAll(uploadDir, os.ModePerm); err != nil {
			logger.ErrorLogger.Error("Error creating upload directory", zap.Error(err))
			return c.Status(500).JSON(fiber.Map{
				"message": "Error creating upload directory",
				"success": false,
				"status":  500,
			})
		}
	}

	file, err := c.FormFile("profile_picture")
	if err != nil {
		logger.ErrorLogger.Error("Error uploading file", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Error uploading file",
			"success": false,
			"status":  400,
		})
	}

	if err := validatePicture(file); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": err.Error(),
			"success": false,
			"status":  400,
		})
	}

	newFilename := fmt.Sprintf("%d%s", time.Now().UnixNano(), filepath.Ext(file.Filename))
	filePath := path.Join(uploadDir, newFilename)
	if err := c.SaveFile(file, filePath); err != nil {
		logger.ErrorLogger.Error("Error saving file", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error saving file",
			"success": false,
			"status":  500,
		})
	}

	fileURL := fmt.Sprintf("/uploads/%s", newFilename)
	if err := mutation.SetProfilePicture(config.DB, sc.ProfileID, fileURL); err != nil {
		logger.ErrorLogger.Error("Error updating profile picture", zap.Error(err))
		return apperr.Respond(c, err)
	}

	logger.AuditLogger.Info("Profile picture uploaded", zap.String("filename", newFilename))
	return c.JSON(fiber.Map{
		"message": "Profile picture uploaded successfully",
		"success": true,
		"status":  200,
		"data": fiber.Map{
			"profile_picture": fileURL,
		},
	})
}

func GetUpload(c *fiber.Ctx) error {
	filename := c.Params("filename")
	return c.SendFile(path.Join(config.UploadDir, filename))
}
