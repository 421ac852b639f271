package v1

import (
	"blazely/internal/api/v1/handlers"
	"blazely/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mendaftarkan seluruh route API v1. Konvensi parameter:
// resource terminal selalu :id, ancestor memakai :groupID/:listID/:taskID
// supaya Scope bisa membedakan keduanya.
func RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Auth (public)
	api.Get("/auth/google", handlers.GoogleLogin)
	api.Get("/auth/google/callback", handlers.GoogleCallback)
	api.Post("/jwt/create", handlers.CreateToken)
	api.Post("/jwt/refresh", handlers.RefreshToken)
	api.Post("/jwt/blacklist", handlers.BlacklistToken)

	// Users
	userRoutes := api.Group("/users", middleware.UseToken)
	userRoutes.Get("/", handlers.ListAccounts)
	userRoutes.Post("/", handlers.CreateAccount)
	userRoutes.Get("/me", handlers.AccountMe)
	userRoutes.Patch("/me", handlers.AccountMe)
	userRoutes.Get("/:id", handlers.GetAccount)
	userRoutes.Patch("/:id", handlers.UpdateAccount)
	userRoutes.Post("/:id/activate", handlers.ActivateAccount)
	userRoutes.Post("/:id/deactivate", handlers.DeactivateAccount)

	// Profiles
	profileRoutes := api.Group("/profiles", middleware.UseToken)
	profileRoutes.Get("/", handlers.ListProfiles)
	profileRoutes.Get("/me", handlers.ProfileMe)
	profileRoutes.Patch("/me", handlers.ProfileMe)
	profileRoutes.Post("/me/picture", handlers.UploadProfilePicture)
	profileRoutes.Get("/:id", handlers.GetProfile)
	profileRoutes.Patch("/:id", handlers.UpdateProfile)

	// Groups
	groupRoutes := api.Group("/groups", middleware.UseToken)
	groupRoutes.Get("/", handlers.ListGroups)
	groupRoutes.Post("/", handlers.CreateGroup)
	groupRoutes.Get("/:id", handlers.GetGroup)
	groupRoutes.Patch("/:id", handlers.UpdateGroup)
	groupRoutes.Delete("/:id", handlers.DeleteGroup)
	groupRoutes.Post("/:id/manage-lists", handlers.ManageGroupLists)

	// Lists (top-level dan nested di bawah group)
	listRoutes := api.Group("/lists", middleware.UseToken)
	listRoutes.Get("/", handlers.ListTaskLists)
	listRoutes.Post("/", handlers.CreateTaskList)
	listRoutes.Get("/:id", handlers.GetTaskList)
	listRoutes.Patch("/:id", handlers.UpdateTaskList)
	listRoutes.Delete("/:id", handlers.DeleteTaskList)

	groupListRoutes := api.Group("/groups/:groupID/lists", middleware.UseToken)
	groupListRoutes.Get("/", handlers.ListTaskLists)
	groupListRoutes.Post("/", handlers.CreateTaskList)
	groupListRoutes.Get("/:id", handlers.GetTaskList)
	groupListRoutes.Patch("/:id", handlers.UpdateTaskList)
	groupListRoutes.Delete("/:id", handlers.DeleteTaskList)

	// Tasks: top-level hanya read/update/delete; create wajib lewat
	// nested path supaya parent list selalu dari URL.
	taskRoutes := api.Group("/tasks", middleware.UseToken)
	taskRoutes.Get("/", handlers.ListTasks)
	taskRoutes.Post("/", handlers.CreateTask)
	taskRoutes.Get("/:id", handlers.GetTask)
	taskRoutes.Patch("/:id", handlers.UpdateTask)
	taskRoutes.Delete("/:id", handlers.DeleteTask)

	listTaskRoutes := api.Group("/lists/:listID/tasks", middleware.UseToken)
	listTaskRoutes.Get("/", handlers.ListTasks)
	listTaskRoutes.Post("/", handlers.CreateTask)
	listTaskRoutes.Get("/:id", handlers.GetTask)
	listTaskRoutes.Patch("/:id", handlers.UpdateTask)
	listTaskRoutes.Delete("/:id", handlers.DeleteTask)

	groupListTaskRoutes := api.Group("/groups/:groupID/lists/:listID/tasks", middleware.UseToken)
	groupListTaskRoutes.Get("/", handlers.ListTasks)
	groupListTaskRoutes.Post("/", handlers.CreateTask)
	groupListTaskRoutes.Get("/:id", handlers.GetTask)
	groupListTaskRoutes.Patch("/:id", handlers.UpdateTask)
	groupListTaskRoutes.Delete("/:id", handlers.DeleteTask)

	// Steps
	stepRoutes := api.Group("/steps", middleware.UseToken)
	stepRoutes.Get("/", handlers.ListSteps)
	stepRoutes.Get("/:id", handlers.GetStep)
	stepRoutes.Patch("/:id", handlers.UpdateStep)
	stepRoutes.Delete("/:id", handlers.DeleteStep)

	taskStepRoutes := api.Group("/tasks/:taskID/steps", middleware.UseToken)
	taskStepRoutes.Get("/", handlers.ListSteps)
	taskStepRoutes.Post("/", handlers.CreateStep)
	taskStepRoutes.Get("/:id", handlers.GetStep)
	taskStepRoutes.Patch("/:id", handlers.UpdateStep)
	taskStepRoutes.Delete("/:id", handlers.DeleteStep)

	listTaskStepRoutes := api.Group("/lists/:listID/tasks/:taskID/steps", middleware.UseToken)
	listTaskStepRoutes.Get("/", handlers.ListSteps)
	listTaskStepRoutes.Post("/", handlers.CreateStep)
	listTaskStepRoutes.Get("/:id", handlers.GetStep)
	listTaskStepRoutes.Patch("/:id", handlers.UpdateStep)
	listTaskStepRoutes.Delete("/:id", handlers.DeleteStep)

	groupListTaskStepRoutes := api.Group("/groups/:groupID/lists/:listID/tasks/:taskID/steps", middleware.UseToken)
	groupListTaskStepRoutes.Get("/", handlers.ListSteps)
	groupListTaskStepRoutes.Post("/", handlers.CreateStep)
	groupListTaskStepRoutes.Get("/:id", handlers.GetStep)
	groupListTaskStepRoutes.Patch("/:id", handlers.UpdateStep)
	groupListTaskStepRoutes.Delete("/:id", handlers.DeleteStep)

	// Labels
	labelRoutes := api.Group("/labels", middleware.UseToken)
	labelRoutes.Get("/", handlers.ListLabels)
	labelRoutes.Post("/", handlers.CreateLabel)
	labelRoutes.Get("/:id", handlers.GetLabel)
	labelRoutes.Patch("/:id", handlers.UpdateLabel)
	labelRoutes.Delete("/:id", handlers.DeleteLabel)

	// Uploads
	api.Get("/uploads/:filename", handlers.GetUpload)
}
