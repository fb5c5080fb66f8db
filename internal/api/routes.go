package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Sshrut/Smart-Task-Scheduler/internal/api/handlers"
	"github.com/Sshrut/Smart-Task-Scheduler/internal/middleware"
)

func RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth
	api.Post("/register", handlers.Register)
	api.Post("/login", handlers.Login)

	// Tasks (bearer token required)
	api.Post("/add-task", middleware.UseToken, handlers.AddTask)
	api.Put("/update-task/:id", middleware.UseToken, handlers.UpdateTask)
	api.Get("/tasks", middleware.UseToken, handlers.ListTasks)
}
