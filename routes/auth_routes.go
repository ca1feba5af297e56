package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/otabek-dev/tutor_center/handlers"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/admin/login", handlers.AdminLogin)
	auth.Post("/teacher/login", handlers.TeacherLogin)
	auth.Post("/student/login", handlers.StudentLogin)
}
