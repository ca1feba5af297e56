package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/otabek-dev/tutor_center/handlers"
	"github.com/otabek-dev/tutor_center/middleware"
)

func NotificationRoutes(app *fiber.App, h *handlers.NotificationHandler) {
	api := app.Group("/api/v1")

	notifications := api.Group("/notifications", middleware.Protected())

	student := notifications.Group("/student", middleware.StudentRequired())
	student.Get("", h.GetMyNotifications)
	student.Get("/unread", h.GetUnreadNotifications)
	student.Post("/mark-read", h.MarkNotificationsRead)

	admin := notifications.Group("/admin", middleware.AdminRequired())
	admin.Post("/broadcast", h.SendBulkNotification)
}
