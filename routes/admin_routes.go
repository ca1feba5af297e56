package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/otabek-dev/tutor_center/handlers"
	"github.com/otabek-dev/tutor_center/middleware"
)

func AdminRoutes(app *fiber.App, lessons *handlers.LessonHandler) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Get("/dashboard-stats", handlers.GetDashboardStats)
	admin.Delete("/lessons/:lessonId", lessons.DeleteLesson)

	activities := admin.Group("/activities")
	activities.Get("/recent", handlers.ListRecentActivities)
	activities.Get("/users/:userId", handlers.ListUserActivities)

	exports := admin.Group("/exports")
	exports.Get("/teachers", handlers.ExportTeachers)
	exports.Get("/students", handlers.ExportStudents)
	exports.Get("/lessons", handlers.ExportLessons)
	exports.Get("/transactions", handlers.ExportTransactions)
	exports.Get("/lesson-history", handlers.ExportLessonHistory)
}
