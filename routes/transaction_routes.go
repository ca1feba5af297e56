package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/otabek-dev/tutor_center/handlers"
	"github.com/otabek-dev/tutor_center/middleware"
)

func TransactionRoutes(app *fiber.App, h *handlers.TransactionHandler) {
	api := app.Group("/api/v1")

	transactions := api.Group("/transactions", middleware.Protected())

	student := transactions.Group("/student", middleware.StudentRequired())
	student.Post("/lessons/:lessonId", h.CreateTransaction)
	student.Get("", h.GetMyTransactions)

	admin := transactions.Group("/admin", middleware.AdminRequired())
	admin.Post("/:transactionId/complete", h.CompleteTransaction)
	admin.Post("/:transactionId/cancel", h.CancelTransaction)
	admin.Get("/lessons/:lessonId", h.GetLessonTransaction)
	admin.Get("", h.GetTransactionsByStatus)
}
