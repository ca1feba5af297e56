package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/otabek-dev/tutor_center/handlers"
	"github.com/otabek-dev/tutor_center/middleware"
)

func LessonRoutes(app *fiber.App, h *handlers.LessonHandler) {
	api := app.Group("/api/v1")

	lessons := api.Group("/lessons", middleware.Protected())
	lessons.Get("/available", h.GetAvailableLessons)

	teacher := lessons.Group("/teacher", middleware.TeacherRequired())
	teacher.Post("", h.CreateLesson)
	teacher.Get("", h.GetTeacherLessons)
	teacher.Put("/:lessonId", h.UpdateLesson)
	teacher.Post("/:lessonId/complete", h.CompleteLesson)

	student := lessons.Group("/student", middleware.StudentRequired())
	student.Get("", h.GetMyLessons)
	student.Post("/:lessonId/book", h.BookLesson)
}
