package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/otabek-dev/tutor_center/models"
	"github.com/otabek-dev/tutor_center/services"
)

type LessonHandler struct {
	svc *services.LessonService
}

func NewLessonHandler(svc *services.LessonService) *LessonHandler {
	return &LessonHandler{svc: svc}
}

type CreateLessonRequest struct {
	Name      string  `json:"name" validate:"required,min=2"`
	StartTime string  `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime   string  `json:"end_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Price     float64 `json:"price" validate:"gte=0"`
}

func (h *LessonHandler) CreateLesson(c *fiber.Ctx) error {
	teacherID := authUserID(c)

	var req CreateLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	startTime, _ := time.Parse(time.RFC3339, req.StartTime)
	endTime, _ := time.Parse(time.RFC3339, req.EndTime)

	lesson, err := h.svc.Create(c.Context(), teacherID, services.CreateLessonInput{
		Name:      req.Name,
		StartTime: startTime,
		EndTime:   endTime,
		Price:     req.Price,
	})
	if err != nil {
		return serviceError(c, err)
	}

	recordActivity(c, teacherID, "teacher", "create", "lesson", &lesson.ID)
	return c.Status(fiber.StatusCreated).JSON(lesson)
}

func (h *LessonHandler) BookLesson(c *fiber.Ctx) error {
	studentID := authUserID(c)

	lessonID, err := uuid.Parse(c.Params("lessonId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid lesson ID"})
	}

	lesson, err := h.svc.Book(c.Context(), lessonID, studentID)
	if err != nil {
		return serviceError(c, err)
	}

	recordActivity(c, studentID, "student", "book", "lesson", &lesson.ID)
	return c.JSON(lesson)
}

type UpdateLessonRequest struct {
	Name      *string  `json:"name,omitempty" validate:"omitempty,min=2"`
	StartTime *string  `json:"start_time,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime   *string  `json:"end_time,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Status    *string  `json:"status,omitempty" validate:"omitempty,oneof=available booked"`
	Price     *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	IsPaid    *bool    `json:"is_paid,omitempty"`
}

func (h *LessonHandler) UpdateLesson(c *fiber.Ctx) error {
	lessonID, err := uuid.Parse(c.Params("lessonId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid lesson ID"})
	}

	var req UpdateLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	in := services.UpdateLessonInput{
		Name:   req.Name,
		Price:  req.Price,
		IsPaid: req.IsPaid,
	}
	if req.StartTime != nil {
		t, _ := time.Parse(time.RFC3339, *req.StartTime)
		in.StartTime = &t
	}
	if req.EndTime != nil {
		t, _ := time.Parse(time.RFC3339, *req.EndTime)
		in.EndTime = &t
	}
	if req.Status != nil {
		status := models.LessonStatus(*req.Status)
		in.Status = &status
	}

	lesson, err := h.svc.Update(c.Context(), lessonID, in)
	if err != nil {
		return serviceError(c, err)
	}

	recordActivity(c, authUserID(c), authRole(c), "update", "lesson", &lesson.ID)
	return c.JSON(lesson)
}

type CompleteLessonRequest struct {
	Star     *int    `json:"star,omitempty" validate:"omitempty,min=1,max=5"`
	Feedback *string `json:"feedback,omitempty"`
}

func (h *LessonHandler) CompleteLesson(c *fiber.Ctx) error {
	teacherID := authUserID(c)

	lessonID, err := uuid.Parse(c.Params("lessonId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid lesson ID"})
	}

	var req CompleteLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	history, err := h.svc.Complete(c.Context(), teacherID, lessonID, req.Star, req.Feedback)
	if err != nil {
		return serviceError(c, err)
	}

	recordActivity(c, teacherID, "teacher", "complete", "lesson", &lessonID)
	return c.JSON(fiber.Map{
		"message":        "Lesson completed and moved to history",
		"lesson_history": history,
	})
}

func (h *LessonHandler) DeleteLesson(c *fiber.Ctx) error {
	lessonID, err := uuid.Parse(c.Params("lessonId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid lesson ID"})
	}

	if err := h.svc.Delete(c.Context(), lessonID); err != nil {
		return serviceError(c, err)
	}

	recordActivity(c, authUserID(c), authRole(c), "delete", "lesson", &lessonID)
	return c.JSON(fiber.Map{"message": "Lesson deleted successfully"})
}

func (h *LessonHandler) GetAvailableLessons(c *fiber.Ctx) error {
	lessons, err := h.svc.GetAvailable(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(lessons)
}

func (h *LessonHandler) GetMyLessons(c *fiber.Ctx) error {
	lessons, err := h.svc.GetForStudent(c.Context(), authUserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(lessons)
}

func (h *LessonHandler) GetTeacherLessons(c *fiber.Ctx) error {
	lessons, err := h.svc.GetForTeacher(c.Context(), authUserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(lessons)
}
