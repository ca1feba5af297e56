package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/otabek-dev/tutor_center/database"
	"github.com/otabek-dev/tutor_center/models"
)

func sendCSV(c *fiber.Ctx, filename string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate CSV"})
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate CSV"})
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate CSV"})
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s_%s.csv", filename, time.Now().Format("2006-01-02")))
	return c.Send(buf.Bytes())
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func timeOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func ExportTeachers(c *fiber.Ctx) error {
	var teachers []models.Teacher
	if err := database.DB.Order("created_at").Find(&teachers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	rows := make([][]string, 0, len(teachers))
	for _, t := range teachers {
		rows = append(rows, []string{
			t.ID.String(),
			t.FullName,
			t.Email,
			strOrEmpty(t.PhoneNumber),
			strOrEmpty(t.Specification),
			strOrEmpty(t.Level),
			fmt.Sprintf("%.2f", t.HourPrice),
			fmt.Sprintf("%.1f", t.Rating),
			fmt.Sprintf("%t", t.IsActive),
			t.CreatedAt.Format(time.RFC3339),
		})
	}

	return sendCSV(c, "teachers",
		[]string{"id", "full_name", "email", "phone_number", "specification", "level", "hour_price", "rating", "is_active", "created_at"},
		rows)
}

func ExportStudents(c *fiber.Ctx) error {
	var students []models.Student
	if err := database.DB.Order("created_at").Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	rows := make([][]string, 0, len(students))
	for _, s := range students {
		rows = append(rows, []string{
			s.ID.String(),
			s.FirstName,
			strOrEmpty(s.LastName),
			s.Email,
			strOrEmpty(s.PhoneNumber),
			strOrEmpty(s.TgID),
			fmt.Sprintf("%t", s.IsBlocked),
			s.CreatedAt.Format(time.RFC3339),
		})
	}

	return sendCSV(c, "students",
		[]string{"id", "first_name", "last_name", "email", "phone_number", "tg_id", "is_blocked", "created_at"},
		rows)
}

func ExportLessons(c *fiber.Ctx) error {
	var lessons []models.Lesson
	if err := database.DB.Order("start_time").Find(&lessons).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	rows := make([][]string, 0, len(lessons))
	for _, l := range lessons {
		studentID := ""
		if l.StudentID != nil {
			studentID = l.StudentID.String()
		}
		rows = append(rows, []string{
			l.ID.String(),
			l.Name,
			l.StartTime.Format(time.RFC3339),
			l.EndTime.Format(time.RFC3339),
			fmt.Sprintf("%.2f", l.Price),
			string(l.Status),
			fmt.Sprintf("%t", l.IsPaid),
			l.TeacherID.String(),
			studentID,
			strOrEmpty(l.GoogleMeetURL),
			timeOrEmpty(l.BookedAt),
		})
	}

	return sendCSV(c, "lessons",
		[]string{"id", "name", "start_time", "end_time", "price", "status", "is_paid", "teacher_id", "student_id", "meet_url", "booked_at"},
		rows)
}

func ExportTransactions(c *fiber.Ctx) error {
	var txns []models.Transaction
	if err := database.DB.Order("created_at").Find(&txns).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	rows := make([][]string, 0, len(txns))
	for _, t := range txns {
		rows = append(rows, []string{
			t.ID.String(),
			t.LessonID.String(),
			t.StudentID.String(),
			fmt.Sprintf("%.2f", t.Price),
			string(t.Status),
			timeOrEmpty(t.PerformedAt),
			timeOrEmpty(t.CanceledAt),
			strOrEmpty(t.Reason),
			t.CreatedAt.Format(time.RFC3339),
		})
	}

	return sendCSV(c, "transactions",
		[]string{"id", "lesson_id", "student_id", "price", "status", "performed_at", "canceled_at", "reason", "created_at"},
		rows)
}

func ExportLessonHistory(c *fiber.Ctx) error {
	var history []models.LessonHistory
	if err := database.DB.Order("created_at").Find(&history).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	rows := make([][]string, 0, len(history))
	for _, h := range history {
		studentID := ""
		if h.StudentID != nil {
			studentID = h.StudentID.String()
		}
		rows = append(rows, []string{
			h.ID.String(),
			h.LessonID.String(),
			fmt.Sprintf("%d", h.Star),
			h.Feedback,
			h.TeacherID.String(),
			studentID,
			h.CreatedAt.Format(time.RFC3339),
		})
	}

	return sendCSV(c, "lesson_history",
		[]string{"id", "lesson_id", "star", "feedback", "teacher_id", "student_id", "created_at"},
		rows)
}
