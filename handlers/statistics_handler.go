package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/otabek-dev/tutor_center/database"
	"github.com/otabek-dev/tutor_center/models"
)

// GetDashboardStats returns aggregate platform counts for the admin
// dashboard. An optional start_date/end_date pair (YYYY-MM-DD) narrows the
// lesson, history and revenue figures to that window.
func GetDashboardStats(c *fiber.Ctx) error {
	var start, end *time.Time
	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start_date, expected YYYY-MM-DD"})
		}
		start = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid end_date, expected YYYY-MM-DD"})
		}
		// Make the end date inclusive of its whole day.
		t = t.Add(24*time.Hour - time.Nanosecond)
		end = &t
	}

	var totalTeachers, activeTeachers, totalStudents int64
	database.DB.Model(&models.Teacher{}).Count(&totalTeachers)
	database.DB.Model(&models.Teacher{}).Where("is_active = ?", true).Count(&activeTeachers)
	database.DB.Model(&models.Student{}).Where("is_blocked = ?", false).Count(&totalStudents)

	lessonQuery := database.DB.Model(&models.Lesson{})
	historyQuery := database.DB.Model(&models.LessonHistory{})
	transactionQuery := database.DB.Model(&models.Transaction{})
	paidQuery := database.DB.Model(&models.Transaction{}).Where("status = ?", models.TransactionStatusPaid)
	revenueQuery := database.DB.Model(&models.Transaction{}).Where("status = ?", models.TransactionStatusPaid)
	if start != nil {
		lessonQuery = lessonQuery.Where("start_time >= ?", *start)
		historyQuery = historyQuery.Where("created_at >= ?", *start)
		transactionQuery = transactionQuery.Where("created_at >= ?", *start)
		paidQuery = paidQuery.Where("performed_at >= ?", *start)
		revenueQuery = revenueQuery.Where("performed_at >= ?", *start)
	}
	if end != nil {
		lessonQuery = lessonQuery.Where("start_time <= ?", *end)
		historyQuery = historyQuery.Where("created_at <= ?", *end)
		transactionQuery = transactionQuery.Where("created_at <= ?", *end)
		paidQuery = paidQuery.Where("performed_at <= ?", *end)
		revenueQuery = revenueQuery.Where("performed_at <= ?", *end)
	}

	var totalLessons, completedLessons, totalTransactions, paidTransactions int64
	lessonQuery.Count(&totalLessons)
	historyQuery.Count(&completedLessons)
	transactionQuery.Count(&totalTransactions)
	paidQuery.Count(&paidTransactions)

	var revenue float64
	revenueQuery.Select("COALESCE(SUM(price), 0)").Scan(&revenue)

	return c.JSON(fiber.Map{
		"teachers": fiber.Map{
			"total":  totalTeachers,
			"active": activeTeachers,
		},
		"students": fiber.Map{
			"total": totalStudents,
		},
		"lessons": fiber.Map{
			"upcoming":  totalLessons,
			"completed": completedLessons,
		},
		"transactions": fiber.Map{
			"total": totalTransactions,
			"paid":  paidTransactions,
		},
		"revenue": revenue,
	})
}
