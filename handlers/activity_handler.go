package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/otabek-dev/tutor_center/database"
	"github.com/otabek-dev/tutor_center/models"
)

func ListUserActivities(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var entries []models.ActivityLog
	if err := database.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(200).
		Find(&entries).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(entries)
}

func ListRecentActivities(c *fiber.Ctx) error {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid limit, expected 1-500"})
		}
		limit = parsed
	}

	var entries []models.ActivityLog
	if err := database.DB.
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(entries)
}
