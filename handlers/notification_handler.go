package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/otabek-dev/tutor_center/database"
	"github.com/otabek-dev/tutor_center/models"
	"github.com/otabek-dev/tutor_center/notifications"
)

type NotificationHandler struct {
	sender notifications.Sender
}

func NewNotificationHandler(sender notifications.Sender) *NotificationHandler {
	return &NotificationHandler{sender: sender}
}

func (h *NotificationHandler) GetMyNotifications(c *fiber.Ctx) error {
	studentID := authUserID(c)

	var rows []models.Notification
	if err := database.DB.
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Limit(100).
		Find(&rows).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(rows)
}

func (h *NotificationHandler) GetUnreadNotifications(c *fiber.Ctx) error {
	studentID := authUserID(c)

	var rows []models.Notification
	if err := database.DB.
		Where("student_id = ? AND is_read = ?", studentID, false).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"count": len(rows), "notifications": rows})
}

func (h *NotificationHandler) MarkNotificationsRead(c *fiber.Ctx) error {
	studentID := authUserID(c)
	now := time.Now()

	result := database.DB.Model(&models.Notification{}).
		Where("student_id = ? AND is_read = ?", studentID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(fiber.Map{
		"message": "Notifications marked as read",
		"updated": result.RowsAffected,
	})
}

type BulkNotificationRequest struct {
	Title   string `json:"title" validate:"required,min=2"`
	Message string `json:"message" validate:"required"`
	Type    string `json:"type" validate:"omitempty,oneof=general lesson payment system"`
}

// SendBulkNotification stores an in-app notification for every unblocked
// student and pushes a Telegram copy to those with a linked chat. Telegram
// failures are logged and do not abort the rest of the batch.
func (h *NotificationHandler) SendBulkNotification(c *fiber.Ctx) error {
	var req BulkNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Type == "" {
		req.Type = "general"
	}

	var students []models.Student
	if err := database.DB.Where("is_blocked = ?", false).Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	created, delivered := 0, 0
	for _, student := range students {
		row := models.Notification{
			StudentID: student.ID,
			Type:      req.Type,
			Title:     req.Title,
			Message:   req.Message,
			Channel:   "in_app",
		}
		if err := database.DB.Create(&row).Error; err != nil {
			log.Printf("🔥 Failed to create notification for student %s: %v", student.ID, err)
			continue
		}
		created++

		if h.sender == nil || student.TgID == nil || *student.TgID == "" {
			continue
		}
		text := "📢 *" + req.Title + "*\n\n" + req.Message
		if err := h.sender.Send(c.Context(), *student.TgID, text); err != nil {
			log.Printf("🔥 Failed to send telegram notification to student %s: %v", student.ID, err)
			continue
		}
		delivered++
	}

	adminID := authUserID(c)
	recordActivity(c, adminID, "admin", "broadcast", "notification", nil)

	return c.JSON(fiber.Map{
		"message":   "Bulk notification sent",
		"created":   created,
		"delivered": delivered,
	})
}
