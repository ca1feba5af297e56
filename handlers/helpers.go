package handlers

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/otabek-dev/tutor_center/database"
	"github.com/otabek-dev/tutor_center/models"
	"github.com/otabek-dev/tutor_center/services"
)

var validate = validator.New()

// authUserID extracts the authenticated subject id from the JWT middleware.
func authUserID(c *fiber.Ctx) uuid.UUID {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	id, _ := uuid.Parse(claims["user_id"].(string))
	return id
}

func authRole(c *fiber.Ctx) string {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	role, _ := claims["role"].(string)
	return role
}

// serviceError maps a service error kind onto an HTTP response. Unknown
// errors become a 500 without leaking internals.
func serviceError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		message = svcErr.Message
		switch {
		case errors.Is(err, services.ErrNotFound):
			status = fiber.StatusNotFound
		case errors.Is(err, services.ErrForbidden):
			status = fiber.StatusForbidden
		case errors.Is(err, services.ErrConflict),
			errors.Is(err, services.ErrAlreadyExists):
			status = fiber.StatusConflict
		case errors.Is(err, services.ErrExternalFailure):
			status = fiber.StatusBadGateway
		default:
			status = fiber.StatusBadRequest
		}
	} else {
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(status).JSON(fiber.Map{"error": message})
}

// recordActivity appends an audit row. Failures are logged and swallowed:
// auditing must never fail the request it describes.
func recordActivity(c *fiber.Ctx, userID uuid.UUID, role, action, entityType string, entityID *uuid.UUID) {
	ip := c.IP()
	agent := c.Get(fiber.HeaderUserAgent)

	entry := models.ActivityLog{
		UserID:     userID,
		UserRole:   role,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		IPAddress:  &ip,
	}
	if agent != "" {
		entry.UserAgent = &agent
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		log.Printf("Failed to record activity %s/%s: %v", action, entityType, err)
	}
}
