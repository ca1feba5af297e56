package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/otabek-dev/tutor_center/models"
	"github.com/otabek-dev/tutor_center/services"
)

type TransactionHandler struct {
	svc *services.TransactionService
}

func NewTransactionHandler(svc *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	studentID := authUserID(c)

	lessonID, err := uuid.Parse(c.Params("lessonId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid lesson ID"})
	}

	txn, err := h.svc.CreateForLesson(c.Context(), lessonID, studentID)
	if err != nil {
		return serviceError(c, err)
	}

	recordActivity(c, studentID, "student", "create", "transaction", &txn.ID)
	return c.Status(fiber.StatusCreated).JSON(txn)
}

func (h *TransactionHandler) CompleteTransaction(c *fiber.Ctx) error {
	transactionID, err := uuid.Parse(c.Params("transactionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	txn, err := h.svc.Complete(c.Context(), transactionID)
	if err != nil {
		return serviceError(c, err)
	}

	recordActivity(c, authUserID(c), authRole(c), "complete", "transaction", &txn.ID)
	return c.JSON(txn)
}

type CancelTransactionRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func (h *TransactionHandler) CancelTransaction(c *fiber.Ctx) error {
	transactionID, err := uuid.Parse(c.Params("transactionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	var req CancelTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	txn, err := h.svc.Cancel(c.Context(), transactionID, req.Reason)
	if err != nil {
		return serviceError(c, err)
	}

	recordActivity(c, authUserID(c), authRole(c), "cancel", "transaction", &txn.ID)
	return c.JSON(txn)
}

func (h *TransactionHandler) GetLessonTransaction(c *fiber.Ctx) error {
	lessonID, err := uuid.Parse(c.Params("lessonId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid lesson ID"})
	}

	txn, err := h.svc.GetForLesson(c.Context(), lessonID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(txn)
}

func (h *TransactionHandler) GetMyTransactions(c *fiber.Ctx) error {
	txns, err := h.svc.GetForStudent(c.Context(), authUserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(txns)
}

func (h *TransactionHandler) GetTransactionsByStatus(c *fiber.Ctx) error {
	status := models.TransactionStatus(c.Query("status"))
	switch status {
	case models.TransactionStatusPending, models.TransactionStatusPaid,
		models.TransactionStatusPendingCanceled, models.TransactionStatusPaidCanceled:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid transaction status"})
	}

	txns, err := h.svc.GetByStatus(c.Context(), status)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(txns)
}
