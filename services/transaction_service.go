package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/otabek-dev/tutor_center/models"
	"github.com/otabek-dev/tutor_center/repository"
)

// TransactionService owns the settlement state machine for booked lessons:
// PENDING -> PAID, PENDING -> PENDING_CANCELED, PAID -> PAID_CANCELED.
// Canceled states are terminal.
type TransactionService struct {
	transactions repository.TransactionRepository
	lessons      repository.LessonRepository
	now          func() time.Time
}

func NewTransactionService(transactions repository.TransactionRepository, lessons repository.LessonRepository) *TransactionService {
	return &TransactionService{
		transactions: transactions,
		lessons:      lessons,
		now:          time.Now,
	}
}

// WithClock replaces the time source. Tests use it to pin "now".
func (s *TransactionService) WithClock(now func() time.Time) *TransactionService {
	s.now = now
	return s
}

// CreateForLesson opens a pending transaction for a booked lesson. The price
// is copied from the lesson at this moment and the lesson is back-linked to
// the new transaction.
func (s *TransactionService) CreateForLesson(ctx context.Context, lessonID, studentID uuid.UUID) (*models.Transaction, error) {
	lesson, err := s.lessons.FindByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, E(ErrNotFound, "lesson not found")
		}
		return nil, err
	}
	if lesson.StudentID == nil || *lesson.StudentID != studentID {
		return nil, E(ErrNotBookedByStudent, "lesson is not booked by this student")
	}

	if _, err := s.transactions.FindByLesson(ctx, lessonID); err == nil {
		return nil, E(ErrAlreadyExists, "transaction already exists for this lesson")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	txn := &models.Transaction{
		LessonID:  lessonID,
		StudentID: studentID,
		Price:     lesson.Price,
		Status:    models.TransactionStatusPending,
	}
	if err := s.transactions.Create(ctx, txn); err != nil {
		return nil, err
	}

	lesson.TransactionID = &txn.ID
	if err := s.lessons.Save(ctx, lesson); err != nil {
		return nil, err
	}
	return txn, nil
}

// Complete marks a pending transaction as paid. The linked lesson's isPaid
// flag is a secondary write: a failure there is logged but does not undo the
// payment commit.
func (s *TransactionService) Complete(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	txn, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, E(ErrNotFound, "transaction not found")
		}
		return nil, err
	}
	if txn.Status == models.TransactionStatusPaid {
		return nil, E(ErrAlreadyPaid, "transaction is already paid")
	}
	if txn.Status.Canceled() {
		return nil, E(ErrAlreadyCanceled, "cannot complete a canceled transaction")
	}

	performedAt := s.now()
	txn.Status = models.TransactionStatusPaid
	txn.PerformedAt = &performedAt
	if err := s.transactions.Save(ctx, txn); err != nil {
		return nil, err
	}

	lesson, err := s.lessons.FindByID(ctx, txn.LessonID)
	if err != nil {
		log.Printf("🔥 Transaction %s paid but lesson %s could not be loaded: %v", txn.ID, txn.LessonID, err)
		return txn, nil
	}
	lesson.IsPaid = true
	if err := s.lessons.Save(ctx, lesson); err != nil {
		log.Printf("🔥 Transaction %s paid but lesson %s could not be marked paid: %v", txn.ID, lesson.ID, err)
	}
	return txn, nil
}

// Cancel moves a transaction into its terminal canceled state, recording
// when and why.
func (s *TransactionService) Cancel(ctx context.Context, id uuid.UUID, reason string) (*models.Transaction, error) {
	txn, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, E(ErrNotFound, "transaction not found")
		}
		return nil, err
	}
	if txn.Status.Canceled() {
		return nil, E(ErrAlreadyCanceled, "transaction is already canceled")
	}

	if txn.Status == models.TransactionStatusPaid {
		txn.Status = models.TransactionStatusPaidCanceled
	} else {
		txn.Status = models.TransactionStatusPendingCanceled
	}
	canceledAt := s.now()
	txn.CanceledAt = &canceledAt
	txn.Reason = &reason

	if err := s.transactions.Save(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *TransactionService) GetForLesson(ctx context.Context, lessonID uuid.UUID) (*models.Transaction, error) {
	txn, err := s.transactions.FindByLesson(ctx, lessonID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, E(ErrNotFound, "transaction not found for this lesson")
		}
		return nil, err
	}
	return txn, nil
}

func (s *TransactionService) GetForStudent(ctx context.Context, studentID uuid.UUID) ([]models.Transaction, error) {
	return s.transactions.FindByStudent(ctx, studentID)
}

func (s *TransactionService) GetByStatus(ctx context.Context, status models.TransactionStatus) ([]models.Transaction, error) {
	return s.transactions.FindByStatus(ctx, status)
}
