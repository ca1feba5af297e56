package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/otabek-dev/tutor_center/models"
)

type TransactionRepository interface {
	Base[models.Transaction]

	// FindByLesson returns the transaction linked to a lesson, or ErrNotFound.
	// At most one exists per lesson (unique constraint on lesson_id).
	FindByLesson(ctx context.Context, lessonID uuid.UUID) (*models.Transaction, error)
	FindByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Transaction, error)
	FindByStatus(ctx context.Context, status models.TransactionStatus) ([]models.Transaction, error)
}

type gormTransactionRepository struct {
	*GormBase[models.Transaction]
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &gormTransactionRepository{GormBase: NewGormBase[models.Transaction](db), db: db}
}

func (r *gormTransactionRepository) FindByLesson(ctx context.Context, lessonID uuid.UUID) (*models.Transaction, error) {
	var txn models.Transaction
	if err := r.db.WithContext(ctx).First(&txn, "lesson_id = ?", lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &txn, nil
}

func (r *gormTransactionRepository) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("student_id = ?", studentID).
		Order("created_at desc").
		Find(&txns).Error
	return txns, err
}

func (r *gormTransactionRepository) FindByStatus(ctx context.Context, status models.TransactionStatus) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("status = ?", status).
		Order("created_at desc").
		Find(&txns).Error
	return txns, err
}
