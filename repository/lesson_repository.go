package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/otabek-dev/tutor_center/models"
)

// LessonRepository is the lesson store consumed by the lifecycle services and
// the reminder job.
type LessonRepository interface {
	Base[models.Lesson]

	// FindWithRelations loads a lesson with its teacher and student rows.
	FindWithRelations(ctx context.Context, id uuid.UUID) (*models.Lesson, error)

	// FindByTeacherAndStart and FindByStudentAndStart are the conflict
	// probes: an active lesson for the same subject at the exact same start
	// instant. They return ErrNotFound when no collision exists.
	FindByTeacherAndStart(ctx context.Context, teacherID uuid.UUID, start time.Time) (*models.Lesson, error)
	FindByStudentAndStart(ctx context.Context, studentID uuid.UUID, start time.Time) (*models.Lesson, error)

	FindAvailable(ctx context.Context) ([]models.Lesson, error)
	FindByTeacher(ctx context.Context, teacherID uuid.UUID) ([]models.Lesson, error)
	FindByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Lesson, error)

	// FindStartingBetween returns active lessons whose start instant falls in
	// [from, to], student preloaded. Used by the reminder sweep.
	FindStartingBetween(ctx context.Context, from, to time.Time) ([]models.Lesson, error)

	// Book assigns the student and flips the lesson to booked inside one
	// serialized unit: the row is locked, status and conflicts are
	// re-checked under the lock, and the partial unique index on
	// (student_id, start_time) backs up the same-instant race across rows.
	Book(ctx context.Context, lessonID, studentID uuid.UUID, bookedAt time.Time) (*models.Lesson, error)

	// Archive inserts the history row and deletes the lesson in one
	// transaction. Either both happen or neither does.
	Archive(ctx context.Context, lessonID uuid.UUID, history *models.LessonHistory) error
}

type gormLessonRepository struct {
	*GormBase[models.Lesson]
	db *gorm.DB
}

func NewLessonRepository(db *gorm.DB) LessonRepository {
	return &gormLessonRepository{GormBase: NewGormBase[models.Lesson](db), db: db}
}

func (r *gormLessonRepository) FindWithRelations(ctx context.Context, id uuid.UUID) (*models.Lesson, error) {
	var lesson models.Lesson
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Preload("Student").
		First(&lesson, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &lesson, nil
}

func (r *gormLessonRepository) FindByTeacherAndStart(ctx context.Context, teacherID uuid.UUID, start time.Time) (*models.Lesson, error) {
	return r.findOne(ctx, "teacher_id = ? AND start_time = ?", teacherID, start)
}

func (r *gormLessonRepository) FindByStudentAndStart(ctx context.Context, studentID uuid.UUID, start time.Time) (*models.Lesson, error) {
	return r.findOne(ctx, "student_id = ? AND start_time = ?", studentID, start)
}

func (r *gormLessonRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := r.db.WithContext(ctx).Where(query, args...).First(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &lesson, nil
}

func (r *gormLessonRepository) FindAvailable(ctx context.Context) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Where("status = ?", models.LessonStatusAvailable).
		Order("start_time asc").
		Find(&lessons).Error
	return lessons, err
}

func (r *gormLessonRepository) FindByTeacher(ctx context.Context, teacherID uuid.UUID) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("teacher_id = ?", teacherID).
		Order("start_time asc").
		Find(&lessons).Error
	return lessons, err
}

func (r *gormLessonRepository) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Where("student_id = ?", studentID).
		Order("start_time asc").
		Find(&lessons).Error
	return lessons, err
}

func (r *gormLessonRepository) FindStartingBetween(ctx context.Context, from, to time.Time) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("start_time BETWEEN ? AND ?", from, to).
		Order("start_time asc").
		Find(&lessons).Error
	return lessons, err
}

func (r *gormLessonRepository) Book(ctx context.Context, lessonID, studentID uuid.UUID, bookedAt time.Time) (*models.Lesson, error) {
	var lesson models.Lesson
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&lesson, "id = ?", lessonID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if lesson.Status != models.LessonStatusAvailable || lesson.StudentID != nil {
			return ErrNotAvailable
		}

		var count int64
		if err := tx.Model(&models.Lesson{}).
			Where("student_id = ? AND start_time = ?", studentID, lesson.StartTime).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrConflict
		}

		lesson.StudentID = &studentID
		lesson.Status = models.LessonStatusBooked
		lesson.BookedAt = &bookedAt
		if err := tx.Save(&lesson).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrConflict
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *gormLessonRepository) Archive(ctx context.Context, lessonID uuid.UUID, history *models.LessonHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(history).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Lesson{}, "id = ?", lessonID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
