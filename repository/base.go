// Package repository holds the persistence layer: a generic gorm-backed base
// repository implemented once, and per-entity repositories that add the
// queries the services need. Services depend on the interfaces so tests can
// substitute in-memory fakes.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no row matches.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write collides with an existing active
	// lesson for the same subject and start instant.
	ErrConflict = errors.New("scheduling conflict")
	// ErrNotAvailable is returned by Book when the lesson is no longer open.
	ErrNotAvailable = errors.New("lesson not available")
)

// Base is the generic record store shared by every entity repository.
type Base[T any] interface {
	Create(ctx context.Context, entity *T) error
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	Save(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GormBase implements Base over a gorm DB.
type GormBase[T any] struct {
	db *gorm.DB
}

func NewGormBase[T any](db *gorm.DB) *GormBase[T] {
	return &GormBase[T]{db: db}
}

func (r *GormBase[T]) Create(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

func (r *GormBase[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

func (r *GormBase[T]) Save(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Save(entity).Error
}

func (r *GormBase[T]) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
