package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultStar is assumed when the teacher completes a lesson without a rating.
	DefaultStar = 5
	// DefaultFeedback is stored when no feedback text was provided.
	DefaultFeedback = "no feedback"
)

// LessonHistory is the immutable archive row created when a lesson is
// completed. It is written exactly once, in the same transaction that deletes
// the lesson, and never updated afterwards.
type LessonHistory struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	LessonID uuid.UUID `gorm:"not null" json:"lesson_id"`
	Star     int       `gorm:"not null;default:5" json:"star"`
	Feedback string    `gorm:"type:text;not null" json:"feedback"`

	TeacherID uuid.UUID  `gorm:"not null" json:"teacher_id"`
	StudentID *uuid.UUID `json:"student_id"`

	CreatedAt time.Time `json:"created_at"`
}
