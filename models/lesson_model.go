package models

import (
	"time"

	"github.com/google/uuid"
)

type LessonStatus string

const (
	LessonStatusAvailable LessonStatus = "available"
	LessonStatusBooked    LessonStatus = "booked"
	// LessonStatusCompleted never persists: completion archives the lesson
	// into LessonHistory and removes the row. The constant exists so the
	// defensive check in CompleteLesson has something to compare against.
	LessonStatusCompleted LessonStatus = "completed"
)

type Lesson struct {
	ID        uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name      string       `gorm:"size:255;not null" json:"name"`
	StartTime time.Time    `gorm:"not null" json:"start_time"`
	EndTime   time.Time    `gorm:"not null" json:"end_time"`
	Price     float64      `gorm:"type:numeric(10,2);not null" json:"price"`
	Status    LessonStatus `gorm:"size:20;not null;default:'available'" json:"status"`
	IsPaid    bool         `gorm:"default:false" json:"is_paid"`

	TeacherID     uuid.UUID  `gorm:"not null" json:"teacher_id"`
	StudentID     *uuid.UUID `json:"student_id"`
	TransactionID *uuid.UUID `json:"transaction_id"`

	GoogleEventID *string    `gorm:"size:255" json:"google_event_id"`
	GoogleMeetURL *string    `gorm:"size:255" json:"google_meet_url"`
	BookedAt      *time.Time `json:"booked_at"`

	Teacher Teacher  `gorm:"foreignkey:TeacherID" json:"teacher,omitempty"`
	Student *Student `gorm:"foreignkey:StudentID" json:"student,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
