package models

import (
	"time"

	"github.com/google/uuid"
)

type TransactionStatus string

const (
	TransactionStatusPending         TransactionStatus = "pending"
	TransactionStatusPaid            TransactionStatus = "paid"
	TransactionStatusPendingCanceled TransactionStatus = "pending_canceled"
	TransactionStatusPaidCanceled    TransactionStatus = "paid_canceled"
)

// Canceled reports whether the status is one of the terminal canceled states.
func (s TransactionStatus) Canceled() bool {
	return s == TransactionStatusPendingCanceled || s == TransactionStatusPaidCanceled
}

type Transaction struct {
	ID        uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	LessonID  uuid.UUID         `gorm:"not null;unique" json:"lesson_id"`
	StudentID uuid.UUID         `gorm:"not null" json:"student_id"`
	Price     float64           `gorm:"type:numeric(10,2);not null" json:"price"`
	Status    TransactionStatus `gorm:"size:20;not null;default:'pending'" json:"status"`

	PerformedAt *time.Time `json:"performed_at"`
	CanceledAt  *time.Time `json:"canceled_at"`
	Reason      *string    `gorm:"type:text" json:"reason"`

	Student Student `gorm:"foreignkey:StudentID" json:"student,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
