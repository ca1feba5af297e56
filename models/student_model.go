package models

import (
	"time"

	"github.com/google/uuid"
)

type Student struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FirstName   string    `gorm:"size:255;not null" json:"first_name"`
	LastName    *string   `gorm:"size:255" json:"last_name"`
	Email       string    `gorm:"size:255;not null;unique" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	PhoneNumber *string   `gorm:"size:20" json:"phone_number"`
	TgID        *string   `gorm:"size:50" json:"tg_id"`
	IsBlocked   bool      `gorm:"default:false" json:"is_blocked"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
