package models

import (
	"time"

	"github.com/google/uuid"
)

type Teacher struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FullName      string    `gorm:"size:255;not null" json:"full_name"`
	Email         string    `gorm:"size:255;not null;unique" json:"email"`
	Password      string    `gorm:"not null" json:"-"`
	PhoneNumber   *string   `gorm:"size:20" json:"phone_number"`
	Specification *string   `gorm:"size:255" json:"specification"`
	Level         *string   `gorm:"size:50" json:"level"`
	HourPrice     float64   `gorm:"type:numeric(10,2);default:0.00" json:"hour_price"`
	Rating        float32   `gorm:"default:0" json:"rating"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`

	// Google Calendar OAuth credential pair; both must be present before the
	// teacher can publish lessons.
	GoogleAccessToken  *string `gorm:"size:512" json:"-"`
	GoogleRefreshToken *string `gorm:"size:512" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CalendarLinked reports whether the teacher has connected Google Calendar.
func (t *Teacher) CalendarLinked() bool {
	return t.GoogleAccessToken != nil && *t.GoogleAccessToken != "" &&
		t.GoogleRefreshToken != nil && *t.GoogleRefreshToken != ""
}
