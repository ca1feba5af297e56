package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLog is an append-only audit row written by request handlers.
type ActivityLog struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID      uuid.UUID  `gorm:"not null" json:"user_id"`
	UserRole    string     `gorm:"size:20;not null" json:"user_role"`
	Action      string     `gorm:"size:100;not null" json:"action"`
	EntityType  string     `gorm:"size:100;not null" json:"entity_type"`
	EntityID    *uuid.UUID `json:"entity_id"`
	Description *string    `gorm:"type:text" json:"description"`
	IPAddress   *string    `gorm:"size:45" json:"ip_address"`
	UserAgent   *string    `gorm:"size:255" json:"user_agent"`

	CreatedAt time.Time `json:"created_at"`
}
