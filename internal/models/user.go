package models

import (
	"time"

	"github.com/google/uuid"
)

// Role values carried in the JWT and checked on every guarded operation.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FullName            string     `gorm:"size:255;not null" json:"full_name"`
	Email               string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password            string     `gorm:"not null" json:"-"`
	Role                string     `gorm:"size:20;not null;default:'USER'" json:"role"`
	IsAdminOwner        bool       `gorm:"not null;default:false" json:"is_admin_owner"`
	FirstLoginCompleted bool       `gorm:"not null;default:false" json:"first_login_completed"`
	ShelterID           *uuid.UUID `gorm:"type:uuid;index" json:"shelter_id"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}
