package models

import (
	"time"

	"github.com/google/uuid"
)

// AdoptionRequest statuses. Exactly one request per animal may hold APPROVED.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// AdoptionRequest links a requesting user to an animal. AdminID is an
// assignment field used only when reassigning requests on admin removal;
// nothing populates it at creation.
type AdoptionRequest struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	AnimalID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"animal_id"`
	AdminID   *uuid.UUID `gorm:"type:uuid;index" json:"admin_id"`
	Status    string     `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	Animal    *Animal    `gorm:"foreignKey:AnimalID" json:"animal,omitempty"`
	User      *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
