package models

import (
	"time"

	"github.com/google/uuid"
)

// Shelter owns a set of animals and is administered by one or more users,
// exactly one of which is the founding owner (User.IsAdminOwner).
type Shelter struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Email       string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Address     string    `gorm:"size:255;not null;uniqueIndex" json:"address"`
	Phone       *string   `gorm:"size:50;uniqueIndex" json:"phone"`
	Description string    `gorm:"type:text" json:"description"`
	Admins      []User    `gorm:"foreignKey:ShelterID" json:"admins,omitempty"`
	Animals     []Animal  `gorm:"foreignKey:ShelterID" json:"animals,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
