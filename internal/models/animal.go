package models

import (
	"time"

	"github.com/google/uuid"
)

// Animal belongs to exactly one shelter. Adopted is maintained by the
// adoption request engine; a direct admin edit may still override it.
type Animal struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ShelterID   uuid.UUID `gorm:"type:uuid;not null;index" json:"shelter_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Species     string    `gorm:"size:100;not null" json:"species"`
	Breed       string    `gorm:"size:100;not null" json:"breed"`
	Gender      string    `gorm:"size:20;not null" json:"gender"`
	Age         *int      `json:"age"`
	Description string    `gorm:"type:text" json:"description"`
	Adopted     bool      `gorm:"not null;default:false" json:"adopted"`
	Photos      []Photo   `gorm:"foreignKey:AnimalID" json:"photos,omitempty"`
	Shelter     *Shelter  `gorm:"foreignKey:ShelterID" json:"shelter,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
