package authz

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ForShelter returns a GORM scope that filters rows by shelter_id.
func ForShelter(shelterID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("shelter_id = ?", shelterID)
	}
}
