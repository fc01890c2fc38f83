package models

import (
	"time"

	"github.com/google/uuid"
)

// Photo is a stored image of an animal. PublicID holds the object-store key
// when the file lives in external storage; direct-URL photos leave it nil.
type Photo struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AnimalID  uuid.UUID `gorm:"type:uuid;not null;index" json:"animal_id"`
	URL       string    `gorm:"type:text;not null" json:"url"`
	PublicID  *string   `gorm:"size:512" json:"public_id"`
	Animal    *Animal   `gorm:"foreignKey:AnimalID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
