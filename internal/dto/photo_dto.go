package dto

import "github.com/google/uuid"

type CreatePhotoRequest struct {
	AnimalID uuid.UUID `json:"animal_id"`
	URL      string    `json:"url"`
}
