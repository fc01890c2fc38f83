package dto

import "github.com/google/uuid"

type CreateAdoptionRequest struct {
	AnimalID uuid.UUID `json:"animal_id"`
	Message  string    `json:"message"`
}

type UpdateRequestStatusRequest struct {
	Status string `json:"status"`
}

// AdoptedAnimalInfo is attached to the Conflict body when a request targets
// an already adopted animal.
type AdoptedAnimalInfo struct {
	Name        string `json:"name"`
	Species     string `json:"species"`
	Breed       string `json:"breed"`
	Description string `json:"description"`
}
