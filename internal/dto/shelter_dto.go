package dto

import "github.com/google/uuid"

type CreateShelterRequest struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Address     string  `json:"address"`
	Phone       *string `json:"phone"`
	Description string  `json:"description"`
}

type UpdateShelterRequest struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Address         string  `json:"address"`
	Phone           *string `json:"phone"`
	Description     string  `json:"description"`
	CurrentPassword string  `json:"current_password"`
}

type AddAdminRequest struct {
	Email string `json:"email"`
}

type RemoveAdminRequest struct {
	AdminID    uuid.UUID  `json:"admin_id"`
	NewAdminID *uuid.UUID `json:"new_admin_id"`
}

// ShelterSummary is the admin-facing view of the caller's own shelter.
type ShelterSummary struct {
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Address      string       `json:"address"`
	Phone        *string      `json:"phone"`
	Description  string       `json:"description"`
	AnimalsCount int          `json:"animals_count"`
	AdminsCount  int          `json:"admins_count"`
	CurrentAdmin CurrentAdmin `json:"current_admin"`
}

type CurrentAdmin struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	IsAdminOwner bool      `json:"is_admin_owner"`
}
