package dto

type CreateAnimalRequest struct {
	Name        string `json:"name"`
	Species     string `json:"species"`
	Breed       string `json:"breed"`
	Gender      string `json:"gender"`
	Age         *int   `json:"age"`
	Description string `json:"description"`
}

// UpdateAnimalRequest is a partial update; empty strings and nil pointers
// leave the field untouched. Adopted may be set directly, bypassing the
// request-status coupling.
type UpdateAnimalRequest struct {
	Name        string `json:"name"`
	Species     string `json:"species"`
	Breed       string `json:"breed"`
	Gender      string `json:"gender"`
	Age         *int   `json:"age"`
	Description string `json:"description"`
	Adopted     *bool  `json:"adopted"`
}
