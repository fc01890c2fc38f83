package dto

// ErrorResponse is the error body for every failed call. Error carries
// detail for client errors and is omitted (redacted) for server errors.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
