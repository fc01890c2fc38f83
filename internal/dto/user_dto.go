package dto

type UpdateProfileRequest struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type DeleteAccountRequest struct {
	CurrentPassword string `json:"current_password"`
}

type FirstLoginRequest struct {
	FirstLoginCompleted *bool `json:"first_login_completed"`
}
