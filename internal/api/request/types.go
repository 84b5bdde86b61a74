package request

// RegisterRequest is the request body for registering an account
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateEmailRequest is the request body for the admin email update
type UpdateEmailRequest struct {
	Email string `json:"email"`
}

// UpdateProfileRequest is the request body for the self-service profile
// update; an empty field means "leave unchanged"
type UpdateProfileRequest struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}
