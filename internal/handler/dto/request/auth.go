package request

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// RefreshRequest is optional; the refresh cookie is used when the body is empty.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}
