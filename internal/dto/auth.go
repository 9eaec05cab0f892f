package dto

// LoginRequest carries back-office credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the bearer token for the SPA.
type LoginResponse struct {
	Token string `json:"token"`
}
