package handler

// LoginRequest represents a login request
// @Description Login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"owner@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
	// TenantID picks the tenant when the email is registered in several
	TenantID string `json:"tenant_id" binding:"omitempty,uuid"`
}

// RefreshTokenRequest represents a token refresh request
// @Description Refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally carries the refresh token to revoke with the session
// @Description Logout request
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest represents a password change by the current user
// @Description Password change request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}
