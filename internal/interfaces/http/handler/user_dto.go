package handler

// CreateUserRequest represents a tenant user creation request
// @Description User creation request
type CreateUserRequest struct {
	Email      string   `json:"email" binding:"required,email"`
	Name       string   `json:"name" binding:"required,min=1,max=100"`
	Role       string   `json:"role" binding:"required,oneof=owner manager attendant"`
	Password   string   `json:"password" binding:"required,min=6"`
	StationIDs []string `json:"station_ids" binding:"omitempty,dive,uuid"`
}

// UpdateUserRequest changes profile fields; empty fields are kept
// @Description User update request
type UpdateUserRequest struct {
	Email string `json:"email" binding:"omitempty,email"`
	Name  string `json:"name" binding:"omitempty,min=1,max=100"`
	Role  string `json:"role" binding:"omitempty,oneof=owner manager attendant"`
}

// ResetPasswordRequest sets a user's password; empty generates one
// @Description Password reset request
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"omitempty,min=6"`
}

// ResetPasswordResponse returns the password that was set
type ResetPasswordResponse struct {
	Password string `json:"password"`
}

// AssignStationsRequest replaces a user's station assignments
// @Description Station assignment request
type AssignStationsRequest struct {
	StationIDs []string `json:"station_ids" binding:"required,dive,uuid"`
}
