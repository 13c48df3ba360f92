package handler

import (
	"github.com/fuelsync/backend/internal/interfaces/http/dto"
	"github.com/google/uuid"
)

// APIResponse represents a generic API response for OpenAPI documentation
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Status string    `json:"status" example:"success"`
	Data   T         `json:"data,omitempty"`
	Meta   *dto.Meta `json:"meta,omitempty"`
}

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Standard error response
type ErrorResponse struct {
	Status    string                 `json:"status" example:"error"`
	Code      string                 `json:"code" example:"ERR_NOT_FOUND"`
	Message   string                 `json:"message" example:"Station not found"`
	RequestID string                 `json:"request_id,omitempty"`
	Details   []dto.ValidationDetail `json:"details,omitempty"`
}

// CountData represents count data in response
// @Description Count data
type CountData struct {
	Count int64 `json:"count"`
}

// IDList represents a list of IDs in response
// @Description ID list
type IDList struct {
	IDs []uuid.UUID `json:"ids"`
}
