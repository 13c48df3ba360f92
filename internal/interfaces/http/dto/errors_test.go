package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodePlanLimitExceeded, http.StatusForbidden},
		{ErrCodeDayFinalized, http.StatusConflict},
		{ErrCodeCreditLimitExceeded, http.StatusUnprocessableEntity},
		{ErrCodeReadingRegression, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{shared.CodeNotFound, ErrCodeNotFound},
		{shared.CodeInvalidInput, ErrCodeInvalidInput},
		{shared.CodeForbidden, ErrCodeForbidden},
		{shared.CodePlanLimitExceeded, ErrCodePlanLimitExceeded},
		{shared.CodeDayFinalized, ErrCodeDayFinalized},
		{shared.CodeCreditLimit, ErrCodeCreditLimitExceeded},
		{shared.CodeReadingRegression, ErrCodeReadingRegression},
		{"VALIDATION_ERROR", ErrCodeValidation},
		// New codes should pass through unchanged
		{ErrCodeNotFound, ErrCodeNotFound},
		// Unknown codes should pass through unchanged
		{"CUSTOM_ERROR", "CUSTOM_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestDomainCodesHaveStatus(t *testing.T) {
	for domainCode, apiCode := range LegacyErrorCodeMapping {
		t.Run(domainCode, func(t *testing.T) {
			_, ok := ErrorCodeHTTPStatus[apiCode]
			assert.True(t, ok, "Error code %s should be in ErrorCodeHTTPStatus map", apiCode)
		})
	}
}

func TestErrorResponseJSON(t *testing.T) {
	resp := NewErrorResponseWithRequestID(shared.CodePlanLimitExceeded, "Plan limit exceeded", "req-1")

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, ErrCodePlanLimitExceeded, body["code"])
	assert.Equal(t, "Plan limit exceeded", body["message"])
	assert.Equal(t, "req-1", body["request_id"])
	assert.NotContains(t, body, "data")
}

func TestSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a"}, 51, 2, 25)

	assert.Equal(t, StatusSuccess, resp.Status)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	assert.Empty(t, resp.Code)

	zero := NewSuccessResponseWithMeta(nil, 10, 1, 0)
	assert.Equal(t, 0, zero.Meta.TotalPages)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "email", Message: "Invalid email format"},
		{Field: "reading", Message: "This field is required"},
	}

	resp := NewValidationErrorResponse("Request validation failed", "req-789", details)

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, ErrCodeValidation, resp.Code)
	assert.Equal(t, "req-789", resp.RequestID)
	require.Len(t, resp.Details, 2)
	assert.Equal(t, "email", resp.Details[0].Field)
}

func TestListRequestNormalize(t *testing.T) {
	req := ListRequest{}
	req.Normalize(50)
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, 50, req.PageSize)

	req = ListRequest{Page: 3, PageSize: 10}
	req.Normalize(50)
	assert.Equal(t, 3, req.Page)
	assert.Equal(t, 10, req.PageSize)
}
