package middleware

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/fuelsync/backend/internal/infrastructure/auth"
	"github.com/fuelsync/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuthenticator struct {
	tokens map[string]*auth.Claims
	errs   map[string]error
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (*auth.Claims, error) {
	if err, ok := f.errs[token]; ok {
		return nil, err
	}
	if claims, ok := f.tokens[token]; ok {
		return claims, nil
	}
	return nil, auth.ErrInvalidToken
}

type fakeTenants map[uuid.UUID]*identity.Tenant

func (f fakeTenants) FindByID(_ context.Context, id uuid.UUID) (*identity.Tenant, error) {
	if t, ok := f[id]; ok {
		return t, nil
	}
	return nil, shared.ErrNotFound
}

type fakeAssignments map[uuid.UUID][]uuid.UUID

func (f fakeAssignments) ListStationIDs(_ context.Context, _, userID uuid.UUID) ([]uuid.UUID, error) {
	return f[userID], nil
}

func claimsFor(tenantID uuid.UUID, role identity.Role) *auth.Claims {
	c := &auth.Claims{UserID: uuid.NewString(), Email: "user@example.com", Role: string(role), TokenType: auth.TokenTypeAccess}
	if tenantID != uuid.Nil {
		c.TenantID = tenantID.String()
	}
	return c
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, dto.StatusError, resp.Status)
	return resp
}
