package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fuelsync/backend/internal/application/access"
	"github.com/fuelsync/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStationAccess(t *testing.T) {
	assigned := uuid.New()
	other := uuid.New()

	newRouter := func(actor access.Actor) *gin.Engine {
		router := gin.New()
		router.Use(func(c *gin.Context) {
			c.Set(ActorKey, actor)
			c.Next()
		})
		router.GET("/stations/:id", StationAccess("id"), func(c *gin.Context) { c.Status(http.StatusOK) })
		router.GET("/stations/:id/pumps", StationAccess("id"), func(c *gin.Context) { c.Status(http.StatusOK) })
		router.GET("/sales", StationAccess(), func(c *gin.Context) { c.Status(http.StatusOK) })
		return router
	}
	get := func(router *gin.Engine, path string) int {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w.Code
	}

	manager := newRouter(access.Actor{TenantID: uuid.New(), Role: identity.RoleManager, StationIDs: []uuid.UUID{assigned}})
	assert.Equal(t, http.StatusOK, get(manager, "/stations/"+assigned.String()))
	assert.Equal(t, http.StatusOK, get(manager, "/stations/"+assigned.String()+"/pumps"))
	assert.Equal(t, http.StatusForbidden, get(manager, "/stations/"+other.String()))
	assert.Equal(t, http.StatusOK, get(manager, "/sales?stationId="+assigned.String()))
	assert.Equal(t, http.StatusForbidden, get(manager, "/sales?stationId="+other.String()))
	assert.Equal(t, http.StatusOK, get(manager, "/sales"))
	assert.Equal(t, http.StatusBadRequest, get(manager, "/stations/not-a-uuid"))

	owner := newRouter(access.Actor{TenantID: uuid.New(), Role: identity.RoleOwner})
	assert.Equal(t, http.StatusOK, get(owner, "/stations/"+other.String()))
	assert.Equal(t, http.StatusOK, get(owner, "/stations/not-a-uuid"))
}
