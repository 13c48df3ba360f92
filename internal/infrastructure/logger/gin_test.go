package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedRouter(t *testing.T) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(GinRequestIDKey, "req-7")
		c.Next()
	})
	r.Use(Recovery(base), GinMiddleware(base))
	return r, recorded
}

func TestGinMiddleware_LevelsByStatus(t *testing.T) {
	r, recorded := newObservedRouter(t)
	r.GET("/stations/:id", func(c *gin.Context) {
		c.Set(GinTenantIDKey, "tenant-9")
		Ctx(c).Debug("handler log")
		FromContext(c.Request.Context()).Debug("service log")
		c.Status(http.StatusOK)
	})
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/broken", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	for _, path := range []string{"/stations/abc?limit=5", "/missing", "/broken"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	requests := recorded.FilterMessage("HTTP request").All()
	require.Len(t, requests, 3)
	assert.Equal(t, zapcore.InfoLevel, requests[0].Level)
	assert.Equal(t, zapcore.WarnLevel, requests[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, requests[2].Level)

	first := requests[0].ContextMap()
	assert.Equal(t, "/stations/:id", first["route"])
	assert.Equal(t, "limit=5", first["query"])
	assert.Equal(t, "tenant-9", first["tenant_id"])
	assert.Equal(t, "req-7", first["request_id"])

	service := recorded.FilterMessage("service log").All()
	require.Len(t, service, 1)
	assert.Equal(t, "req-7", service[0].ContextMap()["request_id"])
	assert.Equal(t, 1, recorded.FilterMessage("handler log").Len())
}

func TestRecovery(t *testing.T) {
	r, recorded := newObservedRouter(t)
	r.GET("/panic", func(c *gin.Context) { panic("nozzle exploded") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_INTERNAL")
	assert.NotContains(t, w.Body.String(), "nozzle exploded")

	panics := recorded.FilterMessage("Panic recovered").All()
	require.Len(t, panics, 1)
	assert.Equal(t, "req-7", panics[0].ContextMap()["request_id"])
}

func TestCtx_WithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.NotPanics(t, func() { Ctx(c).Info("dropped") })
}
