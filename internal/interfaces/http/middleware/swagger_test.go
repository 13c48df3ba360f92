package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSwaggerProtection(t *testing.T) {
	serve := func(cfg SwaggerConfig, auth gin.HandlerFunc, remoteAddr string) int {
		router := gin.New()
		router.GET("/swagger/*any", SwaggerProtection(cfg, auth), func(c *gin.Context) { c.Status(http.StatusOK) })
		req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}
	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
	allow := func(c *gin.Context) { c.Next() }

	assert.Equal(t, http.StatusNotFound, serve(SwaggerConfig{}, nil, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, serve(SwaggerConfig{Enabled: true}, nil, "10.0.0.1:1234"))

	ipCfg := SwaggerConfig{Enabled: true, AllowedIPs: []string{"192.168.1.0/24", "10.0.0.7"}}
	assert.Equal(t, http.StatusOK, serve(ipCfg, nil, "192.168.1.20:1234"))
	assert.Equal(t, http.StatusOK, serve(ipCfg, nil, "10.0.0.7:1234"))
	assert.Equal(t, http.StatusForbidden, serve(ipCfg, nil, "10.0.0.8:1234"))

	authCfg := SwaggerConfig{Enabled: true, RequireAuth: true}
	assert.Equal(t, http.StatusUnauthorized, serve(authCfg, deny, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, serve(authCfg, allow, "10.0.0.1:1234"))
}
