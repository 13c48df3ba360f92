// Package middleware provides the HTTP middleware of the FuelSync API.
package middleware

import (
	"net/http"

	"github.com/fuelsync/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StationQueryKey is the query parameter naming a station on list routes
const StationQueryKey = "stationId"

// StationAccess rejects requests addressing a station the caller is not
// assigned to. params names the path parameters holding a station ID; the
// stationId query parameter is always checked. Runs after TenantMiddleware.
func StationAccess(params ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if !actor.Restricted() {
			c.Next()
			return
		}

		values := make([]string, 0, len(params)+1)
		for _, p := range params {
			if v := c.Param(p); v != "" {
				values = append(values, v)
			}
		}
		if v := c.Query(StationQueryKey); v != "" {
			values = append(values, v)
		}

		for _, v := range values {
			id, err := uuid.Parse(v)
			if err != nil {
				abortWithError(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid station ID")
				return
			}
			if !actor.CanAccess(id) {
				abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "You do not have access to this station")
				return
			}
		}
		c.Next()
	}
}
