package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stockpilot/inventory-service/internal/auth"
)

// TenantContext extracts the tenant and acting user set by the upstream auth
// gateway. Token verification happens before requests reach this service, so
// the headers are trusted verbatim; a request without a tenant is rejected.
func TenantContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetHeader("X-Tenant-ID")
		if tenantID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing tenant context"})
			return
		}
		userID := c.GetHeader("X-User-ID")

		ctx := auth.WithTenant(c.Request.Context(), tenantID, userID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
