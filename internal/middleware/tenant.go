package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog-service/internal/models"
)

// TenantMiddleware extracts and validates tenant information.
// Requests without a tenant are rejected; there is no default storefront.
func TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Set upstream when the gateway resolved the tenant from the storefront host
		tenantID := c.GetString("tenant_id")

		if tenantID == "" {
			tenantID = c.GetHeader("X-Vendor-ID")
		}
		if tenantID == "" {
			tenantID = c.GetHeader("X-Tenant-ID")
		}

		if tenantID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "TENANT_REQUIRED",
					Message: "Vendor/Tenant ID is required. Include X-Vendor-ID or X-Tenant-ID header.",
				},
				RequestID: GetRequestID(c),
			})
			return
		}

		c.Set("tenant_id", tenantID)
		c.Next()
	}
}

// GetTenantID retrieves the tenant ID from gin context
func GetTenantID(c *gin.Context) string {
	return c.GetString("tenant_id")
}
