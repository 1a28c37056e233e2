package middleware

import (
	"net/http"

	"github.com/WEBX2024/HRMS/internal/identity"
	"github.com/WEBX2024/HRMS/internal/shared/apperror"
	"github.com/WEBX2024/HRMS/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// ResolveCaller turns the authenticated claims into a CallerContext and
// threads it through the request context. Every downstream layer reads the
// caller explicitly from there; there is no ambient tenant state.
func ResolveCaller(resolver identity.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if resolver.IsExemptPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		claims, ok := ClaimsFrom(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication is required", nil)
			c.Abort()
			return
		}

		caller, err := resolver.Resolve(c.Request.Context(), claims)
		if err != nil {
			httpErr := apperror.ToHTTP(err)
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(identity.WithCaller(c.Request.Context(), caller))

		// Convenience keys for handlers that only need the ids
		c.Set("tenant_id", caller.Tenant())
		if caller.EmployeeID != nil {
			c.Set("employee_id", caller.EmployeeID.String())
		}

		c.Next()
	}
}
