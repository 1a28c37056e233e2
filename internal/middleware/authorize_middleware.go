package middleware

import (
	"net/http"

	"github.com/WEBX2024/HRMS/internal/identity"
	"github.com/WEBX2024/HRMS/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// Authorize gates a route on one permission code. The check is a pure
// lookup on the caller's pre-resolved snapshot; no I/O happens here.
func Authorize(permissionCode string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := identity.CallerFrom(c.Request.Context())
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing caller context", nil)
			c.Abort()
			return
		}

		if !caller.Authorize(permissionCode) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN",
				"You do not have permission to perform this action",
				gin.H{"required": permissionCode},
			)
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthorizeInDepartment gates a route whose target department comes from a
// path parameter. Department-scoped role grants only count when they match.
func AuthorizeInDepartment(permissionCode, departmentParam string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := identity.CallerFrom(c.Request.Context())
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing caller context", nil)
			c.Abort()
			return
		}

		departmentID := c.Param(departmentParam)
		if !caller.AuthorizeInDepartment(permissionCode, departmentID) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN",
				"You do not have permission to perform this action",
				gin.H{"required": permissionCode},
			)
			c.Abort()
			return
		}
		c.Next()
	}
}
