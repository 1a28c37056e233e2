package rbac

import (
	"github.com/WEBX2024/HRMS/internal/identity"
	"github.com/WEBX2024/HRMS/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	resolver identity.Service,
) {
	roles := r.Group("/roles")
	roles.Use(middleware.AuthMiddleware(), middleware.ResolveCaller(resolver))
	{
		roles.GET("", middleware.Authorize("role.view"), handler.ListRoles)
		roles.POST("", middleware.Authorize("role.create"), handler.CreateRole)
		roles.PUT("/:id", middleware.Authorize("role.update"), handler.UpdateRole)
		roles.DELETE("/:id", middleware.Authorize("role.delete"), handler.DeleteRole)
		roles.POST("/assignments", middleware.Authorize("role.assign"), handler.AssignRole)
		roles.DELETE("/assignments/:id", middleware.Authorize("role.assign"), handler.RevokeAssignment)
	}

	permissions := r.Group("/permissions")
	permissions.Use(middleware.AuthMiddleware(), middleware.ResolveCaller(resolver))
	{
		permissions.GET("", middleware.Authorize("permission.view"), handler.ListPermissions)
		permissions.POST("/:code/deactivate", middleware.Authorize("permission.manage"), handler.DeactivatePermission)
		permissions.DELETE("/:code", middleware.Authorize("permission.manage"), handler.DeletePermission)
	}
}
