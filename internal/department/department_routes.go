package department

import (
	"github.com/gin-gonic/gin"

	"github.com/WEBX2024/HRMS/internal/identity"
	"github.com/WEBX2024/HRMS/internal/middleware"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	resolver identity.Service,
) {
	departments := r.Group("/departments")
	departments.Use(middleware.AuthMiddleware(), middleware.ResolveCaller(resolver))
	{
		departments.GET("", middleware.Authorize("department.view"), handler.GetAll)
		departments.GET("/:id", middleware.Authorize("department.view"), handler.GetByID)
		departments.POST("", middleware.Authorize("department.manage"), handler.Create)
		departments.PUT("/:id", middleware.Authorize("department.manage"), handler.Update)
		departments.DELETE("/:id", middleware.Authorize("department.manage"), handler.Delete)
	}
}
