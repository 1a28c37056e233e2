package attendance

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
	attendances := r.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware(), middleware.ResolveCaller(resolver))
	{
		attendances.POST("/check-in", middleware.Authorize("attendance.record"), handler.CheckIn)
		attendances.POST("/check-out", middleware.Authorize("attendance.record"), handler.CheckOut)
		attendances.GET("/me", middleware.Authorize("attendance.view_self"), handler.ListMine)
		attendances.GET("", middleware.Authorize("attendance.view_all"), handler.ListForDate)

		attendances.GET("/policies", middleware.Authorize("attendance.manage_policy"), handler.ListPolicies)
		attendances.POST("/policies", middleware.Authorize("attendance.manage_policy"), handler.CreatePolicy)
		attendances.PUT("/policies/:id", middleware.Authorize("attendance.manage_policy"), handler.UpdatePolicy)

		attendances.GET("/holidays", middleware.Authorize("attendance.view_self"), handler.ListHolidays)
		attendances.POST("/holidays", middleware.Authorize("attendance.manage_policy"), handler.CreateHoliday)
	}
}
