package leave

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
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware(), middleware.ResolveCaller(resolver))
	{
		leaves.GET("/types", middleware.Authorize("leave.view"), handler.ListTypes)
		leaves.POST("/types", middleware.Authorize("leave.manage_types"), handler.CreateType)
		leaves.PUT("/types/:id", middleware.Authorize("leave.manage_types"), handler.UpdateType)

		leaves.GET("/balances/me", middleware.Authorize("leave.view"), handler.ListMyBalances)
		leaves.GET("/balances/:employeeId", middleware.Authorize("leave.view_all"), handler.ListEmployeeBalances)

		leaves.POST("/requests", middleware.Authorize("leave.request"), handler.CreateRequest)
		leaves.GET("/requests", middleware.Authorize("leave.view"), handler.ListRequests)
		leaves.GET("/requests/:id", middleware.Authorize("leave.view"), handler.GetRequest)
		leaves.POST("/requests/:id/approve", middleware.Authorize("leave.approve"), handler.Approve)
		leaves.POST("/requests/:id/reject", middleware.Authorize("leave.approve"), handler.Reject)
		leaves.POST("/requests/:id/cancel", middleware.Authorize("leave.request"), handler.Cancel)
	}
}
