package audit

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
	audits := r.Group("/audits")
	audits.Use(middleware.AuthMiddleware(), middleware.ResolveCaller(resolver))
	{
		audits.GET("/logins", middleware.Authorize("audit.view"), handler.ListLoginAudits)
	}
}
