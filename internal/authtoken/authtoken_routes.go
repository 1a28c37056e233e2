package authtoken

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
	invitations := r.Group("/invitations")
	{
		// Public: the accept page checks the token before collecting a
		// password. Acceptance itself is registered by the auth module.
		invitations.GET("/validate", handler.ValidateInvitation)

		protected := invitations.Group("")
		protected.Use(middleware.AuthMiddleware(), middleware.ResolveCaller(resolver))
		{
			protected.GET("", middleware.Authorize("invitation.view"), handler.ListInvitations)
			protected.POST("/:id/revoke", middleware.Authorize("invitation.manage"), handler.RevokeInvitation)
		}
	}
}
