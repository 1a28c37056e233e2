package auth

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/WEBX2024/HRMS/internal/identity"
	"github.com/WEBX2024/HRMS/internal/middleware"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	resolver identity.Service,
) {
	// Brute-force guard on the credential endpoints only.
	loginLimit := middleware.RateLimitByIP(rate.Every(time.Minute/10), 5)

	auth := r.Group("/auth")
	{
		auth.POST("/login", loginLimit, handler.Login)
		auth.POST("/refresh", handler.Refresh)
		auth.POST("/password-reset", loginLimit, handler.ForgotPassword)
		auth.POST("/password-reset/confirm", handler.ConfirmPasswordReset)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(), middleware.ResolveCaller(resolver))
		{
			protected.GET("/me", handler.GetMe)
			protected.POST("/invite", middleware.Authorize("invitation.manage"), handler.InviteUser)
		}
	}

	// Public by design: the invitee has no credentials yet.
	r.POST("/invitations/accept", handler.AcceptInvitation)
}
