package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/givebridge-donation-platform/internal/api/handler"
	"github.com/givebridge-donation-platform/internal/api/middleware"
	"github.com/givebridge-donation-platform/internal/domain/user"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// routerHandlers groups the HTTP handlers wired into the router
type routerHandlers struct {
	auth     *handler.AuthHandler
	user     *handler.UserHandler
	charity  *handler.CharityHandler
	donation *handler.DonationHandler
	webhook  *handler.WebhookHandler
	admin    *handler.AdminHandler
}

// setupRouter configures API routes and middleware for the application
func setupRouter(logger *slog.Logger, r *gin.Engine, jwtSecret string, h routerHandlers) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	authenticated := middleware.Authenticate(jwtSecret)

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Registration and login
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.auth.Register)
			auth.POST("/login", h.auth.Login)
		}

		// Own-profile operations
		users := v1.Group("/users", authenticated)
		{
			users.GET("/me", h.user.GetMe)
			users.PUT("/me", h.user.UpdateMe)
		}

		// Public charity browsing
		charities := v1.Group("/charities")
		{
			charities.GET("", h.charity.List)
			charities.GET("/:id", h.charity.GetByID)
			charities.GET("/:id/projects", h.charity.ListProjects)
			charities.GET("/:id/projects/:projectId", h.charity.GetProject)
		}

		// Charity-owner operations
		ownCharity := v1.Group("/charities/me", authenticated, middleware.RequireRoles(user.RoleCharity))
		{
			ownCharity.GET("", h.charity.GetOwn)
			ownCharity.PUT("", h.charity.Update)
			ownCharity.PUT("/goal", h.charity.SetGoal)
			ownCharity.POST("/projects", h.charity.CreateProject)
		}
		v1.POST("/charities", authenticated, middleware.RequireRoles(user.RoleCharity), h.charity.Create)

		// Donation operations. The webhook endpoint is called by the payment
		// gateway and authenticates via HMAC signature instead of a token.
		donations := v1.Group("/donations")
		{
			donations.POST("/webhook", h.webhook.Receive)
			donations.POST("", authenticated, middleware.RequireRoles(user.RoleDonor), h.donation.Initiate)
			donations.GET("", authenticated, middleware.RequireRoles(user.RoleDonor), h.donation.History)
			donations.GET("/:id", authenticated, middleware.RequireRoles(user.RoleDonor), h.donation.GetReceipt)
		}

		// Platform administration
		admin := v1.Group("/admin", authenticated, middleware.RequireRoles(user.RoleAdmin))
		{
			admin.GET("/users", h.admin.ListUsers)
			admin.DELETE("/users/:id", h.admin.DeleteUser)
			admin.PATCH("/charities/:id/status", h.admin.ModerateCharity)
			admin.GET("/gateway-events", h.admin.ListGatewayEvents)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
