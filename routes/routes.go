// File: routes/routes.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"playpark/handlers"
	"playpark/middleware"
	"playpark/models"
)

// HandlerBundle collects the handler sets the router wires up.
type HandlerBundle struct {
	Sessions *handlers.SessionHandler
	Bookings *handlers.BookingHandler
	Verify   *handlers.VerifyHandler
	Admin    *handlers.AdminHandler
}

// RegisterSessionRoutes registers the public availability query.
func RegisterSessionRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/sessions")
	{
		api.GET("/availability", hb.Sessions.Availability)
	}
}

// RegisterBookingRoutes registers the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.ActorMiddleware())
		api.POST("", hb.Bookings.CreateBooking)
		api.GET("/:id", hb.Bookings.GetBooking)
		api.POST("/:id/cancel", hb.Bookings.CancelBooking)
	}
}

// RegisterCheckinRoutes registers the QR verification endpoint for venue staff.
func RegisterCheckinRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/checkin")
	{
		api.Use(middleware.ActorMiddleware())
		api.Use(middleware.RequireRole(models.RoleBranchManager, models.RoleAdmin))
		api.POST("/verify", hb.Verify.Verify)
	}
}

// RegisterAdminRoutes registers session administration endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.Use(middleware.ActorMiddleware())
		api.Use(middleware.RequireRole(models.RoleBranchManager, models.RoleAdmin))
		api.POST("/sessions", hb.Admin.CreateSession)
		api.PATCH("/sessions/:id", hb.Admin.UpdateSession)
		api.DELETE("/sessions/:id", hb.Admin.DeleteSession)
		api.POST("/sessions/generate", hb.Admin.GenerateSessions)

		// Replace and reconcile are admin-only.
		admin := api.Group("")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		admin.POST("/sessions/replace", hb.Admin.ReplaceSessions)
		admin.POST("/reconcile", hb.Admin.Reconcile)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterSessionRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterCheckinRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
