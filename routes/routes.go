package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"campus-booking-backend/controllers"
	"campus-booking-backend/middleware"
	"campus-booking-backend/models"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func SetupRouter(
	ac *controllers.AuthController,
	rc *controllers.RoomController,
	bc *controllers.BookingController,
	adc *controllers.AdminController,
	authRequired gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", ac.Register)
			auth.POST("/login", ac.Login)
			auth.GET("/me", authRequired, ac.Me)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", rc.GetRooms)
			rooms.GET("/:id", rc.GetRoomByID)
			rooms.POST("", authRequired, middleware.RequireRole(models.RoleStaff, models.RoleAdmin), rc.CreateRoom)
		}

		bookings := api.Group("/bookings")
		bookings.Use(authRequired)
		{
			bookings.POST("", bc.CreateBooking)
			bookings.GET("", bc.GetBookings)
			bookings.GET("/:id", bc.GetBookingByID)
			bookings.POST("/:id/cancel", bc.CancelBooking)

			staffOnly := middleware.RequireRole(models.RoleStaff, models.RoleAdmin)
			bookings.POST("/:id/approve", staffOnly, bc.ApproveBooking)
			bookings.POST("/:id/reject", staffOnly, bc.RejectBooking)
		}

		admin := api.Group("/admin")
		admin.Use(authRequired, middleware.RequireRole(models.RoleAdmin))
		{
			admin.PATCH("/users/:id/role", adc.UpdateUserRole)
			admin.GET("/metrics", adc.GetMetrics)
		}
	}

	return r
}
