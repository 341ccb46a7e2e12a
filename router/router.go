package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sagebistro/reservation-app/client"
	"github.com/sagebistro/reservation-app/controllers"
	"github.com/sagebistro/reservation-app/middlewares"
	"github.com/sagebistro/reservation-app/session"
	"github.com/sagebistro/reservation-app/store"
)

// Deps is everything the HTTP surface needs, built once at startup and passed
// in explicitly.
type Deps struct {
	API      *client.Client
	Tables   *store.TableStore
	Bookings *store.BookingStore
	Sessions *session.Manager

	// RateLimit is requests per second per IP across the whole surface;
	// zero disables the limiter (tests).
	RateLimit int
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	if deps.RateLimit > 0 {
		r.Use(middlewares.NewRateLimiter(deps.RateLimit, 1).RateLimit())
	}

	bookingCtrl := controllers.NewBookingController(deps.Tables, deps.Bookings)
	tableCtrl := controllers.NewTableController(deps.Tables, deps.Bookings)
	menuCtrl := controllers.NewMenuController(deps.API)
	carouselCtrl := controllers.NewCarouselController(deps.API)
	adminCtrl := controllers.NewAdminController(deps.API, deps.Sessions)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/api/tables", tableCtrl.GetAllTables)
	r.GET("/api/availability", bookingCtrl.GetAvailability)
	r.GET("/api/menu", menuCtrl.GetMenu)
	r.GET("/api/carousel-images", carouselCtrl.GetImages)

	// Booking creation carries its own tighter limiter.
	r.POST("/api/bookings", middlewares.NewBookingRateLimiter(), bookingCtrl.CreateBooking)

	r.POST("/api/admin/login", adminCtrl.Login)

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := r.Group("/api/admin")
	admin.Use(middlewares.AdminAuth(deps.Sessions))
	{
		admin.GET("/session", adminCtrl.SessionInfo)
		admin.POST("/logout", adminCtrl.Logout)

		admin.GET("/bookings", bookingCtrl.ListBookings)
		admin.PUT("/bookings/:booking_id/complete", bookingCtrl.CompleteBooking)
		admin.DELETE("/bookings/:booking_id", bookingCtrl.DeleteBooking)
		admin.PUT("/tables/:table_id/release", bookingCtrl.ReleaseTable)

		admin.POST("/tables", tableCtrl.CreateTable)
		admin.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

		admin.POST("/menu", menuCtrl.CreateMenuItem)
		admin.PUT("/menu/:item_id", menuCtrl.UpdateMenuItem)
		admin.DELETE("/menu/:item_id", menuCtrl.DeleteMenuItem)
		admin.POST("/menu/upload", menuCtrl.UploadImage)

		admin.POST("/carousel-images", carouselCtrl.ReplaceImages)
		admin.DELETE("/carousel-images/:index", carouselCtrl.DeleteImage)
		admin.PUT("/carousel-images/:index", carouselCtrl.UpdateImage)
		admin.POST("/carousel-images/upload", carouselCtrl.UploadImage)
	}

	return r
}
