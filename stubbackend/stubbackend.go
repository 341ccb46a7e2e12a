// Package stubbackend is an in-process stand-in for the remote reservation
// API, used by the integration tests and the LOCAL_BACKEND development mode.
// It speaks the same contract the production upstream does: the
// success/data/error envelope, bearer-token writes, and the 409 verdict when a
// booking's (table_id, booking_date, booking_time) triple is already occupied
// by a non-completed booking.
package stubbackend

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sagebistro/reservation-app/models"
	"github.com/sagebistro/reservation-app/utils"
)

type AdminUser struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"type:varchar(100);uniqueIndex;not null"`
	PasswordHash string `gorm:"type:varchar(100);not null"`
}

type CarouselImage struct {
	ID  uint   `gorm:"primaryKey"`
	URL string `gorm:"type:varchar(255);not null"`
}

type Server struct {
	DB        *gorm.DB
	JWTSecret []byte

	// ProtectBookingsRead answers 401 to anonymous GET /api/bookings, the
	// deployment variant where only the dashboard may read bookings.
	ProtectBookingsRead bool
}

// New opens an in-memory sqlite store and migrates the schema.
func New(jwtSecret string) (*Server, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	// Every new :memory: connection is a separate empty database; pin the
	// pool to one connection, which also serializes transactions.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&models.Table{},
		&models.Booking{},
		&models.MenuItem{},
		&AdminUser{},
		&CarouselImage{},
	); err != nil {
		return nil, err
	}
	return &Server{DB: db, JWTSecret: []byte(jwtSecret)}, nil
}

// SeedAdmin stores a bcrypt-hashed login.
func (s *Server) SeedAdmin(email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.DB.Create(&AdminUser{Email: email, PasswordHash: string(hash)}).Error
}

// SeedTable inserts a table and returns it.
func (s *Server) SeedTable(tableNumber string, capacity int) (models.Table, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	table := models.Table{
		ID:          uuid.NewString(),
		TableNumber: tableNumber,
		Capacity:    capacity,
		Status:      models.TableStatusAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.DB.Create(&table).Error; err != nil {
		return models.Table{}, err
	}
	return table, nil
}

func (s *Server) mintToken(email string) (string, error) {
	claims := jwt.MapClaims{
		"email": email,
		"iss":   "reservation-stub",
		"iat":   jwt.NewNumericDate(time.Now()),
		"exp":   jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.JWTSecret)
}

func (s *Server) parseToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return s.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return errors.New("invalid or expired token")
	}
	return nil
}

// Router builds the gin surface of the stub.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/api/admin/login", s.login)

	r.GET("/api/tables", s.listTables)
	r.GET("/api/bookings", s.listBookings)
	r.GET("/api/menu", s.listMenu)
	r.GET("/api/carousel-images", s.listCarouselImages)

	r.POST("/api/bookings", s.createBooking)

	authed := r.Group("/")
	authed.Use(s.requireToken)
	{
		authed.POST("/api/tables", s.createTable)
		authed.PUT("/api/tables/:id", s.updateTable)
		authed.DELETE("/api/tables/:id", s.deleteTable)

		authed.PUT("/api/bookings/:id", s.updateBooking)
		authed.DELETE("/api/bookings/:id", s.deleteBooking)
		authed.PUT("/api/bookings/table/:table_id", s.completeBookingsByTable)
		authed.DELETE("/api/bookings/table/:table_id", s.deleteBookingsByTable)

		authed.POST("/api/menu", s.createMenuItem)
		authed.PUT("/api/menu/:id", s.updateMenuItem)
		authed.DELETE("/api/menu/:id", s.deleteMenuItem)

		authed.POST("/api/carousel-images", s.replaceCarouselImages)
		authed.DELETE("/api/carousel-images/:index", s.deleteCarouselImage)
		authed.PUT("/api/carousel-images/:index", s.updateCarouselImage)

		authed.POST("/api/upload", s.uploadImage)
		authed.POST("/api/upload/carousel", s.uploadImage)
	}

	return r
}

func (s *Server) requireToken(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) < len("Bearer ") {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("Authorization header missing"))
		c.Abort()
		return
	}
	if err := s.parseToken(authHeader[len("Bearer "):]); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		c.Abort()
		return
	}
	c.Next()
}

func (s *Server) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var admin AdminUser
	if err := s.DB.Where("email = ?", req.Email).First(&admin).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	token, err := s.mintToken(admin.Email)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{"token": token})
}
