package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"shorestay/internal/infra/config"
	"shorestay/internal/infra/obs"
)

type ListingHTTP interface {
	Catalog(c *gin.Context)
	Calendar(c *gin.Context)
}

type QuoteHTTP interface {
	Quote(c *gin.Context)
}

type CouponHTTP interface {
	Validate(c *gin.Context)
}

type ReservationHTTP interface {
	Create(c *gin.Context)
}

type ContentHTTP interface {
	BySlug(c *gin.Context)
}

type SessionHTTP interface {
	Create(c *gin.Context)
	Update(c *gin.Context)
	Get(c *gin.Context)
}

type Handlers struct {
	Listing     ListingHTTP
	Quote       QuoteHTTP
	Coupon      CouponHTTP
	Reservation ReservationHTTP
	Content     ContentHTTP
	Session     SessionHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Listing != nil {
		api.GET("/listings", h.Listing.Catalog)
		api.GET("/listings/:id/calendar", h.Listing.Calendar)
	}
	if h.Quote != nil {
		api.POST("/listings/:id/quote", h.Quote.Quote)
	}
	if h.Coupon != nil {
		api.POST("/coupons/validate", h.Coupon.Validate)
	}
	if h.Reservation != nil {
		api.POST("/reservations", h.Reservation.Create)
	}
	if h.Content != nil {
		api.GET("/content/:slug", h.Content.BySlug)
	}
	if h.Session != nil {
		api.POST("/booking-sessions", h.Session.Create)
		api.PATCH("/booking-sessions/:id", h.Session.Update)
		api.GET("/booking-sessions/:id", h.Session.Get)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
