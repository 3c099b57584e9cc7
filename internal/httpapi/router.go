// Package httpapi exposes the portal over HTTP with gin.
package httpapi

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/mdrakibmia99/hospital-management-system-server/internal/availability"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/booking"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/catalog"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/directory"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/metrics"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/payments"
)

// IntentCreator creates a card payment intent for a price in major units.
type IntentCreator interface {
	CreateIntent(ctx context.Context, price float64) (payments.Intent, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Config struct {
	Catalog        *catalog.Catalog
	Availability   *availability.Calculator
	Bookings       *booking.Service
	Directory      *directory.Service
	Payments       IntentCreator
	Tokens         TokenVerifier
	Health         Pinger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	Logger         zerolog.Logger
	AllowedOrigins []string
}

type API struct {
	catalog      *catalog.Catalog
	availability *availability.Calculator
	bookings     *booking.Service
	directory    *directory.Service
	payments     IntentCreator
	tokens       TokenVerifier
	health       Pinger
	metrics      *metrics.Metrics
	gatherer     prometheus.Gatherer
	logger       zerolog.Logger
	origins      []string
}

func New(cfg Config) *API {
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &API{
		catalog:      cfg.Catalog,
		availability: cfg.Availability,
		bookings:     cfg.Bookings,
		directory:    cfg.Directory,
		payments:     cfg.Payments,
		tokens:       cfg.Tokens,
		health:       cfg.Health,
		metrics:      cfg.Metrics,
		gatherer:     gatherer,
		logger:       cfg.Logger,
		origins:      cfg.AllowedOrigins,
	}
}

// Router builds the gin engine with every portal route registered.
func (a *API) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(a.logger), observeRequests(a.metrics), a.corsMiddleware())

	a.setupRoutes(router)
	return router
}

func (a *API) corsMiddleware() gin.HandlerFunc {
	if len(a.origins) == 0 {
		return cors.Default()
	}
	return cors.New(cors.Config{
		AllowOrigins:  a.origins,
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	})
}

func (a *API) setupRoutes(router *gin.Engine) {
	router.GET("/", a.handleRoot)
	router.GET("/healthz", a.handleHealthz)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{})))

	router.GET("/services", a.handleGetServices)
	router.GET("/available", a.handleGetAvailable)

	router.POST("/booking", a.handlePostBooking)
	router.GET("/bookings", a.verifyJWT(), a.handleGetBookings)
	router.GET("/booking/:id", a.verifyJWT(), a.handleGetBookingByID)
	router.PATCH("/booking/:id", a.verifyJWT(), a.handlePatchBooking)
	router.POST("/create-payment-intent", a.verifyJWT(), a.handleCreatePaymentIntent)

	router.GET("/user", a.verifyJWT(), a.handleGetUsers)
	router.PUT("/user/:email", a.handlePutUser)
	router.DELETE("/user/:email", a.handleDeleteUser)
	router.PUT("/user/admin/:email", a.verifyJWT(), a.verifyAdmin(), a.handlePutUserAdmin)
	router.GET("/admin/:email", a.handleGetAdmin)
	router.GET("/doctor/:email", a.handleGetDoctorRole)

	router.POST("/doctor", a.verifyJWT(), a.verifyAdmin(), a.handlePostDoctor)
	router.GET("/doctor", a.verifyJWT(), a.verifyAdmin(), a.handleGetDoctors)
	router.DELETE("/doctor/:email", a.verifyJWT(), a.verifyAdmin(), a.handleDeleteDoctor)

	router.POST("/oncologists", a.handlePostOncologist)
	router.GET("/oncologists", a.handleGetOncologists)

	router.GET("/reviews", a.handleGetReviews)
	router.PUT("/reviews/:email", a.handlePutReview)

	router.POST("/contact", a.handleContactPost)
}
