package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ketensuites/keten-backend/internal/auth"
	"github.com/ketensuites/keten-backend/internal/availability"
	availabilityhttp "github.com/ketensuites/keten-backend/internal/availability/http"
	"github.com/ketensuites/keten-backend/internal/blog"
	bloghttp "github.com/ketensuites/keten-backend/internal/blog/http"
	"github.com/ketensuites/keten-backend/internal/booking"
	bookinghttp "github.com/ketensuites/keten-backend/internal/booking/http"
	"github.com/ketensuites/keten-backend/internal/media"
	mediahttp "github.com/ketensuites/keten-backend/internal/media/http"
	"github.com/ketensuites/keten-backend/internal/pkg/logger"
	"github.com/ketensuites/keten-backend/internal/property"
	propertyhttp "github.com/ketensuites/keten-backend/internal/property/http"
	"github.com/ketensuites/keten-backend/internal/staff"
	staffhttp "github.com/ketensuites/keten-backend/internal/staff/http"
	"github.com/ketensuites/keten-backend/internal/unit"
	unithttp "github.com/ketensuites/keten-backend/internal/unit/http"
)

// Config holds the services the router exposes.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	MaxUploadBytes int64
	Logger         *zap.Logger
	JWTManager     *auth.JWTManager

	StaffService        staff.Service
	MediaService        media.Service
	PropertyService     property.Service
	UnitService         unit.Service
	AvailabilityService availability.Service
	BookingService      booking.Service
	BlogService         blog.Service
}

// allowedOrigins lists the front-ends allowed to call the API.
func allowedOrigins(isProduction bool, prodOrigins string) []string {
	if !isProduction {
		return []string{
			"http://localhost:3000", // Next.js dev server
			"http://localhost:8081", // Swagger
		}
	}
	var origins []string
	for _, o := range strings.Split(prodOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: one structured line per request.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(logger.GinMiddleware(log), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins(cfg.IsProduction, cfg.ProdOrigins)
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition"}
	if len(corsConfig.AllowOrigins) > 0 {
		r.Use(cors.New(corsConfig))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// staffMiddleware: Further checks that the token belongs to an active staff account.
	staffMiddleware := staffhttp.RequireActiveStaff(cfg.StaffService)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	staffHandler := staffhttp.NewHandler(cfg.StaffService, cfg.JWTManager)
	mediaHandler := mediahttp.NewHandler(cfg.MediaService, log)
	propertyHandler := propertyhttp.NewHandler(cfg.PropertyService, cfg.UnitService, mediaHandler, cfg.MaxUploadBytes)
	unitHandler := unithttp.NewHandler(cfg.UnitService)
	availabilityHandler := availabilityhttp.NewHandler(cfg.AvailabilityService)
	bookingHandler := bookinghttp.NewHandler(cfg.BookingService)
	blogHandler := bloghttp.NewHandler(cfg.BlogService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		staffhttp.RegisterRoutes(v1, staffHandler, authMiddleware, staffMiddleware)
		mediahttp.RegisterRoutes(v1, mediaHandler)
		propertyhttp.RegisterRoutes(v1, propertyHandler, authMiddleware, staffMiddleware)
		unithttp.RegisterRoutes(v1, unitHandler, authMiddleware, staffMiddleware)
		availabilityhttp.RegisterRoutes(v1, availabilityHandler, authMiddleware, staffMiddleware)
		bookinghttp.RegisterRoutes(v1, bookingHandler, authMiddleware, staffMiddleware)
		bloghttp.RegisterRoutes(v1, blogHandler, authMiddleware, staffMiddleware)
	}

	return r
}
