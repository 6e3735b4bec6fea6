package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ketensuites/keten-backend/internal/api"
	"github.com/ketensuites/keten-backend/internal/auth"
	"github.com/ketensuites/keten-backend/internal/availability"
	"github.com/ketensuites/keten-backend/internal/blog"
	"github.com/ketensuites/keten-backend/internal/booking"
	"github.com/ketensuites/keten-backend/internal/cache"
	"github.com/ketensuites/keten-backend/internal/media"
	"github.com/ketensuites/keten-backend/internal/notify"
	"github.com/ketensuites/keten-backend/internal/pkg/storage"
	"github.com/ketensuites/keten-backend/internal/pricing"
	"github.com/ketensuites/keten-backend/internal/property"
	"github.com/ketensuites/keten-backend/internal/staff"
	"github.com/ketensuites/keten-backend/internal/unit"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	// Redis is optional; nil keeps the availability cache in process memory.
	Redis  *redis.Client
	Logger *zap.Logger
	Mailer notify.Mailer

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	StoragePath    string
	MaxUploadBytes int64

	Policy   pricing.Policy
	Location *time.Location
	CacheTTL time.Duration
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router       *gin.Engine
	JWTManager   *auth.JWTManager
	StaffService    staff.Service
	PropertyService property.Service
	UnitService     unit.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	mailer := cfg.Mailer
	if mailer == nil {
		mailer = notify.NopMailer{Logger: log}
	}

	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	fileStore, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	var availabilityCache cache.Store = cache.NewMemoryStore()
	if cfg.Redis != nil {
		availabilityCache = cache.NewRedisStore(cfg.Redis)
	}

	// Staff Module
	staffRepo := staff.NewPgxRepository(cfg.DBPool)
	staffService := staff.NewService(staffRepo, passwordHasher, log)

	// Media Module
	mediaRepo := media.NewPgxRepository(cfg.DBPool)
	mediaService := media.NewService(mediaRepo, fileStore, log)

	// Property Module
	propertyRepo := property.NewPgxRepository(cfg.DBPool)
	propertyService := property.NewService(propertyRepo, mediaService, log)

	// Availability Module
	availabilityRepo := availability.NewPgxRepository(cfg.DBPool)
	availabilityService := availability.NewService(availabilityRepo, availabilityCache, log, availability.Options{
		CacheTTL: cfg.CacheTTL,
		Location: cfg.Location,
	})

	// Unit Module
	unitRepo := unit.NewPgxRepository(cfg.DBPool)
	unitService := unit.NewService(unitRepo, propertyService, availabilityService, cfg.Policy)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, propertyService, unitService, availabilityService, cfg.Policy, mailer, log)

	// Blog Module
	blogRepo := blog.NewPgxRepository(cfg.DBPool)
	blogService := blog.NewService(blogRepo)

	// API Router Config
	routerParams := api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		MaxUploadBytes:      cfg.MaxUploadBytes,
		Logger:              log,
		JWTManager:          jwtManager,
		StaffService:        staffService,
		MediaService:        mediaService,
		PropertyService:     propertyService,
		UnitService:         unitService,
		AvailabilityService: availabilityService,
		BookingService:      bookingService,
		BlogService:         blogService,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:       router,
		JWTManager:   jwtManager,
		StaffService:    staffService,
		PropertyService: propertyService,
		UnitService:     unitService,
	}, nil
}
