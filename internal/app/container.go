package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nekogravitycat/service-marketplace-backend/internal/api"
	"github.com/nekogravitycat/service-marketplace-backend/internal/availability"
	availabilityHttp "github.com/nekogravitycat/service-marketplace-backend/internal/availability/http"
	"github.com/nekogravitycat/service-marketplace-backend/internal/booking"
	"github.com/nekogravitycat/service-marketplace-backend/internal/cache"
	"github.com/nekogravitycat/service-marketplace-backend/internal/db"
	"github.com/nekogravitycat/service-marketplace-backend/internal/listing"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction    bool
	ProdOrigins     []string
	TrustedProxies  []string
	DBPool          *pgxpool.Pool
	Redis           *redis.Client // nil disables the response cache
	CacheTTL        time.Duration
	Location        *time.Location
	RateLimitPerMin int
	Logger          *zap.Logger
	Now             func() time.Time
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router              *gin.Engine
	AvailabilityService availability.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Storage
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	listingRepo := listing.NewPgxRepository(cfg.DBPool)

	readyChecks := []api.ReadyCheck{{Name: "db", Check: db.ReadyCheck(cfg.DBPool)}}

	// Response cache
	var responseCache availability.Cache = cache.Noop{}
	if cfg.Redis != nil {
		responseCache = cache.NewRedisCache(cfg.Redis)
		client := cfg.Redis
		readyChecks = append(readyChecks, api.ReadyCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return client.Ping(ctx).Err() },
		})
	}

	// Availability module
	availabilityService := availability.NewService(bookingRepo, listingRepo, responseCache, availability.Options{
		CacheTTL: cfg.CacheTTL,
		Location: cfg.Location,
		Now:      cfg.Now,
		Logger:   logger.Named("availability"),
	})
	availabilityHandler := availabilityHttp.NewHandler(availabilityService)

	// Router
	router, err := api.NewRouter(api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		TrustedProxies:      cfg.TrustedProxies,
		Logger:              logger.Named("http"),
		RateLimitPerMin:     cfg.RateLimitPerMin,
		ReadyChecks:         readyChecks,
		AvailabilityHandler: availabilityHandler,
	})
	if err != nil {
		return nil, err
	}

	return &Container{
		Router:              router,
		AvailabilityService: availabilityService,
	}, nil
}
