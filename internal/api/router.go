package api

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	availabilityHttp "github.com/nekogravitycat/service-marketplace-backend/internal/availability/http"
)

// Config holds the dependencies needed to build the router.
type Config struct {
	IsProduction bool
	ProdOrigins  []string
	// TrustedProxies may set X-Forwarded-For; empty means the peer address is the client IP.
	TrustedProxies  []string
	Logger          *zap.Logger
	RateLimitPerMin int
	ReadyChecks     []ReadyCheck

	AvailabilityHandler *availabilityHttp.Handler
}

// NewRouter initializes the HTTP router engine.
// It assembles middleware (recovery, access log, CORS, rate limit) and registers routes for each module.
// It fails only on an invalid trusted proxy entry.
func NewRouter(cfg Config) (*gin.Engine, error) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()

	// Client IPs feed the rate limiter, so forwarding headers are honored only from known proxies.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	// Global Middleware:
	// - Recovery: Captures panics and returns a 500 error.
	// - RequestLogger: One structured line per request.
	r.Use(Recovery(logger), RequestLogger(logger))

	// Configure CORS (Cross-Origin Resource Sharing).
	origins := []string{
		"http://localhost:3000", // Web client
		"http://localhost:8081", // Swagger
	}
	if cfg.IsProduction {
		origins = cfg.ProdOrigins
	}
	if len(origins) > 0 {
		config := cors.DefaultConfig()
		config.AllowOrigins = origins
		config.AllowMethods = []string{"GET", "OPTIONS"}
		config.AllowHeaders = []string{"Origin", "Content-Type"}
		config.ExposeHeaders = []string{"X-Cache"}
		r.Use(cors.New(config))
	}

	registerHealthRoutes(r, cfg.ReadyChecks)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	if cfg.RateLimitPerMin > 0 {
		v1.Use(RateLimit(NewLimiterStore(cfg.RateLimitPerMin), logger))
	}
	{
		availabilityHttp.RegisterRoutes(v1, cfg.AvailabilityHandler)
	}

	return r, nil
}
