// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-auction-backend/docs"
	"github.com/tbourn/go-auction-backend/internal/catalog"
	"github.com/tbourn/go-auction-backend/internal/config"
	"github.com/tbourn/go-auction-backend/internal/domain"
	"github.com/tbourn/go-auction-backend/internal/http/handlers"
	"github.com/tbourn/go-auction-backend/internal/http/middleware"
	"github.com/tbourn/go-auction-backend/internal/repo"
	"github.com/tbourn/go-auction-backend/internal/services"
)

// roomRepoShim adapts the repository free functions to the services.RoomRepo
// interface expected by the room-facing services. This keeps services
// decoupled from the concrete repo package while reusing existing functions.
type roomRepoShim struct{}

// CreateRoom proxies repo.CreateRoom.
func (roomRepoShim) CreateRoom(ctx context.Context, db *gorm.DB, room *domain.Room) error {
	return repo.CreateRoom(ctx, db, room)
}

// GetRoom proxies repo.GetRoom.
func (roomRepoShim) GetRoom(ctx context.Context, db *gorm.DB, id string) (*domain.Room, error) {
	return repo.GetRoom(ctx, db, id)
}

// ListRooms proxies repo.ListRooms.
func (roomRepoShim) ListRooms(ctx context.Context, db *gorm.DB) ([]domain.Room, error) {
	return repo.ListRooms(ctx, db)
}

// CountRooms proxies repo.CountRooms (pagination support).
func (roomRepoShim) CountRooms(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountRooms(ctx, db)
}

// ListRoomsPage proxies repo.ListRoomsPage (pagination support).
func (roomRepoShim) ListRoomsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Room, error) {
	return repo.ListRoomsPage(ctx, db, offset, limit)
}

// ReplaceRoom proxies repo.ReplaceRoom (optimistic concurrency).
func (roomRepoShim) ReplaceRoom(ctx context.Context, db *gorm.DB, room *domain.Room, expectedVersion int64) error {
	return repo.ReplaceRoom(ctx, db, room, expectedVersion)
}

// DeleteRoom proxies repo.DeleteRoom.
func (roomRepoShim) DeleteRoom(ctx context.Context, db *gorm.DB, id string) error {
	return repo.DeleteRoom(ctx, db, id)
}

// itemRepoShim adapts the item cache free functions to services.ItemRepo.
type itemRepoShim struct{}

// GetItem proxies repo.GetItem.
func (itemRepoShim) GetItem(ctx context.Context, db *gorm.DB, itemID int, ns domain.Namespace) (*domain.Item, error) {
	return repo.GetItem(ctx, db, itemID, ns)
}

// SaveItem proxies repo.SaveItem.
func (itemRepoShim) SaveItem(ctx context.Context, db *gorm.DB, itemID int, ns domain.Namespace, meta *domain.ItemMetadata) (*domain.Item, error) {
	return repo.SaveItem(ctx, db, itemID, ns, meta)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, CORS and security headers, health, metrics and docs endpoints, and
// then mounts the versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Idempotency validator (before rate limiter to allow bypass on replay)
//  8. Rate limiter (per user/IP, bypass on replay)
//  9. CORS and Security headers
//  10. Gzip response compression
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"X-API-Key", // project-specific sensitive header example
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, userID, roomID, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, roomID, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 8) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// 10) Compress JSON responses (room documents grow with their auction lists)
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API docs (optional)
	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/catalog
	items := services.NewItemService(db, itemRepoShim{}, catalog.New(cfg.CatalogBaseURL, cfg.CatalogTimeout))
	roomSvc := services.NewRoomService(db, roomRepoShim{}, items, services.RoomDefaults{
		MinimumBid:           cfg.DefaultMinimumBid,
		MinimumBidIncrement:  cfg.DefaultMinimumBidIncrement,
		BidDurationInSeconds: cfg.DefaultBidDurationSeconds,
	})
	roomSvc.Coord.MaxAttempts = cfg.CommitRetries
	bidSvc := services.NewBidService(roomSvc.Coord)

	h := handlers.New(roomSvc, bidSvc)

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Rooms
		api.GET("/rooms", h.ListRooms)
		api.POST("/rooms/create", h.CreateRoom)
		api.POST("/rooms", h.CreateRoomFull)
		api.GET("/rooms/:id", h.GetRoom)
		api.PUT("/rooms/:id", h.ReplaceRoom)
		api.PUT("/rooms/:id/items", h.ReplaceItems)
		api.PATCH("/rooms/:id/start", h.StartRoom)
		api.DELETE("/rooms/:id", h.DeleteRoom)

		// Bids
		api.PATCH("/rooms/:id", h.PlaceBid)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
