package api

import (
	"context"
	"net/http"
	"time"

	gqlhandler "github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/fundforge/fundforge/internal/dbpool"
	gql "github.com/fundforge/fundforge/internal/graphql"
	"github.com/fundforge/fundforge/internal/middleware"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log              *logrus.Logger
	Pool             *dbpool.Pool
	Comments         CommentService
	Moderation       ModerationService
	Audit            AuditService
	SigningKey       []byte
	CORSOrigins      []string
	Version          string
	EnablePlayground bool
}

// Router-level limits.
const (
	maxBodySize = 1 << 20 // 1 MB; comment bodies are capped well below this
	rateLimit   = 100     // requests per second per IP
	rateBurst   = 200     // token bucket burst size
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst).Handler())
	r.Use(middleware.PrometheusMiddleware())

	// Metrics endpoint (unauthenticated, like health).
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.Pool, log, deps.Version)
	comments := NewCommentHandler(deps.Comments, log)
	moderation := NewModerationHandler(deps.Moderation, log)
	audit := NewAuditHandler(deps.Audit, log)

	// Health and readiness are unauthenticated.
	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	// All other API routes require authentication.
	bfGuard := middleware.NewBruteForceGuard(ctx, log)
	api.Use(middleware.BruteForceMiddleware(bfGuard))
	api.Use(middleware.AuthMiddleware(deps.SigningKey, log, bfGuard))

	// Comments.
	api.POST("/comments", comments.Create)
	api.GET("/comments/:id", comments.Get)

	// Moderation transitions.
	api.POST("/comments/:id/report", moderation.Report)
	api.POST("/comments/:id/hide", moderation.Hide)
	api.POST("/comments/:id/remove", moderation.Remove)
	api.POST("/comments/:id/restore", moderation.Restore)
	api.DELETE("/comments/:id", moderation.DeleteOwn)

	// Audit.
	api.GET("/audit", audit.Query)
	api.DELETE("/audit", audit.Purge)

	// GraphQL.
	registerGraphQL(api, deps)
}

// registerGraphQL sets up the GraphQL endpoint and optional playground.
func registerGraphQL(api *gin.RouterGroup, deps *RouterDeps) {
	gqlResolver := &gql.Resolver{
		Comments:   deps.Comments,
		Moderation: deps.Moderation,
		Audit:      deps.Audit,
	}
	gqlSrv := gqlhandler.NewDefaultServer(gql.NewExecutableSchema(gql.Config{Resolvers: gqlResolver}))
	gqlGroup := api.Group("/graphql", gql.GinContextMiddleware())
	gqlGroup.POST("", gin.WrapH(gqlSrv))
	gqlGroup.GET("", gin.WrapH(gqlSrv))

	if deps.EnablePlayground {
		api.GET("/graphql/playground", gin.WrapH(playground.Handler("FundForge", "/api/v1/graphql")))
	}
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r.Group("/api/v1"), deps)

	return r
}
