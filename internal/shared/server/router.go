package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/identity"
	"resume-builder/internal/sessions"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

// RouterDeps carries the handlers mounted by NewRouter.
type RouterDeps struct {
	Config   config.Config
	Sessions *sessions.Handler
	// RateLimits overrides the default per-group rules.
	RateLimits map[string]middleware.RateLimitRule
}

var defaultRateLimits = map[string]middleware.RateLimitRule{
	middleware.GroupDefault: {Rate: 20, Burst: 40},
	middleware.GroupAI:      {Rate: 0.2, Burst: 3},
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		metrics.Middleware(),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	identityMW := middleware.Auth()
	if deps.Config.DocumentStore == config.StoreLocal {
		identityMW = middleware.LocalIdentity(identity.LocalUserID)
	}
	rules := deps.RateLimits
	if rules == nil {
		rules = defaultRateLimits
	}
	authed := api.Group("",
		identityMW,
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: rules,
			GroupFor: middleware.GroupByRoute(map[string]string{
				http.MethodPost + " /api/v1/resume/suggestions": middleware.GroupAI,
			}),
		}),
	)
	registerMeRoutes(authed)
	if deps.Sessions != nil {
		deps.Sessions.RegisterRoutes(authed)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
