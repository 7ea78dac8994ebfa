package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"careerkit-backend/internal/analyze"
	"careerkit-backend/internal/config"
	"careerkit-backend/internal/gemini"
	"careerkit-backend/internal/keys"
	"careerkit-backend/internal/shared/server/middleware"
	"careerkit-backend/internal/shared/server/respond"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			GroupFor: func(c *gin.Context) string {
				if c.Request.Method == http.MethodPost && c.FullPath() == "/api/analyze" {
					return "ANALYZE"
				}
				return "DEFAULT"
			},
			Rules: map[string]middleware.RateLimitRule{
				// Each analyze call can spend provider quota; keep it slow.
				"ANALYZE": {Rate: 0.2, Burst: 3},
				"DEFAULT": {Rate: 5, Burst: 20},
			},
		}),
	)

	gen, err := gemini.New(cfg.GeminiModel, cfg.GenerateTimeout)
	if err != nil {
		log.Fatalf("gemini client: %v", err)
	}

	resolver := &keys.Resolver{Validator: gen}
	svc := analyze.NewService(gen)
	handler := analyze.NewHandler(svc, resolver, cfg.GoogleAPIKey)

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	handler.RegisterRoutes(api)

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
