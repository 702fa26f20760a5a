package http

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/saveplate/backend/config"
	"github.com/saveplate/backend/internal/logging"
)

var registerValidators sync.Once

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	registerValidators.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
				logging.Error().Err(err).Msg("failed to register notblank validator")
			}
		}
	})

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Operational endpoints stay outside the rate limit
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/")
	api.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", handler.Register)
			auth.POST("/token", handler.Token)
			auth.POST("/refresh", handler.Refresh)
		}

		api.GET("/autocompletion", handler.Autocomplete)

		recipes := api.Group("/recipes")
		{
			recipes.POST("/available", handler.AvailableRecipes)
			recipes.POST("/partial", handler.PartialRecipes)
			recipes.GET("/available", AuthMiddleware(handler.auth), handler.UserAvailableRecipes)
		}

		user := api.Group("/user")
		user.Use(AuthMiddleware(handler.auth))
		{
			user.GET("/me", handler.CurrentUser)
			user.GET("/ingredients", handler.UserIngredients)
			user.POST("/ingredient", handler.AddUserIngredients)
		}
	}

	return router
}
