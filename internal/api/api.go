package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/platefinder/platefinder-backend/internal/middleware"
	"github.com/platefinder/platefinder-backend/internal/service"
)

// Services bundles everything the API layer depends on. ImageService and
// RedisClient may be nil; the routes that need them degrade gracefully.
type Services struct {
	Auth    *service.AuthService
	Users   *service.UserService
	Recipes *service.RecipeService
	Images  *service.ImageService
}

// SetupAPI wires all handlers onto the router.
func SetupAPI(router *gin.Engine, db *gorm.DB, svcs Services, redisClient *redis.Client) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	var creationLimiter, authLimiter *middleware.RateLimiter
	if redisClient != nil {
		creationLimiter = middleware.NewRecipeCreationRateLimiter(redisClient)
		authLimiter = middleware.NewAuthRateLimiter(redisClient)
	}

	api := router.Group("/api")
	{
		authHandler := NewAuthHandler(svcs.Auth)
		authHandler.RegisterRoutes(api, authLimiter)

		profileHandler := NewProfileHandler(svcs.Users, svcs.Auth)
		profileHandler.RegisterRoutes(api)

		recipeHandler := NewRecipeHandler(svcs.Recipes, svcs.Auth)
		recipeHandler.RegisterRoutes(api, creationLimiter)

		savedHandler := NewSavedRecipeHandler(svcs.Recipes, svcs.Auth)
		savedHandler.RegisterRoutes(api)

		dashboardHandler := NewDashboardHandler(db, svcs.Auth)
		dashboardHandler.RegisterRoutes(api)

		if svcs.Images != nil {
			imageHandler := NewImageHandler(svcs.Images, svcs.Recipes, svcs.Auth)
			imageHandler.RegisterRoutes(api)
		}
	}
}
