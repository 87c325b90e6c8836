package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/platefinder/platefinder-backend/internal/middleware"
	"github.com/platefinder/platefinder-backend/internal/models"
	"github.com/platefinder/platefinder-backend/internal/service"
)

// DashboardStats summarizes a user's activity.
type DashboardStats struct {
	RecipesCreated int64 `json:"recipes_created"`
	SavedRecipes   int64 `json:"saved_recipes"`
	SavedThisWeek  int64 `json:"saved_this_week"`
}

// DashboardHandler serves aggregate stats for the signed-in user.
type DashboardHandler struct {
	db   *gorm.DB
	auth *service.AuthService
}

// NewDashboardHandler creates a new DashboardHandler instance
func NewDashboardHandler(db *gorm.DB, auth *service.AuthService) *DashboardHandler {
	return &DashboardHandler{db: db, auth: auth}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard/stats", middleware.AuthMiddleware(h.auth), h.Stats)
}

// Stats runs the three counts concurrently and fails as a unit.
func (h *DashboardHandler) Stats(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var stats DashboardStats
	weekAgo := time.Now().AddDate(0, 0, -7)

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		return h.db.WithContext(ctx).Model(&models.Recipe{}).
			Where("created_by = ?", userID).
			Count(&stats.RecipesCreated).Error
	})
	g.Go(func() error {
		return h.db.WithContext(ctx).Model(&models.SavedRecipe{}).
			Where("user_id = ?", userID).
			Count(&stats.SavedRecipes).Error
	})
	g.Go(func() error {
		return h.db.WithContext(ctx).Model(&models.SavedRecipe{}).
			Where("user_id = ? AND created_at >= ?", userID, weekAgo).
			Count(&stats.SavedThisWeek).Error
	})
	if err := g.Wait(); err != nil {
		log.Printf("dashboard stats failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
