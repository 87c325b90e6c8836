package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefinder/platefinder-backend/internal/middleware"
	"github.com/platefinder/platefinder-backend/internal/service"
	"github.com/platefinder/platefinder-backend/internal/types"
)

// SavedRecipeHandler serves the bookmark endpoints. Everything here
// requires an authenticated user.
type SavedRecipeHandler struct {
	recipes *service.RecipeService
	auth    *service.AuthService
}

// NewSavedRecipeHandler creates a new SavedRecipeHandler instance
func NewSavedRecipeHandler(recipes *service.RecipeService, auth *service.AuthService) *SavedRecipeHandler {
	return &SavedRecipeHandler{recipes: recipes, auth: auth}
}

func (h *SavedRecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	saved := router.Group("/recipes/saved", middleware.AuthMiddleware(h.auth))
	{
		saved.GET("", h.ListSaved)
		saved.POST("", h.SaveRecipe)
		saved.GET("/:recipeId", h.IsSaved)
		saved.DELETE("/:recipeId", h.UnsaveRecipe)
	}
}

func (h *SavedRecipeHandler) ListSaved(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	saved, err := h.recipes.UserSavedRecipes(c.Request.Context(), userID)
	if err != nil {
		log.Printf("list saved recipes failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch saved recipes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"savedRecipes": saved,
		"count":        len(saved),
	})
}

func (h *SavedRecipeHandler) SaveRecipe(c *gin.Context) {
	var req types.SaveRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.RecipeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recipe ID is required"})
		return
	}
	recipeID, err := uuid.Parse(req.RecipeID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	// The recipe must exist before a bookmark can point at it.
	if _, err := h.recipes.GetRecipe(c.Request.Context(), recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
			return
		}
		log.Printf("save recipe lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save recipe"})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	saved, err := h.recipes.SaveRecipe(c.Request.Context(), userID, recipeID)
	if err != nil {
		if errors.Is(err, service.ErrAlreadySaved) {
			c.JSON(http.StatusConflict, gin.H{"error": "Recipe is already saved"})
			return
		}
		log.Printf("save recipe failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save recipe"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Recipe saved successfully",
		"savedRecipe": saved,
	})
}

func (h *SavedRecipeHandler) IsSaved(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("recipeId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe ID"})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	isSaved, err := h.recipes.IsRecipeSaved(c.Request.Context(), userID, recipeID)
	if err != nil {
		log.Printf("saved lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check saved status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"isSaved":  isSaved,
		"recipeId": recipeID,
	})
}

func (h *SavedRecipeHandler) UnsaveRecipe(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("recipeId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe ID"})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	isSaved, err := h.recipes.IsRecipeSaved(c.Request.Context(), userID, recipeID)
	if err != nil {
		log.Printf("saved lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unsave recipe"})
		return
	}
	if !isSaved {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe is not saved"})
		return
	}

	if err := h.recipes.UnsaveRecipe(c.Request.Context(), userID, recipeID); err != nil {
		log.Printf("unsave recipe failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unsave recipe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe unsaved successfully"})
}
