package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefinder/platefinder-backend/internal/middleware"
	"github.com/platefinder/platefinder-backend/internal/service"
	"github.com/platefinder/platefinder-backend/internal/types"
)

// RecipeHandler serves the recipe catalog endpoints.
type RecipeHandler struct {
	recipes *service.RecipeService
	auth    *service.AuthService
}

// NewRecipeHandler creates a new RecipeHandler instance
func NewRecipeHandler(recipes *service.RecipeService, auth *service.AuthService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, auth: auth}
}

// RegisterRoutes wires the recipe endpoints. The creation limiter is
// optional and only guards POST.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, creationLimiter *middleware.RateLimiter) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)

		createHandlers := []gin.HandlerFunc{middleware.AuthMiddleware(h.auth)}
		if creationLimiter != nil {
			createHandlers = append(createHandlers, creationLimiter.RateLimitMiddleware())
		}
		createHandlers = append(createHandlers, h.CreateRecipe)
		recipes.POST("", createHandlers...)

		recipes.PUT("/:id", h.rejectSavedPath, middleware.AuthMiddleware(h.auth), h.UpdateRecipe)
		recipes.DELETE("/:id", h.rejectSavedPath, middleware.AuthMiddleware(h.auth), h.DeleteRecipe)
	}
}

// rejectSavedPath answers 405 when an unsupported verb on /recipes/saved
// lands in the :id wildcard; gin's method-not-allowed handling never sees
// those requests because the wildcard route matches first.
func (h *RecipeHandler) rejectSavedPath(c *gin.Context) {
	if c.Param("id") == "saved" {
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	}
}

// parseListOptions reads pagination, ordering, and filter query params.
func parseListOptions(c *gin.Context) (service.ListOptions, error) {
	opts := service.ListOptions{
		Page:      1,
		Limit:     20,
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return opts, errors.New("invalid page")
		}
		opts.Page = page
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 100 {
			return opts, errors.New("invalid limit")
		}
		opts.Limit = limit
	}

	opts.Filters.Search = c.Query("search")
	opts.Filters.MealType = c.Query("mealType")
	opts.Filters.Difficulty = c.Query("difficulty")
	opts.Filters.CuisineType = c.Query("cuisine")

	if raw := c.Query("dietaryTags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				opts.Filters.DietaryTags = append(opts.Filters.DietaryTags, tag)
			}
		}
	}
	if raw := c.Query("maxCookTime"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return opts, errors.New("invalid maxCookTime")
		}
		opts.Filters.MaxCookTime = v
	}
	if raw := c.Query("maxPrepTime"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return opts, errors.New("invalid maxPrepTime")
		}
		opts.Filters.MaxPrepTime = v
	}
	if raw := c.Query("servings"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return opts, errors.New("invalid servings")
		}
		opts.Filters.Servings = v
	}

	return opts, nil
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	opts, err := parseListOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	result, err := h.recipes.ListRecipes(c.Request.Context(), opts)
	if err != nil {
		log.Printf("list recipes failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe ID"})
		return
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
			return
		}
		log.Printf("get recipe failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipe"})
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe data"})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), &req, userID)
	if err != nil {
		if types.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("create recipe failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create recipe"})
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe ID"})
		return
	}

	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe data"})
		return
	}

	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case types.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		default:
			log.Printf("update recipe failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update recipe"})
		}
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// DeleteRecipe removes a recipe. Deleting an ID that is already gone still
// reports success.
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe ID"})
		return
	}

	if err := h.recipes.DeleteRecipe(c.Request.Context(), id); err != nil {
		log.Printf("delete recipe failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete recipe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully", "id": id})
}
