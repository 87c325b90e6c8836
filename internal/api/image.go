package api

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefinder/platefinder-backend/internal/middleware"
	"github.com/platefinder/platefinder-backend/internal/service"
	"github.com/platefinder/platefinder-backend/internal/types"
)

// ImageHandler serves recipe image uploads. Only registered when S3 is
// configured.
type ImageHandler struct {
	images  *service.ImageService
	recipes *service.RecipeService
	auth    *service.AuthService
}

// NewImageHandler creates a new ImageHandler instance
func NewImageHandler(images *service.ImageService, recipes *service.RecipeService, auth *service.AuthService) *ImageHandler {
	return &ImageHandler{images: images, recipes: recipes, auth: auth}
}

func (h *ImageHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/recipes/:id/image", middleware.AuthMiddleware(h.auth), h.UploadImage)
}

func (h *ImageHandler) UploadImage(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe ID"})
		return
	}

	if _, err := h.recipes.GetRecipe(c.Request.Context(), recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
			return
		}
		log.Printf("image upload lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}
	if fileHeader.Size > service.MaxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image must be smaller than 5MB"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxImageSize+1))
	if err != nil {
		log.Printf("image read failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	}

	imageURL, err := h.images.UploadRecipeImage(c.Request.Context(), recipeID, data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		if types.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("image upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	}

	if err := h.recipes.SetRecipeImage(c.Request.Context(), recipeID, imageURL); err != nil {
		log.Printf("image url update failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_url": imageURL})
}
