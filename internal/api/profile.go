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

// ProfileHandler serves the profile endpoints.
type ProfileHandler struct {
	users *service.UserService
	auth  *service.AuthService
}

// NewProfileHandler creates a new ProfileHandler instance
func NewProfileHandler(users *service.UserService, auth *service.AuthService) *ProfileHandler {
	return &ProfileHandler{users: users, auth: auth}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/profile/dietary-restrictions", h.DietaryRestrictions)

	profile := router.Group("/profile", middleware.AuthMiddleware(h.auth))
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.DELETE("", h.DeleteProfile)
	}
}

// DietaryRestrictions lists the selectable restriction values. Public so
// signup forms can populate their options.
func (h *ProfileHandler) DietaryRestrictions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"dietary_restrictions": h.users.ValidDietaryRestrictions(),
	})
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	user, err := h.users.GetUserProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		log.Printf("get profile failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req types.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID := c.MustGet("user_id").(uuid.UUID)
	user, err := h.users.UpdateUserProfile(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case types.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		default:
			log.Printf("update profile failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	if err := h.users.DeleteUserProfile(c.Request.Context(), userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		log.Printf("delete profile failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile deleted successfully"})
}
