package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platefinder/platefinder-backend/internal/middleware"
	"github.com/platefinder/platefinder-backend/internal/service"
	"github.com/platefinder/platefinder-backend/internal/types"
)

// AuthHandler serves the /api/auth endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRoutes wires the auth endpoints. The rate limiter is optional.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, limiter *middleware.RateLimiter) {
	auth := router.Group("/auth")
	if limiter != nil {
		auth.Use(limiter.AuthRateLimitMiddleware())
	}
	{
		auth.POST("/signup", h.SignUp)
		auth.POST("/signin", h.SignIn)
		auth.POST("/signout", h.SignOut)
		auth.GET("/session", h.Session)
	}
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req types.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	user, err := h.auth.SignUp(c.Request.Context(), &req)
	if err != nil {
		switch {
		case types.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		case errors.Is(err, service.ErrUserExists):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "User already registered"})
		default:
			log.Printf("signup failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "An unexpected error occurred during signup"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Account created successfully. Please check your email to verify your account.",
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
		},
	})
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req types.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	user, session, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case types.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid email or password"})
		default:
			log.Printf("signin failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "An unexpected error occurred during signin"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Signed in successfully",
		"user": gin.H{
			"id":          user.ID,
			"email":       user.Email,
			"displayName": user.DisplayName,
		},
		"session": gin.H{
			"access_token": session.Token,
			"expires_at":   session.ExpiresAt.Unix(),
		},
	})
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	token := middleware.BearerToken(c)
	if err := h.auth.SignOut(c.Request.Context(), token); err != nil {
		log.Printf("signout failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Failed to sign out"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Signed out successfully"})
}

// Session reports the session behind the caller's token. No token, or a
// token that no longer resolves, is a null session rather than an error.
func (h *AuthHandler) Session(c *gin.Context) {
	token := middleware.BearerToken(c)
	if token == "" {
		c.JSON(http.StatusOK, gin.H{"success": true, "session": nil})
		return
	}

	session, user, err := h.auth.CurrentSession(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) || errors.Is(err, service.ErrSessionExpired) {
			c.JSON(http.StatusOK, gin.H{"success": true, "session": nil})
			return
		}
		log.Printf("session lookup failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Failed to fetch session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": gin.H{
			"access_token": session.Token,
			"expires_at":   session.ExpiresAt.Unix(),
			"user": gin.H{
				"id":          user.ID,
				"email":       user.Email,
				"displayName": user.DisplayName,
			},
		},
	})
}
