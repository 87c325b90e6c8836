package types

import (
	"net/url"

	"github.com/platefinder/platefinder-backend/internal/models"
)

// SignUpRequest represents the request body for account creation
type SignUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

// SignInRequest represents the request body for signing in
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest represents a partial profile update
type UpdateProfileRequest struct {
	DisplayName         *string  `json:"display_name"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
}

// SaveRecipeRequest represents the request body for bookmarking a recipe
type SaveRecipeRequest struct {
	RecipeID string `json:"recipeId"`
}

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	Ingredients     []models.Ingredient  `json:"ingredients"`
	Instructions    []models.Instruction `json:"instructions"`
	PrepTimeMinutes int                  `json:"prep_time_minutes"`
	CookTimeMinutes int                  `json:"cook_time_minutes"`
	Servings        int                  `json:"servings"`
	DifficultyLevel string               `json:"difficulty_level"`
	CuisineType     string               `json:"cuisine_type"`
	MealType        string               `json:"meal_type"`
	DietaryTags     []string             `json:"dietary_tags"`
	SourceURL       string               `json:"source_url"`
	SourceName      string               `json:"source_name"`
	ImageURL        string               `json:"image_url"`
}

// UpdateRecipeRequest represents a partial recipe update. Nil fields are
// left untouched.
type UpdateRecipeRequest struct {
	Title           *string               `json:"title"`
	Description     *string               `json:"description"`
	Ingredients     *[]models.Ingredient  `json:"ingredients"`
	Instructions    *[]models.Instruction `json:"instructions"`
	PrepTimeMinutes *int                  `json:"prep_time_minutes"`
	CookTimeMinutes *int                  `json:"cook_time_minutes"`
	Servings        *int                  `json:"servings"`
	DifficultyLevel *string               `json:"difficulty_level"`
	CuisineType     *string               `json:"cuisine_type"`
	MealType        *string               `json:"meal_type"`
	DietaryTags     *[]string             `json:"dietary_tags"`
	SourceURL       *string               `json:"source_url"`
	SourceName      *string               `json:"source_name"`
	ImageURL        *string               `json:"image_url"`
}

var difficultyLevels = map[string]bool{"easy": true, "medium": true, "hard": true}

var mealTypes = map[string]bool{
	"breakfast": true, "lunch": true, "dinner": true, "snack": true, "dessert": true,
}

// Validate checks the payload and returns the first failing rule as a
// ValidationError.
func (r *CreateRecipeRequest) Validate() error {
	if r.Title == "" {
		return ValidationError("Title is required")
	}
	if len(r.Title) > 200 {
		return ValidationError("Title is too long")
	}
	if len(r.Description) > 1000 {
		return ValidationError("Description is too long")
	}
	if len(r.Ingredients) == 0 {
		return ValidationError("At least one ingredient is required")
	}
	for _, ing := range r.Ingredients {
		if ing.Name == "" {
			return ValidationError("Ingredient name is required")
		}
		if ing.Amount == "" {
			return ValidationError("Amount is required")
		}
	}
	if len(r.Instructions) == 0 {
		return ValidationError("At least one instruction is required")
	}
	for _, ins := range r.Instructions {
		if ins.Step < 1 {
			return ValidationError("Step number must be at least 1")
		}
		if ins.Text == "" {
			return ValidationError("Instruction text is required")
		}
	}
	if r.PrepTimeMinutes < 0 || r.PrepTimeMinutes > 1440 {
		return ValidationError("Prep time must be between 0 and 1440 minutes")
	}
	if r.CookTimeMinutes < 0 || r.CookTimeMinutes > 1440 {
		return ValidationError("Cook time must be between 0 and 1440 minutes")
	}
	if r.Servings != 0 && (r.Servings < 1 || r.Servings > 50) {
		return ValidationError("Servings must be between 1 and 50")
	}
	if r.DifficultyLevel != "" && !difficultyLevels[r.DifficultyLevel] {
		return ValidationError("Difficulty must be one of: easy, medium, hard")
	}
	if len(r.CuisineType) > 100 {
		return ValidationError("Cuisine type is too long")
	}
	if r.MealType != "" && !mealTypes[r.MealType] {
		return ValidationError("Meal type must be one of: breakfast, lunch, dinner, snack, dessert")
	}
	if r.SourceURL != "" && !validURL(r.SourceURL) {
		return ValidationError("Invalid URL")
	}
	if len(r.SourceName) > 200 {
		return ValidationError("Source name is too long")
	}
	if r.ImageURL != "" && !validURL(r.ImageURL) {
		return ValidationError("Invalid image URL")
	}
	return nil
}

// Validate applies the create-recipe rules to whichever fields are present.
func (r *UpdateRecipeRequest) Validate() error {
	if r.Title != nil {
		if *r.Title == "" {
			return ValidationError("Title is required")
		}
		if len(*r.Title) > 200 {
			return ValidationError("Title is too long")
		}
	}
	if r.Description != nil && len(*r.Description) > 1000 {
		return ValidationError("Description is too long")
	}
	if r.Ingredients != nil {
		if len(*r.Ingredients) == 0 {
			return ValidationError("At least one ingredient is required")
		}
		for _, ing := range *r.Ingredients {
			if ing.Name == "" {
				return ValidationError("Ingredient name is required")
			}
			if ing.Amount == "" {
				return ValidationError("Amount is required")
			}
		}
	}
	if r.Instructions != nil {
		if len(*r.Instructions) == 0 {
			return ValidationError("At least one instruction is required")
		}
		for _, ins := range *r.Instructions {
			if ins.Step < 1 {
				return ValidationError("Step number must be at least 1")
			}
			if ins.Text == "" {
				return ValidationError("Instruction text is required")
			}
		}
	}
	if r.PrepTimeMinutes != nil && (*r.PrepTimeMinutes < 0 || *r.PrepTimeMinutes > 1440) {
		return ValidationError("Prep time must be between 0 and 1440 minutes")
	}
	if r.CookTimeMinutes != nil && (*r.CookTimeMinutes < 0 || *r.CookTimeMinutes > 1440) {
		return ValidationError("Cook time must be between 0 and 1440 minutes")
	}
	if r.Servings != nil && (*r.Servings < 1 || *r.Servings > 50) {
		return ValidationError("Servings must be between 1 and 50")
	}
	if r.DifficultyLevel != nil && *r.DifficultyLevel != "" && !difficultyLevels[*r.DifficultyLevel] {
		return ValidationError("Difficulty must be one of: easy, medium, hard")
	}
	if r.CuisineType != nil && len(*r.CuisineType) > 100 {
		return ValidationError("Cuisine type is too long")
	}
	if r.MealType != nil && *r.MealType != "" && !mealTypes[*r.MealType] {
		return ValidationError("Meal type must be one of: breakfast, lunch, dinner, snack, dessert")
	}
	if r.SourceURL != nil && *r.SourceURL != "" && !validURL(*r.SourceURL) {
		return ValidationError("Invalid URL")
	}
	if r.SourceName != nil && len(*r.SourceName) > 200 {
		return ValidationError("Source name is too long")
	}
	if r.ImageURL != nil && *r.ImageURL != "" && !validURL(*r.ImageURL) {
		return ValidationError("Invalid image URL")
	}
	return nil
}

func validURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
