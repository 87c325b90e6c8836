package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/platefinder/platefinder-backend/internal/models"
	"github.com/platefinder/platefinder-backend/internal/types"
)

var ErrAlreadySaved = errors.New("recipe is already saved")

// RecipeFilters narrows a recipe listing. Zero values mean "no filter";
// every populated field must match (filters are ANDed together).
type RecipeFilters struct {
	Search      string
	MealType    string
	DietaryTags []string
	Difficulty  string
	MaxCookTime int
	MaxPrepTime int
	CuisineType string
	Servings    int
}

// ListOptions is the full shape of a listing request: filters plus
// pagination and ordering.
type ListOptions struct {
	Filters   RecipeFilters
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// RecipeListResult is one page of recipes with pagination metadata.
type RecipeListResult struct {
	Recipes    []models.Recipe `json:"recipes"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"totalPages"`
}

// sortColumns whitelists the ORDER BY targets. Anything else falls back
// to created_at.
var sortColumns = map[string]string{
	"created_at":        "created_at",
	"title":             "title",
	"cook_time_minutes": "cook_time_minutes",
	"difficulty_level":  "difficulty_level",
}

// RecipeService handles recipe catalog and bookmark operations.
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// applyFilters translates a filter set into WHERE clauses on the query.
func (s *RecipeService) applyFilters(query *gorm.DB, f RecipeFilters) *gorm.DB {
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if f.MealType != "" {
		query = query.Where("meal_type = ?", f.MealType)
	}
	if f.Difficulty != "" {
		query = query.Where("difficulty_level = ?", f.Difficulty)
	}
	if f.CuisineType != "" {
		query = query.Where("cuisine_type = ?", f.CuisineType)
	}
	if f.MaxCookTime > 0 {
		query = query.Where("cook_time_minutes <= ?", f.MaxCookTime)
	}
	if f.MaxPrepTime > 0 {
		query = query.Where("prep_time_minutes <= ?", f.MaxPrepTime)
	}
	if f.Servings > 0 {
		query = query.Where("servings = ?", f.Servings)
	}
	if len(f.DietaryTags) > 0 {
		// A recipe must carry every requested tag. Postgres answers that
		// with the array containment operator; other dialects store the
		// array as its text form and get a LIKE per tag.
		if query.Dialector.Name() == "postgres" {
			query = query.Where("dietary_tags @> ?", pq.StringArray(f.DietaryTags))
		} else {
			for _, tag := range f.DietaryTags {
				query = query.Where("dietary_tags LIKE ?", "%"+tag+"%")
			}
		}
	}
	return query
}

// ListRecipes returns one page of the catalog. The page rows and the
// filtered total are fetched concurrently.
func (s *RecipeService) ListRecipes(ctx context.Context, opts ListOptions) (*RecipeListResult, error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 {
		limit = 20
	}

	column, ok := sortColumns[opts.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(opts.SortOrder, "asc") {
		direction = "ASC"
	}

	var (
		recipes []models.Recipe
		total   int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.applyFilters(s.db.WithContext(gctx).Model(&models.Recipe{}), opts.Filters).
			Count(&total).Error
	})
	g.Go(func() error {
		return s.applyFilters(s.db.WithContext(gctx), opts.Filters).
			Order(fmt.Sprintf("%s %s", column, direction)).
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&recipes).Error
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &RecipeListResult{
		Recipes:    recipes,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// GetRecipe fetches a single recipe by ID.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// CreateRecipe inserts a new recipe owned by createdBy.
func (s *RecipeService) CreateRecipe(ctx context.Context, req *types.CreateRecipeRequest, createdBy uuid.UUID) (*models.Recipe, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		Title:           req.Title,
		Description:     req.Description,
		Ingredients:     models.IngredientList(req.Ingredients),
		Instructions:    models.InstructionList(req.Instructions),
		PrepTimeMinutes: req.PrepTimeMinutes,
		CookTimeMinutes: req.CookTimeMinutes,
		Servings:        req.Servings,
		DifficultyLevel: req.DifficultyLevel,
		CuisineType:     req.CuisineType,
		MealType:        req.MealType,
		DietaryTags:     pq.StringArray(req.DietaryTags),
		SourceURL:       req.SourceURL,
		SourceName:      req.SourceName,
		ImageURL:        req.ImageURL,
		CreatedBy:       createdBy,
	}
	if recipe.DietaryTags == nil {
		recipe.DietaryTags = pq.StringArray{}
	}
	if err := s.db.WithContext(ctx).Create(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// UpdateRecipe applies a partial update and returns the updated row.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Ingredients != nil {
		updates["ingredients"] = models.IngredientList(*req.Ingredients)
	}
	if req.Instructions != nil {
		updates["instructions"] = models.InstructionList(*req.Instructions)
	}
	if req.PrepTimeMinutes != nil {
		updates["prep_time_minutes"] = *req.PrepTimeMinutes
	}
	if req.CookTimeMinutes != nil {
		updates["cook_time_minutes"] = *req.CookTimeMinutes
	}
	if req.Servings != nil {
		updates["servings"] = *req.Servings
	}
	if req.DifficultyLevel != nil {
		updates["difficulty_level"] = *req.DifficultyLevel
	}
	if req.CuisineType != nil {
		updates["cuisine_type"] = *req.CuisineType
	}
	if req.MealType != nil {
		updates["meal_type"] = *req.MealType
	}
	if req.DietaryTags != nil {
		updates["dietary_tags"] = pq.StringArray(*req.DietaryTags)
	}
	if req.SourceURL != nil {
		updates["source_url"] = *req.SourceURL
	}
	if req.SourceName != nil {
		updates["source_name"] = *req.SourceName
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}

	if len(updates) > 0 {
		result := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return s.GetRecipe(ctx, id)
}

// DeleteRecipe removes a recipe. Deleting an ID that does not exist is a
// no-op, not an error.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Recipe{}).Error
}

// SetRecipeImage stores the public URL of an uploaded recipe image.
func (s *RecipeService) SetRecipeImage(ctx context.Context, id uuid.UUID, imageURL string) error {
	result := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).
		Update("image_url", imageURL)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UserSavedRecipes returns the user's bookmarks, newest first, with the
// recipe rows preloaded.
func (s *RecipeService) UserSavedRecipes(ctx context.Context, userID uuid.UUID) ([]models.SavedRecipe, error) {
	var saved []models.SavedRecipe
	err := s.db.WithContext(ctx).
		Preload("Recipe").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&saved).Error
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// SaveRecipe bookmarks a recipe for a user. A second save of the same
// recipe returns ErrAlreadySaved.
func (s *RecipeService) SaveRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*models.SavedRecipe, error) {
	saved := models.SavedRecipe{
		UserID:   userID,
		RecipeID: recipeID,
	}
	if err := s.db.WithContext(ctx).Create(&saved).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadySaved
		}
		return nil, err
	}
	return &saved, nil
}

// UnsaveRecipe removes a bookmark.
func (s *RecipeService) UnsaveRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.SavedRecipe{}).Error
}

// IsRecipeSaved reports whether the user has bookmarked the recipe.
func (s *RecipeService) IsRecipeSaved(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.SavedRecipe{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
