package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/platefinder/platefinder-backend/internal/models"
	"github.com/platefinder/platefinder-backend/internal/types"
)

func testRecipeRequest(title string) *types.CreateRecipeRequest {
	return &types.CreateRecipeRequest{
		Title:        title,
		Description:  "A test recipe",
		Ingredients:  []models.Ingredient{{Name: "Flour", Amount: "2", Unit: "cups"}},
		Instructions: []models.Instruction{{Step: 1, Text: "Mix everything"}},
	}
}

func createTestRecipe(t *testing.T, svc *RecipeService, req *types.CreateRecipeRequest) *models.Recipe {
	t.Helper()
	recipe, err := svc.CreateRecipe(context.Background(), req, uuid.New())
	require.NoError(t, err)
	return recipe
}

func TestCreateRecipe(t *testing.T) {
	svc := NewRecipeService(setupTestDB(t))

	req := testRecipeRequest("Pancakes")
	req.MealType = "breakfast"
	req.DietaryTags = []string{"vegetarian"}
	req.CookTimeMinutes = 15

	owner := uuid.New()
	recipe, err := svc.CreateRecipe(context.Background(), req, owner)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, recipe.ID)
	assert.Equal(t, owner, recipe.CreatedBy)

	got, err := svc.GetRecipe(context.Background(), recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", got.Title)
	assert.Equal(t, []string{"vegetarian"}, []string(got.DietaryTags))
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, "Flour", got.Ingredients[0].Name)
	require.Len(t, got.Instructions, 1)
	assert.Equal(t, 1, got.Instructions[0].Step)
}

func TestCreateRecipeValidation(t *testing.T) {
	svc := NewRecipeService(setupTestDB(t))
	ctx := context.Background()

	_, err := svc.CreateRecipe(ctx, &types.CreateRecipeRequest{}, uuid.New())
	require.Error(t, err)
	assert.True(t, types.IsValidation(err))
	assert.Equal(t, "Title is required", err.Error())

	req := testRecipeRequest("No ingredients")
	req.Ingredients = nil
	_, err = svc.CreateRecipe(ctx, req, uuid.New())
	assert.Equal(t, "At least one ingredient is required", err.Error())

	req = testRecipeRequest("Bad step")
	req.Instructions = []models.Instruction{{Step: 0, Text: "Do it"}}
	_, err = svc.CreateRecipe(ctx, req, uuid.New())
	assert.Equal(t, "Step number must be at least 1", err.Error())
}

func TestGetRecipeNotFound(t *testing.T) {
	svc := NewRecipeService(setupTestDB(t))

	_, err := svc.GetRecipe(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateRecipe(t *testing.T) {
	svc := NewRecipeService(setupTestDB(t))
	ctx := context.Background()

	recipe := createTestRecipe(t, svc, testRecipeRequest("Original"))

	title := "Updated"
	servings := 4
	updated, err := svc.UpdateRecipe(ctx, recipe.ID, &types.UpdateRecipeRequest{
		Title:    &title,
		Servings: &servings,
	})
	require.NoError(t, err)
	assert.Equal(t, "Updated", updated.Title)
	assert.Equal(t, 4, updated.Servings)
	// Untouched fields survive a partial update.
	assert.Equal(t, "A test recipe", updated.Description)

	_, err = svc.UpdateRecipe(ctx, uuid.New(), &types.UpdateRecipeRequest{Title: &title})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteRecipeIdempotent(t *testing.T) {
	svc := NewRecipeService(setupTestDB(t))
	ctx := context.Background()

	recipe := createTestRecipe(t, svc, testRecipeRequest("Doomed"))
	require.NoError(t, svc.DeleteRecipe(ctx, recipe.ID))

	_, err := svc.GetRecipe(ctx, recipe.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Deleting again, or deleting something that never existed, is fine.
	assert.NoError(t, svc.DeleteRecipe(ctx, recipe.ID))
	assert.NoError(t, svc.DeleteRecipe(ctx, uuid.New()))
}

func TestListRecipesPagination(t *testing.T) {
	svc := NewRecipeService(setupTestDB(t))
	ctx := context.Background()

	for _, title := range []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo"} {
		createTestRecipe(t, svc, testRecipeRequest(title))
	}

	result, err := svc.ListRecipes(ctx, ListOptions{Page: 1, Limit: 2, SortBy: "title", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.Total)
	assert.Equal(t, 3, result.TotalPages)
	require.Len(t, result.Recipes, 2)
	assert.Equal(t, "Alpha", result.Recipes[0].Title)
	assert.Equal(t, "Bravo", result.Recipes[1].Title)

	result, err = svc.ListRecipes(ctx, ListOptions{Page: 3, Limit: 2, SortBy: "title", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, result.Recipes, 1)
	assert.Equal(t, "Echo", result.Recipes[0].Title)

	// Past the last page is an empty page, not an error.
	result, err = svc.ListRecipes(ctx, ListOptions{Page: 9, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, result.Recipes)
	assert.Equal(t, int64(5), result.Total)
}

func TestListRecipesDefaults(t *testing.T) {
	svc := NewRecipeService(setupTestDB(t))

	result, err := svc.ListRecipes(context.Background(), ListOptions{SortBy: "drop table"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 20, result.Limit)
	assert.Equal(t, 0, result.TotalPages)
}

func TestListRecipesFilters(t *testing.T) {
	svc := NewRecipeService(setupTestDB(t))
	ctx := context.Background()

	breakfast := testRecipeRequest("Morning Oats")
	breakfast.MealType = "breakfast"
	breakfast.CookTimeMinutes = 10
	breakfast.DietaryTags = []string{"vegan", "gluten-free"}
	createTestRecipe(t, svc, breakfast)

	dinner := testRecipeRequest("Steak Dinner")
	dinner.MealType = "dinner"
	dinner.CookTimeMinutes = 45
	dinner.DifficultyLevel = "hard"
	dinner.Servings = 6
	createTestRecipe(t, svc, dinner)

	dessert := testRecipeRequest("Vegan Brownies")
	dessert.MealType = "dessert"
	dessert.CookTimeMinutes = 30
	dessert.DietaryTags = []string{"vegan"}
	dessert.Servings = 4
	createTestRecipe(t, svc, dessert)

	result, err := svc.ListRecipes(ctx, ListOptions{Filters: RecipeFilters{MealType: "breakfast"}})
	require.NoError(t, err)
	require.Len(t, result.Recipes, 1)
	assert.Equal(t, "Morning Oats", result.Recipes[0].Title)

	result, err = svc.ListRecipes(ctx, ListOptions{Filters: RecipeFilters{MaxCookTime: 30}})
	require.NoError(t, err)
	assert.Len(t, result.Recipes, 2)

	// Tag filtering requires every requested tag.
	result, err = svc.ListRecipes(ctx, ListOptions{Filters: RecipeFilters{DietaryTags: []string{"vegan"}}})
	require.NoError(t, err)
	assert.Len(t, result.Recipes, 2)

	result, err = svc.ListRecipes(ctx, ListOptions{Filters: RecipeFilters{DietaryTags: []string{"vegan", "gluten-free"}}})
	require.NoError(t, err)
	require.Len(t, result.Recipes, 1)
	assert.Equal(t, "Morning Oats", result.Recipes[0].Title)

	result, err = svc.ListRecipes(ctx, ListOptions{Filters: RecipeFilters{Search: "brownies"}})
	require.NoError(t, err)
	require.Len(t, result.Recipes, 1)
	assert.Equal(t, "Vegan Brownies", result.Recipes[0].Title)

	result, err = svc.ListRecipes(ctx, ListOptions{Filters: RecipeFilters{Difficulty: "hard"}})
	require.NoError(t, err)
	require.Len(t, result.Recipes, 1)
	assert.Equal(t, "Steak Dinner", result.Recipes[0].Title)

	// Servings filtering is exact, not a lower bound.
	result, err = svc.ListRecipes(ctx, ListOptions{Filters: RecipeFilters{Servings: 4}})
	require.NoError(t, err)
	require.Len(t, result.Recipes, 1)
	assert.Equal(t, "Vegan Brownies", result.Recipes[0].Title)

	result, err = svc.ListRecipes(ctx, ListOptions{Filters: RecipeFilters{Servings: 5}})
	require.NoError(t, err)
	assert.Empty(t, result.Recipes)

	// Filters are conjunctive.
	result, err = svc.ListRecipes(ctx, ListOptions{Filters: RecipeFilters{
		MealType:    "dessert",
		MaxCookTime: 15,
	}})
	require.NoError(t, err)
	assert.Empty(t, result.Recipes)
	assert.Equal(t, int64(0), result.Total)
}

func TestSaveRecipe(t *testing.T) {
	svc := NewRecipeService(setupTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	recipe := createTestRecipe(t, svc, testRecipeRequest("Bookmarked"))

	saved, err := svc.SaveRecipe(ctx, userID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, saved.RecipeID)

	_, err = svc.SaveRecipe(ctx, userID, recipe.ID)
	assert.ErrorIs(t, err, ErrAlreadySaved)

	// A different user saving the same recipe is not a duplicate.
	_, err = svc.SaveRecipe(ctx, uuid.New(), recipe.ID)
	assert.NoError(t, err)
}

func TestIsRecipeSavedAndUnsave(t *testing.T) {
	svc := NewRecipeService(setupTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	recipe := createTestRecipe(t, svc, testRecipeRequest("Toggled"))

	isSaved, err := svc.IsRecipeSaved(ctx, userID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, isSaved)

	_, err = svc.SaveRecipe(ctx, userID, recipe.ID)
	require.NoError(t, err)

	isSaved, err = svc.IsRecipeSaved(ctx, userID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, isSaved)

	require.NoError(t, svc.UnsaveRecipe(ctx, userID, recipe.ID))

	isSaved, err = svc.IsRecipeSaved(ctx, userID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, isSaved)
}

func TestUserSavedRecipes(t *testing.T) {
	svc := NewRecipeService(setupTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	first := createTestRecipe(t, svc, testRecipeRequest("First"))
	second := createTestRecipe(t, svc, testRecipeRequest("Second"))

	_, err := svc.SaveRecipe(ctx, userID, first.ID)
	require.NoError(t, err)
	_, err = svc.SaveRecipe(ctx, userID, second.ID)
	require.NoError(t, err)

	// Another user's bookmarks stay out of the listing.
	_, err = svc.SaveRecipe(ctx, uuid.New(), first.ID)
	require.NoError(t, err)

	saved, err := svc.UserSavedRecipes(ctx, userID)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	for _, s := range saved {
		assert.Equal(t, userID, s.UserID)
		assert.NotEmpty(t, s.Recipe.Title)
	}
}
