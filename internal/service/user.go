package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/platefinder/platefinder-backend/internal/models"
	"github.com/platefinder/platefinder-backend/internal/types"
)

// validDietaryRestrictions is the closed set a profile may carry. Anything
// outside this list is rejected before touching the database.
var validDietaryRestrictions = []string{
	"gluten-free",
	"dairy-free",
	"vegan",
	"vegetarian",
	"nut-free",
	"soy-free",
	"egg-free",
	"fish-free",
	"shellfish-free",
	"low-carb",
	"keto",
	"paleo",
	"whole30",
	"low-sodium",
	"sugar-free",
}

// UserService handles profile reads and writes.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new UserService instance
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// GetUserProfile fetches a profile by user ID.
func (s *UserService) GetUserProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserProfile applies a partial profile update. A nil DisplayName or
// nil DietaryRestrictions slice leaves that field untouched.
func (s *UserService) UpdateUserProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.User, error) {
	updates := map[string]interface{}{}

	if req.DisplayName != nil {
		if len(*req.DisplayName) > 100 {
			return nil, types.ValidationError("Display name cannot exceed 100 characters")
		}
		updates["display_name"] = *req.DisplayName
	}
	if req.DietaryRestrictions != nil {
		if !s.ValidateDietaryRestrictions(req.DietaryRestrictions) {
			return nil, types.ValidationError("Invalid dietary restriction provided. Please select from the available options.")
		}
		updates["dietary_restrictions"] = pq.StringArray(req.DietaryRestrictions)
	}

	if len(updates) > 0 {
		result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return s.GetUserProfile(ctx, userID)
}

// DeleteUserProfile removes the account and everything hanging off it.
func (s *UserService) DeleteUserProfile(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.SavedRecipe{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", userID).Delete(&models.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ValidateDietaryRestrictions reports whether every entry is on the
// allow-list. An empty slice is valid.
func (s *UserService) ValidateDietaryRestrictions(restrictions []string) bool {
	for _, r := range restrictions {
		found := false
		for _, valid := range validDietaryRestrictions {
			if r == valid {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ValidDietaryRestrictions returns a copy of the allow-list.
func (s *UserService) ValidDietaryRestrictions() []string {
	out := make([]string, len(validDietaryRestrictions))
	copy(out, validDietaryRestrictions)
	return out
}
