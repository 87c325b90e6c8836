package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/platefinder/platefinder-backend/config"
	"github.com/platefinder/platefinder-backend/internal/types"
)

// MaxImageSize is the largest accepted upload, 5 MB.
const MaxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// ImageService uploads recipe images to S3 and hands back public URLs.
type ImageService struct {
	storage *config.S3Config
}

// NewImageService creates a new ImageService instance
func NewImageService(storage *config.S3Config) *ImageService {
	return &ImageService{storage: storage}
}

// UploadRecipeImage stores the image under a key scoped to the recipe and
// returns the public URL.
func (s *ImageService) UploadRecipeImage(ctx context.Context, recipeID uuid.UUID, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", types.ValidationError("Image file is required")
	}
	if len(data) > MaxImageSize {
		return "", types.ValidationError("Image must be smaller than 5MB")
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", types.ValidationError("Image must be a JPEG, PNG or WebP file")
	}

	key := fmt.Sprintf("recipe-images/%s/%s.%s", recipeID, uuid.New(), ext)
	return s.storage.UploadObject(ctx, key, data, contentType)
}
