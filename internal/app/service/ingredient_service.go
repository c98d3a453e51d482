package service

import (
	"context"

	"recipe_api/internal/common"
	"recipe_api/internal/domain/model"
	"recipe_api/internal/domain/repository"

	"github.com/google/uuid"
)

type IngredientService struct {
	ingredientRepo repository.IngredientRepository
}

func NewIngredientService(ingredientRepo repository.IngredientRepository) *IngredientService {
	return &IngredientService{ingredientRepo: ingredientRepo}
}

type CreateIngredientRequest struct {
	Name string `json:"name"`
}

func (s *IngredientService) List(ctx context.Context, userID string) ([]model.Ingredient, error) {
	return s.ingredientRepo.ListByUser(ctx, userID)
}

func (s *IngredientService) Create(ctx context.Context, userID string, req CreateIngredientRequest) (*model.Ingredient, error) {
	if req.Name == "" {
		return nil, common.Errorf("name is required: %w", common.ErrValidation)
	}

	ingredient := &model.Ingredient{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   req.Name,
	}
	if err := s.ingredientRepo.Create(ctx, ingredient); err != nil {
		return nil, common.Errorf("failed to create ingredient: %w", err)
	}
	return ingredient, nil
}
