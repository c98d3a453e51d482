package service

import (
	"context"

	"recipe_api/internal/common"
	"recipe_api/internal/domain/model"
	"recipe_api/internal/domain/repository"

	"github.com/google/uuid"
)

type TagService struct {
	tagRepo repository.TagRepository
}

func NewTagService(tagRepo repository.TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}

type CreateTagRequest struct {
	Name string `json:"name"`
}

// List returns the caller's tags only, name-descending.
func (s *TagService) List(ctx context.Context, userID string) ([]model.Tag, error) {
	return s.tagRepo.ListByUser(ctx, userID)
}

func (s *TagService) Create(ctx context.Context, userID string, req CreateTagRequest) (*model.Tag, error) {
	if req.Name == "" {
		return nil, common.Errorf("name is required: %w", common.ErrValidation)
	}

	tag := &model.Tag{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   req.Name,
	}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, common.Errorf("failed to create tag: %w", err)
	}
	return tag, nil
}
