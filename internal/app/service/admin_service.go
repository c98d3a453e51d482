package service

import (
	"context"

	"recipe_api/internal/common"
	"recipe_api/internal/domain/model"
	"recipe_api/internal/domain/repository"
)

// AdminService backs the staff-only record browser. It is not part of the
// core API contract.
type AdminService struct {
	userRepo repository.UserRepository
}

func NewAdminService(userRepo repository.UserRepository) *AdminService {
	return &AdminService{userRepo: userRepo}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

func (s *AdminService) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// SetUserActive toggles the account without touching credentials;
// deactivation is the admin-side kill switch for a leaked account.
func (s *AdminService) SetUserActive(ctx context.Context, id string, active bool) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.IsActive = active
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, common.Errorf("failed to update user: %w", err)
	}
	return user, nil
}
