package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"recipe_api/internal/common"
	"recipe_api/internal/common/security"
	"recipe_api/internal/domain/model"
	"recipe_api/internal/domain/repository"
	"recipe_api/internal/platform/tokenstore"

	"github.com/google/uuid"
)

type UserService struct {
	userRepo   repository.UserRepository
	tokens     tokenstore.TokenStore
	bcryptCost int
	tokenTTL   time.Duration
}

func NewUserService(userRepo repository.UserRepository, tokens tokenstore.TokenStore, bcryptCost int, tokenTTL time.Duration) *UserService {
	return &UserService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		tokenTTL:   tokenTTL,
	}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type TokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type UpdateProfileRequest struct {
	Email    *string `json:"email,omitempty"`
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
}

// UserResponse is the self-service view of an account. The staff flags and
// the credential never leave the admin surface.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func userResponse(u *model.User) *UserResponse {
	return &UserResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

// NormalizeEmail lower-cases the whole address, so uniqueness and login
// lookups are case-insensitive by construction.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	email := NormalizeEmail(req.Email)
	if email == "" {
		return nil, common.Errorf("email is required: %w", common.ErrValidation)
	}
	if req.Password == "" {
		return nil, common.Errorf("password is required: %w", common.ErrValidation)
	}

	hashedPassword, err := security.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, common.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Email:          email,
		Name:           req.Name,
		HashedPassword: hashedPassword,
		IsActive:       true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			// The signup form surfaces duplicates as a field error, not 409.
			return nil, common.Errorf("user with this email already exists: %w", common.ErrValidation)
		}
		return nil, common.Errorf("failed to create user: %w", err)
	}
	return userResponse(user), nil
}

// CreateSuperuser creates an account with the staff and superuser flags
// set. Not reachable through the API; used by cmd/createsuperuser.
func (s *UserService) CreateSuperuser(ctx context.Context, email, password, name string) (*model.User, error) {
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return nil, common.Errorf("email is required: %w", common.ErrValidation)
	}
	if password == "" {
		return nil, common.Errorf("password is required: %w", common.ErrValidation)
	}

	hashedPassword, err := security.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, common.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Email:          normalized,
		Name:           name,
		HashedPassword: hashedPassword,
		IsActive:       true,
		IsStaff:        true,
		IsSuperuser:    true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, common.Errorf("failed to create superuser: %w", err)
	}
	return user, nil
}

// IssueToken exchanges credentials for an opaque bearer token. Every
// failure mode renders the same validation error; the token endpoint never
// reveals whether the account exists.
func (s *UserService) IssueToken(ctx context.Context, req TokenRequest) (*TokenResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, common.Errorf("email and password are required: %w", common.ErrValidation)
	}

	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("unable to authenticate with provided credentials: %w", common.ErrValidation)
		}
		return nil, common.Errorf("failed to find user: %w", err)
	}

	if !user.IsActive || !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.Errorf("unable to authenticate with provided credentials: %w", common.ErrValidation)
	}

	token, err := security.GenerateToken()
	if err != nil {
		return nil, common.Errorf("failed to generate token: %w", err)
	}
	if err := s.tokens.Save(ctx, token, user.ID, s.tokenTTL); err != nil {
		return nil, common.Errorf("failed to store token: %w", err)
	}
	return &TokenResponse{Token: token}, nil
}

// InvalidateToken revokes a previously issued token.
func (s *UserService) InvalidateToken(ctx context.Context, token string) error {
	if err := s.tokens.Revoke(ctx, token); err != nil {
		return common.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *UserService) Profile(ctx context.Context, userID string) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return userResponse(user), nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := NormalizeEmail(*req.Email)
		if email == "" {
			return nil, common.Errorf("email must not be empty: %w", common.ErrValidation)
		}
		user.Email = email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Password != nil {
		if *req.Password == "" {
			return nil, common.Errorf("password must not be empty: %w", common.ErrValidation)
		}
		hashedPassword, err := security.HashPassword(*req.Password, s.bcryptCost)
		if err != nil {
			return nil, common.Errorf("failed to hash password: %w", err)
		}
		user.HashedPassword = hashedPassword
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.Errorf("user with this email already exists: %w", common.ErrValidation)
		}
		return nil, common.Errorf("failed to update user: %w", err)
	}
	return userResponse(user), nil
}
