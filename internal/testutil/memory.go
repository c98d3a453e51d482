package testutil

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"recipe_api/internal/common"
	"recipe_api/internal/domain/model"
)

// MemoryUserRepository implements repository.UserRepository.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]model.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: map[string]model.User{}}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return common.ErrConflict
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	found := u
	return &found, nil
}

func (r *MemoryUserRepository) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return common.ErrNotFound
	}
	for id, u := range r.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return common.ErrConflict
		}
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) List(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

// MemoryTagRepository implements repository.TagRepository.
type MemoryTagRepository struct {
	mu   sync.Mutex
	tags map[string]model.Tag
}

func NewMemoryTagRepository() *MemoryTagRepository {
	return &MemoryTagRepository{tags: map[string]model.Tag{}}
}

func (r *MemoryTagRepository) Create(_ context.Context, tag *model.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tag.CreatedAt = time.Now()
	r.tags[tag.ID] = *tag
	return nil
}

func (r *MemoryTagRepository) ListByUser(_ context.Context, userID string) ([]model.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tags := []model.Tag{}
	for _, t := range r.tags {
		if t.UserID == userID {
			tags = append(tags, t)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name > tags[j].Name })
	return tags, nil
}

func (r *MemoryTagRepository) FindByIDs(_ context.Context, ids []string) ([]model.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tags := []model.Tag{}
	for _, id := range ids {
		if t, ok := r.tags[id]; ok {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

// MemoryIngredientRepository implements repository.IngredientRepository.
type MemoryIngredientRepository struct {
	mu          sync.Mutex
	ingredients map[string]model.Ingredient
}

func NewMemoryIngredientRepository() *MemoryIngredientRepository {
	return &MemoryIngredientRepository{ingredients: map[string]model.Ingredient{}}
}

func (r *MemoryIngredientRepository) Create(_ context.Context, ingredient *model.Ingredient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ingredient.CreatedAt = time.Now()
	r.ingredients[ingredient.ID] = *ingredient
	return nil
}

func (r *MemoryIngredientRepository) ListByUser(_ context.Context, userID string) ([]model.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ingredients := []model.Ingredient{}
	for _, ing := range r.ingredients {
		if ing.UserID == userID {
			ingredients = append(ingredients, ing)
		}
	}
	sort.Slice(ingredients, func(i, j int) bool { return ingredients[i].Name > ingredients[j].Name })
	return ingredients, nil
}

func (r *MemoryIngredientRepository) FindByIDs(_ context.Context, ids []string) ([]model.Ingredient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ingredients := []model.Ingredient{}
	for _, id := range ids {
		if ing, ok := r.ingredients[id]; ok {
			ingredients = append(ingredients, ing)
		}
	}
	return ingredients, nil
}

// MemoryRecipeRepository implements repository.RecipeRepository. Association
// lookups resolve against the tag and ingredient repositories it was built
// with, mirroring the join tables.
type MemoryRecipeRepository struct {
	mu              sync.Mutex
	recipes         map[string]model.Recipe
	recipeTags      map[string][]string
	recipeIngreds   map[string][]string
	tagRepo         *MemoryTagRepository
	ingredientRepo  *MemoryIngredientRepository
	creationCounter int
}

func NewMemoryRecipeRepository(tagRepo *MemoryTagRepository, ingredientRepo *MemoryIngredientRepository) *MemoryRecipeRepository {
	return &MemoryRecipeRepository{
		recipes:        map[string]model.Recipe{},
		recipeTags:     map[string][]string{},
		recipeIngreds:  map[string][]string{},
		tagRepo:        tagRepo,
		ingredientRepo: ingredientRepo,
	}
}

func (r *MemoryRecipeRepository) Create(_ context.Context, _ *sql.Tx, recipe *model.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creationCounter++
	// Spread creation times so list ordering is deterministic.
	recipe.CreatedAt = time.Now().Add(time.Duration(r.creationCounter) * time.Millisecond)
	recipe.UpdatedAt = recipe.CreatedAt
	r.recipes[recipe.ID] = *recipe
	return nil
}

func (r *MemoryRecipeRepository) Update(_ context.Context, _ *sql.Tx, recipe *model.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.recipes[recipe.ID]
	if !ok || existing.UserID != recipe.UserID {
		return common.ErrNotFound
	}
	recipe.CreatedAt = existing.CreatedAt
	recipe.UpdatedAt = time.Now()
	r.recipes[recipe.ID] = *recipe
	return nil
}

func (r *MemoryRecipeRepository) FindByIDForUser(_ context.Context, id, userID string) (*model.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recipes[id]
	if !ok || rec.UserID != userID {
		return nil, common.ErrNotFound
	}
	found := rec
	return &found, nil
}

func (r *MemoryRecipeRepository) ListByUser(_ context.Context, userID string) ([]model.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	recipes := []model.Recipe{}
	for _, rec := range r.recipes {
		if rec.UserID == userID {
			recipes = append(recipes, rec)
		}
	}
	sort.Slice(recipes, func(i, j int) bool { return recipes[i].CreatedAt.After(recipes[j].CreatedAt) })
	return recipes, nil
}

func (r *MemoryRecipeRepository) Delete(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recipes[id]
	if !ok || rec.UserID != userID {
		return common.ErrNotFound
	}
	delete(r.recipes, id)
	delete(r.recipeTags, id)
	delete(r.recipeIngreds, id)
	return nil
}

func (r *MemoryRecipeRepository) SetTags(_ context.Context, _ *sql.Tx, recipeID string, tagIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recipeTags[recipeID] = append([]string{}, tagIDs...)
	return nil
}

func (r *MemoryRecipeRepository) GetTagsByRecipeID(ctx context.Context, recipeID string) ([]model.Tag, error) {
	r.mu.Lock()
	ids := append([]string{}, r.recipeTags[recipeID]...)
	r.mu.Unlock()
	tags, err := r.tagRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name > tags[j].Name })
	return tags, nil
}

func (r *MemoryRecipeRepository) SetIngredients(_ context.Context, _ *sql.Tx, recipeID string, ingredientIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recipeIngreds[recipeID] = append([]string{}, ingredientIDs...)
	return nil
}

func (r *MemoryRecipeRepository) GetIngredientsByRecipeID(ctx context.Context, recipeID string) ([]model.Ingredient, error) {
	r.mu.Lock()
	ids := append([]string{}, r.recipeIngreds[recipeID]...)
	r.mu.Unlock()
	ingredients, err := r.ingredientRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	sort.Slice(ingredients, func(i, j int) bool { return ingredients[i].Name > ingredients[j].Name })
	return ingredients, nil
}

// MemoryTokenStore implements tokenstore.TokenStore without expiry handling.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: map[string]string{}}
}

func (s *MemoryTokenStore) Save(_ context.Context, token, userID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = userID
	return nil
}

func (s *MemoryTokenStore) UserID(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.tokens[token]
	if !ok {
		return "", common.ErrUnauthorized
	}
	return userID, nil
}

func (s *MemoryTokenStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}
