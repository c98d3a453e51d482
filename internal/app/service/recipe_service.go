package service

import (
	"context"
	"database/sql"

	"recipe_api/internal/common"
	"recipe_api/internal/domain/model"
	"recipe_api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

type RecipeService struct {
	recipeRepo     repository.RecipeRepository
	tagRepo        repository.TagRepository
	ingredientRepo repository.IngredientRepository
	db             *sql.DB // For transactions
}

func NewRecipeService(
	recipeRepo repository.RecipeRepository,
	tagRepo repository.TagRepository,
	ingredientRepo repository.IngredientRepository,
	db *sql.DB,
) *RecipeService {
	return &RecipeService{
		recipeRepo:     recipeRepo,
		tagRepo:        tagRepo,
		ingredientRepo: ingredientRepo,
		db:             db,
	}
}

type CreateRecipeRequest struct {
	Title         string           `json:"title"`
	TimeMinutes   *int             `json:"time_minutes"`
	Price         *decimal.Decimal `json:"price"`
	Link          string           `json:"link"`
	TagIDs        []string         `json:"tags"`
	IngredientIDs []string         `json:"ingredients"`
}

type UpdateRecipeRequest struct {
	Title         *string          `json:"title,omitempty"`
	TimeMinutes   *int             `json:"time_minutes,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	Link          *string          `json:"link,omitempty"`
	TagIDs        *[]string        `json:"tags,omitempty"`
	IngredientIDs *[]string        `json:"ingredients,omitempty"`
}

// RecipeSummary is the thin list representation: relations as id lists only.
type RecipeSummary struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Slug          string          `json:"slug"`
	TimeMinutes   int             `json:"time_minutes"`
	Price         decimal.Decimal `json:"price"`
	Link          string          `json:"link"`
	TagIDs        []string        `json:"tags"`
	IngredientIDs []string        `json:"ingredients"`
}

// RecipeDetail is the expanded single-item representation: relations as
// full id+name objects. Callers pay the expansion cost only here.
type RecipeDetail struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Slug        string             `json:"slug"`
	TimeMinutes int                `json:"time_minutes"`
	Price       decimal.Decimal    `json:"price"`
	Link        string             `json:"link"`
	Tags        []model.Tag        `json:"tags"`
	Ingredients []model.Ingredient `json:"ingredients"`
}

// SummarizeRecipe and DetailRecipe are the two render paths; each is a pure
// mapping from a loaded record to its wire shape.
func SummarizeRecipe(r *model.Recipe, tags []model.Tag, ingredients []model.Ingredient) RecipeSummary {
	tagIDs := make([]string, 0, len(tags))
	for _, t := range tags {
		tagIDs = append(tagIDs, t.ID)
	}
	ingredientIDs := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		ingredientIDs = append(ingredientIDs, ing.ID)
	}
	return RecipeSummary{
		ID:            r.ID,
		Title:         r.Title,
		Slug:          r.Slug,
		TimeMinutes:   r.TimeMinutes,
		Price:         r.Price,
		Link:          r.Link,
		TagIDs:        tagIDs,
		IngredientIDs: ingredientIDs,
	}
}

func DetailRecipe(r *model.Recipe, tags []model.Tag, ingredients []model.Ingredient) RecipeDetail {
	return RecipeDetail{
		ID:          r.ID,
		Title:       r.Title,
		Slug:        r.Slug,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Tags:        tags,
		Ingredients: ingredients,
	}
}

func (s *RecipeService) List(ctx context.Context, userID string) ([]RecipeSummary, error) {
	recipes, err := s.recipeRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]RecipeSummary, 0, len(recipes))
	// Relations are loaded per recipe (could be optimized with a single
	// join over all listed ids).
	for i := range recipes {
		tags, err := s.recipeRepo.GetTagsByRecipeID(ctx, recipes[i].ID)
		if err != nil {
			return nil, err
		}
		ingredients, err := s.recipeRepo.GetIngredientsByRecipeID(ctx, recipes[i].ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, SummarizeRecipe(&recipes[i], tags, ingredients))
	}
	return summaries, nil
}

func (s *RecipeService) Get(ctx context.Context, userID, recipeID string) (*RecipeDetail, error) {
	recipe, err := s.recipeRepo.FindByIDForUser(ctx, recipeID, userID)
	if err != nil {
		return nil, err // common.ErrNotFound covers both absent and foreign rows
	}
	return s.loadDetail(ctx, recipe)
}

func (s *RecipeService) loadDetail(ctx context.Context, recipe *model.Recipe) (*RecipeDetail, error) {
	tags, err := s.recipeRepo.GetTagsByRecipeID(ctx, recipe.ID)
	if err != nil {
		return nil, err
	}
	ingredients, err := s.recipeRepo.GetIngredientsByRecipeID(ctx, recipe.ID)
	if err != nil {
		return nil, err
	}
	detail := DetailRecipe(recipe, tags, ingredients)
	return &detail, nil
}

func (s *RecipeService) Create(ctx context.Context, userID string, req CreateRecipeRequest) (*RecipeDetail, error) {
	if req.Title == "" {
		return nil, common.Errorf("title is required: %w", common.ErrValidation)
	}
	if req.TimeMinutes == nil || *req.TimeMinutes < 0 {
		return nil, common.Errorf("time_minutes must be a non-negative integer: %w", common.ErrValidation)
	}
	if req.Price == nil || req.Price.IsNegative() {
		return nil, common.Errorf("price must be a non-negative decimal: %w", common.ErrValidation)
	}

	if err := s.checkTagIDs(ctx, req.TagIDs); err != nil {
		return nil, err
	}
	if err := s.checkIngredientIDs(ctx, req.IngredientIDs); err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       req.Title,
		Slug:        slug.Make(req.Title),
		TimeMinutes: *req.TimeMinutes,
		Price:       *req.Price,
		Link:        req.Link,
	}

	// Recipe row and both association sets commit together.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	if err := s.recipeRepo.Create(ctx, tx, recipe); err != nil {
		return nil, common.Errorf("failed to create recipe: %w", err)
	}
	if err := s.recipeRepo.SetTags(ctx, tx, recipe.ID, req.TagIDs); err != nil {
		return nil, common.Errorf("failed to set recipe tags: %w", err)
	}
	if err := s.recipeRepo.SetIngredients(ctx, tx, recipe.ID, req.IngredientIDs); err != nil {
		return nil, common.Errorf("failed to set recipe ingredients: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	return s.loadDetail(ctx, recipe)
}

// Update mutates scalar fields and, when association lists are supplied,
// replaces those sets wholesale. partial=false is PUT: the scalar fields
// are mandatory and absent association lists clear the sets.
func (s *RecipeService) Update(ctx context.Context, userID, recipeID string, req UpdateRecipeRequest, partial bool) (*RecipeDetail, error) {
	recipe, err := s.recipeRepo.FindByIDForUser(ctx, recipeID, userID)
	if err != nil {
		return nil, err
	}

	if !partial && (req.Title == nil || req.TimeMinutes == nil || req.Price == nil) {
		return nil, common.Errorf("title, time_minutes and price are required: %w", common.ErrValidation)
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, common.Errorf("title must not be empty: %w", common.ErrValidation)
		}
		recipe.Title = *req.Title
		recipe.Slug = slug.Make(*req.Title)
	}
	if req.TimeMinutes != nil {
		if *req.TimeMinutes < 0 {
			return nil, common.Errorf("time_minutes must be a non-negative integer: %w", common.ErrValidation)
		}
		recipe.TimeMinutes = *req.TimeMinutes
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, common.Errorf("price must be a non-negative decimal: %w", common.ErrValidation)
		}
		recipe.Price = *req.Price
	}
	if req.Link != nil {
		recipe.Link = *req.Link
	}

	setTags := req.TagIDs != nil || !partial
	setIngredients := req.IngredientIDs != nil || !partial
	var tagIDs, ingredientIDs []string
	if req.TagIDs != nil {
		tagIDs = *req.TagIDs
	}
	if req.IngredientIDs != nil {
		ingredientIDs = *req.IngredientIDs
	}

	if setTags {
		if err := s.checkTagIDs(ctx, tagIDs); err != nil {
			return nil, err
		}
	}
	if setIngredients {
		if err := s.checkIngredientIDs(ctx, ingredientIDs); err != nil {
			return nil, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.recipeRepo.Update(ctx, tx, recipe); err != nil {
		return nil, common.Errorf("failed to update recipe: %w", err)
	}
	if setTags {
		if err := s.recipeRepo.SetTags(ctx, tx, recipe.ID, tagIDs); err != nil {
			return nil, common.Errorf("failed to set recipe tags: %w", err)
		}
	}
	if setIngredients {
		if err := s.recipeRepo.SetIngredients(ctx, tx, recipe.ID, ingredientIDs); err != nil {
			return nil, common.Errorf("failed to set recipe ingredients: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	return s.loadDetail(ctx, recipe)
}

func (s *RecipeService) Delete(ctx context.Context, userID, recipeID string) error {
	return s.recipeRepo.Delete(ctx, recipeID, userID)
}

// checkTagIDs requires every referenced tag to exist. Existence is the only
// constraint; association does not require same-owner tags.
func (s *RecipeService) checkTagIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	unique := dedupe(ids)
	tags, err := s.tagRepo.FindByIDs(ctx, unique)
	if err != nil {
		return err
	}
	if len(tags) != len(unique) {
		return common.Errorf("one or more tag ids do not exist: %w", common.ErrValidation)
	}
	return nil
}

func (s *RecipeService) checkIngredientIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	unique := dedupe(ids)
	ingredients, err := s.ingredientRepo.FindByIDs(ctx, unique)
	if err != nil {
		return err
	}
	if len(ingredients) != len(unique) {
		return common.Errorf("one or more ingredient ids do not exist: %w", common.ErrValidation)
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
