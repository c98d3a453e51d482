package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"recipe_api/internal/common"
	"recipe_api/internal/domain/model"
)

type RecipeRepository interface {
	Create(ctx context.Context, tx *sql.Tx, recipe *model.Recipe) error
	Update(ctx context.Context, tx *sql.Tx, recipe *model.Recipe) error
	FindByIDForUser(ctx context.Context, id, userID string) (*model.Recipe, error)
	ListByUser(ctx context.Context, userID string) ([]model.Recipe, error)
	Delete(ctx context.Context, id, userID string) error

	SetTags(ctx context.Context, tx *sql.Tx, recipeID string, tagIDs []string) error
	GetTagsByRecipeID(ctx context.Context, recipeID string) ([]model.Tag, error)
	SetIngredients(ctx context.Context, tx *sql.Tx, recipeID string, ingredientIDs []string) error
	GetIngredientsByRecipeID(ctx context.Context, recipeID string) ([]model.Ingredient, error)
}

type pgRecipeRepository struct {
	db *sql.DB
}

func NewPgRecipeRepository(db *sql.DB) RecipeRepository {
	return &pgRecipeRepository{db: db}
}

func (r *pgRecipeRepository) Create(ctx context.Context, tx *sql.Tx, recipe *model.Recipe) error {
	query := `INSERT INTO recipes (id, user_id, title, slug, time_minutes, price, link)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, recipe.ID, recipe.UserID, recipe.Title, recipe.Slug, recipe.TimeMinutes, recipe.Price, recipe.Link)
	} else {
		_, err = r.db.ExecContext(ctx, query, recipe.ID, recipe.UserID, recipe.Title, recipe.Slug, recipe.TimeMinutes, recipe.Price, recipe.Link)
	}
	if err != nil {
		return fmt.Errorf("pgRecipeRepository.Create: %w", err)
	}
	return nil
}

func (r *pgRecipeRepository) Update(ctx context.Context, tx *sql.Tx, recipe *model.Recipe) error {
	query := `UPDATE recipes SET
	            title = $1, slug = $2, time_minutes = $3, price = $4, link = $5,
	            updated_at = CURRENT_TIMESTAMP
	          WHERE id = $6 AND user_id = $7`

	var res sql.Result
	var err error
	if tx != nil {
		res, err = tx.ExecContext(ctx, query, recipe.Title, recipe.Slug, recipe.TimeMinutes, recipe.Price, recipe.Link, recipe.ID, recipe.UserID)
	} else {
		res, err = r.db.ExecContext(ctx, query, recipe.Title, recipe.Slug, recipe.TimeMinutes, recipe.Price, recipe.Link, recipe.ID, recipe.UserID)
	}
	if err != nil {
		return fmt.Errorf("pgRecipeRepository.Update: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgRecipeRepository.Update rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgRecipeRepository) FindByIDForUser(ctx context.Context, id, userID string) (*model.Recipe, error) {
	// The ownership predicate is part of the lookup, so another user's
	// recipe is indistinguishable from a missing one.
	query := `SELECT id, user_id, title, slug, time_minutes, price, link, created_at, updated_at
	          FROM recipes WHERE id = $1 AND user_id = $2`

	recipe := &model.Recipe{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&recipe.ID, &recipe.UserID, &recipe.Title, &recipe.Slug,
		&recipe.TimeMinutes, &recipe.Price, &recipe.Link,
		&recipe.CreatedAt, &recipe.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgRecipeRepository.FindByIDForUser: %w", err)
	}
	return recipe, nil
}

func (r *pgRecipeRepository) ListByUser(ctx context.Context, userID string) ([]model.Recipe, error) {
	query := `SELECT id, user_id, title, slug, time_minutes, price, link, created_at, updated_at
	          FROM recipes WHERE user_id = $1 ORDER BY created_at DESC, id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgRecipeRepository.ListByUser query: %w", err)
	}
	defer rows.Close()

	recipes := []model.Recipe{}
	for rows.Next() {
		var rec model.Recipe
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Title, &rec.Slug,
			&rec.TimeMinutes, &rec.Price, &rec.Link, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgRecipeRepository.ListByUser scan: %w", err)
		}
		recipes = append(recipes, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgRecipeRepository.ListByUser rows.Err: %w", err)
	}
	return recipes, nil
}

func (r *pgRecipeRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM recipes WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("pgRecipeRepository.Delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgRecipeRepository.Delete rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// SetTags replaces the recipe's tag association set wholesale. Callers run
// it inside a transaction so readers never see a half-replaced set.
func (r *pgRecipeRepository) SetTags(ctx context.Context, tx *sql.Tx, recipeID string, tagIDs []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_tags WHERE recipe_id = $1`, recipeID); err != nil {
		return fmt.Errorf("pgRecipeRepository.SetTags clear: %w", err)
	}
	if len(tagIDs) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO recipe_tags (recipe_id, tag_id) VALUES ($1, $2)`)
	if err != nil {
		return fmt.Errorf("pgRecipeRepository.SetTags prepare: %w", err)
	}
	defer stmt.Close()

	for _, tagID := range tagIDs {
		if _, err := stmt.ExecContext(ctx, recipeID, tagID); err != nil {
			return fmt.Errorf("pgRecipeRepository.SetTags exec for tag %s: %w", tagID, err)
		}
	}
	return nil
}

func (r *pgRecipeRepository) GetTagsByRecipeID(ctx context.Context, recipeID string) ([]model.Tag, error) {
	query := `SELECT t.id, t.user_id, t.name, t.created_at
	          FROM tags t
	          JOIN recipe_tags rt ON rt.tag_id = t.id
	          WHERE rt.recipe_id = $1 ORDER BY t.name DESC`
	rows, err := r.db.QueryContext(ctx, query, recipeID)
	if err != nil {
		return nil, fmt.Errorf("pgRecipeRepository.GetTagsByRecipeID query: %w", err)
	}
	defer rows.Close()

	tags := []model.Tag{}
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgRecipeRepository.GetTagsByRecipeID scan: %w", err)
		}
		tags = append(tags, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgRecipeRepository.GetTagsByRecipeID rows.Err: %w", err)
	}
	return tags, nil
}

// SetIngredients replaces the recipe's ingredient association set wholesale.
func (r *pgRecipeRepository) SetIngredients(ctx context.Context, tx *sql.Tx, recipeID string, ingredientIDs []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, recipeID); err != nil {
		return fmt.Errorf("pgRecipeRepository.SetIngredients clear: %w", err)
	}
	if len(ingredientIDs) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO recipe_ingredients (recipe_id, ingredient_id) VALUES ($1, $2)`)
	if err != nil {
		return fmt.Errorf("pgRecipeRepository.SetIngredients prepare: %w", err)
	}
	defer stmt.Close()

	for _, ingredientID := range ingredientIDs {
		if _, err := stmt.ExecContext(ctx, recipeID, ingredientID); err != nil {
			return fmt.Errorf("pgRecipeRepository.SetIngredients exec for ingredient %s: %w", ingredientID, err)
		}
	}
	return nil
}

func (r *pgRecipeRepository) GetIngredientsByRecipeID(ctx context.Context, recipeID string) ([]model.Ingredient, error) {
	query := `SELECT i.id, i.user_id, i.name, i.created_at
	          FROM ingredients i
	          JOIN recipe_ingredients ri ON ri.ingredient_id = i.id
	          WHERE ri.recipe_id = $1 ORDER BY i.name DESC`
	rows, err := r.db.QueryContext(ctx, query, recipeID)
	if err != nil {
		return nil, fmt.Errorf("pgRecipeRepository.GetIngredientsByRecipeID query: %w", err)
	}
	defer rows.Close()

	ingredients := []model.Ingredient{}
	for rows.Next() {
		var ing model.Ingredient
		if err := rows.Scan(&ing.ID, &ing.UserID, &ing.Name, &ing.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgRecipeRepository.GetIngredientsByRecipeID scan: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgRecipeRepository.GetIngredientsByRecipeID rows.Err: %w", err)
	}
	return ingredients, nil
}
