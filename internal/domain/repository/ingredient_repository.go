package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"recipe_api/internal/domain/model"
)

type IngredientRepository interface {
	Create(ctx context.Context, ingredient *model.Ingredient) error
	ListByUser(ctx context.Context, userID string) ([]model.Ingredient, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Ingredient, error)
}

type pgIngredientRepository struct {
	db *sql.DB
}

func NewPgIngredientRepository(db *sql.DB) IngredientRepository {
	return &pgIngredientRepository{db: db}
}

func (r *pgIngredientRepository) Create(ctx context.Context, ingredient *model.Ingredient) error {
	query := `INSERT INTO ingredients (id, user_id, name) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, ingredient.ID, ingredient.UserID, ingredient.Name)
	if err != nil {
		return fmt.Errorf("pgIngredientRepository.Create: %w", err)
	}
	return nil
}

func (r *pgIngredientRepository) ListByUser(ctx context.Context, userID string) ([]model.Ingredient, error) {
	query := `SELECT id, user_id, name, created_at FROM ingredients
	          WHERE user_id = $1 ORDER BY name DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgIngredientRepository.ListByUser query: %w", err)
	}
	defer rows.Close()

	ingredients := []model.Ingredient{}
	for rows.Next() {
		var ing model.Ingredient
		if err := rows.Scan(&ing.ID, &ing.UserID, &ing.Name, &ing.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgIngredientRepository.ListByUser scan: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgIngredientRepository.ListByUser rows.Err: %w", err)
	}
	return ingredients, nil
}

func (r *pgIngredientRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Ingredient, error) {
	if len(ids) == 0 {
		return []model.Ingredient{}, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT id, user_id, name, created_at FROM ingredients WHERE id IN (%s)`,
		strings.Join(placeholders, ","))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgIngredientRepository.FindByIDs query: %w", err)
	}
	defer rows.Close()

	ingredients := []model.Ingredient{}
	for rows.Next() {
		var ing model.Ingredient
		if err := rows.Scan(&ing.ID, &ing.UserID, &ing.Name, &ing.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgIngredientRepository.FindByIDs scan: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgIngredientRepository.FindByIDs rows.Err: %w", err)
	}
	return ingredients, nil
}
