package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"recipe_api/internal/domain/model"
)

type TagRepository interface {
	Create(ctx context.Context, tag *model.Tag) error
	ListByUser(ctx context.Context, userID string) ([]model.Tag, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Tag, error)
}

type pgTagRepository struct {
	db *sql.DB
}

func NewPgTagRepository(db *sql.DB) TagRepository {
	return &pgTagRepository{db: db}
}

func (r *pgTagRepository) Create(ctx context.Context, tag *model.Tag) error {
	query := `INSERT INTO tags (id, user_id, name) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, tag.ID, tag.UserID, tag.Name)
	if err != nil {
		return fmt.Errorf("pgTagRepository.Create: %w", err)
	}
	return nil
}

func (r *pgTagRepository) ListByUser(ctx context.Context, userID string) ([]model.Tag, error) {
	query := `SELECT id, user_id, name, created_at FROM tags
	          WHERE user_id = $1 ORDER BY name DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgTagRepository.ListByUser query: %w", err)
	}
	defer rows.Close()

	tags := []model.Tag{}
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgTagRepository.ListByUser scan: %w", err)
		}
		tags = append(tags, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgTagRepository.ListByUser rows.Err: %w", err)
	}
	return tags, nil
}

func (r *pgTagRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Tag, error) {
	if len(ids) == 0 {
		return []model.Tag{}, nil
	}
	// Placeholders like ($1, $2, $3)
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT id, user_id, name, created_at FROM tags WHERE id IN (%s)`,
		strings.Join(placeholders, ","))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgTagRepository.FindByIDs query: %w", err)
	}
	defer rows.Close()

	tags := []model.Tag{}
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgTagRepository.FindByIDs scan: %w", err)
		}
		tags = append(tags, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgTagRepository.FindByIDs rows.Err: %w", err)
	}
	return tags, nil
}
