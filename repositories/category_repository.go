package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"bazaar/config"
	"bazaar/models"
)

type CategoryRepository struct{}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{}
}

const categoryColumns = `id, user_id, name, slug, COALESCE(description, ''), is_active, created_at, updated_at`

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Slug, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) ListByOwner(ctx context.Context, ownerID int) ([]models.Category, error) {
	rows, err := config.DB.Query(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE user_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Slug, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int) (*models.Category, error) {
	return scanCategory(config.DB.QueryRow(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
}

func (r *CategoryRepository) NameExists(ctx context.Context, ownerID int, name string, excludeID int) (bool, error) {
	var count int
	err := config.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM categories WHERE user_id = $1 AND LOWER(name) = LOWER($2) AND id <> $3`,
		ownerID, name, excludeID).Scan(&count)
	return count > 0, err
}

func (r *CategoryRepository) SlugExists(ctx context.Context, ownerID int, slug string, excludeID int) (bool, error) {
	var count int
	err := config.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM categories WHERE user_id = $1 AND slug = $2 AND id <> $3`,
		ownerID, slug, excludeID).Scan(&count)
	return count > 0, err
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (user_id, name, slug, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	now := time.Now()
	return config.DB.QueryRow(ctx, query,
		category.UserID, category.Name, category.Slug, category.Description, category.IsActive, now, now,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
}

func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	_, err := config.DB.Exec(ctx,
		`UPDATE categories SET name = $1, slug = $2, description = $3, is_active = $4, updated_at = $5 WHERE id = $6`,
		category.Name, category.Slug, category.Description, category.IsActive, time.Now(), category.ID)
	return err
}

func (r *CategoryRepository) Delete(ctx context.Context, id int) error {
	_, err := config.DB.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	return err
}

func (r *CategoryRepository) CountProducts(ctx context.Context, categoryID int) (int, error) {
	var count int
	err := config.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE category_id = $1`, categoryID).Scan(&count)
	return count, err
}

func (r *CategoryRepository) ProductIDs(ctx context.Context, categoryID int) ([]int, error) {
	rows, err := config.DB.Query(ctx,
		`SELECT id FROM products WHERE category_id = $1`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
