package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"bazaar/config"
	"bazaar/models"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

const userColumns = `id, name, username, email, password, COALESCE(whatsapp, ''), is_admin, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Password, &u.Whatsapp, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, username, email, password, whatsapp, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, false, $6, $7)
		RETURNING id, created_at, updated_at
	`
	now := time.Now()
	return config.DB.QueryRow(ctx, query,
		user.Name, user.Username, user.Email, user.Password, user.Whatsapp, now, now,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (*models.User, error) {
	return scanUser(config.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(config.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(config.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (r *UserRepository) EmailOrUsernameExists(ctx context.Context, email, username string) (bool, error) {
	var count int
	err := config.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE email = $1 OR username = $2`, email, username).Scan(&count)
	return count > 0, err
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int, name, whatsapp string) error {
	_, err := config.DB.Exec(ctx,
		`UPDATE users SET name = $1, whatsapp = $2, updated_at = $3 WHERE id = $4`,
		name, whatsapp, time.Now(), id)
	return err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int, hash string) error {
	_, err := config.DB.Exec(ctx,
		`UPDATE users SET password = $1, updated_at = $2 WHERE id = $3`,
		hash, time.Now(), id)
	return err
}
