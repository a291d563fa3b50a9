package repository

import (
	"context"
	"fmt"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
)

const userColumns = `id, email, name, password_hash, avatar_url, role, status, created_at, updated_at`

// CreateUser inserts a user. A taken email yields ErrDuplicateEmail.
func (r *PostgresRepository) CreateUser(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (id, email, name, password_hash, avatar_url, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.Email, u.Name, u.PasswordHash, u.AvatarURL, string(u.Role), string(u.Status), u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByEmail looks a user up by lower-cased email
func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
}

// GetUserByID looks a user up by id
func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return r.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (r *PostgresRepository) getUser(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User
	if err := r.db.GetContext(ctx, &u, query, arg); err != nil {
		if isMissing(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// ListUsers pages through users, optionally filtered by a name/email substring
func (r *PostgresRepository) ListUsers(ctx context.Context, q string, page, pageSize int) ([]model.User, int, error) {
	where := "TRUE"
	args := []any{}
	if q != "" {
		args = append(args, "%"+likeEscaper.Replace(q)+"%")
		where = "(name ILIKE $1 OR email ILIKE $1)"
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM users WHERE "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM users WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		userColumns, where, len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	users := []model.User{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// UpdateUserAccess writes role and status
func (r *PostgresRepository) UpdateUserAccess(ctx context.Context, id string, role model.Role, status model.UserStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET role = $2, status = $3, updated_at = $4 WHERE id = $1`, id, string(role), string(status), now())
	if err != nil {
		if isInvalidInput(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return expectAffected(res)
}

// CountUsers counts all accounts
func (r *PostgresRepository) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}
