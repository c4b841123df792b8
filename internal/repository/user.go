package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/bianca-8/reload-rage/internal/model"
)

// pqUniqueViolation is the Postgres error code for a unique constraint breach.
const pqUniqueViolation = "23505"

// userRepository implements UserRepository using sqlx
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database. A duplicate username surfaces
// as model.ErrUsernameExists via the unique constraint, which closes the race
// between an existence pre-check and the insert.
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (username, password_hashed, view_count, created_at)
		VALUES ($1, $2, 0, NOW())
		RETURNING id, view_count, created_at
	`

	row := r.db.QueryRowxContext(ctx, query, u.Username, u.PasswordHashed)

	err := row.Scan(&u.ID, &u.ViewCount, &u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return model.ErrUsernameExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, username, password_hashed, view_count, created_at
		FROM users
		WHERE id = $1
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &u, nil
}

// GetByUsername retrieves a user by their username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `
		SELECT id, username, password_hashed, view_count, created_at
		FROM users
		WHERE username = $1
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &u, nil
}

// ExistsByUsername checks if a username is already taken
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, username)
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}

	return exists, nil
}

func (r *userRepository) IncrementViewCount(ctx context.Context, userID int64) error {
	query := `UPDATE users SET view_count = view_count + 1 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to increment view count: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) TopByViewCount(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	query := `
		SELECT username, view_count
		FROM users
		ORDER BY view_count DESC, id ASC
		LIMIT $1
	`

	entries := []model.LeaderboardEntry{}
	err := r.db.SelectContext(ctx, &entries, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}

	return entries, nil
}

func (r *userRepository) SumViewCounts(ctx context.Context) (int64, error) {
	query := `SELECT COALESCE(SUM(view_count), 0) FROM users`

	var sum int64
	err := r.db.GetContext(ctx, &sum, query)
	if err != nil {
		return 0, fmt.Errorf("failed to sum view counts: %w", err)
	}

	return sum, nil
}
