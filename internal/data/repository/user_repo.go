package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.User, error)
	CountAll(ctx context.Context, search string) (int64, error)
	Update(ctx context.Context, user *entity.User) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `id, username, email, first_name, last_name, bio, role,
		       is_superuser, is_active, date_joined, last_login`

func scanUser(row rowScanner) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.Role,
		&user.IsSuperuser,
		&user.IsActive,
		&user.DateJoined,
		&user.LastLogin,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user and fills in the generated id
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (username, email, first_name, last_name, bio, role,
		                   is_superuser, is_active, date_joined)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := ur.db.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
		user.IsSuperuser,
		user.IsActive,
		user.DateJoined,
	).Scan(&user.ID)

	if constraint, ok := uniqueViolation(err); ok {
		return fmt.Errorf("create user %s (%s): %w", user.Username, constraint, ErrDuplicate)
	}
	if err != nil {
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
			zap.String("username", user.Username),
		)
		return fmt.Errorf("create user %s: %w", user.Username, err)
	}

	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(ur.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by ID", zap.Error(err), zap.Int64("user_id", id))
		return nil, fmt.Errorf("find user by ID %d: %w", id, err)
	}

	return user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(ur.db.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}

	return user, nil
}

func (ur *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(ur.db.QueryRow(ctx, query, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by username", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("find user by username %s: %w", username, err)
	}

	return user, nil
}

// FindAll retrieves a page of users, optionally filtered by username substring
func (ur *userRepository) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE ($1 = '' OR username ILIKE $2)
		ORDER BY username, email
		LIMIT $3 OFFSET $4
	`

	rows, err := ur.db.Query(ctx, query, search, likePattern(search), limit, offset)
	if err != nil {
		ur.log.Error("Failed to get all users",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all users limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			ur.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		ur.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate users rows: %w", err)
	}

	return users, nil
}

func (ur *userRepository) CountAll(ctx context.Context, search string) (int64, error) {
	query := `SELECT COUNT(*) FROM users WHERE ($1 = '' OR username ILIKE $2)`

	var count int64
	if err := ur.db.QueryRow(ctx, query, search, likePattern(search)).Scan(&count); err != nil {
		ur.log.Error("Database error counting users", zap.Error(err))
		return 0, fmt.Errorf("count all users: %w", err)
	}

	return count, nil
}

func (ur *userRepository) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET username = $2, email = $3, first_name = $4, last_name = $5,
		    bio = $6, role = $7, is_active = $8
		WHERE id = $1
	`

	result, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
		user.IsActive,
	)

	if constraint, ok := uniqueViolation(err); ok {
		return fmt.Errorf("update user %d (%s): %w", user.ID, constraint, ErrDuplicate)
	}
	if err != nil {
		ur.log.Error("Failed to update user",
			zap.Error(err),
			zap.Int64("user_id", user.ID),
		)
		return fmt.Errorf("update user %d: %w", user.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update user %d: %w", user.ID, ErrNotFound)
	}

	return nil
}

func (ur *userRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	if _, err := ur.db.Exec(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, at); err != nil {
		ur.log.Error("Failed to update last login", zap.Error(err), zap.Int64("user_id", id))
		return fmt.Errorf("update last login for user %d: %w", id, err)
	}
	return nil
}

// Delete removes the user; reviews, comments and codes cascade
func (ur *userRepository) Delete(ctx context.Context, id int64) error {
	result, err := ur.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		ur.log.Error("Failed to delete user", zap.Error(err), zap.Int64("user_id", id))
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete user %d: %w", id, ErrNotFound)
	}

	ur.log.Info("User deleted", zap.Int64("user_id", id))
	return nil
}
