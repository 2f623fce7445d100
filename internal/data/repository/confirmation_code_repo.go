package repository

import (
	"context"
	"fmt"

	"yamdb/internal/data/entity"
	"yamdb/pkg/database"

	"go.uber.org/zap"
)

type ConfirmationCodeRepository interface {
	Create(ctx context.Context, code *entity.ConfirmationCode) error
	FindActiveByUser(ctx context.Context, userID int64, limit int) ([]*entity.ConfirmationCode, error)
	MarkUsed(ctx context.Context, id int64) error
	RevokeAllForUser(ctx context.Context, userID int64) error
}

type confirmationCodeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewConfirmationCodeRepository(db database.PgxIface, log *zap.Logger) ConfirmationCodeRepository {
	return &confirmationCodeRepository{
		db:  db,
		log: log.With(zap.String("repository", "confirmation_code")),
	}
}

func (r *confirmationCodeRepository) Create(ctx context.Context, code *entity.ConfirmationCode) error {
	query := `
		INSERT INTO confirmation_codes (user_id, code_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		code.UserID,
		code.CodeHash,
		code.ExpiresAt,
		code.CreatedAt,
	).Scan(&code.ID)

	if err != nil {
		r.log.Error("Failed to create confirmation code",
			zap.Error(err),
			zap.Int64("user_id", code.UserID),
		)
		return fmt.Errorf("create confirmation code for user %d: %w", code.UserID, err)
	}

	return nil
}

// FindActiveByUser returns unused, unexpired codes, newest first
func (r *confirmationCodeRepository) FindActiveByUser(ctx context.Context, userID int64, limit int) ([]*entity.ConfirmationCode, error) {
	query := `
		SELECT id, user_id, code_hash, expires_at, used_at, created_at
		FROM confirmation_codes
		WHERE user_id = $1
		  AND used_at IS NULL
		  AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		r.log.Error("Failed to find active confirmation codes",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return nil, fmt.Errorf("find active codes for user %d: %w", userID, err)
	}
	defer rows.Close()

	var codes []*entity.ConfirmationCode
	for rows.Next() {
		var code entity.ConfirmationCode
		if err := rows.Scan(
			&code.ID,
			&code.UserID,
			&code.CodeHash,
			&code.ExpiresAt,
			&code.UsedAt,
			&code.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan confirmation code row: %w", err)
		}
		codes = append(codes, &code)
	}

	return codes, rows.Err()
}

// MarkUsed consumes a code; a code already consumed reports ErrNotFound
func (r *confirmationCodeRepository) MarkUsed(ctx context.Context, id int64) error {
	query := `UPDATE confirmation_codes SET used_at = NOW() WHERE id = $1 AND used_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to mark confirmation code as used",
			zap.Error(err),
			zap.Int64("code_id", id),
		)
		return fmt.Errorf("mark code %d as used: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("mark code %d as used: %w", id, ErrNotFound)
	}

	return nil
}

func (r *confirmationCodeRepository) RevokeAllForUser(ctx context.Context, userID int64) error {
	query := `UPDATE confirmation_codes SET used_at = NOW() WHERE user_id = $1 AND used_at IS NULL`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		r.log.Error("Failed to revoke confirmation codes",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return fmt.Errorf("revoke codes for user %d: %w", userID, err)
	}

	return nil
}
