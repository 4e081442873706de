package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"dmchat/internal/domain"
)

type RecoveryRepo struct {
	db *sql.DB
}

func NewRecoveryRepo(db *sql.DB) *RecoveryRepo {
	return &RecoveryRepo{db: db}
}

var _ domain.RecoveryRepository = (*RecoveryRepo)(nil)

func (r *RecoveryRepo) Create(ctx context.Context, rc *domain.RecoveryCode) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO recovery_codes (user_id, code, created_at, expires_at, used)
		VALUES ($1, $2, NOW(), $3, FALSE)
		RETURNING id, created_at
	`, rc.UserID, rc.Code, rc.ExpiresAt).Scan(&rc.ID, &rc.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert recovery code: %w", err)
	}
	return nil
}

// Consume looks up a matching, unused, unexpired code and in the same
// transaction replaces the user's password hash and marks the code used.
// Either both effects commit or neither does.
func (r *RecoveryRepo) Consume(ctx context.Context, userID int64, code string, newPasswordHash string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset tx: %w", err)
	}
	defer tx.Rollback()

	var codeID int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM recovery_codes
		WHERE user_id = $1 AND code = $2 AND used = FALSE AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
		FOR UPDATE
	`, userID, code).Scan(&codeID)
	if err == sql.ErrNoRows {
		return domain.ErrInvalidCode
	}
	if err != nil {
		return fmt.Errorf("find recovery code: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET password_hash = $1 WHERE id = $2`, newPasswordHash, userID,
	); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE recovery_codes SET used = TRUE WHERE id = $1`, codeID,
	); err != nil {
		return fmt.Errorf("mark code used: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset tx: %w", err)
	}
	return nil
}
