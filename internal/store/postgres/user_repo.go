package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"dmchat/internal/domain"
)

const userColumns = `id, username, email, phone, password_hash, avatar_initials,
	avatar_url, birth_date, online, created_at, last_seen, username_last_changed`

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, phone, password_hash, avatar_initials, online, created_at, last_seen)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, last_seen
	`, u.Username, u.Email, u.Phone, u.PasswordHash, u.AvatarInitials, u.Online,
	).Scan(&u.ID, &u.CreatedAt, &u.LastSeen)
	if err != nil {
		return fmt.Errorf("insert user: %w", mapConstraintErr(err))
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.scanUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.scanUser(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepo) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.scanUser(ctx, `SELECT `+userColumns+` FROM users WHERE phone = $1`, phone)
}

func (r *UserRepo) UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 AND id != $2)`,
		username, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return exists, nil
}

func (r *UserRepo) SetOnline(ctx context.Context, id int64, online bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET online=$1, last_seen=NOW() WHERE id=$2`,
		online, id,
	)
	return err
}

// UpdateProfile applies the requested mutations in one transaction and
// returns the fresh row. The unique index on username remains the source of
// truth for collisions: a race that slips past the service pre-check still
// surfaces as ErrDuplicate here.
func (r *UserRepo) UpdateProfile(ctx context.Context, id int64, p domain.ProfileUpdate) (*domain.User, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if p.Username != nil {
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET username=$1, username_last_changed=NOW() WHERE id=$2`,
			*p.Username, id,
		); err != nil {
			return nil, fmt.Errorf("update username: %w", mapConstraintErr(err))
		}
	}
	if p.AvatarURL != nil {
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET avatar_url=$1 WHERE id=$2`, *p.AvatarURL, id,
		); err != nil {
			return nil, fmt.Errorf("update avatar: %w", err)
		}
	}
	if p.BirthDate != nil {
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET birth_date=$1 WHERE id=$2`, *p.BirthDate, id,
		); err != nil {
			return nil, fmt.Errorf("update birth date: %w", err)
		}
	}

	u := &domain.User{}
	if err := scanUserRow(tx.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
	), u); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit profile update: %w", err)
	}
	return u, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserRow(row rowScanner, u *domain.User) error {
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.Phone, &u.PasswordHash, &u.AvatarInitials,
		&u.AvatarURL, &u.BirthDate, &u.Online, &u.CreatedAt, &u.LastSeen, &u.UsernameLastChanged,
	)
	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("scan user: %w", err)
	}
	return nil
}

func (r *UserRepo) scanUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	u := &domain.User{}
	if err := scanUserRow(r.db.QueryRowContext(ctx, query, args...), u); err != nil {
		return nil, err
	}
	return u, nil
}
