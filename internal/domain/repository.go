package domain

import (
	"context"
	"time"
)

// ProfileUpdate carries the optional profile mutations of one update request.
// A nil field means "leave unchanged". When Username is set the repository
// also stamps username_last_changed; all writes happen in one transaction.
type ProfileUpdate struct {
	Username  *string
	AvatarURL *string
	BirthDate *time.Time
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create inserts a new user and fills in ID, CreatedAt and LastSeen.
	// Returns ErrDuplicate when a unique constraint on username, email or
	// phone is violated.
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByPhone(ctx context.Context, phone string) (*User, error)
	// UsernameTaken reports whether any user other than excludeID holds
	// the given username.
	UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error)
	// SetOnline updates the online flag and refreshes last_seen.
	SetOnline(ctx context.Context, id int64, online bool) error
	// UpdateProfile applies the given mutations atomically and returns the
	// fresh row. Returns ErrDuplicate when the new username collides.
	UpdateProfile(ctx context.Context, id int64, p ProfileUpdate) (*User, error)
}

// MessageRepository defines persistence operations for the message ledger.
type MessageRepository interface {
	// Create appends one message and fills in ID and CreatedAt.
	Create(ctx context.Context, m *Message) error
	// ListBetween returns the full bidirectional history between two users,
	// ascending by (created_at, id).
	ListBetween(ctx context.Context, userID, otherUserID int64) ([]*Message, error)
	// MarkConversationRead stamps read_at on every unread partner-to-viewer
	// message. Already-read messages are untouched, so the call is idempotent.
	MarkConversationRead(ctx context.Context, viewerID, partnerID int64) error
	// CountUnreadFrom counts partner-to-viewer messages with read_at IS NULL.
	CountUnreadFrom(ctx context.Context, viewerID, partnerID int64) (int, error)
}

// ConversationRepository derives conversation summaries from the ledger.
type ConversationRepository interface {
	// ListSummaries returns one summary per distinct partner of the viewer,
	// ordered by the representative message timestamp descending. Ties on
	// created_at are broken by the higher message id.
	ListSummaries(ctx context.Context, viewerID int64) ([]*ConversationSummary, error)
}

// RecoveryRepository defines persistence operations for recovery codes.
type RecoveryRepository interface {
	// Create inserts a new code and fills in ID and CreatedAt.
	Create(ctx context.Context, rc *RecoveryCode) error
	// Consume validates the code for the user (unused, unexpired, matching)
	// and, in the same transaction, replaces the user's password hash and
	// marks the code used. Returns ErrInvalidCode when no valid code exists.
	Consume(ctx context.Context, userID int64, code string, newPasswordHash string) error
}
