package domain

import "time"

// User represents an application user.
type User struct {
	ID                  int64      `db:"id" json:"id"`
	Username            string     `db:"username" json:"username"`
	Email               *string    `db:"email" json:"email,omitempty"`
	Phone               *string    `db:"phone" json:"phone,omitempty"`
	PasswordHash        string     `db:"password_hash" json:"-"`
	AvatarInitials      string     `db:"avatar_initials" json:"avatar_initials"`
	AvatarURL           *string    `db:"avatar_url" json:"avatar_url,omitempty"`
	BirthDate           *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Online              bool       `db:"online" json:"online"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	LastSeen            time.Time  `db:"last_seen" json:"last_seen"`
	UsernameLastChanged *time.Time `db:"username_last_changed" json:"username_last_changed,omitempty"`
}

// Message is a directed message between two users. A message carries either
// a text body or a voice reference, never both. Once created it is immutable
// except for ReadAt, which transitions from nil to a timestamp exactly once.
type Message struct {
	ID            int64      `db:"id" json:"id"`
	SenderID      int64      `db:"sender_id" json:"sender_id"`
	ReceiverID    int64      `db:"receiver_id" json:"receiver_id"`
	Text          *string    `db:"message_text" json:"message_text,omitempty"`
	VoiceURL      *string    `db:"voice_url" json:"voice_url,omitempty"`
	VoiceDuration *int       `db:"voice_duration" json:"voice_duration,omitempty"`
	IsVoice       bool       `db:"is_voice" json:"is_voice"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	ReadAt        *time.Time `db:"read_at" json:"read_at,omitempty"`
}

// ConversationSummary is one row per conversation partner of a viewing user:
// the partner's public profile fields, the latest message exchanged with that
// partner, and how many partner-to-viewer messages are still unread. It is
// derived fresh on every query and never persisted.
type ConversationSummary struct {
	PartnerID          int64     `json:"partner_id"`
	PartnerUsername    string    `json:"partner_username"`
	PartnerInitials    string    `json:"partner_initials"`
	PartnerAvatarURL   *string   `json:"partner_avatar_url,omitempty"`
	PartnerOnline      bool      `json:"partner_online"`
	LastMessage        *string   `json:"last_message,omitempty"`
	LastMessageIsVoice bool      `json:"last_message_is_voice"`
	LastMessageAt      time.Time `json:"last_message_time"`
	UnreadCount        int       `json:"unread_count"`
}

// RecoveryCode is a single-use password reset credential bound to a user.
// It is valid only while Used is false and the current time is before
// ExpiresAt; once consumed it stays in the table but is permanently invalid.
type RecoveryCode struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Code      string    `db:"code"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
	Used      bool      `db:"used"`
}
