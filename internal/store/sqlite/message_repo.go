package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dmchat/internal/domain"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

var _ domain.MessageRepository = (*MessageRepo)(nil)

func (r *MessageRepo) Create(ctx context.Context, m *domain.Message) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (sender_id, receiver_id, message_text, voice_url, voice_duration, is_voice, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, m.SenderID, m.ReceiverID, m.Text, m.VoiceURL, m.VoiceDuration, m.IsVoice, fmtTime(now))
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	m.ID = id
	m.CreatedAt = now
	return nil
}

func (r *MessageRepo) ListBetween(ctx context.Context, userID, otherUserID int64) ([]*domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sender_id, receiver_id, message_text, voice_url, voice_duration, is_voice, created_at, read_at
		FROM messages
		WHERE (sender_id = ?1 AND receiver_id = ?2)
		   OR (sender_id = ?2 AND receiver_id = ?1)
		ORDER BY created_at ASC, id ASC
	`, userID, otherUserID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return scanMessages(rows)
}

// MarkConversationRead stamps read_at on all unread messages the partner sent
// to the viewer. The read_at IS NULL guard keeps the transition monotonic and
// the call idempotent.
func (r *MessageRepo) MarkConversationRead(ctx context.Context, viewerID, partnerID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE messages SET read_at = ?
		WHERE receiver_id = ? AND sender_id = ? AND read_at IS NULL
	`, fmtTime(time.Now()), viewerID, partnerID)
	return err
}

func (r *MessageRepo) CountUnreadFrom(ctx context.Context, viewerID, partnerID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM messages
		WHERE sender_id = ? AND receiver_id = ? AND read_at IS NULL
	`, partnerID, viewerID).Scan(&count)
	return count, err
}

// ── helpers ──────────────────────────────────────────────────────────────────

func scanMessages(rows *sql.Rows) ([]*domain.Message, error) {
	defer rows.Close()
	var res []*domain.Message
	for rows.Next() {
		m := &domain.Message{}
		var readAt sql.NullTime
		if err := rows.Scan(
			&m.ID, &m.SenderID, &m.ReceiverID, &m.Text, &m.VoiceURL,
			&m.VoiceDuration, &m.IsVoice, &m.CreatedAt, &readAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if readAt.Valid {
			m.ReadAt = &readAt.Time
		}
		res = append(res, m)
	}
	return res, rows.Err()
}
