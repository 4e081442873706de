package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"dmchat/internal/domain"
)

type ConversationRepo struct {
	db *sql.DB
}

func NewConversationRepo(db *sql.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

var _ domain.ConversationRepository = (*ConversationRepo)(nil)

// ListSummaries projects the message ledger into one row per conversation
// partner of the viewer. DISTINCT ON picks the representative message per
// partner (latest created_at, ties broken by highest id); the unread count is
// a separate filter over the same ledger, so a partner whose latest message
// is already read can still carry older unread ones. Everything happens in a
// single grouped query under default read-committed visibility.
func (r *ConversationRepo) ListSummaries(ctx context.Context, viewerID int64) ([]*domain.ConversationSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		WITH last_messages AS (
			SELECT DISTINCT ON (partner_id)
			       partner_id, id, message_text, is_voice, created_at
			FROM (
				SELECT CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END AS partner_id,
				       id, message_text, is_voice, created_at
				FROM messages
				WHERE sender_id = $1 OR receiver_id = $1
			) m
			ORDER BY partner_id, created_at DESC, id DESC
		)
		SELECT u.id, u.username, u.avatar_initials, u.avatar_url, u.online,
		       lm.message_text, lm.is_voice, lm.created_at,
		       (SELECT COUNT(*) FROM messages
		        WHERE sender_id = u.id AND receiver_id = $1 AND read_at IS NULL) AS unread_count
		FROM users u
		JOIN last_messages lm ON lm.partner_id = u.id
		ORDER BY lm.created_at DESC, lm.id DESC
	`, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return scanSummaries(rows)
}

func scanSummaries(rows *sql.Rows) ([]*domain.ConversationSummary, error) {
	defer rows.Close()
	var res []*domain.ConversationSummary
	for rows.Next() {
		s := &domain.ConversationSummary{}
		if err := rows.Scan(
			&s.PartnerID, &s.PartnerUsername, &s.PartnerInitials, &s.PartnerAvatarURL,
			&s.PartnerOnline, &s.LastMessage, &s.LastMessageIsVoice, &s.LastMessageAt,
			&s.UnreadCount,
		); err != nil {
			return nil, fmt.Errorf("scan conversation summary: %w", err)
		}
		res = append(res, s)
	}
	return res, rows.Err()
}
