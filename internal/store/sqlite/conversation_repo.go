package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

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
// partner of the viewer. A ROW_NUMBER window picks the representative message
// per partner (latest created_at, ties broken by highest id); the unread
// count is a separate filter over the same ledger, so a partner whose latest
// message is read can still carry older unread ones. One grouped query,
// never one query per partner.
func (r *ConversationRepo) ListSummaries(ctx context.Context, viewerID int64) ([]*domain.ConversationSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		WITH ranked AS (
			SELECT CASE WHEN sender_id = ?1 THEN receiver_id ELSE sender_id END AS partner_id,
			       id, message_text, is_voice, created_at,
			       ROW_NUMBER() OVER (
			           PARTITION BY CASE WHEN sender_id = ?1 THEN receiver_id ELSE sender_id END
			           ORDER BY created_at DESC, id DESC
			       ) AS rn
			FROM messages
			WHERE sender_id = ?1 OR receiver_id = ?1
		)
		SELECT u.id, u.username, u.avatar_initials, u.avatar_url, u.online,
		       r.message_text, r.is_voice, r.created_at,
		       (SELECT COUNT(*) FROM messages
		        WHERE sender_id = u.id AND receiver_id = ?1 AND read_at IS NULL) AS unread_count
		FROM users u
		JOIN ranked r ON r.partner_id = u.id AND r.rn = 1
		ORDER BY r.created_at DESC, r.id DESC
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
		// created_at travels through a CTE, which strips the DATETIME
		// decltype, so it arrives as raw text.
		var lastAt string
		if err := rows.Scan(
			&s.PartnerID, &s.PartnerUsername, &s.PartnerInitials, &s.PartnerAvatarURL,
			&s.PartnerOnline, &s.LastMessage, &s.LastMessageIsVoice, &lastAt,
			&s.UnreadCount,
		); err != nil {
			return nil, fmt.Errorf("scan conversation summary: %w", err)
		}
		t, err := time.Parse(timeLayout, lastAt)
		if err != nil {
			return nil, fmt.Errorf("parse last message time: %w", err)
		}
		s.LastMessageAt = t
		res = append(res, s)
	}
	return res, rows.Err()
}
