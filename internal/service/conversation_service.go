package service

import (
	"context"

	"dmchat/internal/domain"
)

// ConversationService derives per-user conversation summaries. A pure read:
// it performs no writes and holds no locks across the projection.
type ConversationService struct {
	conversations domain.ConversationRepository
}

func NewConversationService(conversations domain.ConversationRepository) *ConversationService {
	return &ConversationService{conversations: conversations}
}

// ListForUser returns one summary per distinct conversation partner, ordered
// by the latest message time descending.
func (s *ConversationService) ListForUser(ctx context.Context, userID int64) ([]*domain.ConversationSummary, error) {
	return s.conversations.ListSummaries(ctx, userID)
}
