package service

import (
	"context"
	"fmt"
	"strings"

	"dmchat/internal/domain"
)

const maxMessageLength = 5000

// MessageService owns sends, history reads and read-state transitions over
// the message ledger.
type MessageService struct {
	messages domain.MessageRepository
	users    domain.UserRepository
}

func NewMessageService(messages domain.MessageRepository, users domain.UserRepository) *MessageService {
	return &MessageService{
		messages: messages,
		users:    users,
	}
}

type SendInput struct {
	ReceiverID    int64
	Text          string
	VoiceURL      *string
	VoiceDuration *int
}

// Send appends one immutable message. Exactly one of a non-empty trimmed
// text body or a voice reference must be present. The insert is all or
// nothing; a storage failure surfaces to the caller, who decides whether to
// retry.
func (s *MessageService) Send(ctx context.Context, senderID int64, in SendInput) (*domain.Message, error) {
	if senderID <= 0 || in.ReceiverID <= 0 {
		return nil, fmt.Errorf("%w: sender and receiver are required", domain.ErrInvalidInput)
	}

	text := strings.TrimSpace(in.Text)
	hasText := text != ""
	hasVoice := in.VoiceURL != nil && *in.VoiceURL != ""
	if hasText == hasVoice {
		return nil, fmt.Errorf("%w: message must carry either text or a voice recording", domain.ErrInvalidInput)
	}
	if len([]rune(text)) > maxMessageLength {
		return nil, fmt.Errorf("%w: message text exceeds %d characters", domain.ErrInvalidInput, maxMessageLength)
	}

	if _, err := s.users.GetByID(ctx, in.ReceiverID); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		SenderID:   senderID,
		ReceiverID: in.ReceiverID,
		IsVoice:    hasVoice,
	}
	if hasText {
		msg.Text = &text
	} else {
		msg.VoiceURL = in.VoiceURL
		msg.VoiceDuration = in.VoiceDuration
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListBetween returns the full bidirectional history between the viewer and
// another user, ascending by (created_at, id).
func (s *MessageService) ListBetween(ctx context.Context, viewerID, otherUserID int64) ([]*domain.Message, error) {
	if otherUserID <= 0 {
		return nil, fmt.Errorf("%w: other user id is required", domain.ErrInvalidInput)
	}
	return s.messages.ListBetween(ctx, viewerID, otherUserID)
}

// MarkConversationRead flips read_at on every unread partner-to-viewer
// message. Calling it twice has the same effect as once.
func (s *MessageService) MarkConversationRead(ctx context.Context, viewerID, partnerID int64) error {
	if partnerID <= 0 {
		return fmt.Errorf("%w: partner id is required", domain.ErrInvalidInput)
	}
	return s.messages.MarkConversationRead(ctx, viewerID, partnerID)
}
