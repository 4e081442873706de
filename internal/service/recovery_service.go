package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dmchat/internal/domain"
	"dmchat/internal/security"
)

// RecoveryService implements the chat-delivered password recovery flow:
// a short-lived one-time code is generated, persisted, and handed to the
// support account for delivery as an ordinary message.
type RecoveryService struct {
	users    domain.UserRepository
	messages domain.MessageRepository
	codes    domain.RecoveryRepository
	hash     *security.PasswordHasher

	supportUsername string
	codeTTL         time.Duration

	generateCode func() (string, error)
}

func NewRecoveryService(
	users domain.UserRepository,
	messages domain.MessageRepository,
	codes domain.RecoveryRepository,
	hash *security.PasswordHasher,
	supportUsername string,
	codeTTL time.Duration,
) *RecoveryService {
	return &RecoveryService{
		users:           users,
		messages:        messages,
		codes:           codes,
		hash:            hash,
		supportUsername: supportUsername,
		codeTTL:         codeTTL,
		generateCode:    security.GenerateRecoveryCode,
	}
}

// RequestCode generates and persists a recovery code for the named user and
// returns the user id. Delivery goes through the support account as a plain
// chat message; if that account does not exist the delivery is skipped
// silently and the request still succeeds.
func (s *RecoveryService) RequestCode(ctx context.Context, username string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return 0, err
	}

	code, err := s.generateCode()
	if err != nil {
		return 0, err
	}

	rc := &domain.RecoveryCode{
		UserID:    user.ID,
		Code:      code,
		ExpiresAt: time.Now().Add(s.codeTTL).UTC(),
	}
	if err := s.codes.Create(ctx, rc); err != nil {
		return 0, err
	}

	support, err := s.users.GetByUsername(ctx, s.supportUsername)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// No support account configured: code generation still counts
			// as success, the caller just never sees a chat message.
			return user.ID, nil
		}
		return 0, fmt.Errorf("get support account: %w", err)
	}

	text := fmt.Sprintf("Recovery code for @%s: %s\n\nThe code expires in %d minutes.",
		user.Username, code, int(s.codeTTL.Minutes()))
	msg := &domain.Message{
		SenderID:   support.ID,
		ReceiverID: user.ID,
		Text:       &text,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return 0, fmt.Errorf("deliver recovery code: %w", err)
	}

	return user.ID, nil
}

// ResetPassword consumes a recovery code and replaces the user's credential.
// The code flip and the password write commit in one transaction; a reset can
// never consume a code without changing the password, or vice versa.
func (s *RecoveryService) ResetPassword(ctx context.Context, username, code, newPassword string) error {
	username = strings.TrimSpace(username)
	code = strings.TrimSpace(code)
	if username == "" || code == "" || newPassword == "" {
		return fmt.Errorf("%w: username, code and new password are required", domain.ErrInvalidInput)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	hashed, err := s.hash.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.codes.Consume(ctx, user.ID, code, hashed)
}
