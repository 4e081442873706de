package service_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dmchat/internal/domain"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	args := m.Called(ctx, username, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepo) SetOnline(ctx context.Context, id int64, online bool) error {
	args := m.Called(ctx, id, online)
	return args.Error(0)
}

func (m *MockUserRepo) UpdateProfile(ctx context.Context, id int64, p domain.ProfileUpdate) (*domain.User, error) {
	args := m.Called(ctx, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockMessageRepo struct {
	mock.Mock
}

func (m *MockMessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepo) ListBetween(ctx context.Context, userID, otherUserID int64) ([]*domain.Message, error) {
	args := m.Called(ctx, userID, otherUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Message), args.Error(1)
}

func (m *MockMessageRepo) MarkConversationRead(ctx context.Context, viewerID, partnerID int64) error {
	args := m.Called(ctx, viewerID, partnerID)
	return args.Error(0)
}

func (m *MockMessageRepo) CountUnreadFrom(ctx context.Context, viewerID, partnerID int64) (int, error) {
	args := m.Called(ctx, viewerID, partnerID)
	return args.Int(0), args.Error(1)
}

type MockRecoveryRepo struct {
	mock.Mock
}

func (m *MockRecoveryRepo) Create(ctx context.Context, rc *domain.RecoveryCode) error {
	args := m.Called(ctx, rc)
	return args.Error(0)
}

func (m *MockRecoveryRepo) Consume(ctx context.Context, userID int64, code string, newPasswordHash string) error {
	args := m.Called(ctx, userID, code, newPasswordHash)
	return args.Error(0)
}

type MockConversationRepo struct {
	mock.Mock
}

func (m *MockConversationRepo) ListSummaries(ctx context.Context, viewerID int64) ([]*domain.ConversationSummary, error) {
	args := m.Called(ctx, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ConversationSummary), args.Error(1)
}
