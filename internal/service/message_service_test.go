package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"dmchat/internal/domain"
	"dmchat/internal/service"
)

func TestSendMessage(t *testing.T) {
	t.Run("TextSuccess", func(t *testing.T) {
		mockMsgs := new(MockMessageRepo)
		mockUsers := new(MockUserRepo)
		svc := service.NewMessageService(mockMsgs, mockUsers)

		mockUsers.On("GetByID", mock.Anything, int64(2)).Return(&domain.User{ID: 2}, nil)
		mockMsgs.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.Message) bool {
			return m.SenderID == 1 && m.ReceiverID == 2 &&
				m.Text != nil && *m.Text == "hello" && !m.IsVoice
		})).Return(nil)

		msg, err := svc.Send(context.Background(), 1, service.SendInput{
			ReceiverID: 2,
			Text:       "  hello  ", // whitespace is trimmed
		})
		assert.NoError(t, err)
		assert.Equal(t, "hello", *msg.Text)
		mockMsgs.AssertExpectations(t)
	})

	t.Run("VoiceSuccess", func(t *testing.T) {
		mockMsgs := new(MockMessageRepo)
		mockUsers := new(MockUserRepo)
		svc := service.NewMessageService(mockMsgs, mockUsers)

		dur := 12
		mockUsers.On("GetByID", mock.Anything, int64(2)).Return(&domain.User{ID: 2}, nil)
		mockMsgs.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.Message) bool {
			return m.IsVoice && m.Text == nil && m.VoiceURL != nil && *m.VoiceDuration == 12
		})).Return(nil)

		msg, err := svc.Send(context.Background(), 1, service.SendInput{
			ReceiverID:    2,
			VoiceURL:      strPtr("/api/uploads/v.webm"),
			VoiceDuration: &dur,
		})
		assert.NoError(t, err)
		assert.True(t, msg.IsVoice)
	})

	t.Run("TextAndVoiceRejected", func(t *testing.T) {
		mockMsgs := new(MockMessageRepo)
		mockUsers := new(MockUserRepo)
		svc := service.NewMessageService(mockMsgs, mockUsers)

		_, err := svc.Send(context.Background(), 1, service.SendInput{
			ReceiverID: 2,
			Text:       "hello",
			VoiceURL:   strPtr("/api/uploads/v.webm"),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		mockMsgs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("EmptyRejected", func(t *testing.T) {
		mockMsgs := new(MockMessageRepo)
		mockUsers := new(MockUserRepo)
		svc := service.NewMessageService(mockMsgs, mockUsers)

		_, err := svc.Send(context.Background(), 1, service.SendInput{
			ReceiverID: 2,
			Text:       "   ",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("TooLong", func(t *testing.T) {
		mockMsgs := new(MockMessageRepo)
		mockUsers := new(MockUserRepo)
		svc := service.NewMessageService(mockMsgs, mockUsers)

		_, err := svc.Send(context.Background(), 1, service.SendInput{
			ReceiverID: 2,
			Text:       strings.Repeat("a", 5001),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("UnknownReceiver", func(t *testing.T) {
		mockMsgs := new(MockMessageRepo)
		mockUsers := new(MockUserRepo)
		svc := service.NewMessageService(mockMsgs, mockUsers)

		mockUsers.On("GetByID", mock.Anything, int64(99)).Return(nil, domain.ErrNotFound)

		_, err := svc.Send(context.Background(), 1, service.SendInput{
			ReceiverID: 99,
			Text:       "hello",
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		mockMsgs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestMarkConversationRead(t *testing.T) {
	mockMsgs := new(MockMessageRepo)
	mockUsers := new(MockUserRepo)
	svc := service.NewMessageService(mockMsgs, mockUsers)

	mockMsgs.On("MarkConversationRead", mock.Anything, int64(1), int64(2)).Return(nil)

	assert.NoError(t, svc.MarkConversationRead(context.Background(), 1, 2))
	assert.ErrorIs(t, svc.MarkConversationRead(context.Background(), 1, 0), domain.ErrInvalidInput)
}

func TestListConversations(t *testing.T) {
	mockConvs := new(MockConversationRepo)
	svc := service.NewConversationService(mockConvs)

	summaries := []*domain.ConversationSummary{
		{PartnerID: 2, PartnerUsername: "bob", UnreadCount: 3},
	}
	mockConvs.On("ListSummaries", mock.Anything, int64(1)).Return(summaries, nil)

	got, err := svc.ListForUser(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "bob", got[0].PartnerUsername)
}
