package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"dmchat/internal/domain"
	"dmchat/internal/service"
)

func strPtr(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	t.Run("ChangeUsername", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := service.NewUserService(mockRepo)

		current := &domain.User{ID: 1, Username: "alice"}
		updated := &domain.User{ID: 1, Username: "alice_new"}
		mockRepo.On("GetByID", mock.Anything, int64(1)).Return(current, nil)
		mockRepo.On("UsernameTaken", mock.Anything, "alice_new", int64(1)).Return(false, nil)
		mockRepo.On("UpdateProfile", mock.Anything, int64(1), mock.MatchedBy(func(p domain.ProfileUpdate) bool {
			return p.Username != nil && *p.Username == "alice_new"
		})).Return(updated, nil)

		user, err := svc.UpdateProfile(context.Background(), 1, service.UpdateProfileInput{
			NewUsername: strPtr("alice_new"),
		})
		assert.NoError(t, err)
		assert.Equal(t, "alice_new", user.Username)
		mockRepo.AssertExpectations(t)
	})

	t.Run("SameUsernameIsNoOp", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := service.NewUserService(mockRepo)

		current := &domain.User{ID: 1, Username: "alice"}
		mockRepo.On("GetByID", mock.Anything, int64(1)).Return(current, nil)
		mockRepo.On("UpdateProfile", mock.Anything, int64(1), mock.MatchedBy(func(p domain.ProfileUpdate) bool {
			return p.Username == nil
		})).Return(current, nil)

		_, err := svc.UpdateProfile(context.Background(), 1, service.UpdateProfileInput{
			NewUsername: strPtr("alice"),
		})
		assert.NoError(t, err)
		mockRepo.AssertNotCalled(t, "UsernameTaken", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("CooldownActive", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := service.NewUserService(mockRepo)

		changed := time.Now().Add(-24 * time.Hour)
		current := &domain.User{ID: 1, Username: "alice", UsernameLastChanged: &changed}
		mockRepo.On("GetByID", mock.Anything, int64(1)).Return(current, nil)
		mockRepo.On("UsernameTaken", mock.Anything, "alice_new", int64(1)).Return(false, nil)

		_, err := svc.UpdateProfile(context.Background(), 1, service.UpdateProfileInput{
			NewUsername: strPtr("alice_new"),
		})
		var rateErr *domain.RateLimitError
		assert.True(t, errors.As(err, &rateErr))
		assert.Equal(t, 2, rateErr.DaysLeft)
		mockRepo.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("CooldownExpired", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := service.NewUserService(mockRepo)

		changed := time.Now().Add(-domain.UsernameChangeCooldown - time.Minute)
		current := &domain.User{ID: 1, Username: "alice", UsernameLastChanged: &changed}
		updated := &domain.User{ID: 1, Username: "alice_new"}
		mockRepo.On("GetByID", mock.Anything, int64(1)).Return(current, nil)
		mockRepo.On("UsernameTaken", mock.Anything, "alice_new", int64(1)).Return(false, nil)
		mockRepo.On("UpdateProfile", mock.Anything, int64(1), mock.Anything).Return(updated, nil)

		_, err := svc.UpdateProfile(context.Background(), 1, service.UpdateProfileInput{
			NewUsername: strPtr("alice_new"),
		})
		assert.NoError(t, err)
	})

	t.Run("UsernameTaken", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := service.NewUserService(mockRepo)

		current := &domain.User{ID: 1, Username: "alice"}
		mockRepo.On("GetByID", mock.Anything, int64(1)).Return(current, nil)
		mockRepo.On("UsernameTaken", mock.Anything, "bob", int64(1)).Return(true, nil)

		_, err := svc.UpdateProfile(context.Background(), 1, service.UpdateProfileInput{
			NewUsername: strPtr("bob"),
		})
		assert.ErrorIs(t, err, domain.ErrDuplicate)
	})

	t.Run("InvalidUsernameShape", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := service.NewUserService(mockRepo)

		current := &domain.User{ID: 1, Username: "alice"}
		mockRepo.On("GetByID", mock.Anything, int64(1)).Return(current, nil)

		_, err := svc.UpdateProfile(context.Background(), 1, service.UpdateProfileInput{
			NewUsername: strPtr("x"),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		mockRepo.AssertNotCalled(t, "UsernameTaken", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("AvatarAndBirthDateOnly", func(t *testing.T) {
		mockRepo := new(MockUserRepo)
		svc := service.NewUserService(mockRepo)

		birth := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
		current := &domain.User{ID: 1, Username: "alice"}
		mockRepo.On("GetByID", mock.Anything, int64(1)).Return(current, nil)
		mockRepo.On("UpdateProfile", mock.Anything, int64(1), mock.MatchedBy(func(p domain.ProfileUpdate) bool {
			return p.Username == nil && p.AvatarURL != nil && p.BirthDate != nil
		})).Return(current, nil)

		_, err := svc.UpdateProfile(context.Background(), 1, service.UpdateProfileInput{
			AvatarURL: strPtr("/api/uploads/a.png"),
			BirthDate: &birth,
		})
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}
