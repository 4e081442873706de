package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dmchat/internal/domain"
)

// UserService provides profile reads and updates.
type UserService struct {
	users domain.UserRepository
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

type UpdateProfileInput struct {
	AvatarURL   *string
	BirthDate   *time.Time
	NewUsername *string
}

// UpdateProfile applies profile mutations. A username change is a no-op when
// the new value equals the current one; otherwise it is validated for shape,
// checked for uniqueness against all other users, and gated by the 3-day
// cooldown. Avatar and birth date writes are independent of the username path
// and commit in the same transaction.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (*domain.User, error) {
	current, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	update := domain.ProfileUpdate{
		AvatarURL: in.AvatarURL,
		BirthDate: in.BirthDate,
	}

	if in.NewUsername != nil {
		newUsername := strings.TrimSpace(*in.NewUsername)
		if newUsername != "" && newUsername != current.Username {
			if !domain.ValidUsername(newUsername) {
				return nil, fmt.Errorf("%w: username must be 3-20 latin letters, digits or _", domain.ErrInvalidInput)
			}
			taken, err := s.users.UsernameTaken(ctx, newUsername, userID)
			if err != nil {
				return nil, fmt.Errorf("check username: %w", err)
			}
			if taken {
				return nil, fmt.Errorf("username taken: %w", domain.ErrDuplicate)
			}
			if ok, daysLeft := domain.CanChangeUsername(current.UsernameLastChanged, time.Now()); !ok {
				return nil, &domain.RateLimitError{DaysLeft: daysLeft}
			}
			update.Username = &newUsername
		}
	}

	return s.users.UpdateProfile(ctx, userID, update)
}
