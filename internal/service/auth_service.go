package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dmchat/internal/domain"
	"dmchat/internal/security"
)

// AuthService handles registration, login, and logout.
type AuthService struct {
	users  domain.UserRepository
	tokens *security.TokenService
	hash   *security.PasswordHasher
}

func NewAuthService(users domain.UserRepository, tokens *security.TokenService, hash *security.PasswordHasher) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		hash:   hash,
	}
}

type RegisterInput struct {
	Username string
	Email    *string
	Phone    *string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

type TokenResponse struct {
	AccessToken string
	TokenType   string
	User        *domain.User
}

// Register creates a new user. The username shape is validated before any
// storage access; uniqueness is pre-checked for username, then email, then
// phone, failing on the first collision. The unique indexes remain the final
// arbiter: a lost race surfaces as ErrDuplicate from Create.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}
	if !domain.ValidUsername(username) {
		return nil, fmt.Errorf("%w: username must be 3-20 latin letters, digits or _", domain.ErrInvalidInput)
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("username taken: %w", domain.ErrDuplicate)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}

	if in.Email != nil && *in.Email != "" {
		if _, err := s.users.GetByEmail(ctx, *in.Email); err == nil {
			return nil, fmt.Errorf("email taken: %w", domain.ErrDuplicate)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("check email: %w", err)
		}
	}

	if in.Phone != nil && *in.Phone != "" {
		if _, err := s.users.GetByPhone(ctx, *in.Phone); err == nil {
			return nil, fmt.Errorf("phone taken: %w", domain.ErrDuplicate)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("check phone: %w", err)
		}
	}

	hashed, err := s.hash.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:       username,
		Email:          normalizeOptional(in.Email),
		Phone:          normalizeOptional(in.Phone),
		PasswordHash:   hashed,
		AvatarInitials: domain.AvatarInitials(username),
		Online:         true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and marks the user online. Unknown username and
// wrong password produce the same error so callers cannot tell which check
// failed.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*TokenResponse, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := s.hash.Verify(in.Password, user.PasswordHash); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.users.SetOnline(ctx, user.ID, true); err != nil {
		return nil, fmt.Errorf("set online: %w", err)
	}
	user.Online = true

	token, err := s.tokens.CreateForUser(user.Username)
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	return s.users.SetOnline(ctx, userID, false)
}

// normalizeOptional turns empty strings into nil so optional unique columns
// stay NULL instead of colliding on "".
func normalizeOptional(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	return v
}
