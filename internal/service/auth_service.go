package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"openwonder/api/internal/config"
	"openwonder/api/internal/ids"
	"openwonder/api/internal/models"
	"openwonder/api/internal/repository"
	"openwonder/api/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("account disabled or banned")
)

type AuthService struct {
	users    *repository.UserRepository
	sessions *repository.SessionRepository
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewAuthService(
	users *repository.UserRepository,
	sessions *repository.SessionRepository,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		log:      log,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Platform string
}

type AuthResult struct {
	Token   string
	Session models.Session
	User    models.User
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.Username = strings.TrimSpace(input.Username)
	if input.Email == "" || input.Password == "" || input.Username == "" {
		return AuthResult{}, fmt.Errorf("username, email and password required")
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return AuthResult{}, fmt.Errorf("email already registered")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return AuthResult{}, err
	}
	if _, err := s.users.FindByUsername(ctx, input.Username); err == nil {
		return AuthResult{}, fmt.Errorf("username already taken")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return AuthResult{}, err
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return AuthResult{}, err
	}

	user := models.User{
		ID:            ids.New(),
		Username:      input.Username,
		Email:         input.Email,
		PasswordHash:  passwordHash,
		Status:        models.UserStatusActive,
		FollowPrivacy: models.FollowPrivacyEverybody,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return AuthResult{}, err
	}

	return s.createSession(ctx, user, input.Platform)
}

type LoginInput struct {
	Email    string
	Password string
	Platform string
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	if user.Status != models.UserStatusActive {
		return AuthResult{}, ErrUserInactive
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return AuthResult{}, ErrInvalidCredentials
	}

	return s.createSession(ctx, user, input.Platform)
}

func (s *AuthService) createSession(ctx context.Context, user models.User, platform string) (AuthResult, error) {
	token, err := security.GenerateSessionToken(s.cfg.Security.SessionTokenBytes)
	if err != nil {
		return AuthResult{}, err
	}
	if platform == "" {
		platform = "web"
	}

	session := models.Session{
		ID:       ids.New(),
		UserID:   user.ID,
		Token:    token,
		Platform: platform,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return AuthResult{}, err
	}

	return AuthResult{Token: token, Session: session, User: user}, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// ChangePassword verifies the old password, stores the new hash and revokes
// every session except the one making the change, so stolen tokens die with
// the old password.
func (s *AuthService) ChangePassword(ctx context.Context, user models.User, oldPassword, newPassword, currentToken string) error {
	ok, err := security.VerifyPassword(oldPassword, user.PasswordHash)
	if err != nil || !ok {
		return ErrInvalidCredentials
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return err
	}

	if err := s.sessions.RevokeAllExcept(ctx, user.ID, currentToken); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("session revocation after password change failed")
	}
	return nil
}
