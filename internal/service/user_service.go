package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"github.com/eunsilJANG/EasyGo/internal/domain"
	pw "github.com/eunsilJANG/EasyGo/internal/password"
	"github.com/eunsilJANG/EasyGo/internal/repository"
)

// UserService manages member accounts.
type UserService struct {
	users     repository.UserRepository
	snowflake *snowflake.Node
	logger    *zap.Logger
}

// NewUserService wires dependencies.
func NewUserService(users repository.UserRepository, node *snowflake.Node, logger *zap.Logger) *UserService {
	return &UserService{users: users, snowflake: node, logger: logger}
}

// Signup registers a new member with a hashed password. The nickname
// defaults to the local part of the email when omitted.
func (s *UserService) Signup(ctx context.Context, email, password, nickname string) (domain.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" || password == "" {
		return domain.User{}, domain.ErrBadCredentials
	}
	if nickname = strings.TrimSpace(nickname); nickname == "" {
		nickname = normalized
		if at := strings.IndexByte(normalized, '@'); at > 0 {
			nickname = normalized[:at]
		}
	}

	hash, err := pw.Hash(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		ID:           s.snowflake.Generate().Int64(),
		Email:        normalized,
		Nickname:     nickname,
		PasswordHash: hash,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user.signup", zap.Int64("user_id", user.ID))
	return user, nil
}

// FindByID loads a member by id.
func (s *UserService) FindByID(ctx context.Context, userID int64) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

// FindByEmail loads a member by normalized email.
func (s *UserService) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

// UpdateNickname changes the member's display name.
func (s *UserService) UpdateNickname(ctx context.Context, userID int64, nickname string) (domain.User, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return domain.User{}, fmt.Errorf("nickname required")
	}
	user, err := s.users.UpdateNickname(ctx, userID, nickname)
	if err != nil {
		return domain.User{}, fmt.Errorf("update nickname: %w", err)
	}
	s.logger.Info("user.nickname.updated", zap.Int64("user_id", userID))
	return user, nil
}
