package service

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/eunsilJANG/EasyGo/internal/config"
	"github.com/eunsilJANG/EasyGo/internal/domain"
	pw "github.com/eunsilJANG/EasyGo/internal/password"
	"github.com/eunsilJANG/EasyGo/internal/repository"
	"github.com/eunsilJANG/EasyGo/internal/token"
)

// LoginResult carries the token pair issued at login.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         domain.User
}

// AuthService implements the credential and token lifecycle flows.
type AuthService struct {
	users  repository.UserRepository
	tokens repository.RefreshTokenRepository
	codec  *token.Codec
	cfg    config.Config
	logger *zap.Logger
	tracer trace.Tracer
}

// NewAuthService wires dependencies.
func NewAuthService(users repository.UserRepository, tokens repository.RefreshTokenRepository, codec *token.Codec, cfg config.Config, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		codec:  codec,
		cfg:    cfg,
		logger: logger,
		tracer: otel.Tracer("github.com/eunsilJANG/EasyGo/internal/service"),
	}
}

// Login authenticates the user by email and password and issues a fresh
// token pair. The refresh token is itself a signed token, and is stored
// whole so renewal can look it up by value; storing it replaces whatever
// refresh token the user held before.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Login")
	defer span.End()

	normalized := strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, normalized)
	if err != nil {
		span.RecordError(err)
		return nil, domain.ErrBadCredentials
	}

	valid, err := pw.Verify(password, user.PasswordHash)
	if err != nil || !valid {
		span.RecordError(fmt.Errorf("invalid password"))
		return nil, domain.ErrBadCredentials
	}

	access, err := s.codec.Issue(user, s.cfg.AccessTokenTTL)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.codec.Issue(user, s.cfg.RefreshTokenTTL)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	if err := s.tokens.Upsert(ctx, user.ID, refresh); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	s.audit("login.success", user.ID)
	return &LoginResult{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// IssueTokens mints a token pair for an already-authenticated user, such as
// one arriving through an OAuth callback, and stores the refresh token.
func (s *AuthService) IssueTokens(ctx context.Context, user domain.User) (*LoginResult, error) {
	ctx, span := s.startSpan(ctx, "AuthService.IssueTokens")
	defer span.End()

	access, err := s.codec.Issue(user, s.cfg.AccessTokenTTL)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.codec.Issue(user, s.cfg.RefreshTokenTTL)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	if err := s.tokens.Upsert(ctx, user.ID, refresh); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	s.audit("tokens.issued", user.ID)
	return &LoginResult{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// RenewAccessToken exchanges a stored refresh token for a short-lived access
// token. The presented value must pass signature and expiry checks, and must
// match a stored row by exact value; the new token is minted for the user
// the stored row points at, not for whatever the presented token claims.
// The refresh token itself is left in place.
func (s *AuthService) RenewAccessToken(ctx context.Context, refreshToken string) (string, error) {
	ctx, span := s.startSpan(ctx, "AuthService.RenewAccessToken")
	defer span.End()

	if !s.codec.Validate(refreshToken) {
		if cause := s.codec.Inspect(refreshToken); cause != nil {
			s.logger.Debug("renewal rejected", zap.Error(cause))
		}
		return "", domain.ErrTokenInvalid
	}

	row, err := s.tokens.FindByValue(ctx, refreshToken)
	if err != nil {
		span.RecordError(err)
		return "", domain.ErrTokenNotFound
	}

	user, err := s.users.GetByID(ctx, row.UserID)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("load token owner: %w", err)
	}

	access, err := s.codec.Issue(user, s.cfg.RenewAccessTTL)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("issue access token: %w", err)
	}

	s.audit("token.renewed", user.ID)
	return access, nil
}

func (s *AuthService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name)
}

func (s *AuthService) audit(event string, userID int64) {
	s.logger.Info(event, zap.Int64("user_id", userID))
}
