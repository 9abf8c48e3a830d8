package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	oauthclient "github.com/eunsilJANG/EasyGo/internal/adapter/oauth"
	"github.com/eunsilJANG/EasyGo/internal/config"
	"github.com/eunsilJANG/EasyGo/internal/domain"
	"github.com/eunsilJANG/EasyGo/internal/domain/oauth"
	pw "github.com/eunsilJANG/EasyGo/internal/password"
	"github.com/eunsilJANG/EasyGo/internal/repository"
)

// OAuthService drives the authorization-code login flow against the
// configured external providers. Handshake state lives in a client cookie;
// this service only produces and verifies it.
type OAuthService struct {
	users     repository.UserRepository
	auth      *AuthService
	client    oauthclient.ProviderClient
	snowflake *snowflake.Node
	cfg       config.Config
	logger    *zap.Logger
	tracer    trace.Tracer
}

// NewOAuthService wires dependencies.
func NewOAuthService(users repository.UserRepository, auth *AuthService, client oauthclient.ProviderClient, node *snowflake.Node, cfg config.Config, logger *zap.Logger) *OAuthService {
	return &OAuthService{
		users:     users,
		auth:      auth,
		client:    client,
		snowflake: node,
		cfg:       cfg,
		logger:    logger,
		tracer:    otel.Tracer("github.com/eunsilJANG/EasyGo/internal/service"),
	}
}

// StartAuthorization builds the provider redirect URL and the handshake
// state to round-trip through the client.
func (s *OAuthService) StartAuthorization(providerName, redirectURI string) (string, *oauth.AuthorizationState, error) {
	provider, ok := s.cfg.OAuthProviders[providerName]
	if !ok {
		return "", nil, oauth.ErrProviderNotFound
	}

	nonce, err := randomState()
	if err != nil {
		return "", nil, fmt.Errorf("generate state: %w", err)
	}

	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", provider.ClientID)
	params.Set("redirect_uri", redirectURI)
	params.Set("state", nonce)
	if len(provider.Scopes) > 0 {
		params.Set("scope", strings.Join(provider.Scopes, " "))
	}

	state := &oauth.AuthorizationState{
		State:       nonce,
		Provider:    providerName,
		RedirectURI: redirectURI,
		Scopes:      provider.Scopes,
	}
	return provider.AuthURL + "?" + params.Encode(), state, nil
}

// HandleCallback completes the code exchange. The state presented on the
// callback must match the one saved at the start of the handshake; on
// success the external identity is mapped to a local account, created on
// first login, and a token pair is issued.
func (s *OAuthService) HandleCallback(ctx context.Context, code, presentedState string, saved *oauth.AuthorizationState) (*LoginResult, error) {
	ctx, span := s.startSpan(ctx, "OAuthService.HandleCallback")
	defer span.End()

	if saved == nil || presentedState == "" ||
		subtle.ConstantTimeCompare([]byte(presentedState), []byte(saved.State)) != 1 {
		return nil, oauth.ErrInvalidState
	}

	provider, ok := s.cfg.OAuthProviders[saved.Provider]
	if !ok {
		return nil, oauth.ErrProviderNotFound
	}

	tokens, err := s.client.ExchangeCode(ctx, provider, code, saved.RedirectURI)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	if tokens.AccessToken == "" {
		return nil, oauth.ErrTokenInvalid
	}

	info, err := s.client.FetchUserInfo(ctx, provider, tokens.AccessToken)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}

	user, err := s.findOrCreateUser(ctx, info)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	result, err := s.auth.IssueTokens(ctx, user)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.logger.Info("oauth.login.success",
		zap.String("provider", saved.Provider),
		zap.Int64("user_id", user.ID))
	return result, nil
}

// findOrCreateUser maps the provider profile to a local account by email.
// First-time logins get an account with an unguessable random password, so
// the password grant stays closed for them until they set one.
func (s *OAuthService) findOrCreateUser(ctx context.Context, info *oauth.UserInfo) (domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(info.Email))
	if user, err := s.users.GetByEmail(ctx, email); err == nil {
		return user, nil
	}

	placeholder, err := randomState()
	if err != nil {
		return domain.User{}, fmt.Errorf("generate placeholder password: %w", err)
	}
	hash, err := pw.Hash(placeholder)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash placeholder password: %w", err)
	}

	nickname := strings.TrimSpace(info.Nickname)
	if nickname == "" {
		nickname = email
		if at := strings.IndexByte(email, '@'); at > 0 {
			nickname = email[:at]
		}
	}

	user, err := s.users.Create(ctx, domain.User{
		ID:           s.snowflake.Generate().Int64(),
		Email:        email,
		Nickname:     nickname,
		PasswordHash: hash,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("create oauth user: %w", err)
	}
	s.logger.Info("oauth.user.created",
		zap.String("provider", info.Provider),
		zap.Int64("user_id", user.ID))
	return user, nil
}

func (s *OAuthService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name)
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
