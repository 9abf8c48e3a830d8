package service_test

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eunsilJANG/EasyGo/internal/config"
	"github.com/eunsilJANG/EasyGo/internal/domain"
	"github.com/eunsilJANG/EasyGo/internal/domain/oauth"
	"github.com/eunsilJANG/EasyGo/internal/service"
	"github.com/eunsilJANG/EasyGo/internal/token"
)

type fakeProviderClient struct {
	email    string
	nickname string
	calls    int
}

func (f *fakeProviderClient) ExchangeCode(ctx context.Context, provider oauth.ProviderConfig, code, redirectURI string) (*oauth.TokenResponse, error) {
	f.calls++
	return &oauth.TokenResponse{AccessToken: "provider-access-" + code}, nil
}

func (f *fakeProviderClient) FetchUserInfo(ctx context.Context, provider oauth.ProviderConfig, accessToken string) (*oauth.UserInfo, error) {
	return &oauth.UserInfo{Email: f.email, Nickname: f.nickname, Provider: provider.Name}, nil
}

func newOAuthFixture(t *testing.T, client *fakeProviderClient) (*service.OAuthService, *memoryUserRepo, *memoryTokenRepo, *token.Codec) {
	t.Helper()
	users := &memoryUserRepo{users: map[int64]domain.User{}}
	tokens := &memoryTokenRepo{byUser: map[int64]string{}}

	cfg := config.Config{
		AccessTokenTTL:  24 * time.Hour,
		RenewAccessTTL:  2 * time.Hour,
		RefreshTokenTTL: 14 * 24 * time.Hour,
		OAuthProviders: map[string]oauth.ProviderConfig{
			"google": {
				Name:     "google",
				ClientID: "client-1",
				AuthURL:  "https://accounts.example.com/auth",
				TokenURL: "https://accounts.example.com/token",
				Scopes:   []string{"openid", "email"},
			},
		},
	}
	codec := token.NewCodec("easygo", "test-secret")
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	auth := service.NewAuthService(users, tokens, codec, cfg, zap.NewNop())
	svc := service.NewOAuthService(users, auth, client, node, cfg, zap.NewNop())
	return svc, users, tokens, codec
}

func TestStartAuthorizationBuildsProviderURL(t *testing.T) {
	svc, _, _, _ := newOAuthFixture(t, &fakeProviderClient{})

	authURL, state, err := svc.StartAuthorization("google", "http://app/login/oauth2/code/google")
	require.NoError(t, err)
	require.NotNil(t, state)
	require.Equal(t, "google", state.Provider)
	require.NotEmpty(t, state.State)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(authURL, "https://accounts.example.com/auth?"))
	q := parsed.Query()
	require.Equal(t, "code", q.Get("response_type"))
	require.Equal(t, "client-1", q.Get("client_id"))
	require.Equal(t, state.State, q.Get("state"))
	require.Equal(t, "openid email", q.Get("scope"))
	require.Equal(t, "http://app/login/oauth2/code/google", q.Get("redirect_uri"))
}

func TestStartAuthorizationUnknownProvider(t *testing.T) {
	svc, _, _, _ := newOAuthFixture(t, &fakeProviderClient{})
	_, _, err := svc.StartAuthorization("github", "http://app/cb")
	require.ErrorIs(t, err, oauth.ErrProviderNotFound)
}

func TestCallbackCreatesUserAndIssuesTokens(t *testing.T) {
	client := &fakeProviderClient{email: "New@Example.com", nickname: "newbie"}
	svc, users, tokens, codec := newOAuthFixture(t, client)
	ctx := context.Background()

	saved := &oauth.AuthorizationState{State: "nonce-1", Provider: "google", RedirectURI: "http://app/cb"}
	result, err := svc.HandleCallback(ctx, "code-1", "nonce-1", saved)
	require.NoError(t, err)
	require.True(t, codec.Validate(result.AccessToken))
	require.Equal(t, "new@example.com", result.User.Email)
	require.Equal(t, "newbie", result.User.Nickname)
	require.NotEmpty(t, result.User.PasswordHash)
	require.Equal(t, result.RefreshToken, tokens.byUser[result.User.ID])

	// A second login with the same identity reuses the account.
	again, err := svc.HandleCallback(ctx, "code-2", "nonce-1", saved)
	require.NoError(t, err)
	require.Equal(t, result.User.ID, again.User.ID)
	require.Len(t, users.users, 1)
}

func TestCallbackRejectsMismatchedState(t *testing.T) {
	client := &fakeProviderClient{email: "a@b.com"}
	svc, _, _, _ := newOAuthFixture(t, client)
	ctx := context.Background()

	saved := &oauth.AuthorizationState{State: "nonce-1", Provider: "google", RedirectURI: "http://app/cb"}

	_, err := svc.HandleCallback(ctx, "code-1", "evil-nonce", saved)
	require.ErrorIs(t, err, oauth.ErrInvalidState)

	_, err = svc.HandleCallback(ctx, "code-1", "", saved)
	require.ErrorIs(t, err, oauth.ErrInvalidState)

	_, err = svc.HandleCallback(ctx, "code-1", "nonce-1", nil)
	require.ErrorIs(t, err, oauth.ErrInvalidState)

	// No token exchange may happen before the state check passes.
	require.Zero(t, client.calls)
}
