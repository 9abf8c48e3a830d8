package middleware

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequiredAccessFirstMatchWins(t *testing.T) {
	policies := []RoutePolicy{
		{Pattern: "/api/login", Access: AccessPublic},
		{Pattern: "/oauth2/**", Access: AccessPublic},
		{Pattern: "/api/articles/**", Methods: []string{http.MethodGet}, Access: AccessPublic},
	}

	cases := []struct {
		method, path, want string
	}{
		{http.MethodPost, "/api/login", AccessPublic},
		{http.MethodGet, "/oauth2/authorization/google", AccessPublic},
		{http.MethodGet, "/oauth2", AccessPublic},
		{http.MethodGet, "/oauth2-other", AccessAuthenticated},
		{http.MethodGet, "/api/articles/7", AccessPublic},
		{http.MethodPost, "/api/articles", AccessAuthenticated},
		{http.MethodDelete, "/api/articles/7", AccessAuthenticated},
		{http.MethodGet, "/api/courses", AccessAuthenticated},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, requiredAccess(policies, tc.method, tc.path), "%s %s", tc.method, tc.path)
	}
}
