package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eunsilJANG/EasyGo/internal/domain"
	"github.com/eunsilJANG/EasyGo/internal/http/middleware"
	"github.com/eunsilJANG/EasyGo/internal/token"
)

func newTestRouter(codec *token.Codec) *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := &middleware.Auth{Codec: codec, Logger: zap.NewNop()}

	r := gin.New()
	r.Use(auth.Authenticate)
	r.Use(middleware.Enforce(middleware.DefaultPolicies))

	whoami := func(c *gin.Context) {
		if principal, ok := middleware.GetPrincipal(c); ok {
			c.JSON(http.StatusOK, gin.H{"id": principal.UserID, "email": principal.Email})
			return
		}
		c.JSON(http.StatusOK, gin.H{"anonymous": true})
	}
	r.GET("/api/articles", whoami)
	r.GET("/api/courses", whoami)
	return r
}

func doGet(r *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticateAttachesPrincipal(t *testing.T) {
	codec := token.NewCodec("easygo", "test-secret")
	r := newTestRouter(codec)

	tok, err := codec.Issue(domain.User{ID: 42, Email: "a@b.com"}, time.Hour)
	require.NoError(t, err)

	rec := doGet(r, "/api/articles", "Bearer "+tok)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"id":42`)
}

func TestAuthenticateTrimsPaddedBearerValue(t *testing.T) {
	codec := token.NewCodec("easygo", "test-secret")
	r := newTestRouter(codec)

	tok, err := codec.Issue(domain.User{ID: 42, Email: "a@b.com"}, time.Hour)
	require.NoError(t, err)

	// Extra whitespace around the token must not defeat extraction.
	rec := doGet(r, "/api/articles", "Bearer   "+tok+"   ")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"id":42`)
}

func TestAuthenticateContinuesWithoutPrincipal(t *testing.T) {
	codec := token.NewCodec("easygo", "test-secret")
	r := newTestRouter(codec)

	for name, header := range map[string]string{
		"no header":    "",
		"wrong scheme": "Basic dXNlcjpwYXNz",
		"garbage":      "Bearer not.a.token",
		"wrong key":    "Bearer " + mustIssue(t, token.NewCodec("easygo", "other-secret"), time.Hour),
		"expired":      "Bearer " + mustIssue(t, codec, -time.Second),
	} {
		rec := doGet(r, "/api/articles", header)
		require.Equal(t, http.StatusOK, rec.Code, name)
		require.Contains(t, rec.Body.String(), "anonymous", name)
	}
}

func TestEnforceRejectsProtectedRouteWithoutPrincipal(t *testing.T) {
	codec := token.NewCodec("easygo", "test-secret")
	r := newTestRouter(codec)

	rec := doGet(r, "/api/courses", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "unauthorized")

	rec = doGet(r, "/api/courses", "Bearer not.a.token")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	tok := mustIssue(t, codec, time.Hour)
	rec = doGet(r, "/api/courses", "Bearer "+tok)
	require.Equal(t, http.StatusOK, rec.Code)
}

func mustIssue(t *testing.T, codec *token.Codec, validity time.Duration) string {
	t.Helper()
	tok, err := codec.Issue(domain.User{ID: 42, Email: "a@b.com"}, validity)
	require.NoError(t, err)
	return tok
}
