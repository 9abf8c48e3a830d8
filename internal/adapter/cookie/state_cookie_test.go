package cookie_test

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eunsilJANG/EasyGo/internal/adapter/cookie"
	"github.com/eunsilJANG/EasyGo/internal/domain/oauth"
)

const cookieName = "oauth2_auth_request"

func newRepo() *cookie.StateRepository {
	return cookie.NewStateRepository(cookieName, 18000*time.Second)
}

// echo the Set-Cookie headers of a response into a fresh request, the way a
// browser would on the provider redirect.
func requestWithCookies(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/login/oauth2/code/google", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestStateCookieRoundTrip(t *testing.T) {
	repo := newRepo()
	state := &oauth.AuthorizationState{
		State:       "xyz",
		Provider:    "google",
		RedirectURI: "http://app/cb",
		Scopes:      []string{"openid", "email"},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/oauth2/authorization/google", nil)
	require.NoError(t, repo.Save(rec, req, state))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, cookieName, cookies[0].Name)
	require.Equal(t, "/", cookies[0].Path)
	require.Equal(t, 18000, cookies[0].MaxAge)

	loaded := repo.Load(requestWithCookies(t, rec))
	require.NotNil(t, loaded)
	require.Equal(t, "xyz", loaded.State)
	require.Equal(t, "http://app/cb", loaded.RedirectURI)
	require.Equal(t, "google", loaded.Provider)
	require.Equal(t, []string{"openid", "email"}, loaded.Scopes)
}

func TestStateCookieLoadMissingOrGarbage(t *testing.T) {
	repo := newRepo()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Nil(t, repo.Load(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "%%%not-base64%%%"})
	require.Nil(t, repo.Load(req))

	// Valid encoding of the wrong shape decodes to nil too.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{
		Name:  cookieName,
		Value: base64.RawURLEncoding.EncodeToString([]byte(`{"v":99,"state":"xyz"}`)),
	})
	require.Nil(t, repo.Load(req))
}

func TestStateCookieSaveNilDeletes(t *testing.T) {
	repo := newRepo()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "stale"})
	require.NoError(t, repo.Save(rec, req, nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Empty(t, cookies[0].Value)
	// net/http parses a Set-Cookie Max-Age of 0 back as MaxAge -1.
	require.Equal(t, -1, cookies[0].MaxAge)
}

func TestStateCookieRemoveClearsDuplicates(t *testing.T) {
	repo := newRepo()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "one"})
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "two"})
	req.AddCookie(&http.Cookie{Name: "unrelated", Value: "keep"})

	repo.Remove(rec, req)

	cleared := 0
	for _, c := range rec.Result().Cookies() {
		require.Equal(t, cookieName, c.Name)
		require.Empty(t, c.Value)
		cleared++
	}
	require.Equal(t, 2, cleared)

	// A later load on a request without the cookie yields nil.
	require.Nil(t, repo.Load(httptest.NewRequest(http.MethodGet, "/", nil)))
}
