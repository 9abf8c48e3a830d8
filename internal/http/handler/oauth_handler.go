package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/eunsilJANG/EasyGo/internal/adapter/cookie"
	"github.com/eunsilJANG/EasyGo/internal/config"
	"github.com/eunsilJANG/EasyGo/internal/domain/oauth"
	"github.com/eunsilJANG/EasyGo/internal/service"
)

// OAuthHandler drives the browser-facing authorization-code flow.
type OAuthHandler struct {
	OAuth  *service.OAuthService
	Auth   *AuthHandler
	States *cookie.StateRepository
	Cfg    config.Config
}

// Authorize handles GET /oauth2/authorization/:provider. It saves the
// handshake state in the client cookie and bounces the browser to the
// provider's consent page.
func (h *OAuthHandler) Authorize(c *gin.Context) {
	provider := c.Param("provider")
	redirectURI := callbackURL(c.Request, provider)

	authURL, state, err := h.OAuth.StartAuthorization(provider, redirectURI)
	if err != nil {
		if errors.Is(err, oauth.ErrProviderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invalid_request", "error_description": "Unknown provider."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": "Could not start authorization."})
		return
	}

	if err := h.States.Save(c.Writer, c.Request, state); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": "Could not start authorization."})
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// Callback handles GET /login/oauth2/code/:provider. The saved state cookie
// is cleared unconditionally; a handshake is single-use whether it succeeds
// or not.
func (h *OAuthHandler) Callback(c *gin.Context) {
	saved := h.States.Load(c.Request)
	h.States.Remove(c.Writer, c.Request)

	if errMsg := c.Query("error"); errMsg != "" {
		h.redirectWithError(c, errMsg)
		return
	}

	result, err := h.OAuth.HandleCallback(c.Request.Context(), c.Query("code"), c.Query("state"), saved)
	if err != nil {
		if errors.Is(err, oauth.ErrInvalidState) {
			h.redirectWithError(c, "invalid_state")
			return
		}
		h.redirectWithError(c, "login_failed")
		return
	}

	h.Auth.setRefreshCookie(c, result.RefreshToken)

	redirect := h.Cfg.FrontendBaseURL + "/oauth/redirect?token=" + url.QueryEscape(result.AccessToken)
	c.Redirect(http.StatusFound, redirect)
}

func (h *OAuthHandler) redirectWithError(c *gin.Context, code string) {
	c.Redirect(http.StatusFound, h.Cfg.FrontendBaseURL+"/oauth/redirect?error="+url.QueryEscape(code))
}

// callbackURL reconstructs this server's callback endpoint for the provider
// redirect_uri parameter.
func callbackURL(r *http.Request, provider string) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/login/oauth2/code/" + provider
}
