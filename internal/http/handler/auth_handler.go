package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eunsilJANG/EasyGo/internal/config"
	"github.com/eunsilJANG/EasyGo/internal/domain"
	"github.com/eunsilJANG/EasyGo/internal/http/middleware"
	"github.com/eunsilJANG/EasyGo/internal/service"
)

// AuthHandler exposes credential login, signup, and token renewal.
type AuthHandler struct {
	Auth  *service.AuthService
	Users *service.UserService
	Cfg   config.Config
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type signupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Nickname string `json:"nickname"`
}

type renewRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type nicknameRequest struct {
	Nickname string `json:"nickname" binding:"required"`
}

func userView(u domain.User) gin.H {
	return gin.H{"id": u.ID, "email": u.Email, "nickname": u.Nickname}
}

// Login handles POST /api/login. On success the access token is returned in
// the body and the refresh token rides a cookie scoped to the whole site.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Email and password required."})
		return
	}

	result, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrBadCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_grant", "error_description": "Wrong email or password."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": "Login failed."})
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	c.JSON(http.StatusOK, gin.H{
		"jwtToken": result.AccessToken,
		"user":     userView(result.User),
	})
}

// Signup handles POST /api/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Email and password required."})
		return
	}

	user, err := h.Users.Signup(c.Request.Context(), req.Email, req.Password, req.Nickname)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "signup_failed", "error_description": "Could not create account."})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": userView(user)})
}

// Renew handles POST /api/token: a valid stored refresh token buys a fresh
// short-lived access token. The refresh token can also arrive via its
// cookie when the body omits it.
func (h *AuthHandler) Renew(c *gin.Context) {
	var req renewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if cookie, cerr := c.Cookie(h.Cfg.RefreshCookieName); cerr == nil && cookie != "" {
			req.RefreshToken = cookie
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Refresh token required."})
			return
		}
	}

	access, err := h.Auth.RenewAccessToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenInvalid):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Refresh token is not valid."})
		case errors.Is(err, domain.ErrTokenNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "error_description": "Refresh token is not recognized."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": "Renewal failed."})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": access})
}

// Me handles GET /api/user/me.
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "error_description": "Authentication required."})
		return
	}
	user, err := h.Users.FindByID(c.Request.Context(), principal.UserID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "error_description": "Unknown user."})
		return
	}
	c.JSON(http.StatusOK, userView(user))
}

// UpdateNickname handles POST /api/user/nickname. The route sits in the
// public table because first-login OAuth users hit it before the frontend
// refreshes its session, but it still requires a bearer identity.
func (h *AuthHandler) UpdateNickname(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "error_description": "Authentication required."})
		return
	}
	var req nicknameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Nickname required."})
		return
	}
	user, err := h.Users.UpdateNickname(c.Request.Context(), principal.UserID, req.Nickname)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": "Could not update nickname."})
		return
	}
	c.JSON(http.StatusOK, userView(user))
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, value string) {
	c.SetCookie(
		h.Cfg.RefreshCookieName,
		value,
		int(h.Cfg.RefreshTokenTTL.Seconds()),
		"/",
		"",
		false,
		true,
	)
}
