package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eunsilJANG/EasyGo/internal/domain"
	"github.com/eunsilJANG/EasyGo/internal/token"
)

const principalKey = "principal"

const bearerPrefix = "Bearer "

// Auth resolves the bearer token on incoming requests.
type Auth struct {
	Codec  *token.Codec
	Logger *zap.Logger
}

// Authenticate attaches a principal when the request carries a valid bearer
// token. It never rejects: requests with a missing, malformed, or expired
// token continue without a principal, and the route policy decides whether
// that is acceptable. Rejecting here would break public endpoints that
// tolerate stale tokens.
func (m *Auth) Authenticate(c *gin.Context) {
	raw := extractBearer(c.GetHeader("Authorization"))
	if raw == "" {
		c.Next()
		return
	}

	if !m.Codec.Validate(raw) {
		if cause := m.Codec.Inspect(raw); cause != nil {
			m.Logger.Debug("bearer token rejected", zap.Error(cause))
		}
		c.Next()
		return
	}

	claims, err := m.Codec.ParseClaims(raw)
	if err != nil {
		m.Logger.Debug("bearer token rejected", zap.Error(err))
		c.Next()
		return
	}

	c.Set(principalKey, domain.Principal{
		UserID: claims.UserID,
		Email:  claims.Subject,
	})
	c.Next()
}

// GetPrincipal returns the authenticated principal, if any.
func GetPrincipal(c *gin.Context) (domain.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return domain.Principal{}, false
	}
	principal, ok := value.(domain.Principal)
	return principal, ok
}

// extractBearer strips the scheme prefix and surrounding whitespace from an
// Authorization header value. Anything without the exact "Bearer " prefix
// yields the empty string.
func extractBearer(header string) string {
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}
