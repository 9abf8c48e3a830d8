package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Access levels for route policies.
const (
	AccessPublic        = "public"
	AccessAuthenticated = "authenticated"
)

// RoutePolicy pairs a path pattern with the access it requires. A pattern
// ending in "/**" matches the prefix before it and everything below. An
// empty Methods list applies the policy to every method.
type RoutePolicy struct {
	Pattern string
	Methods []string
	Access  string
}

// DefaultPolicies is the declarative access table for the API surface.
// Policies are evaluated top to bottom and the first match wins; requests
// that match nothing require authentication.
var DefaultPolicies = []RoutePolicy{
	{Pattern: "/api/signup", Access: AccessPublic},
	{Pattern: "/api/login", Access: AccessPublic},
	{Pattern: "/api/token", Access: AccessPublic},
	{Pattern: "/api/user/nickname", Access: AccessPublic},
	{Pattern: "/oauth2/**", Access: AccessPublic},
	{Pattern: "/login/oauth2/code/**", Access: AccessPublic},
	{Pattern: "/api/articles/**", Methods: []string{http.MethodGet}, Access: AccessPublic},
	{Pattern: "/uploads/**", Methods: []string{http.MethodGet}, Access: AccessPublic},
	{Pattern: "/healthz", Access: AccessPublic},
}

// Enforce rejects unauthenticated requests to routes whose policy demands a
// principal. It complements Authenticate, which identifies but never blocks.
func Enforce(policies []RoutePolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		if requiredAccess(policies, c.Request.Method, c.Request.URL.Path) == AccessPublic {
			c.Next()
			return
		}
		if _, ok := GetPrincipal(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":             "unauthorized",
				"error_description": "Authentication required.",
			})
			return
		}
		c.Next()
	}
}

func requiredAccess(policies []RoutePolicy, method, path string) string {
	for _, p := range policies {
		if matchesMethod(p.Methods, method) && matchesPath(p.Pattern, path) {
			return p.Access
		}
	}
	return AccessAuthenticated
}

func matchesMethod(methods []string, method string) bool {
	if len(methods) == 0 {
		return true
	}
	for _, m := range methods {
		if m == method {
			return true
		}
	}
	return false
}

func matchesPath(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return path == pattern
}
