package oauth

// ProviderConfig holds the endpoints and credentials for an external
// identity provider. Providers are configured once at startup; there is no
// per-request lookup.
type ProviderConfig struct {
	Name         string
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	Scopes       []string
}

// StateVersion tags the cookie payload layout so stale cookies from older
// deployments decode to nil instead of garbage.
const StateVersion = 1

// AuthorizationState is the ephemeral handshake state round-tripped through
// the client in a cookie. It is the only durable representation of an
// in-flight authorization-code flow; nothing is kept server-side.
type AuthorizationState struct {
	Version     int      `json:"v"`
	State       string   `json:"state"`
	Provider    string   `json:"provider"`
	RedirectURI string   `json:"redirect_uri"`
	Scopes      []string `json:"scopes,omitempty"`
}

// TokenResponse models the response from an external provider token endpoint.
type TokenResponse struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	TokenType    string
	IDToken      string
	Scope        string
	Raw          map[string]any
}

// UserInfo is the normalized profile returned by provider userinfo endpoints.
type UserInfo struct {
	Subject  string `json:"sub"`
	Email    string `json:"email"`
	Nickname string `json:"nickname,omitempty"`
	Picture  string `json:"picture,omitempty"`
	Provider string `json:"provider,omitempty"`
}
