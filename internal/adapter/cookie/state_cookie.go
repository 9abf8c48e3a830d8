// Package cookie keeps the OAuth authorization handshake state on the
// client instead of in a server-side session, so the callback can land on
// any instance of a load-balanced fleet.
package cookie

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/eunsilJANG/EasyGo/internal/domain/oauth"
)

// StateRepository serializes the handshake state into a named cookie. The
// payload is a versioned JSON structure, base64url encoded; anything that
// fails to decode is treated as absent rather than an error.
type StateRepository struct {
	name   string
	maxAge time.Duration
}

// NewStateRepository builds a repository for the configured cookie name and
// expiry window. Expiry is enforced only by the cookie max-age; the payload
// carries no timestamp of its own.
func NewStateRepository(name string, maxAge time.Duration) *StateRepository {
	return &StateRepository{name: name, maxAge: maxAge}
}

// Save writes the state into the response cookie. A nil state is a delete
// request and clears any cookies of the same name instead.
func (r *StateRepository) Save(w http.ResponseWriter, req *http.Request, state *oauth.AuthorizationState) error {
	if state == nil {
		r.Remove(w, req)
		return nil
	}

	payload := *state
	payload.Version = oauth.StateVersion
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:   r.name,
		Value:  base64.RawURLEncoding.EncodeToString(raw),
		Path:   "/",
		MaxAge: int(r.maxAge.Seconds()),
	})
	return nil
}

// Load reads the state back from the request. It returns nil when the
// cookie is absent or the payload does not decode to the current version;
// no error is propagated to the caller.
func (r *StateRepository) Load(req *http.Request) *oauth.AuthorizationState {
	c, err := req.Cookie(r.name)
	if err != nil || c.Value == "" {
		return nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}

	var state oauth.AuthorizationState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil
	}
	if state.Version != oauth.StateVersion {
		return nil
	}
	return &state
}

// Remove expires every cookie matching the handshake name. Blanking each
// one guards against stale duplicates left under different path scopes.
// MaxAge -1 emits "Max-Age: 0", which tells the client to drop the cookie.
func (r *StateRepository) Remove(w http.ResponseWriter, req *http.Request) {
	for _, c := range req.Cookies() {
		if c.Name != r.name {
			continue
		}
		http.SetCookie(w, &http.Cookie{
			Name:   r.name,
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
	}
}
