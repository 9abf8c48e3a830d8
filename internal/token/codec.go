package token

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	gojose "github.com/go-jose/go-jose/v4"
	gojwt "github.com/go-jose/go-jose/v4/jwt"
	"github.com/google/uuid"

	"github.com/eunsilJANG/EasyGo/internal/domain"
)

// Claims is the decoded payload of an access or refresh token.
type Claims struct {
	Issuer    string
	Subject   string
	UserID    int64
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type customClaims struct {
	UserID int64 `json:"id"`
}

// Validation failure causes. Validate collapses all of them to false; they
// are reachable only through Inspect for diagnostics.
var (
	ErrMalformed = errors.New("token: malformed")
	ErrSignature = errors.New("token: signature mismatch")
	ErrExpired   = errors.New("token: expired")
)

var allowedAlgorithms = []gojose.SignatureAlgorithm{gojose.HS256}

// Codec signs and parses compact HMAC-SHA256 tokens. The secret and issuer
// are fixed at construction; a Codec is safe for unlimited concurrent use.
type Codec struct {
	issuer string
	secret []byte
	now    func() time.Time
}

// NewCodec constructs a codec from the process-wide issuer and signing
// secret. The configured secret may be any length; it is digested into a
// fixed 32-byte HMAC key, which also satisfies the signer's minimum key
// size for HS256.
func NewCodec(issuer, secret string) *Codec {
	key := sha256.Sum256([]byte(secret))
	return &Codec{issuer: issuer, secret: key[:], now: time.Now}
}

// Issue builds a signed token for the user expiring after validity.
// Claims: iss, sub (email), iat, exp, and the custom numeric id claim.
func (c *Codec) Issue(user domain.User, validity time.Duration) (string, error) {
	signer, err := gojose.NewSigner(
		gojose.SigningKey{Algorithm: gojose.HS256, Key: c.secret},
		(&gojose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", fmt.Errorf("new signer: %w", err)
	}

	// jti makes every issued token distinct even within the same second,
	// so a re-login always produces a fresh refresh token value.
	now := c.now().UTC()
	std := gojwt.Claims{
		ID:       uuid.NewString(),
		Issuer:   c.issuer,
		Subject:  user.Email,
		IssuedAt: gojwt.NewNumericDate(now),
		Expiry:   gojwt.NewNumericDate(now.Add(validity)),
	}
	custom := customClaims{UserID: user.ID}

	signed, err := gojwt.Signed(signer).Claims(std).Claims(custom).Serialize()
	if err != nil {
		return "", fmt.Errorf("serialize token: %w", err)
	}
	return signed, nil
}

// Validate reports whether the token carries a valid signature and has not
// expired. Every failure mode collapses to false; use Inspect when the
// cause matters.
func (c *Codec) Validate(token string) bool {
	return c.Inspect(token) == nil
}

// Inspect is the diagnostic counterpart of Validate: it returns nil for a
// valid token and otherwise an error wrapping ErrMalformed, ErrSignature,
// or ErrExpired.
func (c *Codec) Inspect(token string) error {
	parsed, err := gojwt.ParseSigned(token, allowedAlgorithms)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var std gojwt.Claims
	if err := parsed.Claims(c.secret, &std); err != nil {
		return fmt.Errorf("%w: %v", ErrSignature, err)
	}

	// Zero leeway: a token expired by even a second is expired.
	if err := std.ValidateWithLeeway(gojwt.Expected{Issuer: c.issuer, Time: c.now()}, 0); err != nil {
		if errors.Is(err, gojwt.ErrExpired) {
			return ErrExpired
		}
		return fmt.Errorf("%w: %v", ErrSignature, err)
	}
	return nil
}

// ParseClaims verifies the token and returns its claims. Unlike Validate it
// surfaces an error on any failure, including expiry; callers that only
// need a yes/no answer should call Validate first.
func (c *Codec) ParseClaims(token string) (Claims, error) {
	parsed, err := gojwt.ParseSigned(token, allowedAlgorithms)
	if err != nil {
		return Claims{}, fmt.Errorf("parse token: %w", err)
	}

	var std gojwt.Claims
	var custom customClaims
	if err := parsed.Claims(c.secret, &std, &custom); err != nil {
		return Claims{}, fmt.Errorf("verify token: %w", err)
	}
	if err := std.ValidateWithLeeway(gojwt.Expected{Issuer: c.issuer, Time: c.now()}, 0); err != nil {
		return Claims{}, fmt.Errorf("validate claims: %w", err)
	}

	claims := Claims{
		Issuer:  std.Issuer,
		Subject: std.Subject,
		UserID:  custom.UserID,
	}
	if std.IssuedAt != nil {
		claims.IssuedAt = std.IssuedAt.Time()
	}
	if std.Expiry != nil {
		claims.ExpiresAt = std.Expiry.Time()
	}
	return claims, nil
}

// UserID extracts the numeric id claim from a token known to be valid.
func (c *Codec) UserID(token string) (int64, error) {
	claims, err := c.ParseClaims(token)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// Subject extracts the subject (email) claim from a token known to be valid.
func (c *Codec) Subject(token string) (string, error) {
	claims, err := c.ParseClaims(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
