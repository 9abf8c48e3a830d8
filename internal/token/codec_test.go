package token_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eunsilJANG/EasyGo/internal/domain"
	"github.com/eunsilJANG/EasyGo/internal/token"
)

func TestCodecRoundTrip(t *testing.T) {
	codec := token.NewCodec("easygo", "s3cr3t")
	user := domain.User{ID: 42, Email: "a@b.com", Nickname: "tester"}

	signed, err := codec.Issue(user, 24*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	require.True(t, codec.Validate(signed))

	claims, err := codec.ParseClaims(signed)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, "a@b.com", claims.Subject)
	require.Equal(t, "easygo", claims.Issuer)

	id, err := codec.UserID(signed)
	require.NoError(t, err)
	require.Equal(t, int64(42), id)
}

func TestCodecExpiredToken(t *testing.T) {
	codec := token.NewCodec("easygo", "s3cr3t")
	user := domain.User{ID: 42, Email: "a@b.com"}

	// One second past expiry is expired; no clock-skew grace applies.
	signed, err := codec.Issue(user, -time.Second)
	require.NoError(t, err)

	require.False(t, codec.Validate(signed))
	require.ErrorIs(t, codec.Inspect(signed), token.ErrExpired)

	_, err = codec.ParseClaims(signed)
	require.Error(t, err)
}

func TestCodecAcceptsArbitraryLengthSecrets(t *testing.T) {
	// The configured secret is digested to a fixed-size key, so signing
	// must work no matter how short or long the secret is.
	for _, secret := range []string{"x", "s3cr3t", strings.Repeat("long", 32)} {
		codec := token.NewCodec("easygo", secret)
		signed, err := codec.Issue(domain.User{ID: 5, Email: "a@b.com"}, time.Hour)
		require.NoError(t, err, "secret %q", secret)
		require.True(t, codec.Validate(signed))
	}
}

func TestCodecTamperedSignature(t *testing.T) {
	codec := token.NewCodec("easygo", "s3cr3t")

	signed, err := codec.Issue(domain.User{ID: 1, Email: "a@b.com"}, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(signed, ".")
	require.Len(t, parts, 3)

	sig := []byte(parts[2])
	for i := range sig {
		flipped := byte('A')
		if sig[i] == 'A' {
			flipped = 'B'
		}
		tampered := parts[0] + "." + parts[1] + "." + string(sig[:i]) + string(flipped) + string(sig[i+1:])
		if tampered == signed {
			continue
		}
		require.False(t, codec.Validate(tampered), "flipping signature byte %d must invalidate the token", i)
	}
}

func TestCodecRejectsGarbageAndWrongKey(t *testing.T) {
	codec := token.NewCodec("easygo", "s3cr3t")

	require.False(t, codec.Validate(""))
	require.False(t, codec.Validate("not-a-token"))
	require.ErrorIs(t, codec.Inspect("not-a-token"), token.ErrMalformed)

	signed, err := codec.Issue(domain.User{ID: 7, Email: "x@y.com"}, time.Hour)
	require.NoError(t, err)

	otherKey := token.NewCodec("easygo", "different-secret")
	require.False(t, otherKey.Validate(signed))
	require.ErrorIs(t, otherKey.Inspect(signed), token.ErrSignature)

	otherIssuer := token.NewCodec("someone-else", "s3cr3t")
	require.False(t, otherIssuer.Validate(signed))
}
