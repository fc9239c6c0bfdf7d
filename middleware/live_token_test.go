package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveTokenRoundTrip(t *testing.T) {
	issuer := NewLiveTokenIssuer("live-secret", time.Minute)

	token, err := issuer.Issue("42", "b2c4d6e8-0000-4000-8000-000000000001")
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.CustomerID)
	assert.Equal(t, "b2c4d6e8-0000-4000-8000-000000000001", claims.TournamentID)
}

func TestLiveTokenRejectsOtherSecret(t *testing.T) {
	token, err := NewLiveTokenIssuer("one", time.Minute).Issue("42", "t")
	require.NoError(t, err)

	_, err = NewLiveTokenIssuer("two", time.Minute).Parse(token)
	require.ErrorIs(t, err, ErrInvalidLiveToken)
}

func TestLiveTokenExpires(t *testing.T) {
	issuer := NewLiveTokenIssuer("live-secret", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := issuer.Issue("42", "t")
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	require.ErrorIs(t, err, ErrInvalidLiveToken)
}

func TestLiveTokenGarbage(t *testing.T) {
	_, err := NewLiveTokenIssuer("s", 0).Parse("not.a.token")
	require.ErrorIs(t, err, ErrInvalidLiveToken)
}
