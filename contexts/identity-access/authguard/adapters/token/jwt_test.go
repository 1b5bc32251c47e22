package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "vantage/contexts/identity-access/authguard/domain/errors"
)

func TestParserRoundTrip(t *testing.T) {
	parser, err := NewParser("test-secret")
	require.NoError(t, err)

	raw, err := parser.Sign("inf-1", "influencer", time.Minute)
	require.NoError(t, err)

	claims, err := parser.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "inf-1", claims.Subject)
	assert.Equal(t, "influencer", claims.Role)
}

func TestParserRejectsWrongSecret(t *testing.T) {
	signer, err := NewParser("secret-a")
	require.NoError(t, err)
	verifier, err := NewParser("secret-b")
	require.NoError(t, err)

	raw, err := signer.Sign("inf-1", "influencer", time.Minute)
	require.NoError(t, err)

	_, err = verifier.Parse(raw)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
}

func TestParserRejectsExpiredToken(t *testing.T) {
	parser, err := NewParser("test-secret")
	require.NoError(t, err)

	raw, err := parser.Sign("inf-1", "influencer", -time.Minute)
	require.NoError(t, err)

	_, err = parser.Parse(raw)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
}

func TestParserRejectsGarbage(t *testing.T) {
	parser, err := NewParser("test-secret")
	require.NoError(t, err)

	_, err = parser.Parse("not-a-jwt")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
}

func TestNewParserRequiresSecret(t *testing.T) {
	_, err := NewParser("")
	assert.Error(t, err)
}
