package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("auth0|alice", "idp", []byte("secret"), time.Hour)
	require.NoError(t, err)

	sub, err := NewVerifier("secret", "idp").Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "auth0|alice", sub)
}

func TestVerifyWithoutIssuerCheck(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("u1", "anyone", []byte("secret"), time.Hour)
	require.NoError(t, err)

	sub, err := NewVerifier("secret", "").Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", sub)
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("u1", "", []byte("secret"), -time.Minute)
	require.NoError(t, err)

	_, err = NewVerifier("secret", "").Verify(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("u1", "", []byte("right"), time.Hour)
	require.NoError(t, err)

	_, err = NewVerifier("wrong", "").Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongIssuer(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("u1", "other", []byte("secret"), time.Hour)
	require.NoError(t, err)

	_, err = NewVerifier("secret", "idp").Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMissingSubject(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("", "", []byte("secret"), time.Hour)
	require.NoError(t, err)

	_, err = NewVerifier("secret", "").Verify(tok)
	assert.ErrorIs(t, err, ErrNoSubject)
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{Subject: "u1"})
	tok, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewVerifier("secret", "").Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	t.Parallel()

	_, err := NewVerifier("secret", "").Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
