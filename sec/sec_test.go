package sec

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	iss, err := NewTokenIssuer("s3cret", 0)
	require.NoError(t, err)

	tok, err := iss.Issue("user-1")
	require.NoError(t, err)
	uid, err := iss.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", uid)

	other, _ := NewTokenIssuer("other", 0)
	_, err = other.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	iss, _ := NewTokenIssuer("s3cret", time.Hour)
	iss.SetClock(func() time.Time { return now })
	tok, err := iss.Issue("u")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = iss.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestOtherAlgorithmRejected(t *testing.T) {
	iss, _ := NewTokenIssuer("s3cret", 0)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, UserClaims{ID: "u"}).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = iss.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestEmptySecret(t *testing.T) {
	_, err := NewTokenIssuer("", 0)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestExtractBearerToken(t *testing.T) {
	assert.Equal(t, "abc", ExtractBearerToken("Bearer abc"))
	assert.Equal(t, "abc", ExtractBearerToken("bearer abc"))
	assert.Equal(t, "", ExtractBearerToken("Basic abc"))
	assert.Equal(t, "", ExtractBearerToken("Bearer "))
}

func TestGenerateHexToken(t *testing.T) {
	a, err := GenerateHexToken(32)
	require.NoError(t, err)
	b, _ := GenerateHexToken(0)
	assert.Len(t, a, 64)
	assert.Len(t, b, 64)
	assert.NotEqual(t, a, b)
	assert.Equal(t, strings.ToLower(a), a)
	assert.Len(t, HashHexSHA256(a), 64)
}
