package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/zeptools/gw-invoice/db/kvdb/memkv"
	"github.com/zeptools/gw-invoice/sec"
	"github.com/zeptools/gw-invoice/store/memstore"
)

type fixture struct {
	svc *Service
	kv  *memkv.Client
	now *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Unix(1_700_000_000, 0)
	kv := memkv.NewWithClock(func() time.Time { return now })
	tokens, err := sec.NewTokenIssuer("test-secret", 0)
	require.NoError(t, err)
	svc := NewService(memstore.New().Store().Users, kv, tokens, "gwi", nil)
	svc.SetCost(bcrypt.MinCost)
	return &fixture{svc: svc, kv: kv, now: &now}
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.svc.Register(ctx, "Ann", "  Ann@Example.com ", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", sess.User.Email)
	uid, err := f.svc.Authenticate(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, uid)

	_, err = f.svc.Register(ctx, "Ann 2", "ann@example.com", "x")
	assert.ErrorIs(t, err, ErrEmailInUse)
	_, err = f.svc.Register(ctx, "No Pass", "p@example.com", "")
	assert.ErrorIs(t, err, ErrMissingFields)

	again, err := f.svc.Login(ctx, "ANN@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, again.User.ID)

	_, err = f.svc.Login(ctx, "ann@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResetPasswordFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, "Ann", "ann@example.com", "hunter22")
	require.NoError(t, err)

	unknown, err := f.svc.ForgotPassword(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.Empty(t, unknown)
	_, err = f.svc.ForgotPassword(ctx, " ")
	assert.ErrorIs(t, err, ErrEmailRequired)

	token, err := f.svc.ForgotPassword(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Len(t, token, 64)

	valid, err := f.svc.VerifyResetToken(ctx, token)
	require.NoError(t, err)
	assert.True(t, valid)

	assert.ErrorIs(t, f.svc.ResetPassword(ctx, token, "short"), ErrPasswordTooShort)
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, "", "longenough"), ErrResetFields)
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, "bogus", "longenough"), ErrInvalidResetToken)

	require.NoError(t, f.svc.ResetPassword(ctx, token, "newsecret"))
	_, err = f.svc.Login(ctx, "ann@example.com", "newsecret")
	require.NoError(t, err)

	// single use
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, token, "another1"), ErrInvalidResetToken)
}

func TestResetTokenExpiresAndIsReplaced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, "Ann", "ann@example.com", "hunter22")
	require.NoError(t, err)

	first, err := f.svc.ForgotPassword(ctx, "ann@example.com")
	require.NoError(t, err)
	second, err := f.svc.ForgotPassword(ctx, "ann@example.com")
	require.NoError(t, err)

	ok, _ := f.svc.VerifyResetToken(ctx, first)
	assert.False(t, ok)
	ok, _ = f.svc.VerifyResetToken(ctx, second)
	assert.True(t, ok)

	*f.now = f.now.Add(ResetTokenTTL)
	ok, _ = f.svc.VerifyResetToken(ctx, second)
	assert.False(t, ok)
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, second, "newsecret"), ErrInvalidResetToken)
}

func TestRawTokenIsNotStored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _ = f.svc.Register(ctx, "Ann", "ann@example.com", "hunter22")
	token, _ := f.svc.ForgotPassword(ctx, "ann@example.com")

	found, _ := f.kv.Exists(ctx, "gwi_pwreset:"+token)
	assert.False(t, found)
	found, _ = f.kv.Exists(ctx, "gwi_pwreset:"+sec.HashHexSHA256(token))
	assert.True(t, found)
}
