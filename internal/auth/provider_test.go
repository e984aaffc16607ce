package auth

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/brewlog/internal/common"
)

func signToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestTokenProvider_ExtractsUserID(t *testing.T) {
	p := NewTokenProvider()
	ctx := context.Background()

	require.NoError(t, p.SetToken(signToken(t, &Claims{UserID: "u1"})))

	got, err := p.CurrentUserID(ctx)
	require.NoError(t, err)
	require.Equal(t, "u1", got)

	tok, err := p.Token(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, tok)
}

func TestTokenProvider_FallsBackToSubject(t *testing.T) {
	p := NewTokenProvider()

	require.NoError(t, p.SetToken(signToken(t, &jwt.RegisteredClaims{Subject: "u2"})))

	got, err := p.CurrentUserID(context.Background())
	require.NoError(t, err)
	require.Equal(t, "u2", got)
}

func TestTokenProvider_RejectsTokenWithoutIdentity(t *testing.T) {
	p := NewTokenProvider()

	err := p.SetToken(signToken(t, &jwt.RegisteredClaims{}))
	require.Error(t, err)

	_, err = p.CurrentUserID(context.Background())
	require.ErrorIs(t, err, common.ErrAuthRequired)
}

func TestTokenProvider_RejectsMalformedToken(t *testing.T) {
	p := NewTokenProvider()
	require.Error(t, p.SetToken("not-a-jwt"))
}

func TestTokenProvider_EmptyTokenClearsSession(t *testing.T) {
	p := NewTokenProvider()
	ctx := context.Background()

	require.NoError(t, p.SetToken(signToken(t, &Claims{UserID: "u1"})))
	require.NoError(t, p.SetToken(""))

	_, err := p.CurrentUserID(ctx)
	require.ErrorIs(t, err, common.ErrAuthRequired)

	tok, err := p.Token(ctx)
	require.NoError(t, err)
	require.Empty(t, tok)
}

func TestTokenProvider_ValidateOwnership(t *testing.T) {
	p := NewTokenProvider()
	ctx := context.Background()

	require.NoError(t, p.SetToken(signToken(t, &Claims{UserID: "u1"})))

	require.NoError(t, p.ValidateOwnership(ctx, "u1"))
	require.ErrorIs(t, p.ValidateOwnership(ctx, "u2"), common.ErrOwnership)
}

func TestStaticProvider(t *testing.T) {
	ctx := context.Background()

	require.NoError(t, StaticProvider{UserID: "u1"}.ValidateOwnership(ctx, "u1"))
	require.ErrorIs(t, StaticProvider{UserID: "u1"}.ValidateOwnership(ctx, "u2"), common.ErrOwnership)

	_, err := StaticProvider{}.CurrentUserID(ctx)
	require.ErrorIs(t, err, common.ErrAuthRequired)
}
