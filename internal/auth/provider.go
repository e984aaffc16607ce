// Package auth supplies the current user identity to CRUD operations.
// Session establishment itself (login, refresh) happens against the backend
// and is outside this package; it only holds the resulting token.
package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/brewlog/internal/common"
)

// Provider resolves the owning user for local mutations.
type Provider interface {
	// CurrentUserID returns the authenticated user's id, or
	// common.ErrAuthRequired when there is no session.
	CurrentUserID(ctx context.Context) (string, error)

	// ValidateOwnership checks that userID belongs to the current session.
	ValidateOwnership(ctx context.Context, userID string) error
}

// Claims mirrors the backend's token layout: registered claims plus an
// explicit UserID.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// TokenProvider implements Provider from an access token issued by the
// backend. The user id is read from the token's claims without verifying
// the signature: the client has no signing key, and the server re-validates
// the token on every remote call anyway.
type TokenProvider struct {
	mu     sync.RWMutex
	token  string
	userID string
}

func NewTokenProvider() *TokenProvider {
	return &TokenProvider{}
}

// SetToken installs a new access token and extracts the user identity from
// it. An empty token clears the session.
func (p *TokenProvider) SetToken(token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if token == "" {
		p.token = ""
		p.userID = ""
		return nil
	}

	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return err
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return errors.New("token carries no user id")
	}

	p.token = token
	p.userID = userID
	return nil
}

// Token returns the current access token for outgoing requests. It
// satisfies the remote client's token func signature.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.token, nil
}

func (p *TokenProvider) CurrentUserID(ctx context.Context) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.userID == "" {
		return "", common.ErrAuthRequired
	}
	return p.userID, nil
}

func (p *TokenProvider) ValidateOwnership(ctx context.Context, userID string) error {
	current, err := p.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	if userID != current {
		return common.ErrOwnership
	}
	return nil
}

// StaticProvider is a fixed-identity Provider for tests and local runs.
type StaticProvider struct {
	UserID string
}

func (p StaticProvider) CurrentUserID(ctx context.Context) (string, error) {
	if p.UserID == "" {
		return "", common.ErrAuthRequired
	}
	return p.UserID, nil
}

func (p StaticProvider) ValidateOwnership(ctx context.Context, userID string) error {
	current, err := p.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	if userID != current {
		return common.ErrOwnership
	}
	return nil
}
