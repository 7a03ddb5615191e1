package service

import (
	"context"
	"errors"

	"firebase.google.com/go/v4/auth"

	"github.com/cloudnative-denmark/conference-companion/internal/auth/domain"
	"github.com/cloudnative-denmark/conference-companion/internal/auth/identity"
)

type fakeProvider struct {
	users map[string]domain.User // by email, password is "secret1"
	idp   map[string]domain.User // by provider:token
	calls int
}

func (p *fakeProvider) SignInWithPassword(ctx context.Context, email, password string) (*domain.User, error) {
	p.calls++
	u, ok := p.users[email]
	if !ok || password != "secret1" {
		return nil, &domain.AuthError{Op: "signInWithPassword", Message: "INVALID_LOGIN_CREDENTIALS"}
	}
	return &u, nil
}

func (p *fakeProvider) SignUp(ctx context.Context, email, password, displayName string) (*domain.User, error) {
	p.calls++
	if _, exists := p.users[email]; exists {
		return nil, &domain.AuthError{Op: "signUp", Message: "EMAIL_EXISTS"}
	}
	u := domain.User{UID: "uid-" + email, Email: email, DisplayName: displayName, IDToken: "token-" + email}
	p.users[email] = u
	return &u, nil
}

func (p *fakeProvider) SignInWithIdP(ctx context.Context, provider identity.ProviderID, token string) (*domain.User, error) {
	p.calls++
	u, ok := p.idp[string(provider)+":"+token]
	if !ok {
		return nil, &domain.AuthError{Op: "signInWithIdp", Message: "INVALID_IDP_RESPONSE"}
	}
	return &u, nil
}

type fakeAdmin struct {
	tokens  map[string]*auth.Token
	revoked []string
	fail    bool
}

func (a *fakeAdmin) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	t, ok := a.tokens[idToken]
	if !ok {
		return nil, errors.New("ID token has invalid signature")
	}
	return t, nil
}

func (a *fakeAdmin) RevokeRefreshTokens(ctx context.Context, uid string) error {
	if a.fail {
		return errors.New("USER_NOT_FOUND")
	}
	a.revoked = append(a.revoked, uid)
	return nil
}
