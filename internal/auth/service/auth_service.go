package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"firebase.google.com/go/v4/auth"
	"golang.org/x/sync/errgroup"

	"github.com/cloudnative-denmark/conference-companion/internal/auth/domain"
	"github.com/cloudnative-denmark/conference-companion/internal/auth/identity"
	"github.com/cloudnative-denmark/conference-companion/internal/auth/repository"
	"github.com/cloudnative-denmark/conference-companion/internal/logging"
	"github.com/cloudnative-denmark/conference-companion/internal/validation"
)

// AdminAuth is the part of the Firebase Admin auth client the service uses.
type AdminAuth interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// ErrAdminUnavailable is returned for token operations when no Firebase Admin
// client is configured.
var ErrAdminUnavailable = errors.New("firebase admin auth is not configured")

// DefaultDisplayName is used for federated accounts that carry no name.
const DefaultDisplayName = "User"

type AuthService struct {
	provider identity.Provider
	admin    AdminAuth
	profiles repository.ProfileStore
}

func NewAuthService(provider identity.Provider, admin AdminAuth, profiles repository.ProfileStore) *AuthService {
	return &AuthService{
		provider: provider,
		admin:    admin,
		profiles: profiles,
	}
}

// IsAdminToken reports whether the token carries admin: true.
func IsAdminToken(token *auth.Token) bool {
	admin, ok := token.Claims["admin"].(bool)
	return ok && admin
}

// SignIn signs in with email and password
func (s *AuthService) SignIn(ctx context.Context, req domain.SignInRequest) (*domain.Identity, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	user, err := s.provider.SignInWithPassword(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return s.Resolve(ctx, *user), nil
}

// SignUp registers an account and provisions its attendee profile
func (s *AuthService) SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.Identity, error) {
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.provider.SignUp(ctx, req.Email, req.Password, req.DisplayName)
	if err != nil {
		return nil, err
	}
	if err := s.provision(ctx, *user, req.DisplayName); err != nil {
		return nil, err
	}
	return s.Resolve(ctx, *user), nil
}

// SignInWithProvider signs in with a Google id token or a GitHub access token
// and provisions a default profile on first use.
func (s *AuthService) SignInWithProvider(ctx context.Context, provider identity.ProviderID, token string) (*domain.Identity, error) {
	if err := validation.Var("token", token, "required"); err != nil {
		return nil, err
	}

	user, err := s.provider.SignInWithIdP(ctx, provider, token)
	if err != nil {
		return nil, err
	}

	name := user.DisplayName
	if name == "" {
		name = DefaultDisplayName
	}
	if err := s.provision(ctx, *user, name); err != nil {
		return nil, err
	}
	return s.Resolve(ctx, *user), nil
}

func (s *AuthService) provision(ctx context.Context, user domain.User, displayName string) error {
	_, created, err := s.profiles.CreateIfAbsent(ctx, domain.UserProfile{
		UID:         user.UID,
		Email:       user.Email,
		DisplayName: displayName,
		Role:        domain.RoleAttendee,
	})
	if err != nil {
		return fmt.Errorf("provision profile: %w", err)
	}
	if created {
		logging.New(ctx).LogInfof("provision_profile", "uid=%s", user.UID)
	}
	return nil
}

// Resolve loads the profile and the admin claim for user concurrently. It is
// best-effort: a failure on either side is logged and leaves the user without
// a profile and without admin rights.
func (s *AuthService) Resolve(ctx context.Context, user domain.User) *domain.Identity {
	var (
		profile *domain.UserProfile
		isAdmin bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.profiles.Get(gctx, user.UID)
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		profile = p
		return err
	})
	g.Go(func() error {
		if user.IDToken == "" || s.admin == nil {
			return nil
		}
		token, err := s.admin.VerifyIDToken(gctx, user.IDToken)
		if err != nil {
			return err
		}
		isAdmin = IsAdminToken(token)
		return nil
	})

	if err := g.Wait(); err != nil {
		logging.New(ctx).LogError("resolve_identity", err)
		return &domain.Identity{User: user}
	}
	return &domain.Identity{User: user, Profile: profile, IsAdmin: isAdmin}
}

// Authenticate verifies an id token and resolves the identity it belongs to.
func (s *AuthService) Authenticate(ctx context.Context, idToken string) (*domain.Identity, error) {
	if s.admin == nil {
		return nil, &domain.AuthError{Op: "verifyIdToken", Message: ErrAdminUnavailable.Error(), Err: ErrAdminUnavailable}
	}
	token, err := s.admin.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, &domain.AuthError{Op: "verifyIdToken", Message: err.Error(), Err: err}
	}

	user := domain.User{UID: token.UID, IDToken: idToken}
	if email, ok := token.Claims["email"].(string); ok {
		user.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		user.DisplayName = name
	}

	id := &domain.Identity{User: user, IsAdmin: IsAdminToken(token)}
	profile, err := s.profiles.Get(ctx, user.UID)
	switch {
	case err == nil:
		id.Profile = profile
	case !errors.Is(err, domain.ErrUserNotFound):
		logging.New(ctx).LogError("load_profile", err)
	}
	return id, nil
}

// GetProfile retrieves a user's profile
func (s *AuthService) GetProfile(ctx context.Context, uid string) (*domain.UserProfile, error) {
	return s.profiles.Get(ctx, uid)
}

// SignOut revokes the user's refresh tokens so no new id tokens can be minted.
func (s *AuthService) SignOut(ctx context.Context, uid string) error {
	if s.admin == nil {
		return &domain.AuthError{Op: "signOut", Message: ErrAdminUnavailable.Error(), Err: ErrAdminUnavailable}
	}
	if err := s.admin.RevokeRefreshTokens(ctx, uid); err != nil {
		return &domain.AuthError{Op: "signOut", Message: err.Error(), Err: err}
	}
	return nil
}
