package repository

import (
	"context"

	"github.com/cloudnative-denmark/conference-companion/internal/auth/domain"
)

// ProfileStore holds user profiles keyed by uid.
type ProfileStore interface {
	Get(ctx context.Context, uid string) (*domain.UserProfile, error)
	// CreateIfAbsent stores p unless a profile for p.UID exists. It returns the
	// stored profile and whether it was created by this call.
	CreateIfAbsent(ctx context.Context, p domain.UserProfile) (*domain.UserProfile, bool, error)
}
