package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cloudnative-denmark/conference-companion/internal/auth/domain"
)

// UsersCollection holds one profile document per uid.
const UsersCollection = "users"

type FirestoreProfiles struct {
	client *firestore.Client
}

func NewFirestoreProfiles(client *firestore.Client) *FirestoreProfiles {
	return &FirestoreProfiles{client: client}
}

// Get retrieves the profile document users/{uid}
func (r *FirestoreProfiles) Get(ctx context.Context, uid string) (*domain.UserProfile, error) {
	snap, err := r.client.Collection(UsersCollection).Doc(uid).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", uid, err)
	}

	var p domain.UserProfile
	if err := snap.DataTo(&p); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", uid, err)
	}
	p.UID = snap.Ref.ID
	p.Role = domain.ParseRole(string(p.Role))
	return &p, nil
}

// CreateIfAbsent relies on Create failing for an existing document, so two
// first sign-ins racing each other keep a single profile.
func (r *FirestoreProfiles) CreateIfAbsent(ctx context.Context, p domain.UserProfile) (*domain.UserProfile, bool, error) {
	_, err := r.client.Collection(UsersCollection).Doc(p.UID).Create(ctx, p)
	created := true
	if status.Code(err) == codes.AlreadyExists {
		created = false
	} else if err != nil {
		return nil, false, fmt.Errorf("create profile %s: %w", p.UID, err)
	}

	stored, err := r.Get(ctx, p.UID)
	if err != nil {
		return nil, false, err
	}
	return stored, created, nil
}
