package repository

import (
	"context"
	"errors"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cloudnative-denmark/conference-companion/internal/ratings/domain"
)

func TestPatchUpdates(t *testing.T) {
	stars := domain.StarRating(4)
	comment := "great"
	st := domain.StatusApproved
	admin := "admin-1"

	updates := patchUpdates(domain.RatingPatch{
		Stars:            &stars,
		Comment:          &comment,
		Status:           &st,
		ModeratedBy:      &admin,
		StampModeratedAt: true,
	})

	assert.Equal(t, []firestore.Update{
		{Path: "stars", Value: 4},
		{Path: "comment", Value: "great"},
		{Path: "status", Value: "approved"},
		{Path: "moderatedBy", Value: "admin-1"},
		{Path: "moderatedAt", Value: firestore.ServerTimestamp},
	}, updates)
}

func TestPatchUpdates_OnlySetFields(t *testing.T) {
	assert.Empty(t, patchUpdates(domain.RatingPatch{}))

	empty := ""
	updates := patchUpdates(domain.RatingPatch{Comment: &empty})
	assert.Equal(t, []firestore.Update{{Path: "comment", Value: ""}}, updates)
}

func TestQueryFilters(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want []filter
	}{
		{name: "empty", q: Query{}, want: nil},
		{
			name: "user and status",
			q:    Query{UserID: "u1", Status: domain.StatusPending},
			want: []filter{{"userId", "==", "u1"}, {"status", "==", "pending"}},
		},
		{
			name: "session membership",
			q:    Query{SessionIDs: []string{"s1", "s2"}},
			want: []filter{{"sessionId", "in", []string{"s1", "s2"}}},
		},
		{
			name: "user on one session",
			q:    Query{UserID: "u1", SessionID: "s1"},
			want: []filter{{"userId", "==", "u1"}, {"sessionId", "==", "s1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, queryFilters(tt.q))
		})
	}
}

func TestQueryOrder(t *testing.T) {
	dir, ok := queryOrder(NewestFirst)
	assert.True(t, ok)
	assert.Equal(t, firestore.Desc, dir)

	dir, ok = queryOrder(OldestFirst)
	assert.True(t, ok)
	assert.Equal(t, firestore.Asc, dir)

	_, ok = queryOrder(Unordered)
	assert.False(t, ok)
}

func TestStoreError(t *testing.T) {
	assert.ErrorIs(t, storeError(status.Error(codes.NotFound, "no doc"), "get rating r1"), domain.ErrRatingNotFound)

	cause := status.Error(codes.Unavailable, "backend down")
	err := storeError(cause, "update rating r1")
	assert.False(t, errors.Is(err, domain.ErrRatingNotFound))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "update rating r1")
}

// newEmulatorRepository connects to the Firestore emulator, skipping when none is configured.
func newEmulatorRepository(t *testing.T) *FirestoreRepository {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	client, err := firestore.NewClient(context.Background(), "demo-conference-companion")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return NewFirestoreRepository(client)
}

func TestFirestoreRepository_Emulator(t *testing.T) {
	repo := newEmulatorRepository(t)
	ctx := context.Background()
	user := "u-" + uuid.NewString()

	created, err := repo.Create(ctx, &domain.Rating{UserID: user, SessionID: "s1", Stars: 3, Status: domain.StatusPending})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Delete(context.Background(), created.ID) })
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	other, err := repo.Create(ctx, &domain.Rating{UserID: user, SessionID: "s2", Stars: 5, Status: domain.StatusApproved})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Delete(context.Background(), other.ID) })

	st := domain.StatusApproved
	admin := "admin-1"
	require.NoError(t, repo.Update(ctx, created.ID, domain.RatingPatch{Status: &st, ModeratedBy: &admin, StampModeratedAt: true}))

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.Status)
	require.NotNil(t, got.ModeratedBy)
	assert.Equal(t, "admin-1", *got.ModeratedBy)
	assert.NotNil(t, got.ModeratedAt)

	found, err := repo.Find(ctx, Query{UserID: user, SessionIDs: []string{"s1", "s2"}, Status: domain.StatusApproved})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = repo.Find(ctx, Query{UserID: user, SessionID: "s2"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, other.ID, found[0].ID)

	_, err = repo.Get(ctx, "missing-"+uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrRatingNotFound)

	err = repo.Update(ctx, "missing-"+uuid.NewString(), domain.RatingPatch{Status: &st})
	assert.ErrorIs(t, err, domain.ErrRatingNotFound)

	require.NoError(t, repo.Delete(ctx, other.ID))
	_, err = repo.Get(ctx, other.ID)
	assert.ErrorIs(t, err, domain.ErrRatingNotFound)
}
