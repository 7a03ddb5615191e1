package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudnative-denmark/conference-companion/internal/ratings/domain"
)

type speakerIndex map[string][]string

func (s speakerIndex) SpeakerSessionIDs(speakerID string) []string {
	return s[speakerID]
}

func seedFeedback(t *testing.T, svc *RatingService) map[string]*domain.Rating {
	t.Helper()
	ctx := context.Background()
	out := map[string]*domain.Rating{}
	for _, tc := range []struct {
		key, user, session string
		status             domain.Status
	}{
		{"approved-s1", "u1", "s1", domain.StatusApproved},
		{"pending-s1", "u2", "s1", domain.StatusPending},
		{"rejected-s2", "u1", "s2", domain.StatusRejected},
		{"approved-s3", "u3", "s3", domain.StatusApproved},
	} {
		r, err := svc.Create(ctx, tc.user, domain.CreateRatingInput{SessionID: tc.session, Stars: 4})
		require.NoError(t, err)
		if tc.status != domain.StatusPending {
			r, err = svc.Moderate(ctx, r.ID, "admin1", domain.ModerateRatingInput{Status: tc.status})
			require.NoError(t, err)
		}
		out[tc.key] = r
	}
	return out
}

func TestFeedbackService_Admin(t *testing.T) {
	ctx := context.Background()
	ratings, _ := newService()
	seeded := seedFeedback(t, ratings)
	svc := NewFeedbackService(ratings, speakerIndex{})
	admin := Viewer{UserID: "admin1", IsAdmin: true}

	pending, err := svc.List(ctx, admin, "")
	require.NoError(t, err)
	assert.Equal(t, []string{seeded["pending-s1"].ID}, idsOf(pending))

	all, err := svc.List(ctx, admin, FilterAll)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	rejected, err := svc.List(ctx, admin, FilterRejected)
	require.NoError(t, err)
	assert.Equal(t, []string{seeded["rejected-s2"].ID}, idsOf(rejected))
}

func TestFeedbackService_Speaker(t *testing.T) {
	ctx := context.Background()
	ratings, _ := newService()
	seeded := seedFeedback(t, ratings)
	svc := NewFeedbackService(ratings, speakerIndex{"sp1": {"s1", "s1", "s2"}})

	got, err := svc.List(ctx, Viewer{UserID: "u9", IsSpeaker: true, SpeakerID: "sp1"}, FilterAll)
	require.NoError(t, err)
	assert.Equal(t, []string{seeded["approved-s1"].ID}, idsOf(got), "only approved ratings of the speaker's sessions")
}

func TestFeedbackService_Others(t *testing.T) {
	ctx := context.Background()
	ratings, _ := newService()
	seedFeedback(t, ratings)
	svc := NewFeedbackService(ratings, speakerIndex{"sp1": {"s1"}})

	got, err := svc.List(ctx, Viewer{UserID: "u1"}, FilterAll)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = svc.List(ctx, Viewer{UserID: "u1", IsSpeaker: true}, "")
	require.NoError(t, err)
	assert.Empty(t, got, "speaker without a linked speaker id")
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("approved")
	require.NoError(t, err)
	assert.Equal(t, FilterApproved, f)

	f, err = ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, Filter(""), f)

	_, err = ParseFilter("bogus")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}
