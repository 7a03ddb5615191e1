package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudnative-denmark/conference-companion/internal/schedule/domain"
)

func TestReconcile_JoinsSpeakersAndDetails(t *testing.T) {
	grid := testGrid()
	out := Reconcile(context.Background(), grid, testSpeakers(), testSessionDetails())
	require.Len(t, out, 1)

	s1 := out[0].TimeSlots[1].Rooms[0].Session
	require.Len(t, s1.Speakers, 1, "unknown speaker ids are dropped")
	assert.Equal(t, "Ada Lovelace", s1.Speakers[0].FullName)
	assert.Equal(t, "Operators in anger", s1.Title)
	assert.Equal(t, "War stories", s1.Description)
	assert.Equal(t, "https://video/s1", s1.Video)
	assert.Equal(t, "https://slides/s1", s1.SlideDeck)
	assert.Equal(t, "https://rate/s1", s1.Rate)

	s2 := out[0].TimeSlots[1].Rooms[1].Session
	assert.Equal(t, "eBPF for humans", s2.Title)
	assert.Empty(t, s2.SlideDeck, "no slide-deck answer leaves the field unset")
	assert.Empty(t, s2.Rate)
	assert.Equal(t, "Grace Hopper", s2.Speakers[0].FullName)

	// input grid keeps its id-only speaker stubs
	assert.Len(t, grid[0].TimeSlots[1].Rooms[0].Session.Speakers, 2)
	assert.Empty(t, grid[0].TimeSlots[1].Rooms[0].Session.Title)
}

func TestReconcile_SearchesEveryDetailGroup(t *testing.T) {
	details := []domain.SessionList{
		{Sessions: []domain.Session{{ID: "s2", Title: "first group"}}},
		{Sessions: []domain.Session{{ID: "s4", Title: "second group"}}},
	}
	out := Reconcile(context.Background(), testGrid(), testSpeakers(), details)

	s4, ok := SessionByID(out, "s4")
	require.True(t, ok)
	assert.Equal(t, "second group", s4.Title)
}

func TestReconcile_FailsClosed(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, Reconcile(ctx, nil, testSpeakers(), testSessionDetails()))
	assert.Empty(t, Reconcile(ctx, testGrid(), nil, testSessionDetails()))
	assert.Empty(t, Reconcile(ctx, testGrid(), testSpeakers(), []domain.SessionList{}))
	assert.NotNil(t, Reconcile(ctx, nil, nil, nil))
}
