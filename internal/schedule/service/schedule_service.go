package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cloudnative-denmark/conference-companion/internal/logging"
	"github.com/cloudnative-denmark/conference-companion/internal/metrics"
	"github.com/cloudnative-denmark/conference-companion/internal/schedule/domain"
)

// Fetcher reads the three provider collections.
type Fetcher interface {
	FetchGrid(ctx context.Context) ([]domain.GridEntry, error)
	FetchSpeakers(ctx context.Context) ([]domain.Speaker, error)
	FetchSessions(ctx context.Context) ([]domain.SessionList, error)
}

// Invalidator is implemented by fetchers that sit in front of a cache.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// State is an immutable snapshot of the reconciled schedule.
type State struct {
	Schedule  []domain.GridEntry
	Speakers  []domain.Speaker
	Loading   bool
	Err       error
	FetchedAt time.Time
}

// ScheduleService owns the reconciled schedule. Each refetch builds a new
// snapshot and swaps it in whole.
type ScheduleService struct {
	fetcher Fetcher
	now     func() time.Time

	refreshMu sync.Mutex
	state     atomic.Pointer[State]
}

// NewScheduleService creates a service that starts out loading with an empty schedule
func NewScheduleService(fetcher Fetcher) *ScheduleService {
	s := &ScheduleService{fetcher: fetcher, now: time.Now}
	s.state.Store(&State{Schedule: []domain.GridEntry{}, Loading: true})
	return s
}

// State returns the current snapshot.
func (s *ScheduleService) State() State {
	return *s.state.Load()
}

// Schedule returns the current reconciled schedule.
func (s *ScheduleService) Schedule() []domain.GridEntry {
	return s.state.Load().Schedule
}

// Refetch fetches the grid, speakers and sessions concurrently and reconciles
// them once all three settle. A failed fetch leaves an empty schedule and the
// error in the snapshot; the error is also returned.
func (s *ScheduleService) Refetch(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	logger := logging.New(ctx)
	prev := s.state.Load()
	loading := *prev
	loading.Loading = true
	loading.Err = nil
	s.state.Store(&loading)

	var (
		grid     []domain.GridEntry
		speakers []domain.Speaker
		sessions []domain.SessionList
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		grid, err = s.fetcher.FetchGrid(gctx)
		return err
	})
	g.Go(func() (err error) {
		speakers, err = s.fetcher.FetchSpeakers(gctx)
		return err
	})
	g.Go(func() (err error) {
		sessions, err = s.fetcher.FetchSessions(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		logger.LogError("refetch_schedule", err)
		s.state.Store(&State{Schedule: []domain.GridEntry{}, Err: err, FetchedAt: s.now()})
		metrics.SetScheduleSessions(0)
		return err
	}

	schedule := Reconcile(ctx, grid, speakers, sessions)
	s.state.Store(&State{
		Schedule:  schedule,
		Speakers:  speakers,
		FetchedAt: s.now(),
	})
	metrics.SetScheduleSessions(len(AllSessions(schedule)))
	logger.LogInfof("refetch_schedule", "days=%d speakers=%d", len(schedule), len(speakers))
	return nil
}

// ForceRefetch drops any cached provider views before refetching, so the
// reconcile always sees what the provider serves right now.
func (s *ScheduleService) ForceRefetch(ctx context.Context) error {
	if inv, ok := s.fetcher.(Invalidator); ok {
		if err := inv.Invalidate(ctx); err != nil {
			logging.New(ctx).LogErrorf("refetch_schedule", "invalidate cached feed: %v", err)
			return fmt.Errorf("force refetch: %w", err)
		}
	}
	return s.Refetch(ctx)
}

// Speakers returns the roster entries that have a profile picture.
func (s *ScheduleService) Speakers() []domain.Speaker {
	roster := s.state.Load().Speakers
	out := make([]domain.Speaker, 0, len(roster))
	for _, sp := range roster {
		if sp.ProfilePicture != nil {
			out = append(out, sp)
		}
	}
	return out
}

// AllSessions returns every content session of the current schedule.
func (s *ScheduleService) AllSessions() []domain.Session {
	return AllSessions(s.Schedule())
}

// SessionByID looks a session up in the current schedule.
func (s *ScheduleService) SessionByID(id string) (domain.Session, error) {
	session, ok := SessionByID(s.Schedule(), id)
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return session, nil
}

// SpeakerSessionIDs returns the session ids of a speaker in the current schedule.
func (s *ScheduleService) SpeakerSessionIDs(speakerID string) []string {
	return SpeakerSessionIDs(s.Schedule(), speakerID)
}
