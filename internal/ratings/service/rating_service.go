package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/cloudnative-denmark/conference-companion/internal/logging"
	"github.com/cloudnative-denmark/conference-companion/internal/metrics"
	"github.com/cloudnative-denmark/conference-companion/internal/ratings/domain"
	"github.com/cloudnative-denmark/conference-companion/internal/ratings/repository"
	scheddomain "github.com/cloudnative-denmark/conference-companion/internal/schedule/domain"
	"github.com/cloudnative-denmark/conference-companion/internal/timefmt"
	"github.com/cloudnative-denmark/conference-companion/internal/validation"
)

// SessionLookup resolves a session of the current schedule.
type SessionLookup interface {
	SessionByID(id string) (scheddomain.Session, error)
}

type RatingService struct {
	repo repository.Repository

	sessions  SessionLookup
	formatter timefmt.Formatter
}

func NewRatingService(repo repository.Repository) *RatingService {
	return &RatingService{repo: repo}
}

// WithStartGate makes Create refuse sessions that have not started yet.
func (s *RatingService) WithStartGate(sessions SessionLookup, formatter timefmt.Formatter) *RatingService {
	s.sessions = sessions
	s.formatter = formatter
	return s
}

// Create stores a pending rating for userID. A user may rate a session once.
func (s *RatingService) Create(ctx context.Context, userID string, in domain.CreateRatingInput) (rating *domain.Rating, err error) {
	defer func() { metrics.RecordRatingOp("create", err) }()

	if err := validation.Var("user_id", userID, "required"); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if s.sessions != nil {
		session, err := s.sessions.SessionByID(in.SessionID)
		if err != nil {
			return nil, err
		}
		if !s.formatter.HasSessionStarted(session.StartsAt) {
			return nil, &validation.Error{Field: "session_id", Message: "has not started yet"}
		}
	}

	existing, err := s.GetForUserSession(ctx, userID, in.SessionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrAlreadyRated
	}

	rating, err = s.repo.Create(ctx, &domain.Rating{
		SessionID: in.SessionID,
		UserID:    userID,
		Stars:     in.Stars,
		Comment:   in.Comment,
		Status:    domain.StatusPending,
	})
	if err != nil {
		return nil, err
	}
	logging.New(ctx).LogInfof("create_rating", "rating_id=%s session_id=%s user_id=%s", rating.ID, rating.SessionID, userID)
	return rating, nil
}

// Update changes the author's stars or comment and sends the rating back to review.
func (s *RatingService) Update(ctx context.Context, ratingID, userID string, in domain.UpdateRatingInput) (rating *domain.Rating, err error) {
	defer func() { metrics.RecordRatingOp("update", err) }()

	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, ratingID, userID); err != nil {
		return nil, err
	}

	pending := domain.StatusPending
	if err := s.repo.Update(ctx, ratingID, domain.RatingPatch{
		Stars:   in.Stars,
		Comment: in.Comment,
		Status:  &pending,
	}); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, ratingID)
}

// Moderate records an admin decision. The caller is trusted to be an admin.
func (s *RatingService) Moderate(ctx context.Context, ratingID, adminID string, in domain.ModerateRatingInput) (rating *domain.Rating, err error) {
	defer func() { metrics.RecordRatingOp("moderate", err) }()

	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := validation.Var("admin_id", adminID, "required"); err != nil {
		return nil, err
	}

	st := in.Status
	if err := s.repo.Update(ctx, ratingID, domain.RatingPatch{
		Status:           &st,
		ModeratedBy:      &adminID,
		StampModeratedAt: true,
	}); err != nil {
		return nil, err
	}
	logging.New(ctx).LogInfof("moderate_rating", "rating_id=%s status=%s admin_id=%s", ratingID, st, adminID)
	return s.repo.Get(ctx, ratingID)
}

// Remove deletes the author's own rating
func (s *RatingService) Remove(ctx context.Context, ratingID, userID string) (err error) {
	defer func() { metrics.RecordRatingOp("remove", err) }()

	if _, err := s.owned(ctx, ratingID, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, ratingID)
}

func (s *RatingService) owned(ctx context.Context, ratingID, userID string) (*domain.Rating, error) {
	rating, err := s.repo.Get(ctx, ratingID)
	if err != nil {
		return nil, err
	}
	if rating.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return rating, nil
}

// ListByUser returns a user's ratings, newest first
func (s *RatingService) ListByUser(ctx context.Context, userID string) ([]domain.Rating, error) {
	return s.repo.Find(ctx, repository.Query{UserID: userID, Order: repository.NewestFirst})
}

// GetForUserSession returns the user's rating for a session, or nil when there is none.
func (s *RatingService) GetForUserSession(ctx context.Context, userID, sessionID string) (*domain.Rating, error) {
	found, err := s.repo.Find(ctx, repository.Query{UserID: userID, SessionID: sessionID, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (s *RatingService) ListApprovedForSession(ctx context.Context, sessionID string) ([]domain.Rating, error) {
	return s.repo.Find(ctx, repository.Query{
		SessionID: sessionID,
		Status:    domain.StatusApproved,
		Order:     repository.NewestFirst,
	})
}

// ListApprovedForSessions queries the approved ratings of many sessions in
// batches of repository.MaxInValues and merges them newest first.
func (s *RatingService) ListApprovedForSessions(ctx context.Context, sessionIDs []string) ([]domain.Rating, error) {
	if len(sessionIDs) == 0 {
		return []domain.Rating{}, nil
	}

	batches := make([][]domain.Rating, (len(sessionIDs)+repository.MaxInValues-1)/repository.MaxInValues)
	g, gctx := errgroup.WithContext(ctx)
	for i := range batches {
		lo := i * repository.MaxInValues
		hi := min(lo+repository.MaxInValues, len(sessionIDs))
		chunk := sessionIDs[lo:hi]
		g.Go(func() error {
			found, err := s.repo.Find(gctx, repository.Query{SessionIDs: chunk, Status: domain.StatusApproved})
			if err != nil {
				return fmt.Errorf("approved ratings batch %d: %w", i, err)
			}
			batches[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]domain.Rating, 0)
	for _, b := range batches {
		merged = append(merged, b...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged, nil
}

// ListPending returns the review queue, oldest first.
func (s *RatingService) ListPending(ctx context.Context) ([]domain.Rating, error) {
	return s.repo.Find(ctx, repository.Query{Status: domain.StatusPending, Order: repository.OldestFirst})
}

func (s *RatingService) ListAll(ctx context.Context) ([]domain.Rating, error) {
	return s.repo.Find(ctx, repository.Query{Order: repository.NewestFirst})
}

// IsNotFound reports whether err means the rating or its session does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrRatingNotFound) || errors.Is(err, scheddomain.ErrSessionNotFound)
}
