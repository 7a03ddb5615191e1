package service

import (
	"context"
	"fmt"

	"github.com/cloudnative-denmark/conference-companion/internal/ratings/domain"
)

// Filter narrows the admin feedback view.
type Filter string

const (
	FilterPending  Filter = "pending"
	FilterAll      Filter = "all"
	FilterApproved Filter = "approved"
	FilterRejected Filter = "rejected"
	FilterHidden   Filter = "hidden"
)

// ParseFilter maps a query value onto a filter. Empty means the viewer's default.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(s); f {
	case "", FilterPending, FilterAll, FilterApproved, FilterRejected, FilterHidden:
		return f, nil
	}
	return "", fmt.Errorf("%w: unknown filter %q", domain.ErrInvalidStatus, s)
}

// SpeakerSessions resolves the sessions a speaker presents.
type SpeakerSessions interface {
	SpeakerSessionIDs(speakerID string) []string
}

// Viewer is who is looking at the feedback screen.
type Viewer struct {
	UserID    string
	IsAdmin   bool
	IsSpeaker bool
	// SpeakerID links the viewer to a schedule speaker.
	SpeakerID string
}

// FeedbackService assembles the feedback list shown to admins and speakers.
type FeedbackService struct {
	ratings  *RatingService
	speakers SpeakerSessions
}

func NewFeedbackService(ratings *RatingService, speakers SpeakerSessions) *FeedbackService {
	return &FeedbackService{ratings: ratings, speakers: speakers}
}

// List returns the ratings the viewer may review. Admins get the pending
// queue by default or every rating narrowed by status; speakers get the
// approved ratings of their own sessions; anyone else gets nothing.
func (s *FeedbackService) List(ctx context.Context, viewer Viewer, filter Filter) ([]domain.Rating, error) {
	switch {
	case viewer.IsAdmin:
		if filter == "" || filter == FilterPending {
			return s.ratings.ListPending(ctx)
		}
		all, err := s.ratings.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		if filter == FilterAll {
			return all, nil
		}
		out := make([]domain.Rating, 0, len(all))
		for _, r := range all {
			if string(r.Status) == string(filter) {
				out = append(out, r)
			}
		}
		return out, nil

	case viewer.IsSpeaker && viewer.SpeakerID != "":
		return s.ratings.ListApprovedForSessions(ctx, unique(s.speakers.SpeakerSessionIDs(viewer.SpeakerID)))
	}
	return []domain.Rating{}, nil
}

// unique drops repeats of sessions that span several slots.
func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
