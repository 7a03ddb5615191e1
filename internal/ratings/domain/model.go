package domain

import (
	"fmt"
	"time"
)

// Status is the moderation state of a rating.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusHidden   Status = "hidden"
)

// Statuses lists every moderation state.
var Statuses = []Status{StatusPending, StatusApproved, StatusRejected, StatusHidden}

// ParseStatus maps a stored value onto the closed status set.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if Status(s) == st {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Label is the badge text for the status.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	case StatusHidden:
		return "Hidden"
	}
	panic(fmt.Sprintf("unknown rating status %q", string(s)))
}

// Color is the badge foreground color for the status.
func (s Status) Color() string {
	switch s {
	case StatusPending:
		return "#374151"
	case StatusApproved:
		return "#16a34a"
	case StatusRejected:
		return "#dc2626"
	case StatusHidden:
		return "#f59e0b"
	}
	panic(fmt.Sprintf("unknown rating status %q", string(s)))
}

// StarRating is an integer score from 1 to 5.
type StarRating int

const (
	MinStars StarRating = 1
	MaxStars StarRating = 5
)

// Rating is one user's feedback on one session.
type Rating struct {
	ID          string     `json:"id"`
	SessionID   string     `json:"session_id"`
	UserID      string     `json:"user_id"`
	Stars       StarRating `json:"stars"`
	Comment     string     `json:"comment"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ModeratedAt *time.Time `json:"moderated_at,omitempty"`
	ModeratedBy *string    `json:"moderated_by,omitempty"`
}

// CreateRatingInput is what an author submits for a new rating
type CreateRatingInput struct {
	SessionID string     `json:"session_id" validate:"required"`
	Stars     StarRating `json:"stars" validate:"required,min=1,max=5"`
	Comment   string     `json:"comment" validate:"max=2000"`
}

// UpdateRatingInput carries the content fields an author may change.
type UpdateRatingInput struct {
	Stars   *StarRating `json:"stars,omitempty" validate:"omitempty,min=1,max=5"`
	Comment *string     `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

// ModerateRatingInput is an admin decision. Moving a rating back to pending
// is not a moderation outcome.
type ModerateRatingInput struct {
	Status Status `json:"status" validate:"required,oneof=approved rejected hidden"`
}

// RatingPatch is a partial document update. Nil fields are left untouched.
type RatingPatch struct {
	Stars       *StarRating
	Comment     *string
	Status      *Status
	ModeratedBy *string
	// StampModeratedAt sets moderatedAt to the store's clock.
	StampModeratedAt bool
}
