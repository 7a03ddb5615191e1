package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudnative-denmark/conference-companion/internal/ratings/domain"
)

// MaxInValues is the most values a single "in" filter may carry.
const MaxInValues = 10

// ErrTooManyInValues is returned for a query whose SessionIDs exceed MaxInValues.
var ErrTooManyInValues = errors.New("too many values in \"in\" filter")

// Order is the creation-time ordering of query results.
type Order int

const (
	Unordered Order = iota
	NewestFirst
	OldestFirst
)

// Query filters the ratings collection. Zero fields do not filter.
type Query struct {
	UserID     string
	SessionID  string
	SessionIDs []string
	Status     domain.Status
	Order      Order
	Limit      int
}

func (q Query) validate() error {
	if len(q.SessionIDs) > MaxInValues {
		return fmt.Errorf("%w: %d > %d", ErrTooManyInValues, len(q.SessionIDs), MaxInValues)
	}
	return nil
}

// Repository is the ratings document collection.
type Repository interface {
	Get(ctx context.Context, id string) (*domain.Rating, error)
	// Create stores r under a new id with a store-assigned creation time and
	// returns the stored document.
	Create(ctx context.Context, r *domain.Rating) (*domain.Rating, error)
	Update(ctx context.Context, id string, patch domain.RatingPatch) error
	Delete(ctx context.Context, id string) error
	Find(ctx context.Context, q Query) ([]domain.Rating, error)
}
