package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cloudnative-denmark/conference-companion/internal/ratings/domain"
)

// MemoryRepository keeps ratings in process. It applies the same "in" filter
// limit as Firestore.
type MemoryRepository struct {
	mu      sync.RWMutex
	ratings map[string]domain.Rating
	now     func() time.Time
}

// NewMemoryRepository creates an empty store. A nil now means time.Now.
func NewMemoryRepository(now func() time.Time) *MemoryRepository {
	if now == nil {
		now = time.Now
	}
	return &MemoryRepository{ratings: make(map[string]domain.Rating), now: now}
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*domain.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rating, ok := r.ratings[id]
	if !ok {
		return nil, domain.ErrRatingNotFound
	}
	return &rating, nil
}

func (r *MemoryRepository) Create(ctx context.Context, rating *domain.Rating) (*domain.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *rating
	stored.ID = uuid.NewString()
	stored.CreatedAt = r.now()
	r.ratings[stored.ID] = stored
	return &stored, nil
}

func (r *MemoryRepository) Update(ctx context.Context, id string, patch domain.RatingPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rating, ok := r.ratings[id]
	if !ok {
		return domain.ErrRatingNotFound
	}
	if patch.Stars != nil {
		rating.Stars = *patch.Stars
	}
	if patch.Comment != nil {
		rating.Comment = *patch.Comment
	}
	if patch.Status != nil {
		rating.Status = *patch.Status
	}
	if patch.ModeratedBy != nil {
		by := *patch.ModeratedBy
		rating.ModeratedBy = &by
	}
	if patch.StampModeratedAt {
		at := r.now()
		rating.ModeratedAt = &at
	}
	r.ratings[id] = rating
	return nil
}

// Delete removes a rating; deleting a missing id is not an error
func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.ratings, id)
	return nil
}

func (r *MemoryRepository) Find(ctx context.Context, q Query) ([]domain.Rating, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	var in map[string]struct{}
	if len(q.SessionIDs) > 0 {
		in = make(map[string]struct{}, len(q.SessionIDs))
		for _, id := range q.SessionIDs {
			in[id] = struct{}{}
		}
	}

	r.mu.RLock()
	out := make([]domain.Rating, 0)
	for _, rating := range r.ratings {
		if q.UserID != "" && rating.UserID != q.UserID {
			continue
		}
		if q.SessionID != "" && rating.SessionID != q.SessionID {
			continue
		}
		if in != nil {
			if _, ok := in[rating.SessionID]; !ok {
				continue
			}
		}
		if q.Status != "" && rating.Status != q.Status {
			continue
		}
		out = append(out, rating)
	}
	r.mu.RUnlock()

	// map iteration is random; order by id when no ordering is requested
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch q.Order {
		case NewestFirst:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		case OldestFirst:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		}
		return a.ID < b.ID
	})

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}
