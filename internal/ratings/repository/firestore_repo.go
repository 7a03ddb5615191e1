package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cloudnative-denmark/conference-companion/internal/ratings/domain"
)

// Collection is the Firestore collection holding ratings.
const Collection = "ratings"

type ratingDoc struct {
	SessionID   string     `firestore:"sessionId"`
	UserID      string     `firestore:"userId"`
	Stars       int        `firestore:"stars"`
	Comment     string     `firestore:"comment"`
	Status      string     `firestore:"status"`
	CreatedAt   time.Time  `firestore:"createdAt,serverTimestamp"`
	ModeratedAt *time.Time `firestore:"moderatedAt,omitempty"`
	ModeratedBy *string    `firestore:"moderatedBy,omitempty"`
}

func toDomain(snap *firestore.DocumentSnapshot) (*domain.Rating, error) {
	var doc ratingDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode rating %s: %w", snap.Ref.ID, err)
	}
	st, err := domain.ParseStatus(doc.Status)
	if err != nil {
		return nil, fmt.Errorf("rating %s: %w", snap.Ref.ID, err)
	}
	return &domain.Rating{
		ID:          snap.Ref.ID,
		SessionID:   doc.SessionID,
		UserID:      doc.UserID,
		Stars:       domain.StarRating(doc.Stars),
		Comment:     doc.Comment,
		Status:      st,
		CreatedAt:   doc.CreatedAt,
		ModeratedAt: doc.ModeratedAt,
		ModeratedBy: doc.ModeratedBy,
	}, nil
}

// FirestoreRepository stores ratings as documents of the ratings collection.
type FirestoreRepository struct {
	client *firestore.Client
}

func NewFirestoreRepository(client *firestore.Client) *FirestoreRepository {
	return &FirestoreRepository{client: client}
}

func (r *FirestoreRepository) col() *firestore.CollectionRef {
	return r.client.Collection(Collection)
}

// Get retrieves a rating by document id
func (r *FirestoreRepository) Get(ctx context.Context, id string) (*domain.Rating, error) {
	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		return nil, storeError(err, "get rating "+id)
	}
	return toDomain(snap)
}

// Create adds a rating and reads it back so the server timestamp is populated
func (r *FirestoreRepository) Create(ctx context.Context, rating *domain.Rating) (*domain.Rating, error) {
	ref, _, err := r.col().Add(ctx, ratingDoc{
		SessionID: rating.SessionID,
		UserID:    rating.UserID,
		Stars:     int(rating.Stars),
		Comment:   rating.Comment,
		Status:    string(rating.Status),
	})
	if err != nil {
		return nil, fmt.Errorf("create rating: %w", err)
	}

	snap, err := ref.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read back rating %s: %w", ref.ID, err)
	}
	return toDomain(snap)
}

// Update applies the non-nil fields of patch
func (r *FirestoreRepository) Update(ctx context.Context, id string, patch domain.RatingPatch) error {
	updates := patchUpdates(patch)
	if len(updates) == 0 {
		return nil
	}

	if _, err := r.col().Doc(id).Update(ctx, updates); err != nil {
		return storeError(err, "update rating "+id)
	}
	return nil
}

func (r *FirestoreRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.col().Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete rating %s: %w", id, err)
	}
	return nil
}

// Find runs q as a single Firestore query
func (r *FirestoreRepository) Find(ctx context.Context, q Query) ([]domain.Rating, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	query := r.col().Query
	for _, f := range queryFilters(q) {
		query = query.Where(f.path, f.op, f.value)
	}
	if dir, ok := queryOrder(q.Order); ok {
		query = query.OrderBy("createdAt", dir)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	snaps, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}

	out := make([]domain.Rating, 0, len(snaps))
	for _, snap := range snaps {
		rating, err := toDomain(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, *rating)
	}
	return out, nil
}

// storeError maps a NotFound status onto ErrRatingNotFound and wraps anything else.
func storeError(err error, op string) error {
	if status.Code(err) == codes.NotFound {
		return domain.ErrRatingNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func patchUpdates(p domain.RatingPatch) []firestore.Update {
	var updates []firestore.Update
	if p.Stars != nil {
		updates = append(updates, firestore.Update{Path: "stars", Value: int(*p.Stars)})
	}
	if p.Comment != nil {
		updates = append(updates, firestore.Update{Path: "comment", Value: *p.Comment})
	}
	if p.Status != nil {
		updates = append(updates, firestore.Update{Path: "status", Value: string(*p.Status)})
	}
	if p.ModeratedBy != nil {
		updates = append(updates, firestore.Update{Path: "moderatedBy", Value: *p.ModeratedBy})
	}
	if p.StampModeratedAt {
		updates = append(updates, firestore.Update{Path: "moderatedAt", Value: firestore.ServerTimestamp})
	}
	return updates
}

type filter struct {
	path  string
	op    string
	value interface{}
}

// queryFilters lists the equality and membership constraints of q in a fixed order.
func queryFilters(q Query) []filter {
	var out []filter
	if q.UserID != "" {
		out = append(out, filter{"userId", "==", q.UserID})
	}
	if q.SessionID != "" {
		out = append(out, filter{"sessionId", "==", q.SessionID})
	}
	if len(q.SessionIDs) > 0 {
		out = append(out, filter{"sessionId", "in", q.SessionIDs})
	}
	if q.Status != "" {
		out = append(out, filter{"status", "==", string(q.Status)})
	}
	return out
}

func queryOrder(o Order) (firestore.Direction, bool) {
	switch o {
	case NewestFirst:
		return firestore.Desc, true
	case OldestFirst:
		return firestore.Asc, true
	}
	return 0, false
}
