package repository

import (
	"context"
	"sync"
	"time"

	"github.com/cloudnative-denmark/conference-companion/internal/auth/domain"
)

type MemoryProfiles struct {
	mu       sync.RWMutex
	profiles map[string]domain.UserProfile
	now      func() time.Time
}

func NewMemoryProfiles(now func() time.Time) *MemoryProfiles {
	if now == nil {
		now = time.Now
	}
	return &MemoryProfiles{profiles: make(map[string]domain.UserProfile), now: now}
}

func (r *MemoryProfiles) Get(ctx context.Context, uid string) (*domain.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[uid]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &p, nil
}

func (r *MemoryProfiles) CreateIfAbsent(ctx context.Context, p domain.UserProfile) (*domain.UserProfile, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.profiles[p.UID]; ok {
		return &existing, false, nil
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = r.now()
	}
	r.profiles[p.UID] = p
	return &p, true, nil
}

// Put stores p unconditionally. Roles are managed outside the app, so this
// is how tests and seeding scripts create speakers and admins.
func (r *MemoryProfiles) Put(p domain.UserProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.UID] = p
}
