package repository

import (
	"sync"

	"thinking-of-you-backend/internal/models"
)

// SubscriptionRepository keeps at most one push subscription per user
type SubscriptionRepository struct {
	mu   sync.RWMutex
	subs map[string]models.PushSubscription
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository() *SubscriptionRepository {
	return &SubscriptionRepository{subs: make(map[string]models.PushSubscription)}
}

// Save stores sub for the user, replacing any previous subscription
func (r *SubscriptionRepository) Save(userID string, sub models.PushSubscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[userID] = sub
}

// Get returns the user's subscription
func (r *SubscriptionRepository) Get(userID string) (models.PushSubscription, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.subs[userID]
	return sub, ok
}

// DeleteIfMatch removes the user's subscription if it still targets the same
// address as sub. It reports whether anything was removed
func (r *SubscriptionRepository) DeleteIfMatch(userID string, sub models.PushSubscription) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.subs[userID]
	if !ok || current.Kind() != sub.Kind() || current.Target() != sub.Target() {
		return false
	}
	delete(r.subs, userID)
	return true
}
