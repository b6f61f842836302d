package repository

import (
	"fmt"
	"sync"

	"thinking-of-you-backend/internal/models"
)

// UserRepository keeps users in memory for the lifetime of the process
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

// NewUserRepository creates a new user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*models.User)}
}

// Create stores a new user
func (r *UserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.ID]; exists {
		return fmt.Errorf("user %s already exists", user.ID)
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", id, models.ErrInvalidUser)
	}
	out := *user
	return &out, nil
}

// Exists checks if a user with the given ID is known
func (r *UserRepository) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[id]
	return ok
}

// UpdateName changes the display name of a user
func (r *UserRepository) UpdateName(id, name string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", id, models.ErrInvalidUser)
	}
	user.Name = name
	out := *user
	return &out, nil
}
