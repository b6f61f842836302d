package repository

import (
	"fmt"
	"sync"
	"time"

	"thinking-of-you-backend/internal/models"

	"github.com/google/uuid"
)

// DefaultConnectionLimit is the maximum number of connections a user may hold
const DefaultConnectionLimit = 5

// userConnections is one user's list; mu guards list
type userConnections struct {
	mu   sync.Mutex
	list []models.Connection
}

// ConnectionRepository holds the mirrored connection records of every user
type ConnectionRepository struct {
	mu    sync.Mutex
	users map[string]*userConnections
	limit int
	now   func() time.Time
}

// NewConnectionRepository creates a new connection repository
func NewConnectionRepository(limit int) *ConnectionRepository {
	if limit <= 0 {
		limit = DefaultConnectionLimit
	}
	return &ConnectionRepository{
		users: make(map[string]*userConnections),
		limit: limit,
		now:   time.Now,
	}
}

// Limit returns the per-user connection limit
func (r *ConnectionRepository) Limit() int {
	return r.limit
}

func (r *ConnectionRepository) entry(userID string) *userConnections {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.users[userID]
	if !ok {
		e = &userConnections{}
		r.users[userID] = e
	}
	return e
}

// CanConnect reports whether userA may add a connection to userB
func (r *ConnectionRepository) CanConnect(userAID, userBID string) bool {
	a := r.entry(userAID)
	a.mu.Lock()
	defer a.mu.Unlock()
	return r.checkLocked(a, userBID) == nil
}

func (r *ConnectionRepository) checkLocked(e *userConnections, partnerID string) error {
	for _, c := range e.list {
		if c.PartnerID == partnerID {
			return models.ErrAlreadyConnected
		}
	}
	if len(e.list) >= r.limit {
		return models.ErrConnectionLimitReached
	}
	return nil
}

// CreatePair connects userA and userB, returning the record stored for each side.
// Both users' lists are locked for the whole check-then-append
func (r *ConnectionRepository) CreatePair(userAID, userBID, nameA, nameB string) (models.Connection, models.Connection, error) {
	if userAID == userBID {
		return models.Connection{}, models.Connection{}, models.ErrSelfPairing
	}

	a, b := r.entry(userAID), r.entry(userBID)
	first, second := a, b
	if userBID < userAID {
		first, second = b, a
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	if err := r.checkLocked(a, userBID); err != nil {
		return models.Connection{}, models.Connection{}, err
	}
	if err := r.checkLocked(b, userAID); err != nil {
		return models.Connection{}, models.Connection{}, fmt.Errorf("partner: %w", err)
	}

	id := uuid.New().String()
	now := r.now()
	forA := models.Connection{
		ID:          id,
		PartnerID:   userBID,
		PartnerName: nameB,
		Emoji:       models.DefaultEmoji,
		Message:     models.DefaultMessage,
		CreatedAt:   now,
	}
	forB := models.Connection{
		ID:          id,
		PartnerID:   userAID,
		PartnerName: nameA,
		Emoji:       models.DefaultEmoji,
		Message:     models.DefaultMessage,
		CreatedAt:   now,
	}
	a.list = append(a.list, forA)
	b.list = append(b.list, forB)
	return forA, forB, nil
}

// Get returns the owner's record for connectionID
func (r *ConnectionRepository) Get(ownerUserID, connectionID string) (models.Connection, error) {
	e := r.entry(ownerUserID)
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, c := range e.list {
		if c.ID == connectionID {
			return c, nil
		}
	}
	return models.Connection{}, fmt.Errorf("connection %q: %w", connectionID, models.ErrNotFound)
}

// Customize updates the non-nil fields of the owner's record only
func (r *ConnectionRepository) Customize(ownerUserID, connectionID string, emoji, message *string) (models.Connection, error) {
	e := r.entry(ownerUserID)
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.list {
		if e.list[i].ID != connectionID {
			continue
		}
		if emoji != nil {
			e.list[i].Emoji = *emoji
		}
		if message != nil {
			e.list[i].Message = *message
		}
		return e.list[i], nil
	}
	return models.Connection{}, fmt.Errorf("connection %q: %w", connectionID, models.ErrNotFound)
}

// ListFor returns a copy of the user's connections in insertion order
func (r *ConnectionRepository) ListFor(userID string) []models.Connection {
	e := r.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.Connection, len(e.list))
	copy(out, e.list)
	return out
}
