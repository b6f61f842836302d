package services

import (
	"context"
	"sync"
	"time"

	"thinking-of-you-backend/internal/models"
	"thinking-of-you-backend/internal/repository"
)

type delivery struct {
	recipient string
	event     models.Event
}

// recordingDeliverer captures events instead of delivering them
type recordingDeliverer struct {
	mu         sync.Mutex
	deliveries []delivery
}

func (d *recordingDeliverer) Deliver(recipientID string, event models.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deliveries = append(d.deliveries, delivery{recipient: recipientID, event: event})
}

func (d *recordingDeliverer) all() []delivery {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]delivery, len(d.deliveries))
	copy(out, d.deliveries)
	return out
}

// fakeChannel records messages sent to it
type fakeChannel struct {
	mu     sync.Mutex
	closed bool
	sent   []any
	err    error
}

func (c *fakeChannel) Send(message any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, message)
	return nil
}

func (c *fakeChannel) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

func (c *fakeChannel) messages() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]any(nil), c.sent...)
}

// fakePresence maps users to channels
type fakePresence map[string]*fakeChannel

func (p fakePresence) Lookup(userID string) (Channel, bool) {
	ch, ok := p[userID]
	if !ok {
		return nil, false
	}
	return ch, true
}

// fakeSender returns err for every push and records what it was asked to send
type fakeSender struct {
	mu       sync.Mutex
	err      error
	block    chan struct{}
	payloads []models.PushPayload
	subs     []models.PushSubscription
}

func (s *fakeSender) Send(ctx context.Context, sub models.PushSubscription, payload models.PushPayload) error {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, payload)
	s.subs = append(s.subs, sub)
	return s.err
}

func (s *fakeSender) sent() []models.PushPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.PushPayload(nil), s.payloads...)
}

type testEnv struct {
	users       *UserService
	codes       *repository.PairingRegistry
	connections *repository.ConnectionRepository
	deliverer   *recordingDeliverer
	pairs       *PairService
	conns       *ConnectionService
	clock       *testClock
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestEnv() *testEnv {
	clock := &testClock{t: time.Date(2024, 2, 14, 9, 0, 0, 0, time.UTC)}
	connections := repository.NewConnectionRepository(repository.DefaultConnectionLimit)
	users := NewUserService(repository.NewUserRepository(), connections)
	codes := repository.NewPairingRegistryWithClock(repository.DefaultCodeTTL, true, clock.Now)
	deliverer := &recordingDeliverer{}

	return &testEnv{
		users:       users,
		codes:       codes,
		connections: connections,
		deliverer:   deliverer,
		pairs:       NewPairService(users, codes, connections, deliverer),
		conns:       NewConnectionService(users, connections, deliverer),
		clock:       clock,
	}
}

func (e *testEnv) newUser(name string) *models.User {
	user, _, err := e.users.Upsert("", name)
	if err != nil {
		panic(err)
	}
	return user
}
