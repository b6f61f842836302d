package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"thinking-of-you-backend/internal/models"
	"thinking-of-you-backend/internal/push"
	"thinking-of-you-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

// DefaultPushTimeout bounds a single push attempt
const DefaultPushTimeout = 10 * time.Second

// Presence looks up the live real-time channel of a user
type Presence interface {
	Lookup(userID string) (Channel, bool)
}

// Notifier delivers events to a user over the websocket and push, independently.
// Delivery is best effort: callers never see a delivery error
type Notifier struct {
	presence Presence
	subs     *repository.SubscriptionRepository
	sender   push.Sender
	timeout  time.Duration
	wg       sync.WaitGroup
}

// NewNotifier creates a notifier. A nil sender disables push delivery
func NewNotifier(presence Presence, subs *repository.SubscriptionRepository, sender push.Sender, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = DefaultPushTimeout
	}
	return &Notifier{
		presence: presence,
		subs:     subs,
		sender:   sender,
		timeout:  timeout,
	}
}

// Deliver sends event to recipientID. The websocket send is queued immediately;
// the push attempt runs in its own goroutine and is not awaited
func (n *Notifier) Deliver(recipientID string, event models.Event) {
	n.deliverRealtime(recipientID, event)
	n.deliverPush(recipientID, event)
}

func (n *Notifier) deliverRealtime(recipientID string, event models.Event) {
	ch, ok := n.presence.Lookup(recipientID)
	if !ok || !ch.IsOpen() {
		return
	}
	if err := ch.Send(event); err != nil {
		log.Warn().
			Err(err).
			Str("user_id", recipientID).
			Str("type", event.Type).
			Msg("Failed to send websocket event")
	}
}

func (n *Notifier) deliverPush(recipientID string, event models.Event) {
	if n.sender == nil {
		return
	}
	sub, ok := n.subs.Get(recipientID)
	if !ok {
		return
	}

	payload := event.PushPayload()
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("user_id", recipientID).Msg("Push delivery panicked")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		err := n.sender.Send(ctx, sub, payload)
		switch {
		case err == nil:
			log.Debug().Str("user_id", recipientID).Str("type", event.Type).Msg("Push notification sent")
		case errors.Is(err, models.ErrPushSubscriptionGone):
			if n.subs.DeleteIfMatch(recipientID, sub) {
				log.Info().Str("user_id", recipientID).Msg("Removed expired push subscription")
			}
		default:
			log.Error().
				Err(err).
				Str("user_id", recipientID).
				Str("type", event.Type).
				Msg("Failed to send push notification")
		}
	}()
}

// Wait blocks until in-flight push attempts finish or ctx is done
func (n *Notifier) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
