// Package push delivers notifications to devices that have no open websocket
package push

import (
	"context"
	"fmt"

	"thinking-of-you-backend/internal/models"
)

// Sender delivers a payload to one subscription.
// Implementations return an error wrapping models.ErrPushSubscriptionGone when
// the provider reports that the subscription no longer exists
type Sender interface {
	Send(ctx context.Context, sub models.PushSubscription, payload models.PushPayload) error
}

// Dispatcher routes a subscription to the sender of its platform
type Dispatcher struct {
	senders map[string]Sender
}

// NewDispatcher creates a dispatcher. A nil sender disables that platform
func NewDispatcher(webPush, apns Sender) *Dispatcher {
	d := &Dispatcher{senders: make(map[string]Sender)}
	if webPush != nil {
		d.senders[models.PlatformWebPush] = webPush
	}
	if apns != nil {
		d.senders[models.PlatformAPNS] = apns
	}
	return d
}

// Supports reports whether subscriptions of the given platform can be delivered
func (d *Dispatcher) Supports(platform string) bool {
	_, ok := d.senders[platform]
	return ok
}

// Send implements Sender
func (d *Dispatcher) Send(ctx context.Context, sub models.PushSubscription, payload models.PushPayload) error {
	sender, ok := d.senders[sub.Kind()]
	if !ok {
		return fmt.Errorf("no push sender configured for platform %q", sub.Kind())
	}
	return sender.Send(ctx, sub, payload)
}
