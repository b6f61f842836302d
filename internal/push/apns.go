package push

import (
	"context"
	"fmt"
	"net/http"

	"thinking-of-you-backend/internal/models"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
)

// APNSConfig configures token-based APNs delivery
type APNSConfig struct {
	KeyFile    string
	KeyID      string
	TeamID     string
	Topic      string
	Production bool
}

// APNSSender sends notifications to iOS devices
type APNSSender struct {
	client *apns2.Client
	topic  string
}

// NewAPNSSender creates an APNs sender authenticated with a .p8 signing key
func NewAPNSSender(cfg APNSConfig) (*APNSSender, error) {
	authKey, err := token.AuthKeyFromFile(cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load apns auth key: %w", err)
	}

	client := apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   cfg.KeyID,
		TeamID:  cfg.TeamID,
	})
	if cfg.Production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return &APNSSender{client: client, topic: cfg.Topic}, nil
}

// Send implements Sender
func (s *APNSSender) Send(ctx context.Context, sub models.PushSubscription, p models.PushPayload) error {
	notification := &apns2.Notification{
		DeviceToken: sub.DeviceToken,
		Topic:       s.topic,
		Payload:     apnsPayload(p),
		Priority:    apns2.PriorityHigh,
		PushType:    apns2.PushTypeAlert,
	}

	res, err := s.client.PushWithContext(ctx, notification)
	if err != nil {
		return fmt.Errorf("failed to send apns push: %w", err)
	}
	if res.Sent() {
		return nil
	}
	if apnsGone(res) {
		return fmt.Errorf("apns rejected token (%d %s): %w", res.StatusCode, res.Reason, models.ErrPushSubscriptionGone)
	}
	return fmt.Errorf("apns rejected notification: %d %s", res.StatusCode, res.Reason)
}

func apnsPayload(p models.PushPayload) *payload.Payload {
	pl := payload.NewPayload().
		AlertTitle(p.Title).
		AlertBody(p.Body).
		Sound("default").
		Custom("type", p.Data.Type)
	if p.Data.From != "" {
		pl = pl.Custom("from", p.Data.From)
	}
	if p.Data.Emoji != "" {
		pl = pl.Custom("emoji", p.Data.Emoji)
	}
	if p.Data.Message != "" {
		pl = pl.Custom("message", p.Data.Message)
	}
	return pl
}

// apnsGone reports whether the response means the device token is permanently invalid
func apnsGone(res *apns2.Response) bool {
	if res.StatusCode == http.StatusGone {
		return true
	}
	switch res.Reason {
	case apns2.ReasonUnregistered, apns2.ReasonBadDeviceToken, apns2.ReasonDeviceTokenNotForTopic:
		return true
	}
	return false
}
