package services

import (
	"fmt"
	"net/url"

	"thinking-of-you-backend/internal/models"
	"thinking-of-you-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

// PushService manages push subscriptions
type PushService struct {
	users     *UserService
	subs      *repository.SubscriptionRepository
	publicKey string
	supports  func(platform string) bool
}

// NewPushService creates a push service. supports reports which platforms can
// be delivered; nil accepts every platform
func NewPushService(users *UserService, subs *repository.SubscriptionRepository, vapidPublicKey string, supports func(string) bool) *PushService {
	return &PushService{
		users:     users,
		subs:      subs,
		publicKey: vapidPublicKey,
		supports:  supports,
	}
}

// VAPIDPublicKey returns the key browsers subscribe with
func (s *PushService) VAPIDPublicKey() string {
	return s.publicKey
}

// Subscribe stores sub as the user's push subscription, replacing any previous one
func (s *PushService) Subscribe(userID string, sub models.PushSubscription) error {
	if !s.users.Exists(userID) {
		return models.ErrInvalidUser
	}
	if err := validateSubscription(sub); err != nil {
		return err
	}
	if s.supports != nil && !s.supports(sub.Kind()) {
		return fmt.Errorf("platform %q is not enabled: %w", sub.Kind(), models.ErrInvalidSubscription)
	}

	s.subs.Save(userID, sub)
	log.Info().Str("user_id", userID).Str("platform", sub.Kind()).Msg("Push subscription saved")
	return nil
}

func validateSubscription(sub models.PushSubscription) error {
	switch sub.Kind() {
	case models.PlatformAPNS:
		if sub.DeviceToken == "" {
			return fmt.Errorf("deviceToken is required: %w", models.ErrInvalidSubscription)
		}
	default:
		u, err := url.Parse(sub.Endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("endpoint must be an absolute URL: %w", models.ErrInvalidSubscription)
		}
		if sub.Keys.P256dh == "" || sub.Keys.Auth == "" {
			return fmt.Errorf("keys.p256dh and keys.auth are required: %w", models.ErrInvalidSubscription)
		}
	}
	return nil
}
