package models

import "time"

const (
	// DefaultEmoji is shown on a connection until its owner customizes it
	DefaultEmoji = "💛"
	// DefaultMessage is shown on a connection until its owner customizes it
	DefaultMessage = "is thinking of you"
	// DefaultUserName is used when a user is created without a name
	DefaultUserName = "Friend"
)

// User represents a user in the system
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// PairingCode is a short-lived code one user shares so another can connect to them
type PairingCode struct {
	Code        string    `json:"code"`
	OwnerUserID string    `json:"ownerUserId"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Expired reports whether the code is past its expiry at now
func (c PairingCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Connection is one side of a relationship between two users.
// Both sides share the same ID and point at each other through PartnerID
type Connection struct {
	ID          string    `json:"id"`
	PartnerID   string    `json:"partnerId"`
	PartnerName string    `json:"partnerName"`
	Emoji       string    `json:"emoji"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Push platforms
const (
	PlatformWebPush = "webpush"
	PlatformAPNS    = "apns"
)

// PushSubscription describes where push notifications for a user are sent
type PushSubscription struct {
	Platform       string   `json:"platform,omitempty"`
	Endpoint       string   `json:"endpoint,omitempty"`
	ExpirationTime *int64   `json:"expirationTime,omitempty"`
	Keys           PushKeys `json:"keys"`
	DeviceToken    string   `json:"deviceToken,omitempty"`
}

// PushKeys holds the browser-generated encryption keys of a web push subscription
type PushKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// Kind returns the platform of the subscription, defaulting to web push
func (s PushSubscription) Kind() string {
	if s.Platform == PlatformAPNS {
		return PlatformAPNS
	}
	return PlatformWebPush
}

// Target returns the address the provider delivers to
func (s PushSubscription) Target() string {
	if s.Kind() == PlatformAPNS {
		return s.DeviceToken
	}
	return s.Endpoint
}
