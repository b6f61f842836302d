package models

import "errors"

var (
	ErrInvalidUser            = errors.New("invalid user")
	ErrNotFound               = errors.New("not found")
	ErrExpired                = errors.New("code expired")
	ErrSelfPairing            = errors.New("cannot connect with yourself")
	ErrAlreadyConnected       = errors.New("already connected")
	ErrConnectionLimitReached = errors.New("maximum connections reached")
	ErrCodeSpaceExhausted     = errors.New("no free pairing code available")
	ErrInvalidSubscription    = errors.New("invalid push subscription")

	// ErrPushSubscriptionGone is returned by push senders when the provider reports
	// that the subscription no longer exists. It is never shown to users
	ErrPushSubscriptionGone = errors.New("push subscription gone")
)
