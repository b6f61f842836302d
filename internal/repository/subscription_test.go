package repository

import (
	"testing"

	"thinking-of-you-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDeleteIfMatchKeepsNewerSubscription(t *testing.T) {
	r := NewSubscriptionRepository()
	old := models.PushSubscription{Endpoint: "https://push.example/old"}
	newer := models.PushSubscription{Endpoint: "https://push.example/new"}

	r.Save("alice", old)
	r.Save("alice", newer)

	assert.False(t, r.DeleteIfMatch("alice", old))
	got, ok := r.Get("alice")
	assert.True(t, ok)
	assert.Equal(t, newer.Endpoint, got.Endpoint)

	assert.True(t, r.DeleteIfMatch("alice", newer))
	_, ok = r.Get("alice")
	assert.False(t, ok)
}

func TestDeleteIfMatchComparesPlatform(t *testing.T) {
	r := NewSubscriptionRepository()
	apns := models.PushSubscription{Platform: models.PlatformAPNS, DeviceToken: "abc"}
	r.Save("bob", apns)

	assert.False(t, r.DeleteIfMatch("bob", models.PushSubscription{Endpoint: "abc"}))
	assert.True(t, r.DeleteIfMatch("bob", apns))
}

func TestUserRepositoryUpdateName(t *testing.T) {
	r := NewUserRepository()
	assert.NoError(t, r.Create(&models.User{ID: "u1", Name: "Friend"}))
	assert.Error(t, r.Create(&models.User{ID: "u1"}))

	user, err := r.UpdateName("u1", "Alice")
	assert.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)

	_, err = r.UpdateName("nobody", "x")
	assert.ErrorIs(t, err, models.ErrInvalidUser)
}
