package services

import (
	"testing"
	"time"

	"thinking-of-you-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pair(t *testing.T, env *testEnv, owner, joiner *models.User) models.Connection {
	t.Helper()
	code, err := env.pairs.Generate(owner.ID)
	require.NoError(t, err)
	conn, err := env.pairs.Join(joiner.ID, code.Code)
	require.NoError(t, err)
	return conn
}

func TestPingUsesRecipientCustomization(t *testing.T) {
	env := newTestEnv()
	env.conns.now = func() time.Time { return time.UnixMilli(1700000000000) }
	alice, bob := env.newUser("Alice"), env.newUser("Bob")
	conn := pair(t, env, alice, bob)

	// bob configures how pings from alice look to him; alice sets her own side differently
	bobEmoji, bobMessage := "🌻", "sends you sunshine"
	_, err := env.conns.Customize(bob.ID, conn.ID, &bobEmoji, &bobMessage)
	require.NoError(t, err)
	aliceEmoji := "🔥"
	_, err = env.conns.Customize(alice.ID, conn.ID, &aliceEmoji, nil)
	require.NoError(t, err)

	require.NoError(t, env.conns.Ping(alice.ID, conn.ID))

	deliveries := env.deliverer.all()
	last := deliveries[len(deliveries)-1]
	assert.Equal(t, bob.ID, last.recipient)
	assert.Equal(t, models.Event{
		Type:         models.EventThinkingOfYou,
		From:         "Alice",
		Emoji:        "🌻",
		Message:      "sends you sunshine",
		ConnectionID: conn.ID,
		Timestamp:    1700000000000,
	}, last.event)
}

func TestPingErrors(t *testing.T) {
	env := newTestEnv()
	alice, bob := env.newUser("Alice"), env.newUser("Bob")
	conn := pair(t, env, alice, bob)

	assert.ErrorIs(t, env.conns.Ping("nobody", conn.ID), models.ErrInvalidUser)
	assert.ErrorIs(t, env.conns.Ping(alice.ID, "missing"), models.ErrNotFound)

	carol := env.newUser("Carol")
	assert.ErrorIs(t, env.conns.Ping(carol.ID, conn.ID), models.ErrNotFound)
}

func TestCustomizeIgnoresEmptyFields(t *testing.T) {
	env := newTestEnv()
	alice, bob := env.newUser("Alice"), env.newUser("Bob")
	conn := pair(t, env, alice, bob)

	empty, message := "", "waves"
	updated, err := env.conns.Customize(bob.ID, conn.ID, &empty, &message)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultEmoji, updated.Emoji)
	assert.Equal(t, "waves", updated.Message)

	_, err = env.conns.Customize("nobody", conn.ID, nil, &message)
	assert.ErrorIs(t, err, models.ErrInvalidUser)
}
