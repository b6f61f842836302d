package services

import (
	"fmt"
	"testing"
	"time"

	"thinking-of-you-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinConnectsAndNotifiesOwner(t *testing.T) {
	env := newTestEnv()
	alice, bob := env.newUser("Alice"), env.newUser("Bob")

	code, err := env.pairs.Generate(alice.ID)
	require.NoError(t, err)

	env.clock.Advance(5 * time.Minute)
	conn, err := env.pairs.Join(bob.ID, code.Code)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, conn.PartnerID)
	assert.Equal(t, "Alice", conn.PartnerName)

	deliveries := env.deliverer.all()
	require.Len(t, deliveries, 1)
	assert.Equal(t, alice.ID, deliveries[0].recipient)
	assert.Equal(t, models.EventNewConnection, deliveries[0].event.Type)
	require.NotNil(t, deliveries[0].event.Connection)
	assert.Equal(t, bob.ID, deliveries[0].event.Connection.PartnerID)
	assert.Equal(t, "Bob", deliveries[0].event.Connection.PartnerName)
	assert.Equal(t, conn.ID, deliveries[0].event.Connection.ID)

	// single use
	_, err = env.pairs.Join(env.newUser("Carol").ID, code.Code)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGenerateRejectsUnknownUser(t *testing.T) {
	env := newTestEnv()

	_, err := env.pairs.Generate("nobody")
	assert.ErrorIs(t, err, models.ErrInvalidUser)
	_, err = env.pairs.Generate("")
	assert.ErrorIs(t, err, models.ErrInvalidUser)
}

func TestJoinRejectsUnknownJoiner(t *testing.T) {
	env := newTestEnv()
	alice := env.newUser("Alice")
	code, err := env.pairs.Generate(alice.ID)
	require.NoError(t, err)

	_, err = env.pairs.Join("nobody", code.Code)
	assert.ErrorIs(t, err, models.ErrInvalidUser)

	_, ok := env.codes.Lookup(code.Code)
	assert.True(t, ok)
}

func TestJoinExpiredCodeLeavesConnectionsUnchanged(t *testing.T) {
	env := newTestEnv()
	alice, bob := env.newUser("Alice"), env.newUser("Bob")
	code, err := env.pairs.Generate(alice.ID)
	require.NoError(t, err)

	env.clock.Advance(10*time.Minute + time.Second)
	_, err = env.pairs.Join(bob.ID, code.Code)
	assert.ErrorIs(t, err, models.ErrExpired)

	_, err = env.pairs.Join(bob.ID, code.Code)
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.Empty(t, env.connections.ListFor(alice.ID))
	assert.Empty(t, env.connections.ListFor(bob.ID))
	assert.Empty(t, env.deliverer.all())
}

func TestJoinOwnCodeIsSelfPairing(t *testing.T) {
	env := newTestEnv()
	alice := env.newUser("Alice")
	code, err := env.pairs.Generate(alice.ID)
	require.NoError(t, err)

	_, err = env.pairs.Join(alice.ID, code.Code)
	assert.ErrorIs(t, err, models.ErrSelfPairing)
	assert.Empty(t, env.connections.ListFor(alice.ID))
}

func TestJoinAlreadyConnectedKeepsCode(t *testing.T) {
	env := newTestEnv()
	alice, bob := env.newUser("Alice"), env.newUser("Bob")

	code, err := env.pairs.Generate(alice.ID)
	require.NoError(t, err)
	_, err = env.pairs.Join(bob.ID, code.Code)
	require.NoError(t, err)

	code, err = env.pairs.Generate(alice.ID)
	require.NoError(t, err)
	_, err = env.pairs.Join(bob.ID, code.Code)
	assert.ErrorIs(t, err, models.ErrAlreadyConnected)

	_, ok := env.codes.Lookup(code.Code)
	assert.True(t, ok, "a rejected join must not consume the code")
	assert.Len(t, env.connections.ListFor(bob.ID), 1)
}

func TestSixthJoinHitsLimit(t *testing.T) {
	env := newTestEnv()
	bob := env.newUser("Bob")

	for i := 0; i < 5; i++ {
		owner := env.newUser(fmt.Sprintf("Owner %d", i))
		code, err := env.pairs.Generate(owner.ID)
		require.NoError(t, err)
		_, err = env.pairs.Join(bob.ID, code.Code)
		require.NoError(t, err)
	}

	sixth := env.newUser("Sixth")
	code, err := env.pairs.Generate(sixth.ID)
	require.NoError(t, err)
	_, err = env.pairs.Join(bob.ID, code.Code)
	assert.ErrorIs(t, err, models.ErrConnectionLimitReached)

	assert.Len(t, env.connections.ListFor(bob.ID), 5)
	assert.Empty(t, env.connections.ListFor(sixth.ID))
	assert.Len(t, env.deliverer.all(), 5)
}

func TestReissuedCodeInvalidatesFirst(t *testing.T) {
	env := newTestEnv()
	alice, bob := env.newUser("Alice"), env.newUser("Bob")

	first, err := env.pairs.Generate(alice.ID)
	require.NoError(t, err)
	second, err := env.pairs.Generate(alice.ID)
	require.NoError(t, err)

	if first.Code != second.Code {
		_, err = env.pairs.Join(bob.ID, first.Code)
		assert.ErrorIs(t, err, models.ErrNotFound)
	}
	_, err = env.pairs.Join(bob.ID, second.Code)
	assert.NoError(t, err)
}
