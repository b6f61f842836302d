package services

import (
	"fmt"

	"thinking-of-you-backend/internal/models"
	"thinking-of-you-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

// Deliverer hands an event to a single recipient
type Deliverer interface {
	Deliver(recipientID string, event models.Event)
}

// PairService handles pairing-code issuance and redemption
type PairService struct {
	users       *UserService
	codes       *repository.PairingRegistry
	connections *repository.ConnectionRepository
	notifier    Deliverer
}

// NewPairService creates a new pair service
func NewPairService(
	users *UserService,
	codes *repository.PairingRegistry,
	connections *repository.ConnectionRepository,
	notifier Deliverer,
) *PairService {
	return &PairService{
		users:       users,
		codes:       codes,
		connections: connections,
		notifier:    notifier,
	}
}

// Generate issues a fresh pairing code for userID, retracting its previous one
func (s *PairService) Generate(userID string) (models.PairingCode, error) {
	if !s.users.Exists(userID) {
		return models.PairingCode{}, models.ErrInvalidUser
	}

	code, err := s.codes.Issue(userID)
	if err != nil {
		return models.PairingCode{}, fmt.Errorf("failed to issue pairing code: %w", err)
	}

	log.Info().
		Str("user_id", userID).
		Str("code", code.Code).
		Time("expires_at", code.ExpiresAt).
		Msg("Pairing code issued")
	return code, nil
}

// Join redeems code for joinerID and connects the joiner with the code's owner.
// The owner is told about the new connection through the notifier
func (s *PairService) Join(joinerID, code string) (models.Connection, error) {
	joiner, err := s.users.GetUser(joinerID)
	if err != nil {
		return models.Connection{}, err
	}

	var forJoiner, forOwner models.Connection
	ownerID, err := s.codes.RedeemFunc(code, joinerID, func(ownerID string) error {
		owner, err := s.users.GetUser(ownerID)
		if err != nil {
			return fmt.Errorf("code owner: %w", err)
		}
		forJoiner, forOwner, err = s.connections.CreatePair(joinerID, ownerID, joiner.Name, owner.Name)
		return err
	})
	if err != nil {
		return models.Connection{}, err
	}

	log.Info().
		Str("user_id", joinerID).
		Str("partner_id", ownerID).
		Str("connection_id", forJoiner.ID).
		Msg("Connection created")

	s.notifier.Deliver(ownerID, models.Event{
		Type:       models.EventNewConnection,
		Connection: &forOwner,
	})

	return forJoiner, nil
}
