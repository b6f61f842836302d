package services

import (
	"time"

	"thinking-of-you-backend/internal/models"
	"thinking-of-you-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

// ConnectionService handles customization of and pings over connections
type ConnectionService struct {
	users       *UserService
	connections *repository.ConnectionRepository
	notifier    Deliverer
	now         func() time.Time
}

// NewConnectionService creates a new connection service
func NewConnectionService(users *UserService, connections *repository.ConnectionRepository, notifier Deliverer) *ConnectionService {
	return &ConnectionService{
		users:       users,
		connections: connections,
		notifier:    notifier,
		now:         time.Now,
	}
}

// Customize changes how pings over connectionID look to its owner
func (s *ConnectionService) Customize(userID, connectionID string, emoji, message *string) (models.Connection, error) {
	if !s.users.Exists(userID) {
		return models.Connection{}, models.ErrInvalidUser
	}
	if emoji != nil && *emoji == "" {
		emoji = nil
	}
	if message != nil && *message == "" {
		message = nil
	}
	return s.connections.Customize(userID, connectionID, emoji, message)
}

// Ping sends a thinking_of_you event from userID to the partner on connectionID.
// It returns once the delivery has been handed off; the sender never learns
// whether it arrived
func (s *ConnectionService) Ping(userID, connectionID string) error {
	sender, err := s.users.GetUser(userID)
	if err != nil {
		return err
	}
	conn, err := s.connections.Get(userID, connectionID)
	if err != nil {
		return err
	}

	emoji, message := models.DefaultEmoji, models.DefaultMessage
	if theirs, err := s.connections.Get(conn.PartnerID, connectionID); err == nil {
		emoji, message = theirs.Emoji, theirs.Message
	}

	s.notifier.Deliver(conn.PartnerID, models.Event{
		Type:         models.EventThinkingOfYou,
		From:         sender.Name,
		Emoji:        emoji,
		Message:      message,
		ConnectionID: connectionID,
		Timestamp:    s.now().UnixMilli(),
	})

	log.Info().
		Str("user_id", userID).
		Str("partner_id", conn.PartnerID).
		Str("connection_id", connectionID).
		Msg("Thinking of you sent")
	return nil
}
