package services

import (
	"context"
	"time"

	"thinking-of-you-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

// DefaultSweepInterval is how often expired pairing codes are removed
const DefaultSweepInterval = 60 * time.Second

// CleanupService sweeps expired pairing codes on a fixed interval
type CleanupService struct {
	codes    *repository.PairingRegistry
	interval time.Duration
	now      func() time.Time
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(codes *repository.PairingRegistry, interval time.Duration) *CleanupService {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &CleanupService{
		codes:    codes,
		interval: interval,
		now:      time.Now,
	}
}

// Start sweeps once, then on every tick until ctx is cancelled
func (s *CleanupService) Start(ctx context.Context) {
	log.Info().Dur("interval", s.interval).Msg("Starting pairing code cleanup")

	s.runCleanup()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Stopping pairing code cleanup")
			return
		case <-ticker.C:
			s.runCleanup()
		}
	}
}

func (s *CleanupService) runCleanup() (removed int) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Pairing code cleanup panicked")
		}
	}()

	removed = s.codes.Sweep(s.now())
	if removed > 0 {
		log.Info().Int("count", removed).Msg("Deleted expired pairing codes")
	}
	return removed
}
