package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/velostra/platform-api/internal/core/port"
)

// SessionSweeper periodically purges expired sessions so that lazy
// deletion on the read path never lets the table grow without bound.
type SessionSweeper struct {
	sessions port.SessionRepository
	logger   *zap.Logger
	cron     *cron.Cron
}

// NewSessionSweeper wires the sweeper against the session repository.
func NewSessionSweeper(sessions port.SessionRepository, logger *zap.Logger) *SessionSweeper {
	return &SessionSweeper{
		sessions: sessions,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start registers the purge job at the supplied interval and launches the
// scheduler. A non-positive interval disables the sweeper.
func (s *SessionSweeper) Start(interval time.Duration) error {
	if interval <= 0 {
		s.logger.Info("session sweeper disabled")
		return nil
	}

	spec := fmt.Sprintf("@every %s", interval)
	if _, err := s.cron.AddFunc(spec, s.sweep); err != nil {
		return fmt.Errorf("schedule session sweep: %w", err)
	}

	s.cron.Start()
	s.logger.Info("session sweeper started", zap.Duration("interval", interval))
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *SessionSweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *SessionSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.sessions.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("session sweep failed", zap.Error(err))
		return
	}

	if removed > 0 {
		s.logger.Info("purged expired sessions", zap.Int("count", removed))
	}
}
