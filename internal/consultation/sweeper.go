package consultation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"voice-triage/internal/logging"
)

// Sweeper periodically removes sessions whose grace delay or idle time has
// run out.
type Sweeper struct {
	cron     *cron.Cron
	ctx      context.Context
	cancel   context.CancelFunc
	svc      Service
	schedule string
	logger   *slog.Logger
}

func NewSweeper(svc Service, schedule string) *Sweeper {
	ctx, cancel := context.WithCancel(context.Background())
	return &Sweeper{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		ctx:      ctx,
		cancel:   cancel,
		svc:      svc,
		schedule: schedule,
		logger:   logging.New("sweeper"),
	}
}

func (s *Sweeper) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.run)
	if err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.logger.Info("session sweeper started", "schedule", s.schedule)
	return nil
}

func (s *Sweeper) run() {
	removed := s.svc.Sweep(s.ctx, time.Now())
	s.logger.Debug("sweep finished", "removed", removed)
}

// Stop waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.cancel()
	s.logger.Info("session sweeper stopped")
}
