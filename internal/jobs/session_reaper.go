package jobs

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/hatif03/prepwise/internal/metrics"
	"github.com/hatif03/prepwise/internal/session"
)

// SessionReaperJob periodically sweeps the session registry. It
// force-disconnects sessions stuck in CONNECTING or ACTIVE past MaxAge so no
// error path can leave a session in a non-terminal state forever, and it
// collects FINISHED sessions once the caller has had a chance to read the
// final snapshot.
type SessionReaperJob struct {
	registry *session.Registry
	config   *ReaperConfig
	logger   *zap.Logger
	cron     *cron.Cron
}

type ReaperConfig struct {
	Schedule string        // cron schedule, default every minute
	MaxAge   time.Duration // sessions older than this get disconnected
}

func NewSessionReaperJob(registry *session.Registry, config *ReaperConfig, logger *zap.Logger) *SessionReaperJob {
	return &SessionReaperJob{
		registry: registry,
		config:   config,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Start begins the scheduled sweep.
func (srj *SessionReaperJob) Start() error {
	_, err := srj.cron.AddFunc(srj.config.Schedule, srj.RunSweep)
	if err != nil {
		return fmt.Errorf("failed to schedule session reaper: %w", err)
	}
	srj.cron.Start()
	srj.logger.Info("session reaper started", zap.String("schedule", srj.config.Schedule))
	return nil
}

// Stop stops the scheduled sweep.
func (srj *SessionReaperJob) Stop() {
	if srj.cron != nil {
		srj.cron.Stop()
		srj.logger.Info("session reaper stopped")
	}
}

// RunSweep performs a single sweep over the registry.
func (srj *SessionReaperJob) RunSweep() {
	now := time.Now()
	srj.registry.Each(func(m *session.Machine) {
		switch m.Status() {
		case session.StatusFinished:
			srj.registry.Remove(m.ID())
		case session.StatusConnecting, session.StatusActive:
			if now.Sub(m.StartedAt()) > srj.config.MaxAge {
				srj.logger.Warn("disconnecting stuck session",
					zap.String("session_id", m.ID()),
					zap.Duration("age", now.Sub(m.StartedAt())))
				m.Disconnect()
				metrics.SessionReaped()
			}
		}
	})
}
