// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const DefaultSweepSchedule = "@hourly"

// SessionCleaner deletes sessions whose expiry has passed.
type SessionCleaner interface {
	CleanExpiredSessions(ctx context.Context) (int64, error)
}

// SessionSweeper purges expired sessions on a cron schedule.
type SessionSweeper struct {
	cleaner SessionCleaner
	log     logrus.FieldLogger
	cron    *cron.Cron
	timeout time.Duration
}

// NewSessionSweeper parses schedule (standard five-field cron or a descriptor
// such as @hourly) and returns a sweeper that is not yet running.
func NewSessionSweeper(cleaner SessionCleaner, schedule string, log logrus.FieldLogger) (*SessionSweeper, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &SessionSweeper{
		cleaner: cleaner,
		log:     log.WithField("job", "session-sweep"),
		cron:    cron.New(),
		timeout: time.Minute,
	}
	if _, err := s.cron.AddFunc(schedule, s.runLogged); err != nil {
		return nil, fmt.Errorf("parse sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start runs the schedule in its own goroutine.
func (s *SessionSweeper) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for a running sweep to finish or ctx to end.
func (s *SessionSweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// Sweep performs one pass and returns how many sessions were removed.
func (s *SessionSweeper) Sweep(ctx context.Context) (int64, error) {
	return s.cleaner.CleanExpiredSessions(ctx)
}

func (s *SessionSweeper) runLogged() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	removed, err := s.Sweep(ctx)
	if err != nil {
		s.log.WithError(err).Error("expired session sweep failed")
		return
	}
	s.log.WithField("removed", removed).Info("expired sessions swept")
}
