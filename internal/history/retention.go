package history

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chroniclehq/chronicle/internal/metrics"
	"github.com/chroniclehq/chronicle/internal/models"
)

// RetentionScheduler purges versions older than the retention window
// once per day, at the start of each calendar day. It runs independent
// of request traffic; a failed run is reported and the next run still
// happens. Only process shutdown stops future firings.
type RetentionScheduler struct {
	purger    VersionPurger
	log       *logrus.Logger
	retention time.Duration

	// now is swapped in tests.
	now func() time.Time

	done    chan struct{}
	mu      sync.Mutex
	running bool
}

// NewRetentionScheduler creates a scheduler. The retention window is
// required configuration; there is no default.
func NewRetentionScheduler(purger VersionPurger, log *logrus.Logger, retention time.Duration) (*RetentionScheduler, error) {
	if retention <= 0 {
		return nil, &models.ConfigurationError{
			Field:  "retention window",
			Reason: "must be a positive duration",
		}
	}

	return &RetentionScheduler{
		purger:    purger,
		log:       log,
		retention: retention,
		now:       time.Now,
		done:      make(chan struct{}),
	}, nil
}

// Start launches the scheduler goroutine. Starting an already-running
// scheduler is a no-op, matching the engine's one-time installation.
func (s *RetentionScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	s.running = true

	s.log.WithFields(logrus.Fields{
		"retention": s.retention.String(),
		"next_run":  s.now().Add(untilNextRun(s.now())).Format(time.RFC3339),
	}).Info("retention scheduler starting")

	go s.runLoop(ctx)

	return nil
}

// Stop halts future firings. A purge already in flight completes.
// Safe to call multiple times.
func (s *RetentionScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	close(s.done)
	s.running = false
	s.log.Info("retention scheduler stopped")
}

// RunNow performs one purge cycle immediately, outside the daily
// schedule. Returns the number of purged versions.
func (s *RetentionScheduler) RunNow(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.retention)

	purged, err := s.purger.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		metrics.PurgeFailures.Inc()

		return 0, &models.ScheduleError{Err: err}
	}

	metrics.VersionsPurged.Add(float64(purged))

	return purged, nil
}

func (s *RetentionScheduler) runLoop(ctx context.Context) {
	for {
		timer := time.NewTimer(untilNextRun(s.now()))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("retention scheduler exiting (context cancelled)")

			return
		case <-s.done:
			timer.Stop()

			return
		case <-timer.C:
			s.executePurge(ctx)
		}
	}
}

// executePurge runs one cycle with error containment so a failed purge
// never takes down the loop.
func (s *RetentionScheduler) executePurge(ctx context.Context) {
	purged, err := s.RunNow(ctx)
	if err != nil {
		s.log.WithError(err).Error("retention purge failed")

		return
	}

	s.log.WithFields(logrus.Fields{
		"purged":    purged,
		"retention": s.retention.String(),
	}).Info("retention purge completed")
}

// untilNextRun returns the duration until the start of the next
// calendar day in now's location.
func untilNextRun(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())

	return next.Sub(now)
}
