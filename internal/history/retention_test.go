package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chroniclehq/chronicle/internal/models"
)

func TestNewRetentionSchedulerRequiresWindow(t *testing.T) {
	for _, retention := range []time.Duration{0, -24 * time.Hour} {
		_, err := NewRetentionScheduler(&mockVersionStore{}, testLogger(), retention)

		var cfgErr *models.ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("retention %v: expected ConfigurationError, got %v", retention, err)
		}
	}
}

func TestRunNowCutoff(t *testing.T) {
	var gotCutoff time.Time
	store := &mockVersionStore{
		purgeFn: func(_ context.Context, cutoff time.Time) (int64, error) {
			gotCutoff = cutoff

			return 7, nil
		},
	}

	s, err := NewRetentionScheduler(store, testLogger(), 90*24*time.Hour)
	if err != nil {
		t.Fatalf("NewRetentionScheduler failed: %v", err)
	}

	frozen := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return frozen }

	purged, err := s.RunNow(context.Background())
	if err != nil {
		t.Fatalf("RunNow failed: %v", err)
	}
	if purged != 7 {
		t.Errorf("purged = %d, want 7", purged)
	}

	want := frozen.Add(-90 * 24 * time.Hour)
	if !gotCutoff.Equal(want) {
		t.Errorf("cutoff = %v, want %v", gotCutoff, want)
	}
}

func TestRunNowWrapsPurgeError(t *testing.T) {
	purgeErr := errors.New("deadlock detected")
	store := &mockVersionStore{
		purgeFn: func(context.Context, time.Time) (int64, error) {
			return 0, purgeErr
		},
	}

	s, err := NewRetentionScheduler(store, testLogger(), 24*time.Hour)
	if err != nil {
		t.Fatalf("NewRetentionScheduler failed: %v", err)
	}

	_, err = s.RunNow(context.Background())

	var schedErr *models.ScheduleError
	if !errors.As(err, &schedErr) {
		t.Fatalf("expected ScheduleError, got %v", err)
	}
	if !errors.Is(err, purgeErr) {
		t.Fatalf("ScheduleError does not wrap cause: %v", err)
	}
}

func TestSchedulerStartStopIdempotent(t *testing.T) {
	s, err := NewRetentionScheduler(&mockVersionStore{
		purgeFn: func(context.Context, time.Time) (int64, error) { return 0, nil },
	}, testLogger(), 24*time.Hour)
	if err != nil {
		t.Fatalf("NewRetentionScheduler failed: %v", err)
	}

	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := s.Start(ctx); err != nil {
		t.Fatalf("second Start failed: %v", err)
	}

	s.Stop()
	s.Stop()
}

func TestUntilNextRun(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{
			name: "noon",
			now:  time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC),
			want: 12 * time.Hour,
		},
		{
			name: "one second before midnight",
			now:  time.Date(2024, time.March, 15, 23, 59, 59, 0, time.UTC),
			want: time.Second,
		},
		{
			name: "exactly midnight waits a full day",
			now:  time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
			want: 24 * time.Hour,
		},
		{
			name: "month boundary",
			now:  time.Date(2024, time.February, 29, 18, 0, 0, 0, time.UTC),
			want: 6 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := untilNextRun(tt.now); got != tt.want {
				t.Errorf("untilNextRun(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}
