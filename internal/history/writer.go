package history

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chroniclehq/chronicle/internal/metrics"
	"github.com/chroniclehq/chronicle/internal/models"
	"github.com/chroniclehq/chronicle/internal/txhook"
)

// persistTimeout bounds the deferred insert that runs after the
// originating transaction commits.
const persistTimeout = 10 * time.Second

// Writer guarantees a version is only persisted if the mutation it
// describes durably committed. When the recording call runs inside a
// transaction, the insert is registered as a commit hook on it; a
// rollback drops the hook unrun, so no row ever exists for an aborted
// mutation. Outside a transaction the insert happens immediately.
type Writer struct {
	versions VersionCreator
	log      *logrus.Logger
}

// NewWriter creates a Writer persisting through the given store.
func NewWriter(versions VersionCreator, log *logrus.Logger) *Writer {
	return &Writer{versions: versions, log: log}
}

// Record schedules v for persistence. The returned error is non-nil
// only on the immediate path; a deferred insert reports failures
// through the log and metrics since its caller is long gone.
func (w *Writer) Record(ctx context.Context, v models.HistoryVersion) error {
	deferred := txhook.OnCommit(ctx, func(context.Context) {
		// The request context may already be cancelled by commit time;
		// persist on a detached context.
		hctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		if _, err := w.versions.CreateVersion(hctx, v); err != nil {
			w.log.WithError(err).WithFields(logrus.Fields{
				"content_type": v.ContentType,
				"document_id":  v.DocumentID,
			}).Error("deferred history write failed")
			metrics.RecordFailures.Inc()

			return
		}

		metrics.VersionsRecorded.Inc()
	})
	if deferred {
		return nil
	}

	if _, err := w.versions.CreateVersion(ctx, v); err != nil {
		return err
	}

	metrics.VersionsRecorded.Inc()

	return nil
}
