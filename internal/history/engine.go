package history

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/chroniclehq/chronicle/internal/pipeline"
)

// Engine owns the document action interceptor and the retention
// scheduler. One Engine lives for the process lifetime.
type Engine struct {
	writer    *Writer
	registry  SchemaRegistry
	publish   PublishState
	retention *RetentionScheduler
	log       *logrus.Logger

	mu        sync.Mutex
	installed bool
}

// NewEngine wires the history engine. The retention scheduler may be
// nil when purging is managed externally (e.g. in tests).
func NewEngine(
	writer *Writer,
	registry SchemaRegistry,
	publish PublishState,
	retention *RetentionScheduler,
	log *logrus.Logger,
) *Engine {
	return &Engine{
		writer:    writer,
		registry:  registry,
		publish:   publish,
		retention: retention,
		log:       log,
	}
}

// Install registers the interceptor on the pipeline and starts the
// retention scheduler. Idempotent: bootstrap may run multiple times
// across reloads, but exactly one middleware and one scheduler are
// ever registered per Engine.
func (e *Engine) Install(ctx context.Context, p *pipeline.Pipeline) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.installed {
		e.log.Debug("history engine already installed, skipping")

		return nil
	}

	p.Use(e.Intercept)

	if e.retention != nil {
		if err := e.retention.Start(ctx); err != nil {
			return err
		}
	}

	e.installed = true
	e.log.Info("content history engine installed")

	return nil
}

// Stop halts the retention scheduler. Future mutations still flow
// through the interceptor until the process exits.
func (e *Engine) Stop() {
	if e.retention != nil {
		e.retention.Stop()
	}
}
