// Command chronicle runs the content history engine: the version read
// API, the content-type registry, and the daily retention purge.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/chroniclehq/chronicle/internal/api"
	"github.com/chroniclehq/chronicle/internal/config"
	"github.com/chroniclehq/chronicle/internal/crypto"
	"github.com/chroniclehq/chronicle/internal/db"
	"github.com/chroniclehq/chronicle/internal/db/migrations"
	"github.com/chroniclehq/chronicle/internal/dbpool"
	"github.com/chroniclehq/chronicle/internal/history"
	"github.com/chroniclehq/chronicle/internal/pipeline"
	"github.com/chroniclehq/chronicle/internal/service"
	"github.com/chroniclehq/chronicle/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := run(log); err != nil {
		log.WithError(err).Fatal("chronicle exited")
	}
}

func run(log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		return err
	}

	base := store.Base{Pool: pool, Log: log}
	if key := cfg.EncryptionKey.Value(); key != "" {
		provider, provErr := crypto.NewStaticProvider(key)
		if provErr != nil {
			return provErr
		}
		base.Crypto = crypto.NewService(provider)
		log.Info("snapshot encryption enabled")
	}

	versions := store.NewVersionStore(base)
	schemas := store.NewSchemaStore(base)

	writer := history.NewWriter(versions, log)
	scheduler, err := history.NewRetentionScheduler(
		versions, log, time.Duration(cfg.RetentionDays)*24*time.Hour,
	)
	if err != nil {
		return err
	}

	engine := history.NewEngine(writer, schemas, &storePublishState{versions: versions}, scheduler, log)

	p := pipeline.New()
	if err := engine.Install(ctx, p); err != nil {
		return err
	}
	defer engine.Stop()

	histSvc := service.NewHistoryService(versions, schemas, log)

	router := api.NewRouter(ctx, &api.RouterDeps{
		Log:         log,
		Pool:        pool,
		History:     histSvc,
		Schemas:     schemas,
		CORSOrigins: cfg.CORSOrigins,
		Version:     config.Version,
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithFields(logrus.Fields{
			"addr":           cfg.Addr(),
			"version":        config.Version,
			"retention_days": cfg.RetentionDays,
		}).Info("chronicle listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("chronicle stopped")

	return nil
}

// storePublishState derives a document's publish state from its newest
// recorded version. Hosts with direct access to live document state
// can supply their own implementation to the engine instead.
type storePublishState struct {
	versions *store.VersionStore
}

var _ history.PublishState = (*storePublishState)(nil)

func (s *storePublishState) IsPublished(ctx context.Context, contentType, documentID string, locale *string) (bool, error) {
	return s.versions.HasPublishedVersion(ctx, contentType, documentID, locale)
}
