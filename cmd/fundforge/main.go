// Command fundforge runs the FundForge moderation and audit API server.
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

	"github.com/fundforge/fundforge/internal/api"
	"github.com/fundforge/fundforge/internal/config"
	"github.com/fundforge/fundforge/internal/db"
	"github.com/fundforge/fundforge/internal/db/migrations"
	"github.com/fundforge/fundforge/internal/dbpool"
	"github.com/fundforge/fundforge/internal/policy"
	"github.com/fundforge/fundforge/internal/service"
	"github.com/fundforge/fundforge/internal/store"
)

const shutdownTimeout = 15 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("loading configuration")
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Fatal("parsing log level")
	}
	log.SetLevel(level)

	if err := run(log, cfg); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func run(log *logrus.Logger, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		return err
	}

	// A capability nobody holds is a configuration error, not a runtime
	// surprise. Refuse to start.
	engine, err := policy.NewEngine(policy.Default())
	if err != nil {
		return err
	}

	base := store.Base{Pool: pool, Log: log}
	comments := store.NewCommentStore(base)
	audits := store.NewAuditStore(base)

	auditWorker := service.NewAuditWorker(audits, log, cfg.AuditQueueSize)

	deps := &api.RouterDeps{
		Log:              log,
		Pool:             pool,
		Comments:         service.NewCommentService(comments, auditWorker, log),
		Moderation:       service.NewModerationService(comments, audits, auditWorker, engine, log),
		Audit:            service.NewAuditService(audits, engine, log),
		SigningKey:       []byte(cfg.SessionSigningKey.Value()),
		CORSOrigins:      cfg.CORSOrigins,
		Version:          config.Version,
		EnablePlayground: cfg.EnablePlayground,
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(ctx, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	// The worker outlives the HTTP server during shutdown so in-flight
	// requests can still enqueue records; Run drains its queue on cancel.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	g.Go(func() error {
		auditWorker.Run(workerCtx)
		return nil
	})

	g.Go(func() error {
		log.WithFields(logrus.Fields{
			"addr":    srv.Addr,
			"version": config.Version,
		}).Info("fundforge listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("server shutdown")
		}
		stopWorker()
		return nil
	})

	err = g.Wait()
	if err == nil {
		log.Info("server stopped")
	}
	return err
}
