package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"pgn_backend/internal/audit"
	"pgn_backend/internal/auth"
	"pgn_backend/internal/config"
	"pgn_backend/internal/db"
	httpserver "pgn_backend/internal/http"
	"pgn_backend/internal/logger"
	"pgn_backend/internal/metrics"
	"pgn_backend/internal/seed"
	"pgn_backend/internal/store"
)

type Globals struct {
	Debug   bool
	EnvFile string
	Version string
}

// bootstrap loads config, connects, migrates and seeds. The schema is
// created once at process start.
func bootstrap(ctx context.Context, g *Globals) (*config.Config, zerolog.Logger, *gorm.DB, error) {
	cfg, err := config.Load(g.EnvFile)
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}
	log := logger.Setup(g.Debug, cfg.LogLevel)

	gdb, err := db.Connect(ctx, &cfg, log)
	if err != nil {
		return nil, log, nil, err
	}
	if err := db.AutoMigrate(gdb); err != nil {
		_ = db.Close(gdb)
		return nil, log, nil, err
	}
	if err := seed.FirstSetup(ctx, gdb, &cfg, auth.NewHasher(cfg.BcryptCost), log); err != nil {
		_ = db.Close(gdb)
		return nil, log, nil, fmt.Errorf("seed: %w", err)
	}
	return &cfg, log, gdb, nil
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx context.Context, g *Globals) error {
	_, log, gdb, err := bootstrap(ctx, g)
	if err != nil {
		return err
	}
	defer db.Close(gdb)
	log.Info().Msg("schema up to date")
	return nil
}

type ServeCmd struct {
	ShutdownTimeout time.Duration `help:"Grace period for in-flight requests." default:"10s"`
}

func (c *ServeCmd) Run(ctx context.Context, g *Globals) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, log, gdb, err := bootstrap(ctx, g)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	m := metrics.New()
	rec := audit.NewRecorder(store.New(gdb), log, m.AuditWriteFailures)
	// Runs after Shutdown and before the database is closed.
	defer rec.Wait()

	router, err := httpserver.NewRouter(gdb, cfg, log, m, rec)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", g.Version).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
