package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fastship/cmd"
	"fastship/internal/adapters/out/postgres"
	"fastship/internal/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env file is fine: the environment may carry everything.
	_ = godotenv.Load()

	configs, err := cmd.LoadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(configs.Environment, configs.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err = run(configs, log); err != nil {
		log.Fatal("Service stopped with error", zap.Error(err))
	}
	log.Info("Service stopped")
}

func run(configs cmd.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := mustGormOpen(configs.Database.DSN())
	if err != nil {
		return err
	}
	if err = postgres.Migrate(gormDB); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			log.Error("Failed to close connections", zap.Error(closeErr))
		}
	}()

	jobManager, err := app.NewJobManager()
	if err != nil {
		return err
	}
	jobManager.StartAll()
	defer jobManager.StopAll()

	e := app.NewHTTPServer().NewEcho()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Starting HTTP server", zap.String("port", configs.HTTPPort))
		if err := e.Start("0.0.0.0:" + configs.HTTPPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func mustGormOpen(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
