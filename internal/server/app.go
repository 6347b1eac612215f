// Package server initializes and runs the PrintDesk server: it wires the
// storage backend, the business services, and the HTTP API, and handles
// graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/printdesk/internal/logging"
	"github.com/dmitrijs2005/printdesk/internal/server/config"
	"github.com/dmitrijs2005/printdesk/internal/server/httpapi"
	"github.com/dmitrijs2005/printdesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/printdesk/internal/server/services"
)

// App owns the wired components of a running server.
type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	sessions *services.SessionService
	fanout   *services.FanoutService
	httpSrv  *httpapi.Server
}

// NewApp builds the full service graph. An empty DatabaseDSN selects the
// in-memory stores; otherwise the database is pinged with backoff and
// migrated before any service touches it.
func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	var db *sql.DB
	var rm repomanager.RepositoryManager

	if cfg.DatabaseDSN == "" {
		rm = repomanager.NewInMemoryRepositoryManager()
	} else {
		var err error
		db, err = sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}

		if err := waitForDB(context.Background(), db); err != nil {
			return nil, fmt.Errorf("db unreachable: %w", err)
		}

		rm, err = repomanager.NewPostgresRepositoryManager(db)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := rm.RunMigrations(context.Background(), db); err != nil {
			return nil, fmt.Errorf("migration error: %w", err)
		}
	}

	sessions := services.NewSessionService(db, rm, cfg, logger)
	fanout := services.NewFanoutService(sessions, cfg, logger)
	ledger := services.NewLedgerService(db, rm, fanout)
	tasks := services.NewTaskService(db, rm, fanout)
	assignment := services.NewAssignmentService(db, rm, ledger, fanout)
	auth := services.NewAuthService(db, rm, sessions, cfg, logger)
	documents := services.NewDocumentService(db, rm, cfg)

	httpSrv := httpapi.NewServer(cfg, logger, tasks, assignment, ledger, sessions, auth, documents, fanout)

	return &App{
		config:   cfg,
		logger:   logger,
		db:       db,
		sessions: sessions,
		fanout:   fanout,
		httpSrv:  httpSrv,
	}, nil
}

// waitForDB pings the database with Fibonacci backoff so the server survives
// a database that comes up slightly later than it does.
func waitForDB(ctx context.Context, db *sql.DB) error {
	backoff := retry.WithMaxRetries(5, retry.NewFibonacci(1*time.Second))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run starts the HTTP server and the background loops, then blocks until a
// signal arrives or a component fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app")

	app.initSignalHandler(cancelFunc)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.httpSrv.Run(ctx)
	})
	g.Go(func() error {
		app.sessions.RunSweeper(ctx)
		return nil
	})
	g.Go(func() error {
		app.fanout.RunReconciler(ctx)
		return nil
	})

	err := g.Wait()

	if app.db != nil {
		if closeErr := app.db.Close(); closeErr != nil {
			app.logger.Error(ctx, "db close failed", "error", closeErr)
		}
	}

	app.logger.Info(ctx, "app stopped")
	return err
}
