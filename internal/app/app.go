// Package app wires the channel snapshot service together: configuration,
// logging, database and migrations, the credential vault, the snapshot cache
// with its background sweeper, and the aggregation service on top.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/creatorpulse/channelvault/internal/aggregate"
	"github.com/creatorpulse/channelvault/internal/cache"
	"github.com/creatorpulse/channelvault/internal/config"
	"github.com/creatorpulse/channelvault/internal/connectors"
	"github.com/creatorpulse/channelvault/internal/credentials"
	"github.com/creatorpulse/channelvault/internal/logging"
	"github.com/creatorpulse/channelvault/internal/models"
	"github.com/creatorpulse/channelvault/internal/store/repomanager"
	"github.com/creatorpulse/channelvault/internal/vault"
)

type App struct {
	config *config.Config
	logger logging.Logger

	db    *sql.DB
	repos repomanager.RepositoryManager

	vault      *vault.Vault
	creds      *credentials.Service
	cache      *cache.SnapshotCache
	aggregator *aggregate.Service
}

func NewApp(cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	v, err := vault.New(cfg.MasterSecret)
	if err != nil {
		return nil, fmt.Errorf("vault init error: %w", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	creds := credentials.NewService(v, logger)
	snapshotCache := cache.New()

	aggregator := aggregate.NewService(
		connectors.DefaultRegistry(nil),
		creds,
		snapshotCache,
		logger,
		aggregate.Options{
			FetchTimeout:     cfg.FetchTimeout,
			SnapshotTTL:      cfg.SnapshotTTL,
			ErrorSnapshotTTL: cfg.ErrorSnapshotTTL,
			Concurrency:      cfg.FetchConcurrency,
		},
	)

	return &App{
		config:     cfg,
		logger:     logger,
		db:         db,
		repos:      repomanager.NewPostgresRepositoryManager(),
		vault:      v,
		creds:      creds,
		cache:      snapshotCache,
		aggregator: aggregator,
	}, nil
}

// Migrate applies the embedded schema migrations.
func (app *App) Migrate(ctx context.Context) error {
	if err := app.repos.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}
	return nil
}

// StartSweeper runs the cache eviction loop until ctx is cancelled.
func (app *App) StartSweeper(ctx context.Context) {
	go app.cache.Run(ctx, app.config.CacheSweepInterval)
}

// InitSignalContext returns a context cancelled on SIGINT/SIGTERM/SIGQUIT.
func InitSignalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
}

// FetchOwnerSnapshots loads every channel linked by ownerID and aggregates
// one snapshot per channel.
func (app *App) FetchOwnerSnapshots(ctx context.Context, ownerID int64) (map[int64]*models.Snapshot, error) {
	accounts, err := app.repos.Accounts(app.db).ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("loading channels: %w", err)
	}
	return app.aggregator.FetchSnapshots(ctx, accounts), nil
}

// Vault exposes the credential vault for operator tooling.
func (app *App) Vault() *vault.Vault { return app.vault }

// Credentials exposes the credential service for operator tooling.
func (app *App) Credentials() *credentials.Service { return app.creds }

// CredentialStore returns the credential repository bound to the app DB.
func (app *App) CredentialStore() credentials.TokenStore {
	return app.repos.Credentials(app.db)
}

func (app *App) Logger() logging.Logger { return app.logger }

func (app *App) Close() error {
	return app.db.Close()
}
