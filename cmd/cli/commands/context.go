package commands

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/jakechorley/rail-roster/internal/config"
	"github.com/jakechorley/rail-roster/pkg/db"
	"github.com/jakechorley/rail-roster/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg    *config.Config
	Logger *zap.Logger
	Ctx    context.Context
	// Out receives command results. Logs go to the logger, never here.
	Out io.Writer
	// Format is one of FormatText, FormatYAML or FormatJSON
	Format string

	store    db.RosterStore
	database *postgres.DB
}

// Store opens the configured roster store on first use
func (app *AppContext) Store() (db.RosterStore, error) {
	if app.store != nil {
		return app.store, nil
	}

	switch app.Cfg.RosterSource {
	case config.SourcePostgres:
		database, err := app.Postgres()
		if err != nil {
			return nil, err
		}
		app.store = database
	default:
		app.Logger.Debug("Opening roster file", zap.String("path", app.Cfg.RosterFile))
		store, err := db.OpenFileStore(app.Cfg.RosterFile)
		if err != nil {
			return nil, err
		}
		app.store = store
	}

	return app.store, nil
}

// Postgres connects to the configured database and applies pending migrations
func (app *AppContext) Postgres() (*postgres.DB, error) {
	if app.database != nil {
		return app.database, nil
	}
	if app.Cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("databaseURL is not configured")
	}

	app.Logger.Info("Connecting to database")
	database, err := postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL, app.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	applied, err := database.RunMigrations(app.Ctx)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	app.Logger.Debug("Database ready", zap.Int("migrations_applied", len(applied)))

	app.database = database
	return database, nil
}

// Close releases any open database connection
func (app *AppContext) Close() {
	if app.database != nil {
		app.database.Close()
		app.database = nil
	}
}
