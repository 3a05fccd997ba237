package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// rosterTables must exist once migrations have run
var rosterTables = []string{"employee", "shift_pattern", "assignment"}

// ErrSchemaMissing is returned when a roster table is absent after migrating
var ErrSchemaMissing = errors.New("roster schema missing")

// DB is a roster store backed by PostgreSQL
type DB struct {
	pool       *pgxpool.Pool
	logger     *zap.Logger
	migrations fs.FS
}

// NewDB connects to PostgreSQL. Call RunMigrations before using the store.
func NewDB(ctx context.Context, connString string, logger *zap.Logger) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrations, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &DB{pool: pool, logger: logger, migrations: migrations}, nil
}

// Close closes the database connection pool
func (d *DB) Close() {
	d.pool.Close()
}

// migration is one schema file waiting to be applied
type migration struct {
	name string
	sql  string
}

// pendingMigrations lists the .sql files in source that are not in applied, ordered by name
func pendingMigrations(source fs.FS, applied map[string]bool) ([]migration, error) {
	entries, err := fs.ReadDir(source, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	var pending []migration
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".sql" || applied[name] {
			continue
		}

		content, err := fs.ReadFile(source, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		pending = append(pending, migration{name: name, sql: string(content)})
	}

	sort.Slice(pending, func(i, j int) bool { return pending[i].name < pending[j].name })
	return pending, nil
}

// RunMigrations applies pending roster schema migrations, each in its own transaction,
// then checks the roster tables exist. Returns the names of the files it applied.
func (d *DB) RunMigrations(ctx context.Context) ([]string, error) {
	if _, err := d.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	applied, err := d.appliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	pending, err := pendingMigrations(d.migrations, applied)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("Checked roster schema migrations",
		zap.Int("applied", len(applied)),
		zap.Int("pending", len(pending)))

	ran := make([]string, 0, len(pending))
	for _, m := range pending {
		if err := d.applyMigration(ctx, m); err != nil {
			return ran, err
		}
		d.logger.Info("Applied roster migration", zap.String("file", m.name))
		ran = append(ran, m.name)
	}

	if err := d.checkSchema(ctx); err != nil {
		return ran, err
	}

	return ran, nil
}

func (d *DB) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := d.pool.Query(ctx, `SELECT filename FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			return nil, fmt.Errorf("failed to scan migration filename: %w", err)
		}
		applied[filename] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating applied migrations: %w", err)
	}

	return applied, nil
}

func (d *DB) applyMigration(ctx context.Context, m migration) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for %s: %w", m.name, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, m.sql); err != nil {
		return fmt.Errorf("failed to execute migration %s: %w", m.name, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (filename) VALUES ($1)`, m.name); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", m.name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", m.name, err)
	}
	return nil
}

// checkSchema verifies every roster table is visible on the search path
func (d *DB) checkSchema(ctx context.Context) error {
	for _, table := range rosterTables {
		var found *string
		if err := d.pool.QueryRow(ctx, `SELECT to_regclass($1)::text`, table).Scan(&found); err != nil {
			return fmt.Errorf("failed to check table %s: %w", table, err)
		}
		if found == nil {
			return fmt.Errorf("table %s: %w", table, ErrSchemaMissing)
		}
	}
	return nil
}
