// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration applies the SQL schema migrations with golang-migrate
// before the server accepts traffic.
//
// Migrations are read from the binary by default. Setting a directory reads
// them from disk instead, which is handy while writing a new one.
package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// pgx5 driver registers the "pgx5" scheme.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// file source reads .sql files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/taibuivan/storekeep/data/migrations"
)

const pgx5Scheme = "pgx5://"

// RunUp applies all pending up migrations against dsn.
//
// An empty dir selects the embedded migrations. A database left dirty by an
// interrupted run is reported and never touched.
func RunUp(dsn string, dir string, logger *slog.Logger) error {
	migrator, err := open(dsn, dir)
	if err != nil {
		return fmt.Errorf("migration: failed to initialize: %w", err)
	}
	defer func() {
		sourceErr, databaseErr := migrator.Close()
		if err := errors.Join(sourceErr, databaseErr); err != nil {
			logger.Error("migration_close_failed", slog.Any("error", err))
		}
	}()

	migrator.Log = &migrateLogger{logger: logger, verbose: logger.Enabled(context.Background(), slog.LevelDebug)}

	from, dirty, err := migrator.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		from = 0
	case err != nil:
		return fmt.Errorf("migration: failed to read version: %w", err)
	case dirty:
		return fmt.Errorf("migration: database is dirty at version %d, fix it by hand and force the version", from)
	}

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migration_up_to_date", slog.Uint64("version", uint64(from)))
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	to, _, _ := migrator.Version()
	logger.Info("migration_applied",
		slog.Uint64("from_version", uint64(from)),
		slog.Uint64("to_version", uint64(to)),
	)
	return nil
}

func open(dsn, dir string) (*migrate.Migrate, error) {
	if dir != "" {
		return migrate.New("file://"+dir, DatabaseURL(dsn))
	}

	embedded, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, err
	}
	return migrate.NewWithSourceInstance("iofs", embedded, DatabaseURL(dsn))
}

// DatabaseURL rewrites a postgres:// or postgresql:// DSN onto the pgx5://
// scheme registered by the golang-migrate pgx/v5 driver. Other DSNs pass through.
func DatabaseURL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, found := strings.CutPrefix(dsn, prefix); found {
			return pgx5Scheme + rest
		}
	}
	return dsn
}

// migrateLogger routes golang-migrate output to slog at debug level.
type migrateLogger struct {
	logger  *slog.Logger
	verbose bool
}

func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *migrateLogger) Verbose() bool {
	return l.verbose
}
