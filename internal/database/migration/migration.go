package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"schoolapi/internal/database"
)

type migrationStep struct {
	Version int
	Name    string
	SQL     map[database.Dialect]string
}

var steps = []migrationStep{
	{
		Version: 1,
		Name:    "create_table_schools",
		SQL: map[database.Dialect]string{
			database.DialectSQLite: `CREATE TABLE schools (
  id   INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
  name TEXT    NOT NULL
);`,
			database.DialectPostgres: `CREATE TABLE schools (
  id   SERIAL PRIMARY KEY,
  name TEXT   NOT NULL
);`,
		},
	},
}

const recordVersion = `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`

const createVersionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name    TEXT    NOT NULL
);`

// Run applies every step newer than the recorded schema version. Each step and
// its version record commit together.
func Run(ctx context.Context, db *sql.DB, dialect database.Dialect, logger zerolog.Logger) error {
	start := time.Now()
	log := logger.With().Str("component", "database").Str("dialect", string(dialect)).Logger()

	log.Info().Str("event", "db_migration_check").Str("status", "starting").Msg("checking schema version")

	if _, err := db.ExecContext(ctx, createVersionTable); err != nil {
		log.Error().Err(err).Str("event", "db_migration_failed").Dur("duration", time.Since(start)).
			Msg("failed to create schema_migrations")
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	if err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		log.Error().Err(err).Str("event", "db_migration_failed").Dur("duration", time.Since(start)).
			Msg("failed to read schema version")
		return fmt.Errorf("read schema version: %w", err)
	}

	if current >= Latest() {
		log.Info().Str("event", "db_migration_skip").Str("status", "success").Int("version", current).
			Dur("duration", time.Since(start)).Msg("schema up to date, skipping migration")
		return nil
	}

	log.Info().Str("event", "db_migration_start").Str("status", "in_progress").
		Int("from", current).Int("to", Latest()).Msg("migrating schema")

	for _, step := range steps {
		if step.Version <= current {
			continue
		}
		stepStart := time.Now()
		stmt, ok := step.SQL[dialect]
		if !ok {
			return fmt.Errorf("migration step %s: no statement for dialect %q", step.Name, dialect)
		}
		if err := apply(ctx, db, dialect, step, stmt); err != nil {
			log.Error().Err(err).Str("event", "db_migration_failed").Str("migration_step", step.Name).
				Dur("duration", time.Since(start)).Dur("step_duration", time.Since(stepStart)).
				Msg("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info().Str("event", "db_migration_step").Str("status", "success").Str("migration_step", step.Name).
			Dur("step_duration", time.Since(stepStart)).Msg("migration step applied")
	}

	log.Info().Str("event", "db_migration_success").Str("status", "success").
		Dur("duration", time.Since(start)).Msg("schema migrated")
	return nil
}

// Latest is the highest known schema version.
func Latest() int {
	return steps[len(steps)-1].Version
}

func apply(ctx context.Context, db *sql.DB, dialect database.Dialect, step migrationStep, stmt string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, dialect.Rebind(recordVersion), step.Version, step.Name); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
