package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	_ "modernc.org/sqlite"

	"schoolapi/internal/config"
)

// Dialect identifies the SQL backend behind a store location.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// driverName returns the database/sql driver registered for the dialect.
func (d Dialect) driverName() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite"
}

var placeholder = regexp.MustCompile(`\$\d+`)

// Rebind rewrites $N placeholders into the form the dialect's driver expects.
// Arguments must be passed in placeholder order.
func (d Dialect) Rebind(query string) string {
	if d == DialectPostgres {
		return query
	}
	return placeholder.ReplaceAllString(query, "?")
}

const memoryPath = ":memory:"

var sqlOpen = sql.Open

// Store is an open handle on the relational store.
type Store struct {
	*sql.DB
	Dialect  Dialect
	location string
}

// Location returns the store location the handle was opened with, with any password redacted.
func (s *Store) Location() string {
	return s.location
}

// ResolveDSN maps a store location to its dialect and driver DSN.
// postgres:// and postgresql:// URLs select PostgreSQL; anything else is a SQLite file path.
func ResolveDSN(location string) (Dialect, string, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", "", fmt.Errorf("invalid database config: store location is required")
	}

	if strings.HasPrefix(location, "postgres://") || strings.HasPrefix(location, "postgresql://") {
		u, err := url.Parse(location)
		if err != nil {
			return "", "", fmt.Errorf("invalid postgres url: %w", err)
		}
		if u.Host == "" || strings.Trim(u.Path, "/") == "" {
			return "", "", fmt.Errorf("invalid postgres url: host and database name are required")
		}
		return DialectPostgres, location, nil
	}

	path := strings.TrimPrefix(location, "sqlite://")
	if path == memoryPath {
		return DialectSQLite, memoryPath, nil
	}

	// Immediate transactions take the write lock at BEGIN so an insert and its
	// read-back cannot interleave with another writer.
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return DialectSQLite, path + sep + "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_txlock=immediate", nil
}

// Open opens the store described by c using the matching driver wrapped with otelsql,
// applies pooling settings and verifies connectivity.
func Open(c config.DatabaseConfig) (*Store, error) {
	dialect, dsn, err := ResolveDSN(c.URL)
	if err != nil {
		return nil, err
	}

	system := semconv.DBSystemSqlite
	if dialect == DialectPostgres {
		system = semconv.DBSystemPostgreSQL
	}

	// Register the otelsql driver wrapper
	driverName, err := otelsql.Register(dialect.driverName(),
		otelsql.WithAttributes(system),
		otelsql.WithSQLCommenter(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register otelsql: %w", err)
	}

	db, err := sqlOpen(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}

	if c.MaxOpenConns > 0 {
		db.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		db.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.ConnMaxLifetimeSec > 0 {
		db.SetConnMaxLifetime(time.Duration(c.ConnMaxLifetimeSec) * time.Second)
	}
	// Every connection to :memory: is its own database.
	if dialect == DialectSQLite && dsn == memoryPath {
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
	}

	// Verify connectivity with a short timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return &Store{DB: db, Dialect: dialect, location: redact(c.URL)}, nil
}

func redact(location string) string {
	u, err := url.Parse(location)
	if err != nil || u.User == nil {
		return location
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
