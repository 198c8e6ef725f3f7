package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v4/stdlib"
	_ "modernc.org/sqlite"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	db     *sql.DB
	driver string
	once   sync.Once
)

// Config holds database configuration
type Config struct {
	Driver string // sqlite, postgres
	Path   string // sqlite file or postgres DSN
}

// Open opens and configures a connection pool for cfg
func Open(cfg Config) (*sql.DB, error) {
	var (
		conn *sql.DB
		err  error
	)

	switch cfg.Driver {
	case DriverSQLite, "":
		conn, err = sql.Open("sqlite", cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		// A single writer avoids SQLITE_BUSY under concurrent ingestion
		conn.SetMaxOpenConns(1)

		for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON", "PRAGMA busy_timeout=5000"} {
			if _, err := conn.Exec(pragma); err != nil {
				conn.Close()
				return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
			}
		}
	case DriverPostgres:
		conn, err = sql.Open("pgx", cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		conn.SetMaxOpenConns(10)
		conn.SetMaxIdleConns(5)
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return conn, nil
}

// Init initializes the shared database connection
func Init(cfg Config) error {
	var err error
	once.Do(func() {
		db, err = Open(cfg)
		if err != nil {
			return
		}
		driver = cfg.Driver
		if driver == "" {
			driver = DriverSQLite
		}
		slog.Info("database initialized", "driver", driver)
	})
	return err
}

// GetDB returns the database instance
func GetDB() *sql.DB {
	if db == nil {
		panic("database not initialized, call Init first")
	}
	return db
}

// Driver returns the driver of the shared connection
func Driver() string {
	return driver
}

// Close closes the database connection
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// Rebind rewrites ? placeholders to $n for postgres
func Rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Transaction executes a function within a database transaction
func Transaction(ctx context.Context, conn *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("failed to roll back transaction: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
