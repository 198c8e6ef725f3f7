package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var embedded embed.FS

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// MigrationManager manages database migrations
type MigrationManager struct {
	db     *sql.DB
	driver string
	source fs.FS
}

// NewMigrationManager creates a migration manager over the embedded migrations
func NewMigrationManager(db *sql.DB, driver string) *MigrationManager {
	return &MigrationManager{
		db:     db,
		driver: driver,
		source: embedded,
	}
}

// InitMigrationsTable creates the migrations tracking table
func (m *MigrationManager) InitMigrationsTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := m.db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// GetAppliedMigrations returns a list of applied migration versions
func (m *MigrationManager) GetAppliedMigrations() (map[int]bool, error) {
	rows, err := m.db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

// LoadMigrations loads migration files named like 001_create_tickets.sql
func (m *MigrationManager) LoadMigrations() ([]Migration, error) {
	files, err := fs.ReadDir(m.source, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []Migration
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		var version int
		if _, err := fmt.Sscanf(file.Name(), "%d_", &version); err != nil {
			slog.Warn("skipping migration file with invalid name", "file", file.Name())
			continue
		}

		content, err := fs.ReadFile(m.source, path.Join("migrations", file.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", file.Name(), err)
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    strings.TrimSuffix(file.Name(), ".sql"),
			SQL:     string(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// ApplyMigration applies a single migration
func (m *MigrationManager) ApplyMigration(migration Migration) error {
	return Transaction(context.Background(), m.db, func(tx *sql.Tx) error {
		for _, stmt := range splitStatements(migration.SQL) {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("failed to execute migration %d: %w", migration.Version, err)
			}
		}

		_, err := tx.Exec(Rebind(m.driver, "INSERT INTO migrations (version, name) VALUES (?, ?)"), migration.Version, migration.Name)
		if err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		slog.Info("applied migration", "version", migration.Version, "name", migration.Name)
		return nil
	})
}

// RunMigrations runs all pending migrations
func (m *MigrationManager) RunMigrations() error {
	if err := m.InitMigrationsTable(); err != nil {
		return err
	}

	applied, err := m.GetAppliedMigrations()
	if err != nil {
		return err
	}

	migrations, err := m.LoadMigrations()
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if applied[migration.Version] {
			slog.Debug("skipping applied migration", "version", migration.Version)
			continue
		}

		if err := m.ApplyMigration(migration); err != nil {
			return err
		}
	}

	return nil
}

func splitStatements(script string) []string {
	var stmts []string
	for _, part := range strings.Split(script, ";") {
		if s := strings.TrimSpace(part); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
