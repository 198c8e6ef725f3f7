package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := Open(Config{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestRebind(t *testing.T) {
	q := "SELECT * FROM t WHERE a = ? AND b = ?"
	if got := Rebind(DriverSQLite, q); got != q {
		t.Errorf("sqlite Rebind changed query: %q", got)
	}
	if got, want := Rebind(DriverPostgres, q), "SELECT * FROM t WHERE a = $1 AND b = $2"; got != want {
		t.Errorf("postgres Rebind = %q, want %q", got, want)
	}
}

func TestOpenUnsupportedDriver(t *testing.T) {
	if _, err := Open(Config{Driver: "oracle"}); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestRunMigrationsIsRepeatable(t *testing.T) {
	conn := openTestDB(t)
	m := NewMigrationManager(conn, DriverSQLite)

	if err := m.RunMigrations(); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := m.RunMigrations(); err != nil {
		t.Fatalf("second run: %v", err)
	}

	applied, err := m.GetAppliedMigrations()
	if err != nil {
		t.Fatal(err)
	}
	if !applied[1] {
		t.Errorf("migration 1 not recorded: %v", applied)
	}

	for _, table := range []string{"tickets", "sentiment_results", "entities"} {
		var n int
		if err := conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestTransactionRollsBack(t *testing.T) {
	conn := openTestDB(t)
	if _, err := conn.Exec("CREATE TABLE kv (k TEXT PRIMARY KEY)"); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := Transaction(context.Background(), conn, func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO kv (k) VALUES ('a')"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM kv").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("rows after rollback = %d, want 0", n)
	}
}

func TestTransactionCanceledContext(t *testing.T) {
	conn := openTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := Transaction(ctx, conn, func(tx *sql.Tx) error {
		ran = true
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if ran {
		t.Error("fn ran on a canceled context")
	}
}

func TestSplitStatements(t *testing.T) {
	got := splitStatements("CREATE TABLE a (x INT);\n\n CREATE INDEX i ON a (x);\n")
	if len(got) != 2 {
		t.Errorf("splitStatements = %q", got)
	}
}
