package dbclient_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"sheet/internal/dbclient"
	"sheet/internal/domain"

	_ "modernc.org/sqlite"
)

func seedSQLite(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parts.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	for _, stmt := range []string{
		`CREATE TABLE parts (id INTEGER PRIMARY KEY, name TEXT, qty INTEGER, note TEXT)`,
		`INSERT INTO parts (id, name, qty, note) VALUES (1, 'valve', 4, NULL), (2, 'pump', 1, 'spare'), (3, 'pipe', 12, '')`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return path
}

func TestSQLiteConnector_Query(t *testing.T) {
	conn := &domain.DataConnection{Driver: domain.DataDriverSQLite, Host: seedSQLite(t)}
	c, err := dbclient.NewConnector(conn, "")
	if err != nil {
		t.Fatalf("connector: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.TestConnection(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	table, err := c.Query(ctx, "SELECT id, name, qty, note FROM parts ORDER BY id", 2)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(table.Columns) != 4 || table.Columns[1] != "name" {
		t.Errorf("unexpected columns %v", table.Columns)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected limit of 2 rows, got %d", len(table.Rows))
	}
	want := []string{"1", "valve", "4", ""}
	for i, cell := range table.Rows[0] {
		if cell != want[i] {
			t.Errorf("cell %d: expected %q, got %q", i, want[i], cell)
		}
	}
}

func TestSQLiteConnector_RejectsWrites(t *testing.T) {
	conn := &domain.DataConnection{Driver: domain.DataDriverSQLite, Host: seedSQLite(t)}
	c, err := dbclient.NewConnector(conn, "")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, err := c.Query(context.Background(), "DELETE FROM parts", 0); err == nil {
		t.Fatal("expected write query to be rejected")
	}
}

func TestSQLiteConnector_Introspect(t *testing.T) {
	conn := &domain.DataConnection{Driver: domain.DataDriverSQLite, Host: seedSQLite(t)}
	c, err := dbclient.NewConnector(conn, "")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	schema, err := c.Introspect(context.Background())
	if err != nil {
		t.Fatalf("introspect: %v", err)
	}
	if len(schema.Tables) != 1 || schema.Tables[0].Name != "parts" || len(schema.Tables[0].Columns) != 4 {
		t.Errorf("unexpected schema %+v", schema)
	}
}

func TestNewConnector_UnknownDriver(t *testing.T) {
	if _, err := dbclient.NewConnector(&domain.DataConnection{Driver: "oracle"}, ""); err == nil {
		t.Fatal("expected error")
	}
}
