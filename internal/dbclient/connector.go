package dbclient

import (
	"context"
	"fmt"
	"strings"

	"sheet/internal/domain"
)

// DefaultLimit caps the rows a binding query returns.
const DefaultLimit = 500

// Table is the result of a read query. Every cell is rendered as text
// because rows end up in block texts.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// SchemaInfo lists the tables or collections of a data source.
type SchemaInfo struct {
	Tables []TableInfo `json:"tables"`
}

// TableInfo describes a table/collection.
type TableInfo struct {
	Name    string       `json:"name"`
	Columns []ColumnInfo `json:"columns"`
}

// ColumnInfo describes a column/field.
type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Connector reads rows from an external database.
type Connector interface {
	// TestConnection verifies connectivity.
	TestConnection(ctx context.Context) error

	// Query runs a read query and returns at most limit rows.
	Query(ctx context.Context, query string, limit int) (*Table, error)

	// Introspect lists tables and their columns.
	Introspect(ctx context.Context) (*SchemaInfo, error)

	// Close releases the connection.
	Close() error
}

// NewConnector creates a Connector for the given data connection.
// The password must be provided separately (from SecretStore).
func NewConnector(conn *domain.DataConnection, password string) (Connector, error) {
	switch conn.Driver {
	case domain.DataDriverSQLite:
		return newSQLiteConnector(conn)
	case domain.DataDriverMySQL:
		return newSQLConnector("mysql", buildMySQLDSN(conn, password))
	case domain.DataDriverPostgres:
		return newSQLConnector("postgres", buildPostgresDSN(conn, password))
	case domain.DataDriverMongoDB:
		return newMongoConnector(conn, password)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", conn.Driver)
	}
}

// isReadQuery detects if a query is a read (SELECT, WITH, SHOW, DESCRIBE, EXPLAIN, PRAGMA).
func isReadQuery(query string) bool {
	q := strings.ToUpper(strings.TrimSpace(query))
	for _, prefix := range []string{"SELECT", "WITH", "SHOW", "DESCRIBE", "EXPLAIN", "PRAGMA"} {
		if strings.HasPrefix(q, prefix) {
			return true
		}
	}
	return false
}
