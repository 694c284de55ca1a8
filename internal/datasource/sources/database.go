package sources

import (
	"context"
	"fmt"
	"sync"

	"sheet/internal/datasource"
	"sheet/internal/dbclient"
)

// ── Database Source ────────────────────────────────────────
// Reads rows from a stored data connection. The app injects a provider
// that owns the open connectors.

// DBProvider runs a read query against a data connection.
type DBProvider interface {
	QueryConnection(ctx context.Context, connID, query string, limit int) (*dbclient.Table, error)
}

var (
	providerMu sync.RWMutex
	dbProvider DBProvider
)

// SetDBProvider is called by the app at startup.
func SetDBProvider(p DBProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	dbProvider = p
}

func currentProvider() (DBProvider, error) {
	providerMu.RLock()
	defer providerMu.RUnlock()
	if dbProvider == nil {
		return nil, fmt.Errorf("database provider not initialized")
	}
	return dbProvider, nil
}

type databaseSource struct{}

func init() { datasource.RegisterSource(&databaseSource{}) }

func (s *databaseSource) Spec() datasource.SourceSpec {
	return datasource.SourceSpec{
		Type:  "database",
		Label: "Database Query",
		ConfigFields: []datasource.ConfigField{
			{Key: "connectionId", Label: "Connection", Type: "connection", Required: true},
			{Key: "query", Label: "Query", Type: "textarea", Required: true, Help: "SELECT statement, or a JSON find for MongoDB"},
		},
	}
}

func (s *databaseSource) run(ctx context.Context, cfg datasource.SourceConfig, limit int) (*dbclient.Table, error) {
	connID, _ := cfg["connectionId"].(string)
	query, _ := cfg["query"].(string)
	if connID == "" || query == "" {
		return nil, fmt.Errorf("connectionId and query are required")
	}
	p, err := currentProvider()
	if err != nil {
		return nil, err
	}
	return p.QueryConnection(ctx, connID, query, limit)
}

func (s *databaseSource) Discover(ctx context.Context, cfg datasource.SourceConfig) (*datasource.Schema, error) {
	table, err := s.run(ctx, cfg, 1)
	if err != nil {
		return nil, err
	}
	schema := &datasource.Schema{Fields: make([]datasource.Field, len(table.Columns))}
	for i, col := range table.Columns {
		schema.Fields[i] = datasource.Field{Name: col, Type: "text"}
	}
	return schema, nil
}

func (s *databaseSource) Read(ctx context.Context, cfg datasource.SourceConfig) (<-chan datasource.Record, <-chan error) {
	out := make(chan datasource.Record, 100)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		table, err := s.run(ctx, cfg, dbclient.DefaultLimit)
		if err != nil {
			errCh <- fmt.Errorf("execute: %w", err)
			return
		}
		for _, row := range table.Rows {
			data := make(map[string]any, len(table.Columns))
			for i, col := range table.Columns {
				if i < len(row) {
					data[col] = row[i]
				}
			}
			select {
			case out <- datasource.Record{Data: data}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, errCh
}
