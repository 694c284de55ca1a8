package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"sheet/internal/datasource"
	"sheet/internal/datasource/sources"
	"sheet/internal/dbclient"
	"sheet/internal/domain"
	"sheet/internal/item"
	"sheet/internal/secret"
	"sheet/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Binding Service: data sources feeding block texts
// ─────────────────────────────────────────────────────────────

// CreateConnInput is the service-layer DTO for creating/updating connections.
type CreateConnInput struct {
	Name      string `json:"name"`
	Driver    string `json:"driver"`
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Database  string `json:"database"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	SSLMode   string `json:"sslMode"`
	ExtraJSON string `json:"extraJson"`
}

// BindRequest selects the rows to bind.
type BindRequest struct {
	SourceType string                       `json:"sourceType"`
	Config     datasource.SourceConfig      `json:"config"`
	IDColumn   string                       `json:"idColumn"`
	Transforms []datasource.TransformConfig `json:"transforms,omitempty"`
}

// BindingService owns data connections and turns source rows into
// item.DataItem values. It keeps one live connector per connection.
type BindingService struct {
	connStore *storage.DataConnectionStore
	secrets   secret.SecretStore

	mu               sync.Mutex
	activeConnectors map[string]*connEntry
}

type connEntry struct {
	connector dbclient.Connector
	createdAt time.Time
}

// NewBindingService creates a BindingService.
func NewBindingService(connStore *storage.DataConnectionStore, secrets secret.SecretStore) *BindingService {
	return &BindingService{
		connStore:        connStore,
		secrets:          secrets,
		activeConnectors: make(map[string]*connEntry),
	}
}

// Install makes this service the connection provider of the database
// source.
func (s *BindingService) Install() {
	sources.SetDBProvider(s)
}

// ── Connection CRUD ────────────────────────────────────────

func (s *BindingService) ListConnections() ([]domain.DataConnection, error) {
	return s.connStore.ListConnections()
}

func (s *BindingService) CreateConnection(input CreateConnInput) (*domain.DataConnection, error) {
	conn := &domain.DataConnection{ID: uuid.New().String()}
	applyConnInput(conn, input)
	if err := s.connStore.CreateConnection(conn); err != nil {
		return nil, fmt.Errorf("create connection: %w", err)
	}
	if input.Password != "" && s.secrets != nil {
		if err := s.secrets.Set(secret.ConnectionKey(conn.ID), []byte(input.Password)); err != nil {
			return nil, fmt.Errorf("store password: %w", err)
		}
	}
	return conn, nil
}

func (s *BindingService) UpdateConnection(id string, input CreateConnInput) error {
	conn, err := s.connStore.GetConnection(id)
	if err != nil {
		return err
	}
	applyConnInput(conn, input)
	if err := s.connStore.UpdateConnection(conn); err != nil {
		return err
	}
	if input.Password != "" && s.secrets != nil {
		_ = s.secrets.Set(secret.ConnectionKey(id), []byte(input.Password))
	}
	// Next query re-connects with the new config
	s.dropConnector(id)
	return nil
}

func applyConnInput(conn *domain.DataConnection, input CreateConnInput) {
	conn.Name = input.Name
	conn.Driver = domain.DataDriver(input.Driver)
	conn.Host = input.Host
	conn.Port = input.Port
	conn.Database = input.Database
	conn.Username = input.Username
	conn.SSLMode = input.SSLMode
	if conn.SSLMode == "" {
		conn.SSLMode = "disable"
	}
	conn.ExtraJSON = input.ExtraJSON
	if conn.ExtraJSON == "" {
		conn.ExtraJSON = "{}"
	}
}

func (s *BindingService) DeleteConnection(id string) error {
	s.dropConnector(id)
	if s.secrets != nil {
		_ = s.secrets.Delete(secret.ConnectionKey(id))
	}
	return s.connStore.DeleteConnection(id)
}

// ── Queries ────────────────────────────────────────────────

// QueryConnection runs a read query on a stored connection. It satisfies
// sources.DBProvider.
func (s *BindingService) QueryConnection(ctx context.Context, connID, query string, limit int) (*dbclient.Table, error) {
	connector, err := s.getOrCreate(connID)
	if err != nil {
		return nil, err
	}
	table, err := connector.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query connection: %w", err)
	}
	return table, nil
}

func (s *BindingService) TestConnection(ctx context.Context, id string) error {
	connector, err := s.getOrCreate(id)
	if err != nil {
		return err
	}
	return connector.TestConnection(ctx)
}

func (s *BindingService) Introspect(ctx context.Context, connectionID string) (*dbclient.SchemaInfo, error) {
	connector, err := s.getOrCreate(connectionID)
	if err != nil {
		return nil, err
	}
	return connector.Introspect(ctx)
}

// ListSources returns the registered source types.
func (s *BindingService) ListSources() []datasource.SourceSpec {
	return datasource.ListSources()
}

// Rows reads a source and returns one DataItem per row, with the id column
// first.
func (s *BindingService) Rows(ctx context.Context, req BindRequest) ([]item.DataItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	schema, records, err := datasource.Collect(ctx, req.SourceType, req.Config, datasource.BuildTransformers(req.Transforms))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", req.SourceType, err)
	}
	cols, err := datasource.Columns(schema, req.IDColumn)
	if err != nil {
		return nil, fmt.Errorf("bind columns: %w", err)
	}
	return datasource.ToDataItems(cols, records), nil
}

// ── Connector Pool ─────────────────────────────────────────

func (s *BindingService) getOrCreate(id string) (dbclient.Connector, error) {
	s.mu.Lock()
	if e, ok := s.activeConnectors[id]; ok {
		s.mu.Unlock()
		return e.connector, nil
	}
	s.mu.Unlock()

	conn, err := s.connStore.GetConnection(id)
	if err != nil {
		return nil, fmt.Errorf("get connection %s: %w", id, err)
	}

	var password string
	if s.secrets != nil {
		if pw, err := s.secrets.Get(secret.ConnectionKey(id)); err == nil {
			password = string(pw)
		}
	}

	connector, err := dbclient.NewConnector(conn, password)
	if err != nil {
		return nil, fmt.Errorf("open data connection: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another caller may have raced us here
	if e, ok := s.activeConnectors[id]; ok {
		connector.Close()
		return e.connector, nil
	}
	s.activeConnectors[id] = &connEntry{connector: connector, createdAt: time.Now()}
	return connector, nil
}

func (s *BindingService) dropConnector(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.activeConnectors[id]; ok {
		_ = e.connector.Close()
		delete(s.activeConnectors, id)
	}
}

// Close tears down all active connectors.
func (s *BindingService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.activeConnectors {
		_ = entry.connector.Close()
		delete(s.activeConnectors, id)
	}
}
