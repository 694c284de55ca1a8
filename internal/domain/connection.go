package domain

import "time"

// DataDriver represents the type of database engine behind a data source.
type DataDriver string

const (
	DataDriverMySQL    DataDriver = "mysql"
	DataDriverPostgres DataDriver = "postgres"
	DataDriverMongoDB  DataDriver = "mongodb"
	DataDriverSQLite   DataDriver = "sqlite"
)

// DataConnection holds the metadata for connecting to an external database
// that feeds data binding. The password is stored separately in the
// SecretStore.
type DataConnection struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Driver    DataDriver `json:"driver"`
	Host      string     `json:"host"`     // hostname or file path (sqlite)
	Port      int        `json:"port"`     // 0 for sqlite
	Database  string     `json:"database"` // db name or empty for sqlite
	Username  string     `json:"username"`
	SSLMode   string     `json:"sslMode"`
	ExtraJSON string     `json:"extraJson"` // driver-specific options
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// DataConnectionStore manages CRUD operations for data connections.
type DataConnectionStore interface {
	CreateConnection(c *DataConnection) error
	GetConnection(id string) (*DataConnection, error)
	ListConnections() ([]DataConnection, error)
	UpdateConnection(c *DataConnection) error
	DeleteConnection(id string) error
}
