package app

import (
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"sheet/internal/datasource"
	"sheet/internal/dbclient"
	"sheet/internal/domain"
	"sheet/internal/editor"
	"sheet/internal/item"
	"sheet/internal/service"
)

// ============================================================
// Data connections
// ============================================================

// DataConnView is the frontend-safe view of a data connection (no password).
type DataConnView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Driver   string `json:"driver"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	SSLMode  string `json:"sslMode"`
}

func connView(c domain.DataConnection) DataConnView {
	return DataConnView{
		ID:       c.ID,
		Name:     c.Name,
		Driver:   string(c.Driver),
		Host:     c.Host,
		Port:     c.Port,
		Database: c.Database,
		Username: c.Username,
		SSLMode:  c.SSLMode,
	}
}

func (a *App) ListDataConnections() ([]DataConnView, error) {
	conns, err := a.env.Bindings.ListConnections()
	if err != nil {
		return nil, err
	}
	views := make([]DataConnView, len(conns))
	for i, c := range conns {
		views[i] = connView(c)
	}
	return views, nil
}

func (a *App) CreateDataConnection(input service.CreateConnInput) (*DataConnView, error) {
	conn, err := a.env.Bindings.CreateConnection(input)
	if err != nil {
		return nil, err
	}
	v := connView(*conn)
	return &v, nil
}

func (a *App) UpdateDataConnection(id string, input service.CreateConnInput) error {
	return a.env.Bindings.UpdateConnection(id, input)
}

func (a *App) DeleteDataConnection(id string) error {
	return a.env.Bindings.DeleteConnection(id)
}

func (a *App) TestDataConnection(id string) error {
	return a.env.Bindings.TestConnection(a.ctx, id)
}

func (a *App) IntrospectDataConnection(id string) (*dbclient.SchemaInfo, error) {
	return a.env.Bindings.Introspect(a.ctx, id)
}

// PickDatabaseFile opens a native file picker for selecting a database file.
func (a *App) PickDatabaseFile() (string, error) {
	path, err := wailsRuntime.OpenFileDialog(a.ctx, wailsRuntime.OpenDialogOptions{
		Title: "Select Database File",
		Filters: []wailsRuntime.FileFilter{
			{DisplayName: "Database Files", Pattern: "*.db;*.sqlite;*.sqlite3;*.s3db"},
			{DisplayName: "All Files", Pattern: "*.*"},
		},
	})
	return path, err
}

// PickDataFile opens a native file picker for a CSV or JSON source.
func (a *App) PickDataFile() (string, error) {
	path, err := wailsRuntime.OpenFileDialog(a.ctx, wailsRuntime.OpenDialogOptions{
		Title: "Select Data File",
		Filters: []wailsRuntime.FileFilter{
			{DisplayName: "CSV", Pattern: "*.csv"},
			{DisplayName: "JSON", Pattern: "*.json"},
			{DisplayName: "All Files", Pattern: "*.*"},
		},
	})
	return path, err
}

// ============================================================
// Binding
// ============================================================

// ListDataSources describes the source types rows can come from.
func (a *App) ListDataSources() []datasource.SourceSpec {
	return a.env.Bindings.ListSources()
}

// FetchRows reads the rows of a source for the data panel.
func (a *App) FetchRows(req service.BindRequest) ([]item.DataItem, error) {
	return a.env.Bindings.Rows(a.ctx, req)
}

// DropRow binds a row dragged from the data panel at the pointer. It
// updates the block under the pointer, or stamps the selected library
// block when there is none.
func (a *App) DropRow(ev PointerEvent, row item.DataItem) bool {
	var ok bool
	a.apply(func(c *editor.Controller) {
		ok = c.TryToBindData(ev.input(c).Point, row)
	})
	return ok
}
