package dbclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"sheet/internal/domain"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// mongoConnector implements Connector for MongoDB.
type mongoConnector struct {
	client *mongo.Client
	dbName string
}

// mongoQuery is the JSON structure users write for MongoDB queries.
type mongoQuery struct {
	Collection string         `json:"collection"`
	Operation  string         `json:"operation,omitempty"` // find (default) or aggregate
	Filter     map[string]any `json:"filter,omitempty"`
	Projection map[string]any `json:"projection,omitempty"`
	Sort       map[string]any `json:"sort,omitempty"`
	Pipeline   []any          `json:"pipeline,omitempty"` // for aggregate
}

func newMongoConnector(conn *domain.DataConnection, password string) (*mongoConnector, error) {
	var uri string

	// If host is already a full connection string (Atlas mongodb+srv:// or standard mongodb://),
	// use it directly. Otherwise, build the URI from host:port.
	if strings.HasPrefix(conn.Host, "mongodb+srv://") || strings.HasPrefix(conn.Host, "mongodb://") {
		uri = conn.Host
		// Replace <password> placeholder commonly found in Atlas connection strings
		if password != "" {
			uri = strings.ReplaceAll(uri, "<password>", password)
			uri = strings.ReplaceAll(uri, "<db_password>", password)
		}
		// Append database name to path if not already in URI
		if conn.Database != "" && !strings.Contains(uri, "/"+conn.Database) {
			// Insert database after the host part, before query params
			if idx := strings.Index(uri, "?"); idx != -1 {
				uri = uri[:idx] + "/" + conn.Database + uri[idx:]
			} else {
				// Ensure no trailing slash duplication
				uri = strings.TrimRight(uri, "/") + "/" + conn.Database
			}
		}
	} else {
		port := conn.Port
		if port == 0 {
			port = 27017
		}
		if conn.Username != "" {
			uri = fmt.Sprintf("mongodb://%s:%s@%s:%d", conn.Username, password, conn.Host, port)
		} else {
			uri = fmt.Sprintf("mongodb://%s:%d", conn.Host, port)
		}

		// Parse extraJSON for authSource, replicaSet, etc.
		if conn.ExtraJSON != "" && conn.ExtraJSON != "{}" {
			var extras map[string]string
			if json.Unmarshal([]byte(conn.ExtraJSON), &extras) == nil {
				params := []string{}
				for k, v := range extras {
					params = append(params, k+"="+v)
				}
				if len(params) > 0 {
					uri += "?" + strings.Join(params, "&")
				}
			}
		}
	}

	dbName := conn.Database
	if dbName == "" {
		// Try to extract database name from the URI path (e.g., mongodb+srv://...@host/mydb?...)
		uriForParse := uri
		// Strip scheme prefix to find the path part
		for _, prefix := range []string{"mongodb+srv://", "mongodb://"} {
			if strings.HasPrefix(uriForParse, prefix) {
				uriForParse = uriForParse[len(prefix):]
				break
			}
		}
		// Find the path after the host: user:pass@host/DB_NAME?params
		if atIdx := strings.Index(uriForParse, "@"); atIdx != -1 {
			uriForParse = uriForParse[atIdx+1:]
		}
		if slashIdx := strings.Index(uriForParse, "/"); slashIdx != -1 {
			pathPart := uriForParse[slashIdx+1:]
			if qIdx := strings.Index(pathPart, "?"); qIdx != -1 {
				pathPart = pathPart[:qIdx]
			}
			if pathPart != "" {
				dbName = pathPart
			}
		}
		if dbName == "" {
			dbName = "test"
		}
	}

	// Mask password in URI for logging
	logURI := uri
	if password != "" && strings.Contains(logURI, password) {
		logURI = strings.ReplaceAll(logURI, password, "***")
	}
	log.Printf("[MONGO] Connecting with URI: %s", logURI)
	log.Printf("[MONGO] Database: %s", dbName)

	clientOpts := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(clientOpts)
	if err != nil {
		log.Printf("[MONGO] Connect failed: %v", err)
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	log.Printf("[MONGO] Client created successfully")
	return &mongoConnector{
		client: client,
		dbName: dbName,
	}, nil
}

// unmarshalEJSON re-encodes a map[string]any field and uses bson.UnmarshalExtJSON
// to convert MongoDB Extended JSON types ($oid, $date, $numberLong, etc.) to BSON.
func unmarshalEJSON(field map[string]any) map[string]any {
	if field == nil {
		return nil
	}
	// Re-marshal the field to JSON bytes
	raw, err := json.Marshal(field)
	if err != nil {
		return field // fallback to original
	}
	// Unmarshal with Extended JSON (relaxed mode) into bson.D then convert to bson.M
	var doc bson.D
	if err := bson.UnmarshalExtJSON(raw, false, &doc); err != nil {
		log.Printf("[MONGO] EJSON parse warning: %v", err)
		return field // fallback to standard JSON parse
	}
	// Convert bson.D to map[string]any for compatibility
	result := make(map[string]any, len(doc))
	for _, elem := range doc {
		result[elem.Key] = elem.Value
	}
	return result
}

func (m *mongoConnector) TestConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return m.client.Ping(ctx, nil)
}

func (m *mongoConnector) Query(ctx context.Context, query string, limit int) (*Table, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	// First pass: standard JSON unmarshal for the query structure
	var mq mongoQuery
	if err := json.Unmarshal([]byte(query), &mq); err != nil {
		log.Printf("[MONGO] JSON parse error: %v (raw: %s)", err, query)
		return nil, fmt.Errorf("invalid query JSON: %w", err)
	}

	// Second pass: BSON-typed fields via Extended JSON ($oid, $date, ...)
	mq.Filter = unmarshalEJSON(mq.Filter)
	mq.Projection = unmarshalEJSON(mq.Projection)
	mq.Sort = unmarshalEJSON(mq.Sort)

	if mq.Collection == "" {
		return nil, fmt.Errorf("query must specify 'collection'")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	coll := m.client.Database(m.dbName).Collection(mq.Collection)

	var cursor *mongo.Cursor
	var err error
	switch mq.Operation {
	case "", "find":
		opts := options.Find().SetLimit(int64(limit))
		if mq.Projection != nil {
			opts.SetProjection(mq.Projection)
		}
		if mq.Sort != nil {
			opts.SetSort(mq.Sort)
		}
		filter := mq.Filter
		if filter == nil {
			filter = map[string]any{}
		}
		cursor, err = coll.Find(ctx, filter, opts)
	case "aggregate":
		pipeline := mq.Pipeline
		if pipeline == nil {
			pipeline = []any{}
		}
		cursor, err = coll.Aggregate(ctx, pipeline)
	default:
		return nil, fmt.Errorf("unsupported operation: %s", mq.Operation)
	}
	if err != nil {
		log.Printf("[MONGO] %s error: %v", mq.Operation, err)
		return nil, fmt.Errorf("query %s: %w", mq.Collection, err)
	}
	defer cursor.Close(ctx)

	var docs []bson.D
	for len(docs) < limit && cursor.Next(ctx) {
		var doc bson.D
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return documentsToTable(docs), nil
}

// documentsToTable flattens documents into rows. Columns are the union of
// keys with _id first, then alphabetical.
func documentsToTable(docs []bson.D) *Table {
	colSet := map[string]bool{}
	var columns []string
	for _, doc := range docs {
		for _, elem := range doc {
			if !colSet[elem.Key] {
				colSet[elem.Key] = true
				columns = append(columns, elem.Key)
			}
		}
	}
	sort.SliceStable(columns, func(i, j int) bool {
		if columns[i] == "_id" {
			return true
		}
		if columns[j] == "_id" {
			return false
		}
		return columns[i] < columns[j]
	})

	t := &Table{Columns: columns}
	for _, doc := range docs {
		docMap := make(map[string]any, len(doc))
		for _, elem := range doc {
			docMap[elem.Key] = elem.Value
		}
		row := make([]string, len(columns))
		for j, col := range columns {
			if v, ok := docMap[col]; ok {
				row[j] = formatDocValue(v)
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func formatDocValue(v any) string {
	if oid, ok := v.(bson.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprintf("%v", v)
}

func (m *mongoConnector) Introspect(ctx context.Context) (*SchemaInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	db := m.client.Database(m.dbName)

	collections, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	schema := &SchemaInfo{}
	for _, collName := range collections {
		// Sample one document to extract field names
		cursor, err := db.Collection(collName).Find(ctx, bson.M{}, options.Find().SetLimit(1))
		if err != nil {
			schema.Tables = append(schema.Tables, TableInfo{Name: collName})
			continue
		}

		var cols []ColumnInfo
		if cursor.Next(ctx) {
			var doc bson.D
			if cursor.Decode(&doc) == nil {
				for _, elem := range doc {
					cols = append(cols, ColumnInfo{Name: elem.Key, Type: fmt.Sprintf("%T", elem.Value)})
				}
			}
		}
		cursor.Close(ctx)

		schema.Tables = append(schema.Tables, TableInfo{Name: collName, Columns: cols})
	}

	return schema, nil
}

func (m *mongoConnector) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
