package datasource

import (
	"fmt"
	"strconv"

	"sheet/internal/item"
)

// ── Record ─────────────────────────────────────────────────
// Every source emits Records. Binding flattens them into item.DataItem
// rows whose first column is the row id.

// Field describes a single column in a dataset.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"` // "text" | "number" | "boolean"
}

// Schema describes the shape of records coming from a source.
type Schema struct {
	Fields []Field `json:"fields"`
}

// FieldNames returns an ordered list of field names.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Record is a single row of data.
type Record struct {
	Data map[string]any `json:"data"`
}

// Columns orders the schema's fields for binding: idColumn first, then the
// rest in schema order. An empty idColumn keeps the schema's first field as
// the id.
func Columns(schema *Schema, idColumn string) ([]string, error) {
	names := schema.FieldNames()
	if idColumn == "" {
		if len(names) == 0 {
			return nil, fmt.Errorf("schema has no fields")
		}
		return names, nil
	}
	cols := []string{idColumn}
	found := false
	for _, n := range names {
		if n == idColumn {
			found = true
			continue
		}
		cols = append(cols, n)
	}
	if !found {
		return nil, fmt.Errorf("id column not found: %s", idColumn)
	}
	return cols, nil
}

// ToDataItems renders records as binding rows over columns.
func ToDataItems(columns []string, records []Record) []item.DataItem {
	items := make([]item.DataItem, 0, len(records))
	for _, r := range records {
		data := make([]string, len(columns))
		for i, c := range columns {
			data[i] = CellText(r.Data[c])
		}
		items = append(items, item.DataItem{Columns: columns, Data: data})
	}
	return items
}

// CellText renders a record value as block text.
func CellText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
