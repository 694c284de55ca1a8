package item

import (
	"encoding/json"
	"fmt"
)

// ToJSON writes b as indented JSON.
func ToJSON(b *BlockItem) (string, error) {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal block: %w", err)
	}
	return string(data), nil
}

// FromJSON reads a block written by ToJSON. Missing collections come back
// empty, never nil.
func FromJSON(text string) (*BlockItem, error) {
	var b BlockItem
	if err := json.Unmarshal([]byte(text), &b); err != nil {
		return nil, fmt.Errorf("unmarshal block: %w", err)
	}
	b.normalize()
	return &b, nil
}
