package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"sheet/internal/item"
)

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Converts a sheet between the text and JSON formats",
		Long:  "Converts a sheet between the text and JSON formats. The format of each file follows its extension: .json is JSON, anything else is text.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := readSheet(args[0])
			if err != nil {
				return err
			}
			if err := writeSheet(args[1], root); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[1])
			return nil
		},
	}
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// readSheet parses a text or JSON sheet file.
func readSheet(path string) (*item.BlockItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	if isJSON(path) {
		root, err := item.FromJSON(string(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return root, nil
	}
	root, err := item.Deserialize(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

// writeSheet writes the contents of root in the format of path.
func writeSheet(path string, root *item.BlockItem) error {
	text := item.Serialize(root)
	if isJSON(path) {
		var err error
		if text, err = item.ToJSON(root); err != nil {
			return fmt.Errorf("encode sheet: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("write sheet: %w", err)
	}
	return nil
}
