package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"sheet/internal/editor"
	"sheet/internal/export"
	"sheet/internal/item"
	"sheet/internal/scene"
	"sheet/internal/service"
)

func newExportCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export <in>",
		Short: "Exports a sheet with its frame and grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions()
			if err != nil {
				return err
			}
			root, err := readSheet(args[0])
			if err != nil {
				return err
			}

			registry := export.Builtins(export.Style{
				LineThickness:  opts.LineThickness,
				FrameThickness: opts.FrameThickness,
				GridThickness:  opts.GridThickness,
			})
			e, err := registry.Get(format)
			if err != nil {
				return fmt.Errorf("%w (have %s)", err, strings.Join(registry.Formats(), ", "))
			}

			c := editor.New(opts, editor.Surfaces{
				Back:    scene.NewMemorySurface(),
				Content: scene.NewMemorySurface(),
				Overlay: scene.NewMemorySurface(),
			}, editor.Collaborators{})
			if err := c.SetPage(item.Serialize(root)); err != nil {
				return err
			}

			if out == "" {
				out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + e.Extension()
			}
			if err := service.WriteExport(e, c.ExportPage(), out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "Export format")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Target file (default: input name with the format's extension)")
	return cmd
}
