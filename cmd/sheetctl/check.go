package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"sheet/internal/item"
)

// itemCounts tallies the primitives of a sheet, nested blocks included.
type itemCounts struct {
	Points, Lines, Rectangles, Ellipses, Texts, Images, Blocks int
}

func (c *itemCounts) add(b *item.BlockItem) {
	c.Points += len(b.Points)
	c.Lines += len(b.Lines)
	c.Rectangles += len(b.Rectangles)
	c.Ellipses += len(b.Ellipses)
	c.Texts += len(b.Texts)
	c.Images += len(b.Images)
	c.Blocks += len(b.Blocks)
	for _, child := range b.Blocks {
		c.add(child)
	}
}

func (c itemCounts) String() string {
	return fmt.Sprintf("%d points, %d lines, %d rectangles, %d ellipses, %d texts, %d images, %d blocks",
		c.Points, c.Lines, c.Rectangles, c.Ellipses, c.Texts, c.Images, c.Blocks)
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Parses sheet files and reports what they hold",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed int
			for _, path := range args {
				root, err := readSheet(path)
				if err != nil {
					failed++
					var perr *item.ParseError
					if errors.As(err, &perr) {
						fmt.Fprintf(cmd.OutOrStdout(), "%s: line %d: %v\n", path, perr.Line, perr.Err)
					} else {
						fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", path, err)
					}
					continue
				}
				var counts itemCounts
				counts.add(root)
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok, %s\n", path, counts)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}
}
