// Command sheetctl works on sheet files and the sheet workspace without
// the desktop window.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sheet/internal/config"
	"sheet/internal/session"
)

var version = "dev"

// path to the workspace (flag --data-dir)
var dataDir string

// path to an options file (flag --options)
var optionsPath string

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := execRootCmd(ctx, os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sheetctl",
		Short:         "Convert, check and export sheet diagrams",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", session.DefaultDataDir(), "Workspace directory")
	rootCmd.PersistentFlags().StringVar(&optionsPath, "options", "", "Options file (default <data-dir>/options.yaml)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newConvertCmd(),
		newCheckCmd(),
		newExportCmd(),
		newSolutionCmd(),
		newMCPCmd(),
	)
	return rootCmd
}

func execRootCmd(ctx context.Context, args []string) error {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the version of sheetctl",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "sheetctl version", version)
		},
	}
}

// loadOptions reads --options, or the workspace options file.
func loadOptions() (config.Options, error) {
	path := optionsPath
	if path == "" {
		path = session.OptionsPath(dataDir)
	}
	return config.Load(path)
}
