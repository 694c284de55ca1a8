package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"sheet/internal/entry"
	"sheet/internal/session"
)

func newSolutionCmd() *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list <archive.zip>",
		Short: "Lists the documents and pages of a solution archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sol, err := entry.Open(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sol.Name)
			for _, d := range sol.Documents {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", d.Name)
				for _, p := range d.Pages {
					fmt.Fprintf(cmd.OutOrStdout(), "    %s\n", p.Name)
				}
			}
			return nil
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export <archive.zip>",
		Short: "Writes every document of the workspace to a solution archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openWorkspace()
			if err != nil {
				return err
			}
			defer env.Close()

			name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			sol, err := env.Documents.ExportSolution(name)
			if err != nil {
				return err
			}
			if err := entry.Save(args[0], sol); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d documents to %s\n", len(sol.Documents), args[0])
			return nil
		},
	}

	importCmd := &cobra.Command{
		Use:   "import <archive.zip>",
		Short: "Adds the documents of a solution archive to the workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sol, err := entry.Open(args[0])
			if err != nil {
				return err
			}
			env, err := openWorkspace()
			if err != nil {
				return err
			}
			defer env.Close()

			docs, err := env.Documents.ImportSolution(sol)
			if err != nil {
				return err
			}
			for _, d := range docs {
				fmt.Fprintf(cmd.OutOrStdout(), "imported %s (%s)\n", d.Name, d.ID)
			}
			return nil
		},
	}

	solutionCmd := &cobra.Command{
		Use:   "solution",
		Short: "Works with solution archives",
	}
	solutionCmd.AddCommand(listCmd, exportCmd, importCmd)
	return solutionCmd
}

func openWorkspace() (*session.Env, error) {
	opts, err := loadOptions()
	if err != nil {
		return nil, err
	}
	return session.OpenEnv(session.EnvConfig{DataDir: dataDir, Options: opts})
}
