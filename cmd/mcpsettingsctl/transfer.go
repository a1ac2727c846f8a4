package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mcpsettings/internal/app"
	"mcpsettings/internal/infra/transfer"
)

func newImportCmd(opts *cliOptions) *cobra.Command {
	var (
		file   string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "import <claude|codex|gemini>",
		Short: "Import MCP servers from another client's config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := transfer.ParseSource(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", err, args[0])
			}
			result, err := readImportSource(source, file)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if dryRun {
				if opts.jsonOutput {
					return writeJSON(out, map[string]any{
						"path":    result.Path,
						"servers": maskServers(result.Servers),
						"issues":  result.Issues,
					})
				}
				if err := printServers(out, result.Servers, false); err != nil {
					return err
				}
				printIssues(out, result.Issues)
				return nil
			}
			return withApp(opts, func(application *app.Application) error {
				report, err := application.Servers().Import(cmd.Context(), result)
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return writeJSON(out, map[string]any{
						"path":   result.Path,
						"added":  maskServers(report.Added),
						"issues": report.Issues,
					})
				}
				fmt.Fprintf(out, "imported %d server(s) from %s\n", len(report.Added), result.Path)
				for _, added := range report.Added {
					fmt.Fprintf(out, "added %s (%s)\n", added.ID, added.Name)
				}
				printIssues(out, report.Issues)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "read this file instead of the client's default config path")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only show what would be imported")
	return cmd
}

func readImportSource(source transfer.Source, file string) (transfer.Result, error) {
	path := strings.TrimSpace(file)
	if path == "" {
		result, err := transfer.ReadSource(source)
		if err != nil && result.Path != "" {
			return transfer.Result{}, fmt.Errorf("%w: %s", err, result.Path)
		}
		return result, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return transfer.Result{}, fmt.Errorf("%w: %s", transfer.ErrNotFound, path)
		}
		return transfer.Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	result, err := transfer.Parse(source, data)
	if err != nil {
		return transfer.Result{}, err
	}
	result.Path = path
	return result, nil
}

func newExportCmd(opts *cliOptions) *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export MCP servers without secret values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, err := transfer.ParseFormat(format)
			if err != nil {
				return err
			}
			return withApp(opts, func(application *app.Application) error {
				servers, err := application.Servers().List()
				if err != nil {
					return err
				}
				data, err := transfer.Export(servers, parsed)
				if err != nil {
					return err
				}
				if strings.TrimSpace(output) == "" {
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}
				if err := os.WriteFile(output, data, 0o600); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				return printStatus(cmd, opts.jsonOutput, output, "exported")
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", string(transfer.FormatYAML), "export format (yaml, json or claude)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}
