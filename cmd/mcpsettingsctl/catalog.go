package main

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"mcpsettings/internal/app"
	"mcpsettings/internal/domain"
	"mcpsettings/internal/presets"
)

func newTemplatesCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List built-in MCP server templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			templates := presets.Templates()
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), templates)
			}
			tw := newTable(cmd.OutOrStdout(), "ID", "NAME", "PACKAGE", "REQUIRED")
			for _, tmpl := range templates {
				required := lo.Map(tmpl.RequiredEnvVars, func(env domain.TemplateEnvVar, _ int) string {
					return env.Key
				})
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", tmpl.ID, tmpl.Name, tmpl.NpmPackage, strings.Join(required, ","))
			}
			return tw.Flush()
		},
	}
}

func newProvidersCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List LLM providers and their models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			providers := presets.DefaultProviders()
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), providers)
			}
			tw := newTable(cmd.OutOrStdout(), "PROVIDER", "MODEL", "NAME", "CONTEXT", "VISION")
			for _, provider := range providers {
				for _, model := range provider.Models {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%t\n",
						provider.ID, model.FullID, model.DisplayName, model.ContextWindow, model.SupportsVision)
				}
			}
			return tw.Flush()
		},
	}
}

func newModelCmd(opts *cliOptions) *cobra.Command {
	get := func(cmd *cobra.Command, _ []string) error {
		return withApp(opts, func(application *app.Application) error {
			selected, err := application.Settings().GetSelectedModel()
			if err != nil {
				return err
			}
			return printSelectedModel(cmd, selected, opts.jsonOutput)
		})
	}

	cmd := &cobra.Command{
		Use:   "model",
		Short: "Show or change the selected model",
		Args:  cobra.NoArgs,
		RunE:  get,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Show the selected model",
			Args:  cobra.NoArgs,
			RunE:  get,
		},
		&cobra.Command{
			Use:   "set <fullId>",
			Short: "Select a model by its full id, e.g. anthropic/claude-opus-4-5",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(opts, func(application *app.Application) error {
					selected, err := application.Settings().SetSelectedModel(strings.TrimSpace(args[0]))
					if err != nil {
						return err
					}
					return printSelectedModel(cmd, selected, opts.jsonOutput)
				})
			},
		},
	)
	return cmd
}

func printSelectedModel(cmd *cobra.Command, selected domain.SelectedModel, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), selected)
	}
	name := selected.Model
	if model, ok := presets.ModelByFullID(selected.Model); ok {
		name = fmt.Sprintf("%s (%s)", model.FullID, model.DisplayName)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), name)
	return err
}
