package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mcpsettings/internal/app"
	"mcpsettings/internal/domain"
	"mcpsettings/internal/presets"
)

func newListCmd(opts *cliOptions) *cobra.Command {
	var enabledOnly bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured MCP servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(application *app.Application) error {
				list := application.Servers().List
				if enabledOnly {
					list = application.Servers().ListEnabled
				}
				servers, err := list()
				if err != nil {
					return err
				}
				return printServers(cmd.OutOrStdout(), servers, opts.jsonOutput)
			})
		},
	}
	cmd.Flags().BoolVar(&enabledOnly, "enabled", false, "only list enabled servers")
	return cmd
}

func newGetCmd(opts *cliOptions) *cobra.Command {
	var showSecrets bool
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one MCP server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(application *app.Application) error {
				server, ok, err := application.Servers().Get(args[0])
				if err != nil {
					return err
				}
				if !ok {
					return exitError{code: exitCodeNotFound, message: fmt.Sprintf("server %q not found", args[0])}
				}
				if showSecrets {
					env, err := application.Servers().ResolveEnvironment(cmd.Context(), server.ID)
					if err != nil {
						return err
					}
					server.Environment = env
				} else {
					server = maskServer(server)
				}
				return printServer(cmd.OutOrStdout(), server, opts.jsonOutput)
			})
		},
	}
	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "print secret values read from the secret store")
	return cmd
}

// serverFlags holds the flags shared by add and update.
type serverFlags struct {
	name        string
	description string
	serverType  string
	command     string
	url         string
	env         []string
	secretEnv   []string
	timeout     int
	icon        string
	disabled    bool
}

func (f *serverFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.name, "name", "", "display name")
	flags.StringVar(&f.description, "description", "", "description")
	flags.StringVar(&f.serverType, "type", "", "server type (local or remote)")
	flags.StringVar(&f.command, "command", "", "command line for local servers")
	flags.StringVar(&f.url, "url", "", "endpoint for remote servers")
	flags.StringArrayVar(&f.env, "env", nil, "environment variable KEY=VALUE (repeatable)")
	flags.StringArrayVar(&f.secretEnv, "secret-env", nil, "secret environment variable KEY=VALUE (repeatable)")
	flags.IntVar(&f.timeout, "timeout", 0, "timeout in milliseconds")
	flags.StringVar(&f.icon, "icon", "", "icon shown next to the server")
	flags.BoolVar(&f.disabled, "disabled", false, "store the server disabled")
}

func (f *serverFlags) environment() ([]domain.EnvVar, error) {
	plain, err := parseEnvAssignments(f.env, false)
	if err != nil {
		return nil, err
	}
	secret, err := parseEnvAssignments(f.secretEnv, true)
	if err != nil {
		return nil, err
	}
	return append(plain, secret...), nil
}

// config builds a new server from the flags. The type is inferred from --url
// when --type is not given.
func (f *serverFlags) config() (domain.ServerConfig, error) {
	env, err := f.environment()
	if err != nil {
		return domain.ServerConfig{}, err
	}
	serverType := domain.ServerType(strings.ToLower(strings.TrimSpace(f.serverType)))
	if serverType == "" {
		serverType = domain.ServerTypeLocal
		if f.url != "" && f.command == "" {
			serverType = domain.ServerTypeRemote
		}
	}
	timeout := f.timeout
	if timeout == 0 {
		timeout = domain.DefaultServerTimeoutMs
	}
	icon := f.icon
	if icon == "" {
		icon = domain.DefaultServerIcon
	}
	cfg := domain.ServerConfig{
		Name:        strings.TrimSpace(f.name),
		Description: f.description,
		Type:        serverType,
		Command:     presets.SplitCommand(f.command),
		URL:         strings.TrimSpace(f.url),
		Enabled:     !f.disabled,
		Environment: env,
		Timeout:     timeout,
		Icon:        icon,
	}
	return cfg, nil
}

// patch builds an update from the flags the user actually set.
func (f *serverFlags) patch(cmd *cobra.Command) (domain.ServerPatch, error) {
	flags := cmd.Flags()
	var patch domain.ServerPatch
	if flags.Changed("name") {
		name := strings.TrimSpace(f.name)
		patch.Name = &name
	}
	if flags.Changed("description") {
		patch.Description = &f.description
	}
	if flags.Changed("type") {
		serverType := domain.ServerType(strings.ToLower(strings.TrimSpace(f.serverType)))
		patch.Type = &serverType
	}
	if flags.Changed("command") {
		command := presets.SplitCommand(f.command)
		patch.Command = &command
	}
	if flags.Changed("url") {
		url := strings.TrimSpace(f.url)
		patch.URL = &url
	}
	if flags.Changed("env") || flags.Changed("secret-env") {
		env, err := f.environment()
		if err != nil {
			return domain.ServerPatch{}, err
		}
		patch.Environment = &env
	}
	if flags.Changed("timeout") {
		patch.Timeout = &f.timeout
	}
	if flags.Changed("icon") {
		patch.Icon = &f.icon
	}
	if flags.Changed("disabled") {
		enabled := !f.disabled
		patch.Enabled = &enabled
	}
	return patch, nil
}

func parseEnvAssignments(values []string, secret bool) ([]domain.EnvVar, error) {
	out := make([]domain.EnvVar, 0, len(values))
	for _, raw := range values {
		key, value, ok := strings.Cut(raw, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, usageErrorf("invalid environment assignment %q, expected KEY=VALUE", raw)
		}
		out = append(out, domain.EnvVar{Key: key, Value: value, IsSecret: secret})
	}
	return out, nil
}

func newAddCmd(opts *cliOptions) *cobra.Command {
	var (
		flags serverFlags
		id    string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an MCP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.config()
			if err != nil {
				return err
			}
			cfg.ID = id
			return withApp(opts, func(application *app.Application) error {
				added, err := application.Servers().Add(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				return printAdded(cmd, added, opts.jsonOutput)
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&id, "id", "", "server id (generated when empty)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newAddTemplateCmd(opts *cliOptions) *cobra.Command {
	var (
		name string
		env  []string
	)
	cmd := &cobra.Command{
		Use:   "add-template <templateId>",
		Short: "Add an MCP server from a built-in template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, ok := presets.TemplateByID(args[0])
			if !ok {
				return exitError{code: exitCodeNotFound, message: fmt.Sprintf("template %q not found", args[0])}
			}
			assignments, err := parseEnvAssignments(env, false)
			if err != nil {
				return err
			}
			cfg := presets.NewServerFromTemplate(tmpl, "")
			cfg.Environment = mergeTemplateEnv(cfg.Environment, assignments)
			if missing := presets.MissingRequired(tmpl, cfg.Environment); len(missing) > 0 {
				return usageErrorf("template %s requires --env for %s", tmpl.ID, strings.Join(missing, ", "))
			}
			cfg.Environment = presets.FilledEnvironment(cfg.Environment)
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				cfg.Name = trimmed
			}
			return withApp(opts, func(application *app.Application) error {
				added, err := application.Servers().Add(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				return printAdded(cmd, added, opts.jsonOutput)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "override the template name")
	cmd.Flags().StringArrayVar(&env, "env", nil, "environment variable KEY=VALUE (repeatable)")
	return cmd
}

// mergeTemplateEnv sets values for template keys and appends keys the
// template does not know. Template keys keep their secret flag.
func mergeTemplateEnv(base, assignments []domain.EnvVar) []domain.EnvVar {
	out := append([]domain.EnvVar(nil), base...)
	index := make(map[string]int, len(out))
	for i, env := range out {
		index[env.Key] = i
	}
	for _, assignment := range assignments {
		if i, ok := index[assignment.Key]; ok {
			out[i].Value = assignment.Value
			continue
		}
		index[assignment.Key] = len(out)
		out = append(out, assignment)
	}
	return out
}

func printAdded(cmd *cobra.Command, added domain.ServerConfig, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), maskServer(added))
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", added.ID, added.Name)
	return err
}

func newUpdateCmd(opts *cliOptions) *cobra.Command {
	var flags serverFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an MCP server; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := flags.patch(cmd)
			if err != nil {
				return err
			}
			if patch.IsEmpty() {
				return usageErrorf("nothing to update")
			}
			return withApp(opts, func(application *app.Application) error {
				if err := application.Servers().Update(cmd.Context(), args[0], patch); err != nil {
					return err
				}
				return printStatus(cmd, opts.jsonOutput, args[0], "updated")
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newToggleCmd(opts *cliOptions, enabled bool) *cobra.Command {
	use, short, status := "enable <id>", "Enable an MCP server", "enabled"
	if !enabled {
		use, short, status = "disable <id>", "Disable an MCP server", "disabled"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(application *app.Application) error {
				if err := application.Servers().Toggle(cmd.Context(), args[0], enabled); err != nil {
					return err
				}
				return printStatus(cmd, opts.jsonOutput, args[0], status)
			})
		},
	}
}

func newRemoveCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove an MCP server and its secrets",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(application *app.Application) error {
				if err := application.Servers().Remove(cmd.Context(), args[0]); err != nil {
					return err
				}
				return printStatus(cmd, opts.jsonOutput, args[0], "removed")
			})
		},
	}
}

func newClearCmd(opts *cliOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every MCP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return usageErrorf("refusing to clear all servers without --yes")
			}
			return withApp(opts, func(application *app.Application) error {
				if err := application.Servers().Clear(cmd.Context()); err != nil {
					return err
				}
				if opts.jsonOutput {
					return writeJSON(cmd.OutOrStdout(), map[string]any{"cleared": true})
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "cleared all servers")
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm removing every server")
	return cmd
}

func printStatus(cmd *cobra.Command, jsonOutput bool, id, status string) error {
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), map[string]any{"id": id, "status": status})
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", status, id)
	return err
}
