package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/bytedance/sonic"

	"mcpsettings/internal/domain"
	"mcpsettings/internal/infra/transfer"
)

const maskedSecret = "********"

func writeJSON(w io.Writer, value any) error {
	data, err := sonic.ConfigStd.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func newTable(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func printServers(w io.Writer, servers []domain.ServerConfig, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(w, maskServers(servers))
	}
	if len(servers) == 0 {
		_, err := fmt.Fprintln(w, "no servers configured")
		return err
	}
	tw := newTable(w, "ID", "NAME", "TYPE", "ENABLED", "TARGET")
	for _, server := range servers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n",
			server.ID, server.Name, server.Type, server.Enabled, server.DisplayTarget())
	}
	return tw.Flush()
}

func printServer(w io.Writer, server domain.ServerConfig, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(w, server)
	}
	fmt.Fprintf(w, "id:          %s\n", server.ID)
	fmt.Fprintf(w, "name:        %s\n", server.Name)
	if server.Description != "" {
		fmt.Fprintf(w, "description: %s\n", server.Description)
	}
	fmt.Fprintf(w, "type:        %s\n", server.Type)
	fmt.Fprintf(w, "target:      %s\n", server.DisplayTarget())
	fmt.Fprintf(w, "enabled:     %t\n", server.Enabled)
	fmt.Fprintf(w, "timeout:     %dms\n", server.EffectiveTimeout())
	if server.Icon != "" {
		fmt.Fprintf(w, "icon:        %s\n", server.Icon)
	}
	if server.TemplateID != "" {
		fmt.Fprintf(w, "template:    %s\n", server.TemplateID)
	}
	if len(server.Environment) == 0 {
		return nil
	}
	fmt.Fprintln(w, "environment:")
	for _, env := range server.Environment {
		fmt.Fprintf(w, "  %s=%s\n", env.Key, env.Value)
	}
	return nil
}

func printIssues(w io.Writer, issues []transfer.Issue) {
	for _, issue := range issues {
		fmt.Fprintf(w, "%s %s: %s\n", issue.Kind, strconv.Quote(issue.Name), issue.Message)
	}
}

// maskServers replaces non-empty secret values so they never reach the terminal.
func maskServers(servers []domain.ServerConfig) []domain.ServerConfig {
	out := make([]domain.ServerConfig, 0, len(servers))
	for _, server := range servers {
		out = append(out, maskServer(server))
	}
	return out
}

func maskServer(server domain.ServerConfig) domain.ServerConfig {
	server = server.Clone()
	for i, env := range server.Environment {
		if env.IsSecret && env.Value != "" {
			server.Environment[i].Value = maskedSecret
		}
	}
	return server
}
