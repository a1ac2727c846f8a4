package transfer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/pelletier/go-toml/v2"
	"github.com/samber/lo"

	"mcpsettings/internal/domain"
)

var secretKeyMarkers = []string{"TOKEN", "SECRET", "PASSWORD", "API_KEY", "APIKEY", "PRIVATE_KEY", "CREDENTIAL"}

// ResolvePath returns the config file path for the given source.
func ResolvePath(source Source) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	switch source {
	case SourceClaude:
		return filepath.Join(home, ".claude.json"), nil
	case SourceCodex:
		return filepath.Join(home, ".codex", "config.toml"), nil
	case SourceGemini:
		return filepath.Join(home, ".gemini", "settings.json"), nil
	default:
		return "", ErrUnknownSource
	}
}

// ReadSource reads and parses MCP servers from the source config.
func ReadSource(source Source) (Result, error) {
	path, err := ResolvePath(source)
	if err != nil {
		return Result{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{Source: source, Path: path}, ErrNotFound
		}
		return Result{}, fmt.Errorf("read source: %w", err)
	}
	result, err := Parse(source, data)
	result.Path = path
	return result, err
}

// Parse converts the raw contents of a source config.
func Parse(source Source, data []byte) (Result, error) {
	switch source {
	case SourceClaude, SourceGemini:
		return parseJSONSource(source, data)
	case SourceCodex:
		return parseCodexSource(data)
	default:
		return Result{}, ErrUnknownSource
	}
}

func parseJSONSource(source Source, data []byte) (Result, error) {
	var payload map[string]any
	if err := sonic.ConfigStd.Unmarshal(data, &payload); err != nil {
		return Result{}, fmt.Errorf("parse json: %w", err)
	}
	raw, ok := payload["mcpServers"].(map[string]any)
	if !ok {
		return Result{}, errors.New("mcpServers must be an object map")
	}
	result := Result{Source: source}
	collectEntries(&result, raw, map[string]struct{}{}, "")
	return result, nil
}

func parseCodexSource(data []byte) (Result, error) {
	var payload map[string]any
	if err := toml.Unmarshal(data, &payload); err != nil {
		return Result{}, fmt.Errorf("parse toml: %w", err)
	}
	result := Result{Source: SourceCodex}
	seen := make(map[string]struct{})
	collectEntries(&result, readTomlTable(payload, "mcp_servers"), seen, "")
	collectEntries(&result, readTomlTable(payload, "mcp", "servers"), seen,
		"legacy mcp.servers entry ignored because mcp_servers already defines it")
	return result, nil
}

// collectEntries converts entries in name order. Names already in seen are
// reported as duplicates with duplicateMessage.
func collectEntries(result *Result, entries map[string]any, seen map[string]struct{}, duplicateMessage string) {
	names := lo.Keys(entries)
	slices.Sort(names)
	for _, name := range names {
		if _, exists := seen[strings.TrimSpace(name)]; exists {
			message := duplicateMessage
			if message == "" {
				message = "server name already imported"
			}
			result.Issues = append(result.Issues, Issue{Name: name, Kind: IssueDuplicate, Message: message})
			continue
		}
		table, ok := entries[name].(map[string]any)
		if !ok {
			result.Issues = append(result.Issues, Issue{
				Name:    name,
				Kind:    IssueInvalid,
				Message: "entry must be an object",
			})
			continue
		}
		cfg, issues, ok := parseServer(name, table)
		result.Issues = append(result.Issues, issues...)
		if !ok {
			continue
		}
		seen[cfg.Name] = struct{}{}
		result.Servers = append(result.Servers, cfg)
	}
}

func readTomlTable(payload map[string]any, path ...string) map[string]any {
	current := payload
	for i, key := range path {
		value, ok := current[key]
		if !ok {
			return nil
		}
		table, ok := value.(map[string]any)
		if !ok {
			return nil
		}
		if i == len(path)-1 {
			return table
		}
		current = table
	}
	return nil
}

func parseServer(name string, entry map[string]any) (domain.ServerConfig, []Issue, bool) {
	name = strings.TrimSpace(name)
	invalid := func(message string) (domain.ServerConfig, []Issue, bool) {
		return domain.ServerConfig{}, []Issue{{Name: name, Kind: IssueInvalid, Message: message}}, false
	}
	if name == "" {
		return invalid("server name is required")
	}
	endpoint, ok := readOptionalString(entry, "endpoint")
	if !ok {
		return invalid("endpoint must be a string")
	}
	if endpoint == "" {
		if endpoint, ok = readOptionalString(entry, "url"); !ok {
			return invalid("url must be a string")
		}
	}
	if endpoint == "" {
		if endpoint, ok = readOptionalString(entry, "httpUrl"); !ok {
			return invalid("httpUrl must be a string")
		}
	}
	transportRaw, ok := readOptionalString(entry, "transport")
	if !ok {
		return invalid("transport must be a string")
	}
	if transportRaw == "" {
		if transportRaw, ok = readOptionalString(entry, "type"); !ok {
			return invalid("type must be a string")
		}
	}
	serverType, ok := normalizeType(transportRaw, endpoint != "")
	if !ok {
		return invalid("unsupported transport type")
	}

	cfg := domain.ServerConfig{
		Name:    name,
		Type:    serverType,
		Enabled: true,
		Timeout: domain.DefaultServerTimeoutMs,
		Icon:    domain.DefaultServerIcon,
	}
	var issues []Issue

	switch serverType {
	case domain.ServerTypeLocal:
		command, ok := readRequiredString(entry, "command")
		if !ok {
			return invalid("command is required for local servers")
		}
		args, ok := readOptionalStringSlice(entry, "args")
		if !ok {
			return invalid("args must be an array of strings")
		}
		env, ok := readOptionalStringMap(entry, "env")
		if !ok {
			return invalid("env must be a map of strings")
		}
		cwd, ok := readOptionalString(entry, "cwd")
		if !ok {
			return invalid("cwd must be a string")
		}
		if cwd != "" {
			issues = append(issues, Issue{Name: name, Kind: IssueDropped, Message: "cwd is not supported and was dropped"})
		}
		cfg.Command = append([]string{command}, args...)
		cfg.Environment = envFromMap(env)
	case domain.ServerTypeRemote:
		if endpoint == "" {
			return invalid("url is required for remote servers")
		}
		headers, ok := readHTTPHeaders(entry)
		if !ok {
			return invalid("headers must be a map of strings")
		}
		if len(headers) > 0 {
			issues = append(issues, Issue{Name: name, Kind: IssueDropped, Message: "headers are not supported and were dropped"})
		}
		cfg.URL = endpoint
	}

	timeout, ok := readOptionalInt(entry, "timeout", "startup_timeout_ms")
	if !ok {
		return invalid("timeout must be a whole number")
	}
	if timeout > 0 {
		cfg.Timeout = timeout
	}
	if disabled, ok := entry["disabled"].(bool); ok && disabled {
		cfg.Enabled = false
	}
	if enabled, ok := entry["enabled"].(bool); ok {
		cfg.Enabled = enabled
	}
	return cfg, issues, true
}

func normalizeType(raw string, hasEndpoint bool) (domain.ServerType, bool) {
	if raw == "" {
		if hasEndpoint {
			return domain.ServerTypeRemote, true
		}
		return domain.ServerTypeLocal, true
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "stdio", "local":
		return domain.ServerTypeLocal, true
	case "streamable_http", "streamable-http", "streamablehttp", "http", "sse", "remote":
		return domain.ServerTypeRemote, true
	default:
		return "", false
	}
}

// envFromMap returns entries sorted by key. Keys that look like credentials
// are flagged secret so they end up in the secret store.
func envFromMap(env map[string]string) []domain.EnvVar {
	if len(env) == 0 {
		return nil
	}
	keys := lo.Keys(env)
	slices.Sort(keys)
	return lo.Map(keys, func(key string, _ int) domain.EnvVar {
		return domain.EnvVar{Key: key, Value: env[key], IsSecret: looksSecret(key)}
	})
}

func looksSecret(key string) bool {
	upper := strings.ToUpper(key)
	return lo.SomeBy(secretKeyMarkers, func(marker string) bool {
		return strings.Contains(upper, marker)
	})
}

func readRequiredString(entry map[string]any, key string) (string, bool) {
	s, ok := entry[key].(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func readOptionalString(entry map[string]any, key string) (string, bool) {
	value, ok := entry[key]
	if !ok {
		return "", true
	}
	s, ok := value.(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}

func readOptionalStringSlice(entry map[string]any, key string) ([]string, bool) {
	value, ok := entry[key]
	if !ok {
		return nil, true
	}
	switch raw := value.(type) {
	case []string:
		return append([]string(nil), raw...), true
	case []any:
		out := make([]string, 0, len(raw))
		for _, item := range raw {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func readOptionalStringMap(entry map[string]any, key string) (map[string]string, bool) {
	value, ok := entry[key]
	if !ok {
		return nil, true
	}
	switch raw := value.(type) {
	case map[string]string:
		return lo.Assign(raw), true
	case map[string]any:
		out := make(map[string]string, len(raw))
		for k, v := range raw {
			s, ok := v.(string)
			if !ok {
				return nil, false
			}
			out[k] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func readHTTPHeaders(entry map[string]any) (map[string]string, bool) {
	if _, exists := entry["http_headers"]; exists {
		return readOptionalStringMap(entry, "http_headers")
	}
	return readOptionalStringMap(entry, "headers")
}

func readOptionalInt(entry map[string]any, keys ...string) (int, bool) {
	for _, key := range keys {
		value, ok := entry[key]
		if !ok {
			continue
		}
		return toInt(value)
	}
	return 0, true
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}
