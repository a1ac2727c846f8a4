package domain

const (
	// ServersNamespace names the storage namespace for server configurations.
	ServersNamespace = "mcp-servers"
	// ServersDocumentVersion is the schema version written when the servers document is created.
	ServersDocumentVersion = 1

	DefaultServerTimeoutMs = 30000
	DefaultServerIcon      = "🔧"
	DefaultLaunchCommand   = "npx"
)
