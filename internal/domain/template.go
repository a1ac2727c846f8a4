package domain

// TemplateEnvVar describes an environment variable a template asks the user for.
type TemplateEnvVar struct {
	Key          string `json:"key"`
	Label        string `json:"label"`
	Placeholder  string `json:"placeholder,omitempty"`
	HelpURL      string `json:"helpUrl,omitempty"`
	DefaultValue string `json:"defaultValue,omitempty"`
	IsSecret     bool   `json:"isSecret"`
}

// ServerTemplate is a static preset for creating a ServerConfig. Templates are never persisted.
type ServerTemplate struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Icon            string           `json:"icon"`
	NpmPackage      string           `json:"npmPackage"`
	RequiredEnvVars []TemplateEnvVar `json:"requiredEnvVars"`
	OptionalEnvVars []TemplateEnvVar `json:"optionalEnvVars,omitempty"`
}

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOpenAI    ProviderType = "openai"
	ProviderGoogle    ProviderType = "google"
	ProviderGroq      ProviderType = "groq"
	ProviderDeepSeek  ProviderType = "deepseek"
	ProviderZAI       ProviderType = "zai"
	ProviderLocal     ProviderType = "local"
	ProviderCustom    ProviderType = "custom"
)

// ModelConfig describes one selectable model.
type ModelConfig struct {
	ID              string       `json:"id"`
	DisplayName     string       `json:"displayName"`
	Provider        ProviderType `json:"provider"`
	FullID          string       `json:"fullId"`
	ContextWindow   int          `json:"contextWindow,omitempty"`
	MaxOutputTokens int          `json:"maxOutputTokens,omitempty"`
	SupportsVision  bool         `json:"supportsVision"`
}

// ProviderConfig groups the models offered by one provider.
type ProviderConfig struct {
	ID             ProviderType  `json:"id"`
	Name           string        `json:"name"`
	Models         []ModelConfig `json:"models"`
	RequiresAPIKey bool          `json:"requiresApiKey"`
	APIKeyEnvVar   string        `json:"apiKeyEnvVar,omitempty"`
	BaseURL        string        `json:"baseUrl,omitempty"`
}

// SelectedModel is the user's model choice. Model holds the full id, e.g. "anthropic/claude-sonnet-4-5".
type SelectedModel struct {
	Provider ProviderType `json:"provider"`
	Model    string       `json:"model"`
}
