package presets

import (
	"mcpsettings/internal/domain"
)

// DefaultModel is selected until the user picks another model.
var DefaultModel = domain.SelectedModel{
	Provider: domain.ProviderAnthropic,
	Model:    "anthropic/claude-opus-4-5",
}

var defaultProviders = []domain.ProviderConfig{
	{
		ID:             domain.ProviderAnthropic,
		Name:           "Anthropic",
		RequiresAPIKey: true,
		APIKeyEnvVar:   "ANTHROPIC_API_KEY",
		Models: []domain.ModelConfig{
			{ID: "claude-haiku-4-5", DisplayName: "Claude Haiku 4.5", Provider: domain.ProviderAnthropic, FullID: "anthropic/claude-haiku-4-5", ContextWindow: 200000, SupportsVision: true},
			{ID: "claude-sonnet-4-5", DisplayName: "Claude Sonnet 4.5", Provider: domain.ProviderAnthropic, FullID: "anthropic/claude-sonnet-4-5", ContextWindow: 200000, SupportsVision: true},
			{ID: "claude-opus-4-5", DisplayName: "Claude Opus 4.5", Provider: domain.ProviderAnthropic, FullID: "anthropic/claude-opus-4-5", ContextWindow: 200000, SupportsVision: true},
		},
	},
	{
		ID:             domain.ProviderOpenAI,
		Name:           "OpenAI",
		RequiresAPIKey: true,
		APIKeyEnvVar:   "OPENAI_API_KEY",
		Models: []domain.ModelConfig{
			{ID: "gpt-5-codex", DisplayName: "GPT 5 Codex", Provider: domain.ProviderOpenAI, FullID: "openai/gpt-5-codex", ContextWindow: 1000000, SupportsVision: true},
		},
	},
	{
		ID:             domain.ProviderGoogle,
		Name:           "Google AI",
		RequiresAPIKey: true,
		APIKeyEnvVar:   "GOOGLE_GENERATIVE_AI_API_KEY",
		Models: []domain.ModelConfig{
			{ID: "gemini-3-pro-preview", DisplayName: "Gemini 3 Pro", Provider: domain.ProviderGoogle, FullID: "google/gemini-3-pro-preview", ContextWindow: 2000000, SupportsVision: true},
			{ID: "gemini-3-flash-preview", DisplayName: "Gemini 3 Flash", Provider: domain.ProviderGoogle, FullID: "google/gemini-3-flash-preview", ContextWindow: 1000000, SupportsVision: true},
		},
	},
	{
		ID:             domain.ProviderGroq,
		Name:           "Groq",
		RequiresAPIKey: true,
		APIKeyEnvVar:   "GROQ_API_KEY",
		Models: []domain.ModelConfig{
			{ID: "llama3-70b-8192", DisplayName: "Llama 3 70B", Provider: domain.ProviderGroq, FullID: "groq/llama3-70b-8192", ContextWindow: 8192},
			{ID: "mixtral-8x7b-32768", DisplayName: "Mixtral 8x7B", Provider: domain.ProviderGroq, FullID: "groq/mixtral-8x7b-32768", ContextWindow: 32768},
		},
	},
	{
		ID:             domain.ProviderDeepSeek,
		Name:           "DeepSeek",
		RequiresAPIKey: true,
		APIKeyEnvVar:   "DEEPSEEK_API_KEY",
		BaseURL:        "https://api.deepseek.com",
		Models: []domain.ModelConfig{
			{ID: "deepseek-chat", DisplayName: "DeepSeek Chat (V3)", Provider: domain.ProviderDeepSeek, FullID: "deepseek/deepseek-chat", ContextWindow: 64000},
			{ID: "deepseek-reasoner", DisplayName: "DeepSeek Reasoner (R1)", Provider: domain.ProviderDeepSeek, FullID: "deepseek/deepseek-reasoner", ContextWindow: 64000},
		},
	},
	{
		ID:             domain.ProviderZAI,
		Name:           "Z.AI Coding Plan",
		RequiresAPIKey: true,
		APIKeyEnvVar:   "ZAI_API_KEY",
		BaseURL:        "https://api.z.ai",
		Models: []domain.ModelConfig{
			{ID: "glm-4.7", DisplayName: "GLM-4.7 (Latest)", Provider: domain.ProviderZAI, FullID: "zai/glm-4.7", ContextWindow: 200000},
			{ID: "glm-4.6", DisplayName: "GLM-4.6", Provider: domain.ProviderZAI, FullID: "zai/glm-4.6", ContextWindow: 200000},
			{ID: "glm-4.5-flash", DisplayName: "GLM-4.5 Flash", Provider: domain.ProviderZAI, FullID: "zai/glm-4.5-flash", ContextWindow: 128000},
		},
	},
	{
		ID:             domain.ProviderLocal,
		Name:           "Local Models",
		RequiresAPIKey: false,
		Models: []domain.ModelConfig{
			{ID: "ollama", DisplayName: "Ollama (Local)", Provider: domain.ProviderLocal, FullID: "ollama/llama3"},
		},
	},
}

// DefaultProviders returns a copy of the provider catalog.
func DefaultProviders() []domain.ProviderConfig {
	out := make([]domain.ProviderConfig, len(defaultProviders))
	for i, provider := range defaultProviders {
		out[i] = provider
		out[i].Models = append([]domain.ModelConfig(nil), provider.Models...)
	}
	return out
}

// ProviderByID looks up a provider.
func ProviderByID(id domain.ProviderType) (domain.ProviderConfig, bool) {
	for _, provider := range DefaultProviders() {
		if provider.ID == id {
			return provider, true
		}
	}
	return domain.ProviderConfig{}, false
}

// ModelByFullID finds a model by its provider-qualified id.
func ModelByFullID(fullID string) (domain.ModelConfig, bool) {
	for _, provider := range defaultProviders {
		for _, model := range provider.Models {
			if model.FullID == fullID {
				return model, true
			}
		}
	}
	return domain.ModelConfig{}, false
}
