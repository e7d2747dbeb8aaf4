// Package llm provides model configuration and a provider-neutral completion
// interface with a Google Gemini implementation.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite serves short conversational answers: chat, legal synthesis
	TierLite ModelTier = "lite"
	// TierStandard serves structured letter generation and repair
	TierStandard ModelTier = "standard"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider
const ProviderGemini Provider = "gemini"

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the default Gemini configuration
func DefaultConfig() *Config {
	return NewConfig("gemini-2.5-flash", "gemini-2.5-flash-lite")
}

// NewConfig builds a Gemini configuration from the two configured model names.
// Empty names are left out so GetModel falls back to the other tier.
func NewConfig(standard, lite string) *Config {
	models := make(map[ModelTier]string, 2)
	if standard != "" {
		models[TierStandard] = standard
	}
	if lite != "" {
		models[TierLite] = lite
	}
	return &Config{Provider: ProviderGemini, Models: models}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return "" // No model configured
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider: c.Provider,
		Models:   make(map[ModelTier]string, len(c.Models)+1),
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}
