package openai

import (
	"fmt"

	"github.com/veldt-labs/scout/internal/domain"
)

// Known embedding providers. Both speak the OpenAI embeddings API shape.
const (
	ProviderOpenAI = "openai"
	ProviderVoyage = "voyage"
)

const voyageBaseURL = "https://api.voyageai.com/v1"

// NewProvider creates the embedder selected by name, filling in provider
// defaults. An explicit BaseURL in the config always wins.
func NewProvider(name string, cfg *Config) (*Embedder, error) {
	c := *cfg
	c.Provider = name

	switch name {
	case ProviderOpenAI:
		// library default base URL
	case ProviderVoyage:
		if c.BaseURL == "" {
			c.BaseURL = voyageBaseURL
		}
	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q", domain.ErrConfiguration, name)
	}

	if c.APIKey == "" {
		return nil, fmt.Errorf("%w: embedding provider %q requires an API key", domain.ErrConfiguration, name)
	}
	if c.Model == "" {
		return nil, fmt.Errorf("%w: embedding provider %q requires a model", domain.ErrConfiguration, name)
	}

	return NewEmbedder(&c), nil
}
