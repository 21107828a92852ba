package parser

import (
	"fmt"

	"ladinglens/internal/config"
	"ladinglens/internal/port"
)

// ProviderFactory is a function that creates a DocumentExtractor from a provider config.
type ProviderFactory func(cfg *config.ExtractorProviderConfig) (port.DocumentExtractor, error)

// registry of extractor provider factories, populated explicitly via
// RegisterProvider at startup.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an extractor provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewExtractor creates a DocumentExtractor from a provider config using the
// registered factory, wrapped with the provider's retry policy.
func NewExtractor(cfg *config.ExtractorProviderConfig) (port.DocumentExtractor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown extractor provider: %s", cfg.Provider)
	}
	inner, err := factory(cfg)
	if err != nil {
		return nil, err
	}
	return NewRetryingExtractor(inner, cfg.Provider, cfg.MaxRetries), nil
}

// NewFromConfig assembles the full model extractor chain: primary and
// secondary providers behind the rate-limit-aware fallback. Returns nil when
// no provider is configured, which disables model fallback entirely.
func NewFromConfig(cfg *config.ExtractorConfig) (port.DocumentExtractor, error) {
	var extractors []port.DocumentExtractor
	var names []string

	for _, pc := range []*config.ExtractorProviderConfig{cfg.PrimaryConfig(), cfg.SecondaryConfig()} {
		if pc == nil {
			continue
		}
		ex, err := NewExtractor(pc)
		if err != nil {
			return nil, fmt.Errorf("parser.NewFromConfig: %w", err)
		}
		extractors = append(extractors, ex)
		names = append(names, pc.Provider)
	}

	switch len(extractors) {
	case 0:
		return nil, nil
	case 1:
		return extractors[0], nil
	default:
		return NewFallbackExtractor(extractors, names), nil
	}
}
