package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/tutorpro/internal/logger"
	"github.com/abhisek/tutorpro/internal/store"
)

// NewProvider creates a Provider from configuration.
//
// The base provider is wrapped with event logging when eventRepo is non-nil,
// and with retries only when cfg.Retry asks for more than one attempt.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRecorder, log *logger.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → retry → logging → base
	p := base
	if eventRepo != nil {
		p = WithLogging(p, cfg.Provider, eventRepo, log)
	}
	if cfg.Retry.Enabled() {
		p = WithRetry(p, cfg.Retry)
	}
	return p, nil
}

// NewProviderFromEnv resolves configuration from the environment and builds
// a provider. A missing credential is reported as an error.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRecorder, log *logger.Logger) (Provider, error) {
	cfg, err := ResolveConfig()
	if err != nil {
		return nil, err
	}
	return NewProvider(ctx, cfg, eventRepo, log)
}
