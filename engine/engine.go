// Package engine implements the translation engine boundary: an opaque
// text→text capability backed by HTTP API-based AI providers
// (OpenAI-compatible endpoints, Google AI, Ollama, custom endpoints).
//
// The rest of the program only ever sees a TranslateFunc; provider
// selection, prompting, retries, and rate-limit handling live here.
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/h5p-tools/h5pkit/langmeta"
)

// TranslateFunc translates one piece of text. It blocks until the
// provider responds, the context is cancelled, or retries are
// exhausted.
type TranslateFunc func(ctx context.Context, text string) (string, error)

// ---------------------------------------------------------------------------
// Provider IDs
// ---------------------------------------------------------------------------

const (
	ProviderOpenAI       = "openai"
	ProviderGoogle       = "google"
	ProviderOllama       = "ollama"
	ProviderCustomOpenAI = "custom-openai"
)

// Provider holds the configuration for an AI translation service.
type Provider struct {
	// ID is the provider identifier (openai, google, ollama, custom-openai).
	ID string
	// Name is the display name.
	Name string
	// BaseURL is the API base URL.
	BaseURL string
	// APIKey is the authentication key (empty for local services).
	APIKey string
	// Model is the model identifier.
	Model string
	// Proxy is an optional HTTP/HTTPS proxy URL.
	Proxy string
	// Timeout is the request timeout.
	Timeout time.Duration
}

// DefaultProviders returns the pre-configured provider definitions.
func DefaultProviders() map[string]Provider {
	return map[string]Provider{
		ProviderOpenAI: {
			ID:      ProviderOpenAI,
			Name:    "OpenAI",
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
			Timeout: 60 * time.Second,
		},
		ProviderGoogle: {
			ID:      ProviderGoogle,
			Name:    "Google AI (Gemini)",
			BaseURL: "https://generativelanguage.googleapis.com",
			Model:   "gemini-2.5-flash",
			Timeout: 120 * time.Second,
		},
		ProviderOllama: {
			ID:      ProviderOllama,
			Name:    "Ollama",
			BaseURL: "http://localhost:11434/v1",
			Model:   "llama3.2",
			Timeout: 120 * time.Second,
		},
		ProviderCustomOpenAI: {
			ID:      ProviderCustomOpenAI,
			Name:    "Custom OpenAI",
			Timeout: 60 * time.Second,
		},
	}
}

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

// Options controls engine construction.
type Options struct {
	// Provider is the AI provider configuration.
	Provider Provider
	// SourceLang is the source language code (e.g. "en").
	SourceLang string
	// TargetLang is the target language code (e.g. "de").
	TargetLang string
	// MaxRetries is the maximum number of retries on transient errors.
	// Default: 3.
	MaxRetries int
	// Timeout overrides the provider timeout if set.
	Timeout time.Duration
	// SystemPrompt overrides the built-in prompt.
	SystemPrompt string
	// OnLog emits log messages during translation.
	OnLog func(format string, args ...any)
	// Verbose enables request-level logging.
	Verbose bool
}

func (o *Options) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) effectiveTimeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	if o.Provider.Timeout > 0 {
		return o.Provider.Timeout
	}
	return 120 * time.Second
}

func (o *Options) effectiveMaxRetries() int {
	if o.MaxRetries > 0 {
		return o.MaxRetries
	}
	return 3
}

// ---------------------------------------------------------------------------
// System prompt
// ---------------------------------------------------------------------------

// DefaultSystemPrompt instructs the model to return a single bare
// translation. The walker handles markup and length budgeting, so the
// engine contract stays text→text.
const DefaultSystemPrompt = `You are a professional translator for interactive learning content. Translate the user's text from {{sourceLang}} to {{targetLang}}.

RULES:
- Translate for naturalness and fluency in {{targetLang}}, not word-for-word.
- Preserve any HTML tags, entities, placeholders, and punctuation patterns exactly as-is.
- Keep brand names and proper nouns unchanged.
- Return ONLY the translated text. No explanations, no quotes, no markdown code blocks.`

// resolvedPrompt returns the system prompt with language placeholders
// replaced by human-readable names.
func (o *Options) resolvedPrompt() string {
	prompt := o.SystemPrompt
	if prompt == "" {
		prompt = DefaultSystemPrompt
	}
	src := o.SourceLang
	if src == "" {
		src = "en"
	}
	prompt = strings.ReplaceAll(prompt, "{{sourceLang}}", langmeta.Name(src))
	prompt = strings.ReplaceAll(prompt, "{{targetLang}}", langmeta.Name(o.TargetLang))
	return prompt
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

// New builds a TranslateFunc bound to the configured provider and
// language pair. All closures returned by New for the same Options
// share one rate-limit state, so parallel container runs back off
// together when the provider returns 429.
func New(opts Options) (TranslateFunc, error) {
	if opts.TargetLang == "" {
		return nil, fmt.Errorf("target language is required")
	}
	if opts.Provider.ID == "" {
		return nil, fmt.Errorf("provider is required")
	}
	if opts.Provider.BaseURL == "" && opts.Provider.ID != ProviderGoogle {
		return nil, fmt.Errorf("provider %s: base URL is required", opts.Provider.ID)
	}
	if opts.Provider.Model == "" {
		return nil, fmt.Errorf("provider %s: model is required", opts.Provider.ID)
	}

	systemPrompt := opts.resolvedPrompt()
	rl := &rateLimitState{}
	prov := opts.Provider
	prov.Timeout = opts.effectiveTimeout()
	maxRetries := opts.effectiveMaxRetries()

	return func(ctx context.Context, text string) (string, error) {
		out, err := callProvider(ctx, prov, systemPrompt, text, rl, maxRetries, opts.Verbose)
		if err != nil {
			return "", err
		}
		return cleanResponse(out), nil
	}, nil
}

// ---------------------------------------------------------------------------
// Response cleanup
// ---------------------------------------------------------------------------

var markdownCodeBlock = regexp.MustCompile("(?s)^```(?:[a-z]*)?\\s*(.*?)\\s*```$")

// cleanResponse strips decorations models add despite the prompt:
// markdown code fences and wrapping quotes around the whole output.
func cleanResponse(s string) string {
	s = strings.TrimSpace(s)
	if m := markdownCodeBlock.FindStringSubmatch(s); len(m) > 1 {
		s = strings.TrimSpace(m[1])
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' && !strings.Contains(s[1:len(s)-1], `"`) {
		s = s[1 : len(s)-1]
	}
	return s
}
