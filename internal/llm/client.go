package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"google.golang.org/api/option"
)

// ErrCircuitOpen is returned while the provider breaker rejects calls
var ErrCircuitOpen = errors.New("llm provider circuit is open")

// Response is the text of a completion and the tokens it cost
type Response struct {
	Text  string
	Usage types.TokenUsage
}

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateContent generates text content using the specified model tier
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (*Response, error)
	// GenerateJSON generates JSON content using the specified model tier
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (*Response, error)
	// GetModel returns the underlying provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string, logger zerolog.Logger) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey, logger)
	default:
		return NewGeminiClient(ctx, config, apiKey, logger)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client  *genai.Client
	config  *Config
	breaker *gobreaker.CircuitBreaker[*genai.GenerateContentResponse]
	logger  zerolog.Logger
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string, logger zerolog.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultGeminiConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	logger = logger.With().Str("component", "llm").Str("provider", string(ProviderGemini)).Logger()
	return &GeminiClient{
		client:  client,
		config:  config,
		breaker: newBreaker[*genai.GenerateContentResponse]("gemini", config.Breaker, logger),
		logger:  logger,
	}, nil
}

// newBreaker returns nil when the breaker is disabled
func newBreaker[T any](name string, cfg BreakerConfig, logger zerolog.Logger) *gobreaker.CircuitBreaker[T] {
	if !cfg.Enabled {
		return nil
	}
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests || counts.Requests == 0 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
		},
		// cancellation by the caller says nothing about provider health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	return gobreaker.NewCircuitBreaker[T](settings)
}

// execute runs fn through the breaker when one is configured
func execute[T any](cb *gobreaker.CircuitBreaker[T], fn func() (T, error)) (T, error) {
	if cb == nil {
		return fn()
	}
	out, err := cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return out, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}
	return out, err
}

// GenerateContent generates text content using the specified model tier
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (*Response, error) {
	return c.generate(ctx, prompt, tier, false)
}

// GenerateJSON generates JSON content using the specified model tier
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (*Response, error) {
	resp, err := c.generate(ctx, prompt, tier, true)
	if err != nil {
		return nil, err
	}
	// Clean any markdown code block wrappers
	resp.Text = CleanJSONBlock(resp.Text)
	return resp, nil
}

func (c *GeminiClient) generate(ctx context.Context, prompt string, tier ModelTier, asJSON bool) (*Response, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return nil, fmt.Errorf("no model configured for tier %s", tier)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(c.config.Temperature)
	if asJSON {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := execute(c.breaker, func() (*genai.GenerateContentResponse, error) {
		return model.GenerateContent(ctx, genai.Text(prompt))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	out, err := responseFromGemini(resp)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().
		Str("model", modelName).
		Int("prompt_tokens", out.Usage.PromptTokens).
		Int("completion_tokens", out.Usage.CompletionTokens).
		Msg("Generated content")
	return out, nil
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// responseFromGemini extracts text and usage from a Gemini API response
func responseFromGemini(resp *genai.GenerateContentResponse) (*Response, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("no text parts in response")
	}

	out := &Response{Text: strings.Join(parts, "")}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = types.TokenUsage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return out, nil
}
