package llm

import (
	"context"
	"strings"
	"sync"

	"github.com/jonathan/resume-tailor/internal/types"
)

// callUsage is what the fake charges for every call
var callUsage = types.TokenUsage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150}

// fakeClient answers GenerateJSON by matching a substring of the prompt
type fakeClient struct {
	mu        sync.Mutex
	responses map[string]string
	err       error
	prompts   []string
	tiers     []ModelTier
}

func newFakeClient() *fakeClient {
	return &fakeClient{responses: map[string]string{}}
}

func (f *fakeClient) on(promptFragment, response string) *fakeClient {
	f.responses[promptFragment] = response
	return f
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (*Response, error) {
	return f.GenerateJSON(ctx, prompt, tier)
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, tier ModelTier) (*Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.tiers = append(f.tiers, tier)
	if f.err != nil {
		return nil, f.err
	}
	text := "{}"
	for fragment, response := range f.responses {
		if strings.Contains(prompt, fragment) {
			text = response
			break
		}
	}
	return &Response{Text: text, Usage: callUsage}, nil
}

func (f *fakeClient) GetModel(tier ModelTier) string {
	return DefaultConfig().GetModel(tier)
}

func (f *fakeClient) Close() error {
	return nil
}
