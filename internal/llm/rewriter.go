package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/rs/zerolog"
)

// Rewriter applies compiled transformation instructions with an LLM
type Rewriter struct {
	client Client
	tier   ModelTier
	logger zerolog.Logger
}

// NewRewriter creates a rewriter on the advanced model tier
func NewRewriter(client Client, logger zerolog.Logger) *Rewriter {
	return &Rewriter{
		client: client,
		tier:   TierAdvanced,
		logger: logger.With().Str("component", "llm_rewriter").Logger(),
	}
}

// Rewrite sends the instructions, résumé and job to the model and parses the
// rewritten bullets, summary and why-fit statement
func (r *Rewriter) Rewrite(ctx context.Context, req *types.RewriteRequest) (*types.RewriteResponse, error) {
	if req == nil || req.Instructions == nil || req.Resume == nil {
		return nil, fmt.Errorf("rewrite request requires resume and instructions")
	}

	template, err := prompts.Get("tailoring.json", "rewrite-resume")
	if err != nil {
		return nil, err
	}
	instructionsJSON, err := json.MarshalIndent(req.Instructions, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode instructions: %w", err)
	}
	resumeJSON, err := json.MarshalIndent(req.Resume, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode resume: %w", err)
	}
	jobJSON, err := json.MarshalIndent(req.Job, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode job: %w", err)
	}

	prompt := prompts.Format(template, map[string]string{
		"Instructions": string(instructionsJSON),
		"Resume":       string(resumeJSON),
		"Job":          string(jobJSON),
		"Tone":         string(req.Instructions.OverallTone),
	})

	resp, err := r.client.GenerateJSON(ctx, prompt, r.tier)
	if err != nil {
		return nil, fmt.Errorf("rewrite generation failed: %w", err)
	}

	var out types.RewriteResponse
	if err := json.Unmarshal([]byte(CleanJSONBlock(resp.Text)), &out); err != nil {
		return nil, fmt.Errorf("failed to parse rewrite response: %w", err)
	}
	out.TokenUsage = resp.Usage
	r.logger.Info().
		Int("bullets", len(out.Bullets)).
		Int("total_tokens", resp.Usage.TotalTokens).
		Msg("Rewrite complete")
	return &out, nil
}
