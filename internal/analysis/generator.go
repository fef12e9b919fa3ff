package analysis

import (
	"context"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"

	"github.com/examhack/examhack/internal/config"
	"github.com/examhack/examhack/pkg/gemini"
)

// Generator issues a single prompt to a hosted text-generation service and
// returns the raw response text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// NewGenerator creates a Generator based on config.
func NewGenerator(cfg config.AnalysisConfig) (Generator, error) {
	switch cfg.Provider {
	case "gemini", "":
		if cfg.GeminiKey == "" {
			return nil, eris.New("analysis: gemini provider requires gemini_api_key")
		}
		opts := []gemini.Option{gemini.WithModel(cfg.GeminiModel)}
		if cfg.GeminiBaseURL != "" {
			opts = append(opts, gemini.WithBaseURL(cfg.GeminiBaseURL))
		}
		return &GeminiGenerator{client: gemini.NewClient(cfg.GeminiKey, opts...)}, nil
	case "anthropic":
		if cfg.AnthropicKey == "" {
			return nil, eris.New("analysis: anthropic provider requires anthropic_api_key")
		}
		client := sdk.NewClient(option.WithAPIKey(cfg.AnthropicKey))
		return &AnthropicGenerator{client: client, model: cfg.AnthropicModel}, nil
	default:
		return nil, eris.Errorf("analysis: unknown provider %q", cfg.Provider)
	}
}

// GeminiGenerator backs Generate with the Gemini generateContent endpoint.
type GeminiGenerator struct {
	client gemini.Client
}

func (g *GeminiGenerator) Name() string { return "gemini" }

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.GenerateContent(ctx, gemini.GenerateContentRequest{
		Contents: []gemini.Content{{Parts: []gemini.Part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 {
		return "", eris.New("gemini: no candidates in response")
	}
	return resp.Text(), nil
}

// anthropicMaxTokens bounds the study-guide JSON the model may return.
const anthropicMaxTokens = 4096

// AnthropicGenerator backs Generate with the Anthropic Messages API.
type AnthropicGenerator struct {
	client sdk.Client
	model  string
}

func (a *AnthropicGenerator) Name() string { return "anthropic" }

func (a *AnthropicGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := a.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(a.model),
		MaxTokens: anthropicMaxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	var out string
	for _, block := range msg.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	if out == "" {
		return "", eris.New("anthropic: no text content in response")
	}
	return out, nil
}
