// Package analysis assembles the exam-analysis prompt, calls the hosted
// model once, and recovers the structured result from its response.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/examhack/examhack/internal/model"
	"github.com/examhack/examhack/pkg/gemini"
)

const (
	defaultMinTextChars   = 100
	defaultMaxPromptChars = 30000
	defaultTimeout        = 60 * time.Second
)

const promptTemplate = `You are an expert exam analyzer for the course "%s". Analyze the following exam papers:

1. **Top 10 Most Repeated Questions** (Extract exact text, counts, years, AND categorization)
2. **Topic Weightage Analysis** (Topic name, count, percentage)

For each question, identify:
- **topic**: General category (e.g., "Stacks", "Sorting Algorithms", "Normalization")
- **subtopic**: Specific concept when possible (e.g., "Infix to Postfix", "Quick Sort", "3NF")

IMPORTANT: Always provide a topic. Only add subtopic if the question is about a specific algorithm, technique, or concept.

Examples:
- Question about "Convert infix to postfix using stack" -> topic: "Stacks", subtopic: "Infix to Postfix"
- Question about "Quick Sort algorithm" -> topic: "Sorting Algorithms", subtopic: "Quick Sort"
- Question about "Explain 1NF, 2NF, 3NF" -> topic: "Normalization", subtopic: "Normal Forms"
- General question about "What is a stack?" -> topic: "Stacks", subtopic: null

Return VALID JSON ONLY:
{
  "topQuestions": [
    {
      "topic": "General Topic",
      "subtopic": "Specific Concept or null",
      "text": "Full question text...",
      "frequency": 5,
      "years": ["2024", "2023"]
    }
  ],
  "topicWeightage": [ { "name": "...", "count": 10, "percentage": 20 } ]
}

EXAM PAPERS TEXT:
%s`

// Options tunes the engine. Zero values fall back to defaults.
type Options struct {
	MinTextChars   int
	MaxPromptChars int
	Timeout        time.Duration
}

// Engine identifies repeated questions and topic weightages in combined
// exam-paper text via one hosted model call. No retry: the request either
// completes or fails at this stage.
type Engine struct {
	gen  Generator
	opts Options
}

// NewEngine creates an Engine around a Generator.
func NewEngine(gen Generator, opts Options) *Engine {
	if opts.MinTextChars <= 0 {
		opts.MinTextChars = defaultMinTextChars
	}
	if opts.MaxPromptChars <= 0 {
		opts.MaxPromptChars = defaultMaxPromptChars
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Engine{gen: gen, opts: opts}
}

// Analyze runs the model over the combined text and returns the structured
// result. Text shorter than the minimum fails with InsufficientTextError
// before any network call.
func (e *Engine) Analyze(ctx context.Context, courseCode, combinedText string) (*model.AnalysisResult, error) {
	if len(combinedText) < e.opts.MinTextChars {
		return nil, &model.InsufficientTextError{Got: len(combinedText), Min: e.opts.MinTextChars}
	}

	log := zap.L().With(zap.String("course", courseCode), zap.String("provider", e.gen.Name()))

	input := combinedText
	if len(input) > e.opts.MaxPromptChars {
		input = input[:e.opts.MaxPromptChars]
	}
	prompt := fmt.Sprintf(promptTemplate, courseCode, input)

	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	log.Info("running analysis", zap.Int("input_chars", len(input)))
	raw, err := e.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, classifyProviderError(e.gen.Name(), err)
	}

	var result model.AnalysisResult
	if err := json.Unmarshal([]byte(ExtractJSONObject(raw)), &result); err != nil {
		log.Error("model response unparsable", zap.Int("response_chars", len(raw)))
		return nil, &model.MalformedOutputError{Raw: raw, Err: err}
	}

	result.Truncate()

	log.Info("analysis complete",
		zap.Int("top_questions", len(result.TopQuestions)),
		zap.Int("topics", len(result.TopicWeightage)),
	)
	return &result, nil
}

// classifyProviderError maps transport and HTTP failures onto the domain
// error taxonomy: model misconfigured, quota exhausted, or connectivity.
func classifyProviderError(provider string, err error) error {
	var geminiErr *gemini.StatusError
	if errors.As(err, &geminiErr) {
		switch geminiErr.StatusCode {
		case http.StatusNotFound:
			return &model.NotFoundError{What: "model (check API key configuration)"}
		case http.StatusTooManyRequests:
			return &model.QuotaExceededError{Provider: provider}
		}
		return eris.Wrapf(err, "analysis: %s call failed", provider)
	}

	var sdkErr *sdk.Error
	if errors.As(err, &sdkErr) {
		switch sdkErr.StatusCode {
		case http.StatusNotFound:
			return &model.NotFoundError{What: "model (check API key configuration)"}
		case http.StatusTooManyRequests:
			return &model.QuotaExceededError{Provider: provider}
		}
		return eris.Wrapf(err, "analysis: %s call failed", provider)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &model.TimeoutError{Stage: "model call", Err: err}
	}

	return eris.Wrapf(err, "analysis: %s call failed", provider)
}
