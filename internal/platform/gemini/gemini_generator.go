//go:build !test_without_external_deps
// +build !test_without_external_deps

package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/PengWorks1114/vocabularydb/internal/config"
	"github.com/PengWorks1114/vocabularydb/internal/domain"
	"github.com/PengWorks1114/vocabularydb/internal/generation"
)

// Retry settings for Gemini API calls.
const (
	maxRetries        = 3
	baseDelaySeconds  = 2
	defaultModelName  = "gemini-2.0-flash"
	promptTemplateSrc = `You are helping a language learner. Write one natural example sentence
using the word "{{.Headword}}"{{if .PartOfSpeech}} as a {{.PartOfSpeech}}{{end}}.
The word means "{{.Translation}}".
Respond with JSON only, in this exact shape:
{"sentence": "<example sentence using the word>", "translation": "<translation of the sentence>"}`
)

// GeminiGenerator implements the generation.Generator interface using
// Google's Gemini API to generate example sentences for words.
type GeminiGenerator struct {
	logger         *slog.Logger
	config         config.LLMConfig
	promptTemplate *template.Template
	client         *genai.Client
	model          string
}

// NewGeminiGenerator creates a GeminiGenerator from the LLM configuration.
// Returns generation.ErrInvalidConfig when required settings are missing.
func NewGeminiGenerator(
	ctx context.Context,
	log *slog.Logger,
	cfg config.LLMConfig,
) (*GeminiGenerator, error) {
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	model := cfg.ModelName
	if model == "" {
		model = defaultModelName
	}

	promptTemplate, err := template.New("example").Parse(promptTemplateSrc)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &GeminiGenerator{
		logger:         log.With(slog.String("component", "gemini_generator")),
		config:         cfg,
		promptTemplate: promptTemplate,
		client:         client,
		model:          model,
	}, nil
}

var _ generation.Generator = (*GeminiGenerator)(nil)

// GenerateExample implements generation.Generator.GenerateExample
func (g *GeminiGenerator) GenerateExample(
	ctx context.Context,
	word *domain.Word,
) (*generation.Example, error) {
	if word == nil {
		return nil, fmt.Errorf("%w: word is nil", generation.ErrGenerationFailed)
	}

	prompt, err := g.createPrompt(ctx, word)
	if err != nil {
		return nil, err
	}

	response, err := g.callGeminiWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	example, err := g.parseResponse(ctx, response)
	if err != nil {
		return nil, err
	}

	g.logger.InfoContext(ctx, "example generated",
		"word_id", word.ID.String(),
		"sentence_length", len(example.Sentence))
	return example, nil
}

// createPrompt renders the prompt template for the given word.
func (g *GeminiGenerator) createPrompt(ctx context.Context, word *domain.Word) (string, error) {
	if word.Headword == "" {
		return "", ErrEmptyHeadword
	}

	g.logger.DebugContext(ctx, "generating prompt from template",
		"word_id", word.ID.String())

	var promptBuffer bytes.Buffer
	if err := g.promptTemplate.Execute(&promptBuffer, word); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return promptBuffer.String(), nil
}

// callGeminiWithRetry calls the Gemini API with exponential backoff and
// jitter between attempts. Permanent errors (blocked content, malformed
// responses) return immediately; transient API errors retry up to
// maxRetries times.
func (g *GeminiGenerator) callGeminiWithRetry(ctx context.Context, prompt string) (string, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		g.logger.InfoContext(ctx, "making Gemini API call",
			"attempt", attemptNum,
			"max_attempts", maxRetries+1)

		text, err := g.callGemini(ctx, prompt)
		if err == nil {
			return text, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attemptNum,
			"error", err)

		if errors.Is(err, generation.ErrContentBlocked) ||
			errors.Is(err, generation.ErrInvalidResponse) {
			return "", err
		}

		if attempt >= maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				generation.ErrTransientFailure, maxRetries)
		}

		// delay = baseDelay * 2^attempt * (0.5 + rand(0, 0.5))
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoffSeconds * jitterFactor * float64(time.Second))

		g.logger.InfoContext(ctx, "retrying after delay",
			"attempt", attemptNum,
			"delay", delay.String())

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// callGemini performs a single API call and classifies its outcome.
func (g *GeminiGenerator) callGemini(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(prompt),
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		text.WriteString(part.Text)
	}
	return text.String(), nil
}

// parseResponse extracts the JSON example from the model output. Models
// sometimes wrap JSON in markdown fences, so those are stripped first.
func (g *GeminiGenerator) parseResponse(
	ctx context.Context,
	text string,
) (*generation.Example, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var example generation.Example
	if err := json.Unmarshal([]byte(cleaned), &example); err != nil {
		g.logger.WarnContext(ctx, "failed to parse model response",
			"error", err,
			"response_length", len(text))
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v",
			generation.ErrInvalidResponse, err)
	}

	if example.Sentence == "" {
		return nil, fmt.Errorf("%w: missing sentence", generation.ErrInvalidResponse)
	}

	return &example, nil
}
