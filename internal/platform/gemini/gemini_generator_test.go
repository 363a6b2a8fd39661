//go:build !test_without_external_deps
// +build !test_without_external_deps

package gemini

import (
	"context"
	"log/slog"
	"testing"
	"text/template"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PengWorks1114/vocabularydb/internal/config"
	"github.com/PengWorks1114/vocabularydb/internal/domain"
	"github.com/PengWorks1114/vocabularydb/internal/generation"
)

// newOfflineGenerator builds a generator without a live API client, enough
// for exercising prompt rendering and response parsing.
func newOfflineGenerator(t *testing.T) *GeminiGenerator {
	t.Helper()

	tmpl, err := template.New("example").Parse(promptTemplateSrc)
	require.NoError(t, err)

	return &GeminiGenerator{
		logger:         slog.Default(),
		promptTemplate: tmpl,
		model:          defaultModelName,
	}
}

func TestNewGeminiGeneratorValidation(t *testing.T) {
	ctx := context.Background()

	_, err := NewGeminiGenerator(ctx, nil, config.LLMConfig{GeminiAPIKey: "key"})
	assert.Error(t, err)

	_, err = NewGeminiGenerator(ctx, slog.Default(), config.LLMConfig{})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestCreatePrompt(t *testing.T) {
	g := newOfflineGenerator(t)
	ctx := context.Background()

	word := &domain.Word{
		ID:           uuid.New(),
		Headword:     "laufen",
		Translation:  "to run",
		PartOfSpeech: "verb",
	}

	prompt, err := g.createPrompt(ctx, word)
	require.NoError(t, err)
	assert.Contains(t, prompt, `"laufen"`)
	assert.Contains(t, prompt, "to run")
	assert.Contains(t, prompt, "as a verb")

	// The part of speech clause disappears when unset.
	word.PartOfSpeech = ""
	prompt, err = g.createPrompt(ctx, word)
	require.NoError(t, err)
	assert.NotContains(t, prompt, "as a")

	word.Headword = ""
	_, err = g.createPrompt(ctx, word)
	assert.ErrorIs(t, err, ErrEmptyHeadword)
}

func TestParseResponse(t *testing.T) {
	g := newOfflineGenerator(t)
	ctx := context.Background()

	testCases := []struct {
		name     string
		text     string
		sentence string
		wantErr  error
	}{
		{
			name:     "plain json",
			text:     `{"sentence": "Ich laufe jeden Morgen.", "translation": "I run every morning."}`,
			sentence: "Ich laufe jeden Morgen.",
		},
		{
			name:     "fenced json",
			text:     "```json\n{\"sentence\": \"Er läuft schnell.\", \"translation\": \"He runs fast.\"}\n```",
			sentence: "Er läuft schnell.",
		},
		{
			name:    "missing sentence",
			text:    `{"translation": "only half"}`,
			wantErr: generation.ErrInvalidResponse,
		},
		{
			name:    "not json",
			text:    "Sure! Here is an example sentence: Ich laufe.",
			wantErr: generation.ErrInvalidResponse,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			example, err := g.parseResponse(ctx, tc.text)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.sentence, example.Sentence)
			assert.NotEmpty(t, example.Translation)
		})
	}
}
