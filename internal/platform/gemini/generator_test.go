package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veladora/arcana-api/internal/config"
	"github.com/veladora/arcana-api/internal/generation"
	"github.com/veladora/arcana-api/internal/spread"
)

func validLLMConfig(t *testing.T) config.LLMConfig {
	t.Helper()
	return config.LLMConfig{
		GeminiAPIKey:          "test-api-key",
		ModelName:             "gemini-2.0-flash",
		PromptTemplatePath:    writeTemplate(t, "Pregunta: {{.Query}} Cartas: {{.CardCount}}"),
		MaxRetries:            1,
		RetryDelaySeconds:     1,
		RequestTimeoutSeconds: 10,
		OnInvalidOutput:       "fail",
	}
}

func writeTemplate(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reading.tmpl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewGeneratorRequiresLogger(t *testing.T) {
	t.Parallel()

	_, err := NewGenerator(context.Background(), nil, validLLMConfig(t))
	assert.Error(t, err)
}

func TestNewGeneratorConfigValidation(t *testing.T) {
	t.Parallel()

	logger := slog.Default()

	cfg := validLLMConfig(t)
	cfg.GeminiAPIKey = ""
	_, err := NewGenerator(context.Background(), logger, cfg)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	cfg = validLLMConfig(t)
	cfg.ModelName = ""
	_, err = NewGenerator(context.Background(), logger, cfg)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	cfg = validLLMConfig(t)
	cfg.PromptTemplatePath = ""
	_, err = NewGenerator(context.Background(), logger, cfg)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	cfg = validLLMConfig(t)
	cfg.PromptTemplatePath = filepath.Join(t.TempDir(), "missing.tmpl")
	_, err = NewGenerator(context.Background(), logger, cfg)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	cfg = validLLMConfig(t)
	cfg.OnInvalidOutput = "explode"
	_, err = NewGenerator(context.Background(), logger, cfg)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

// promptOnlyGenerator builds a Generator with just enough state for template
// work, without touching the API client.
func promptOnlyGenerator(t *testing.T, templateText string) *Generator {
	t.Helper()

	tmpl, err := template.New("reading").Parse(templateText)
	require.NoError(t, err)

	return &Generator{
		logger:         slog.Default(),
		promptTemplate: tmpl,
		policy:         generation.PolicyFail,
	}
}

func TestCreatePromptSubstitutesSpreadLayout(t *testing.T) {
	t.Parallel()

	g := promptOnlyGenerator(t,
		"{{.SpreadName}}|{{.CardCount}}|{{range .Positions}}{{.Label}};{{end}}|{{.Query}}")

	layout, err := spread.For(3)
	require.NoError(t, err)

	prompt, err := g.createPrompt(context.Background(), "¿Qué me depara el amor?", layout, 3)
	require.NoError(t, err)
	assert.Equal(t, "Triad|3|Past;Present;Future;|¿Qué me depara el amor?", prompt)
}

func TestShippedTemplateRenders(t *testing.T) {
	t.Parallel()

	content, err := os.ReadFile(filepath.Join("..", "..", "..", "prompts", "reading.tmpl"))
	require.NoError(t, err)

	g := promptOnlyGenerator(t, string(content))

	layout, err := spread.For(5)
	require.NoError(t, err)

	prompt, err := g.createPrompt(context.Background(), "¿Debo cambiar de trabajo?", layout, 5)
	require.NoError(t, err)

	assert.Contains(t, prompt, "¿Debo cambiar de trabajo?")
	for _, pos := range layout.Positions {
		assert.Contains(t, prompt, pos.Label)
	}
	assert.Contains(t, prompt, "isReversed")
}

// An empty query is valid: the shipped template switches to the
// read-freely framing instead of quoting a question.
func TestShippedTemplateHandlesEmptyQuery(t *testing.T) {
	t.Parallel()

	content, err := os.ReadFile(filepath.Join("..", "..", "..", "prompts", "reading.tmpl"))
	require.NoError(t, err)

	g := promptOnlyGenerator(t, string(content))

	layout, err := spread.For(3)
	require.NoError(t, err)

	prompt, err := g.createPrompt(context.Background(), "", layout, 3)
	require.NoError(t, err)

	assert.Contains(t, prompt, "hablen libremente")
	assert.NotContains(t, prompt, `""`)
}

func TestGenerateReadingRejectsBadRequests(t *testing.T) {
	t.Parallel()

	// The check fires before the API client is ever touched.
	g := promptOnlyGenerator(t, "{{.Query}}")

	_, err := g.GenerateReading(context.Background(), "¿Qué me espera?", 4)
	assert.ErrorIs(t, err, generation.ErrInvalidRequest)
	assert.ErrorIs(t, err, spread.ErrUnsupportedCardCount)
}

// stubbedGenerator builds a Generator whose model call is replaced by the
// given function, so the retry loop and invalid-output policy run for real.
func stubbedGenerator(
	t *testing.T,
	policy generation.InvalidOutputPolicy,
	invoke func(ctx context.Context, prompt string) (*generation.Response, error),
) *Generator {
	t.Helper()

	g := promptOnlyGenerator(t, "{{.Query}}")
	g.policy = policy
	g.invoke = invoke
	return g
}

func wellFormedResponse(cardCount int) *generation.Response {
	cards := make([]generation.CardResult, 0, cardCount)
	for i := 0; i < cardCount; i++ {
		reversed := i%2 == 0
		cards = append(cards, generation.CardResult{
			Name:       fmt.Sprintf("Carta %d", i+1),
			Position:   fmt.Sprintf("Posición %d", i+1),
			IsReversed: &reversed,
		})
	}

	return &generation.Response{
		Interpretation: "Las cartas hablan con claridad.",
		Cards:          cards,
	}
}

func TestGenerateReadingValidResponsePassesThrough(t *testing.T) {
	t.Parallel()

	g := stubbedGenerator(t, generation.PolicyDegrade,
		func(ctx context.Context, prompt string) (*generation.Response, error) {
			return wellFormedResponse(3), nil
		})

	reading, err := g.GenerateReading(context.Background(), "¿Qué me espera?", 3)
	require.NoError(t, err)
	require.Len(t, reading.Cards, 3)
	assert.Equal(t, "Las cartas hablan con claridad.", reading.Interpretation)
}

func TestGenerateReadingDegradesOnInvalidOutput(t *testing.T) {
	t.Parallel()

	// Model returns 2 cards where 3 were demanded.
	g := stubbedGenerator(t, generation.PolicyDegrade,
		func(ctx context.Context, prompt string) (*generation.Response, error) {
			return wellFormedResponse(2), nil
		})

	reading, err := g.GenerateReading(context.Background(), "¿Qué me espera?", 3)
	require.NoError(t, err)
	assert.Empty(t, reading.Cards)
	assert.Equal(t, generation.DegradedInterpretation, reading.Interpretation)
}

func TestGenerateReadingFailPolicySurfacesInvalidOutput(t *testing.T) {
	t.Parallel()

	g := stubbedGenerator(t, generation.PolicyFail,
		func(ctx context.Context, prompt string) (*generation.Response, error) {
			return wellFormedResponse(2), nil
		})

	_, err := g.GenerateReading(context.Background(), "¿Qué me espera?", 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, generation.ErrInvalidResponse)

	var invalid *generation.InvalidOutputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 3, invalid.ExpectedCards)
	assert.Equal(t, 2, invalid.ActualCards)
}

// Degrade applies to malformed model output only; a transport failure is an
// error under either policy.
func TestGenerateReadingDegradeDoesNotMaskTransportErrors(t *testing.T) {
	t.Parallel()

	g := stubbedGenerator(t, generation.PolicyDegrade,
		func(ctx context.Context, prompt string) (*generation.Response, error) {
			return nil, fmt.Errorf("%w: connection reset", generation.ErrTransientFailure)
		})

	reading, err := g.GenerateReading(context.Background(), "¿Qué me espera?", 3)
	assert.Nil(t, reading)
	assert.ErrorIs(t, err, generation.ErrTransientFailure)
}

func TestGenerateReadingRetriesTransientFailures(t *testing.T) {
	t.Parallel()

	calls := 0
	g := stubbedGenerator(t, generation.PolicyFail,
		func(ctx context.Context, prompt string) (*generation.Response, error) {
			calls++
			if calls == 1 {
				return nil, fmt.Errorf("%w: connection reset", generation.ErrTransientFailure)
			}
			return wellFormedResponse(3), nil
		})
	g.config.MaxRetries = 1

	reading, err := g.GenerateReading(context.Background(), "¿Qué me espera?", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, reading.Cards, 3)
}

func TestGenerateReadingDoesNotRetryContentBlocks(t *testing.T) {
	t.Parallel()

	calls := 0
	g := stubbedGenerator(t, generation.PolicyFail,
		func(ctx context.Context, prompt string) (*generation.Response, error) {
			calls++
			return nil, fmt.Errorf("%w: finish reason safety", generation.ErrContentBlocked)
		})
	g.config.MaxRetries = 3

	_, err := g.GenerateReading(context.Background(), "¿Qué me espera?", 3)
	assert.ErrorIs(t, err, generation.ErrContentBlocked)
	assert.Equal(t, 1, calls)
}

func TestCleanJSONBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}\n", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cleanJSONBlock(tt.input))
		})
	}
}
