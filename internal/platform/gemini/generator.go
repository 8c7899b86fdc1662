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
	"os"
	"strings"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/veladora/arcana-api/internal/config"
	"github.com/veladora/arcana-api/internal/domain"
	"github.com/veladora/arcana-api/internal/generation"
	"github.com/veladora/arcana-api/internal/spread"
)

// Generator implements the generation.Generator interface using
// Google's Gemini API to generate tarot readings.
type Generator struct {
	// logger is used for structured logging
	logger *slog.Logger

	// config contains LLM-specific configuration
	config config.LLMConfig

	// promptTemplate is the parsed template for creating prompts
	promptTemplate *template.Template

	// client is the Gemini API client for making requests
	client *genai.Client

	// model is the name of the Gemini model to use
	model string

	// policy selects what happens when the model output fails validation
	policy generation.InvalidOutputPolicy

	// invoke performs a single model call. It defaults to callGemini and is
	// replaceable in tests to exercise the retry and policy paths without a
	// live client.
	invoke func(ctx context.Context, prompt string) (*generation.Response, error)
}

// Ensure Generator implements generation.Generator
var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a new Generator with the provided dependencies.
// It validates the configuration, loads and parses the prompt template, and
// initializes the Gemini API client.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.PromptTemplatePath == "" {
		return nil, fmt.Errorf("%w: prompt template path cannot be empty", generation.ErrInvalidConfig)
	}

	policy, err := generation.ParseInvalidOutputPolicy(cfg.OnInvalidOutput)
	if err != nil {
		return nil, err
	}

	templateContent, err := os.ReadFile(cfg.PromptTemplatePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
			generation.ErrInvalidConfig, cfg.PromptTemplatePath, err)
	}

	promptTemplate, err := template.New("reading").Parse(string(templateContent))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	g := &Generator{
		logger:         logger.With(slog.String("component", "gemini_generator")),
		config:         cfg,
		promptTemplate: promptTemplate,
		client:         client,
		model:          cfg.ModelName,
		policy:         policy,
	}
	g.invoke = g.callGemini

	return g, nil
}

// GenerateReading implements generation.Generator.GenerateReading.
//
// The spread is resolved before the model is contacted, so an unsupported
// card count never costs an API call. Validation failures are handled per
// the configured invalid-output policy.
func (g *Generator) GenerateReading(
	ctx context.Context,
	query string,
	cardCount int,
) (*domain.Reading, error) {
	layout, err := spread.For(cardCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", generation.ErrInvalidRequest, err)
	}

	prompt, err := g.createPrompt(ctx, query, layout, cardCount)
	if err != nil {
		return nil, err
	}

	if g.config.RequestTimeoutSeconds > 0 {
		var cancel context.CancelFunc
		timeout := time.Duration(g.config.RequestTimeoutSeconds) * time.Second
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	response, err := g.callGeminiWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return g.resolveReading(ctx, response, cardCount)
}

// resolveReading validates the model response and applies the configured
// invalid-output policy. Only validation failures degrade; transport errors
// never reach this step and always surface as errors.
func (g *Generator) resolveReading(
	ctx context.Context,
	response *generation.Response,
	cardCount int,
) (*domain.Reading, error) {
	reading, err := generation.ValidateResponse(response, cardCount)
	if err != nil {
		var invalid *generation.InvalidOutputError
		if errors.As(err, &invalid) && g.policy == generation.PolicyDegrade {
			g.logger.WarnContext(ctx, "model output failed validation, degrading",
				slog.String("reason", invalid.Reason),
				slog.Int("expected_cards", invalid.ExpectedCards),
				slog.Int("actual_cards", invalid.ActualCards))
			return generation.DegradedReading(), nil
		}
		return nil, err
	}

	return reading, nil
}

// createPrompt generates a prompt string from the template with the querent's
// question and the resolved spread layout.
func (g *Generator) createPrompt(
	ctx context.Context,
	query string,
	layout spread.Spread,
	cardCount int,
) (string, error) {
	data := promptData{
		Query:      query,
		CardCount:  cardCount,
		SpreadName: layout.Name,
		Positions:  layout.Positions,
	}

	var promptBuffer bytes.Buffer
	if err := g.promptTemplate.Execute(&promptBuffer, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	prompt := promptBuffer.String()
	g.logger.DebugContext(ctx, "prompt generated from template",
		slog.Int("prompt_length", len(prompt)),
		slog.Int("card_count", cardCount))

	return prompt, nil
}

// callGeminiWithRetry makes a call to the Gemini API with exponential backoff
// retry logic. Transient errors (network, provider availability) are retried
// up to config.MaxRetries times; permanent errors (content blocked, malformed
// output) are returned immediately. A malformed-but-parseable response is a
// validation concern, never a retry trigger.
func (g *Generator) callGeminiWithRetry(ctx context.Context, prompt string) (*generation.Response, error) {
	maxRetries := g.config.MaxRetries
	baseDelaySeconds := g.config.RetryDelaySeconds
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 1
	}

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		g.logger.DebugContext(ctx, "calling Gemini API",
			slog.Int("attempt", attemptNum),
			slog.Int("max_attempts", maxRetries+1))

		response, err := g.invoke(ctx, prompt)
		if err == nil {
			return response, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			slog.Int("attempt", attemptNum),
			slog.String("error", err.Error()))

		// Permanent errors are never retried.
		if errors.Is(err, generation.ErrContentBlocked) ||
			errors.Is(err, generation.ErrInvalidResponse) {
			return nil, err
		}

		if attempt >= maxRetries {
			return nil, fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, maxRetries, err)
		}

		// Exponential backoff with jitter:
		// delay = baseDelay * (2^attempt) * (0.5 + rand(0, 0.5))
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoffSeconds * jitterFactor * float64(time.Second))

		g.logger.InfoContext(ctx, "retrying after delay",
			slog.Int("attempt", attemptNum),
			slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// callGemini performs a single Gemini API call and decodes the JSON payload
// into the wire Response.
func (g *Generator) callGemini(ctx context.Context, prompt string) (*generation.Response, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   readingSchema,
		})
	if err != nil {
		// API-level failures are assumed transient; the retry loop decides
		// whether to give up.
		return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: finish reason safety", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return nil, fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}

	cleaned := cleanJSONBlock(sb.String())

	var parsed generation.Response
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v",
			generation.ErrInvalidResponse, err)
	}

	return &parsed, nil
}

// cleanJSONBlock strips Markdown code fences the model sometimes wraps
// around its JSON payload.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}
