// Package googletts implements the speech.Synthesizer interface against the
// Google Cloud Text-to-Speech REST API.
package googletts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/veladora/arcana-api/internal/config"
	"github.com/veladora/arcana-api/internal/speech"
)

// synthesizeEndpoint is the Google Cloud Text-to-Speech REST endpoint.
const synthesizeEndpoint = "https://texttospeech.googleapis.com/v1/text:synthesize"

// audioDataURIPrefix is prepended to the base64 audio content so browsers can
// play the result directly from the JSON payload.
const audioDataURIPrefix = "data:audio/mp3;base64,"

// Synthesizer calls the Google Cloud Text-to-Speech API over REST.
type Synthesizer struct {
	apiKey       string
	voiceName    string
	languageCode string
	endpoint     string
	client       *http.Client
	logger       *slog.Logger
}

// Ensure Synthesizer implements speech.Synthesizer
var _ speech.Synthesizer = (*Synthesizer)(nil)

// NewSynthesizer creates a Synthesizer from TTS configuration.
// If logger is nil, the default logger is used.
func NewSynthesizer(cfg config.TTSConfig, logger *slog.Logger) (*Synthesizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing API key", speech.ErrSynthesisFailed)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Synthesizer{
		apiKey:       cfg.APIKey,
		voiceName:    cfg.VoiceName,
		languageCode: cfg.LanguageCode,
		endpoint:     synthesizeEndpoint,
		client: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		},
		logger: logger.With(slog.String("component", "googletts")),
	}, nil
}

// synthesizeRequest is the wire shape of a synthesis request.
type synthesizeRequest struct {
	Input       synthesisInput `json:"input"`
	Voice       voiceSelection `json:"voice"`
	AudioConfig audioConfig    `json:"audioConfig"`
}

type synthesisInput struct {
	Text string `json:"text"`
}

type voiceSelection struct {
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name"`
}

type audioConfig struct {
	AudioEncoding string `json:"audioEncoding"`
}

// synthesizeResponse is the wire shape of a synthesis response. AudioContent
// is base64-encoded MP3 bytes.
type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// Synthesize implements speech.Synthesizer.Synthesize.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", speech.ErrEmptyText
	}

	body, err := json.Marshal(synthesizeRequest{
		Input: synthesisInput{Text: text},
		Voice: voiceSelection{
			LanguageCode: s.languageCode,
			Name:         s.voiceName,
		},
		AudioConfig: audioConfig{AudioEncoding: "MP3"},
	})
	if err != nil {
		return "", fmt.Errorf("%w: encoding request: %v", speech.ErrSynthesisFailed, err)
	}

	// The API key travels as a query parameter, matching the REST API's
	// key-based auth mode.
	endpoint := s.endpoint + "?key=" + url.QueryEscape(s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: building request: %v", speech.ErrSynthesisFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("text-to-speech request failed",
			slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %v", speech.ErrSynthesisFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		// Read a bounded slice of the body for the log; provider error bodies
		// are small JSON documents.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		s.logger.Error("text-to-speech request rejected",
			slog.Int("status", resp.StatusCode),
			slog.String("detail", string(detail)))
		return "", fmt.Errorf("%w: provider returned status %d", speech.ErrSynthesisFailed, resp.StatusCode)
	}

	var parsed synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", speech.ErrSynthesisFailed, err)
	}

	if parsed.AudioContent == "" {
		return "", fmt.Errorf("%w: response carried no audio content", speech.ErrSynthesisFailed)
	}

	return audioDataURIPrefix + parsed.AudioContent, nil
}
