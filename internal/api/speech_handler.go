package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/veladora/arcana-api/internal/api/shared"
	"github.com/veladora/arcana-api/internal/platform/logger"
	"github.com/veladora/arcana-api/internal/redact"
	"github.com/veladora/arcana-api/internal/speech"
)

// SpeechHandler handles narration API requests.
type SpeechHandler struct {
	synthesizer speech.Synthesizer
	validator   *validator.Validate
}

// NewSpeechHandler creates a new SpeechHandler with the given dependencies.
func NewSpeechHandler(synthesizer speech.Synthesizer) *SpeechHandler {
	return &SpeechHandler{
		synthesizer: synthesizer,
		validator:   validator.New(),
	}
}

// Synthesize handles POST /speech. A synthesis failure is reported inside a
// 200 response as {"error": ...} rather than as an HTTP error: narration is
// an enhancement, and clients render the reading with or without audio.
func (h *SpeechHandler) Synthesize(w http.ResponseWriter, r *http.Request) {
	var req SynthesizeRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	audioDataURI, err := h.synthesizer.Synthesize(r.Context(), req.Text)
	if err != nil {
		logger.FromContextOrDefault(r.Context()).Error("speech synthesis failed",
			slog.String("error", redact.Error(err)))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, speech.NewResult(audioDataURI, err))
}
