package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/veladora/arcana-api/internal/api/shared"
	"github.com/veladora/arcana-api/internal/domain"
	"github.com/veladora/arcana-api/internal/spread"
)

// ReadingService is the consultation surface the handler depends on.
// Implemented by service.ReadingService.
type ReadingService interface {
	CreateReading(ctx context.Context, userID uuid.UUID, query string, cardCount int) (*domain.UserReading, error)
	GetReading(ctx context.Context, userID, id uuid.UUID) (*domain.UserReading, error)
	ListReadings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.UserReading, error)
	DeleteReading(ctx context.Context, userID, id uuid.UUID) error
}

// ReadingHandler handles reading-related API requests.
type ReadingHandler struct {
	readingService ReadingService
	validator      *validator.Validate
}

// NewReadingHandler creates a new ReadingHandler with the given dependencies.
func NewReadingHandler(readingService ReadingService) *ReadingHandler {
	return &ReadingHandler{
		readingService: readingService,
		validator:      validator.New(),
	}
}

// CreateReading handles POST /readings: it runs a full consultation for the
// authenticated user and returns the completed reading.
func (h *ReadingHandler) CreateReading(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateReadingRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	// Reject unsupported spreads before the reading service spends a model
	// call on them.
	if !spread.IsSupported(req.CardCount) {
		HandleAPIError(w, r, spread.ErrUnsupportedCardCount, "")
		return
	}

	reading, err := h.readingService.CreateReading(r.Context(), userID, req.Query, req.CardCount)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewReadingResponse(reading))
}

// ListReadings handles GET /readings: a page of the authenticated user's
// readings, newest first. Pagination comes from the limit and offset query
// parameters.
func (h *ReadingHandler) ListReadings(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	readings, err := h.readingService.ListReadings(r.Context(), userID, limit, offset)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	response := ReadingListResponse{Readings: make([]ReadingResponse, 0, len(readings))}
	for _, reading := range readings {
		response.Readings = append(response.Readings, NewReadingResponse(reading))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// GetReading handles GET /readings/{id}.
func (h *ReadingHandler) GetReading(w http.ResponseWriter, r *http.Request) {
	userID, readingID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	reading, err := h.readingService.GetReading(r.Context(), userID, readingID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewReadingResponse(reading))
}

// DeleteReading handles DELETE /readings/{id}.
func (h *ReadingHandler) DeleteReading(w http.ResponseWriter, r *http.Request) {
	userID, readingID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.readingService.DeleteReading(r.Context(), userID, readingID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// queryInt reads an integer query parameter, returning the fallback for
// missing or malformed values.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
