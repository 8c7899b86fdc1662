package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veladora/arcana-api/internal/api/shared"
	"github.com/veladora/arcana-api/internal/domain"
	"github.com/veladora/arcana-api/internal/generation"
	"github.com/veladora/arcana-api/internal/store"
)

// mockReadingService serves canned readings and records arguments.
type mockReadingService struct {
	created   *domain.UserReading
	createErr error
	got       *domain.UserReading
	getErr    error
	listed    []*domain.UserReading
	listErr   error
	deleteErr error

	lastUserID    uuid.UUID
	lastQuery     string
	lastCardCount int
}

func (m *mockReadingService) CreateReading(
	ctx context.Context,
	userID uuid.UUID,
	query string,
	cardCount int,
) (*domain.UserReading, error) {
	m.lastUserID = userID
	m.lastQuery = query
	m.lastCardCount = cardCount
	return m.created, m.createErr
}

func (m *mockReadingService) GetReading(
	ctx context.Context,
	userID, id uuid.UUID,
) (*domain.UserReading, error) {
	m.lastUserID = userID
	return m.got, m.getErr
}

func (m *mockReadingService) ListReadings(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.UserReading, error) {
	m.lastUserID = userID
	return m.listed, m.listErr
}

func (m *mockReadingService) DeleteReading(ctx context.Context, userID, id uuid.UUID) error {
	m.lastUserID = userID
	return m.deleteErr
}

func sampleUserReading(userID uuid.UUID) *domain.UserReading {
	return &domain.UserReading{
		ID:             uuid.New(),
		UserID:         userID,
		Query:          "¿Qué me espera?",
		Interpretation: "Las cartas anuncian claridad.",
		Cards: []domain.SavedCard{
			{
				DrawnCard: domain.DrawnCard{Name: "El Sol", Position: "Past", IsReversed: false},
				ImagePath: "/tarot-cards/the_sun.png",
			},
			{
				DrawnCard: domain.DrawnCard{Name: "La Luna", Position: "Present", IsReversed: true},
				ImagePath: "/tarot-cards/the_moon.png",
			},
			{
				DrawnCard: domain.DrawnCard{Name: "La Estrella", Position: "Future", IsReversed: false},
				ImagePath: "/tarot-cards/the_star.png",
			},
		},
		CreatedAt: time.Now().UTC(),
	}
}

// authedRequest builds a request carrying an authenticated user ID, as the
// auth middleware would.
func authedRequest(method, target string, body []byte, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

func TestCreateReadingHandlerSuccess(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := &mockReadingService{created: sampleUserReading(userID)}
	handler := NewReadingHandler(svc)

	body, _ := json.Marshal(CreateReadingRequest{Query: "¿Qué me espera?", CardCount: 3})
	req := authedRequest(http.MethodPost, "/api/readings", body, userID)
	rec := httptest.NewRecorder()

	handler.CreateReading(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, userID, svc.lastUserID)
	assert.Equal(t, 3, svc.lastCardCount)

	var resp ReadingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Las cartas anuncian claridad.", resp.Interpretation)
	require.Len(t, resp.Cards, 3)
	assert.Equal(t, "El Sol", resp.Cards[0].Name)
	assert.True(t, resp.Cards[1].IsReversed)
	assert.Equal(t, "/tarot-cards/the_moon.png", resp.Cards[1].ImagePath)
}

// An empty query is a valid consultation: the cards speak freely.
func TestCreateReadingHandlerAcceptsEmptyQuery(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := &mockReadingService{created: sampleUserReading(userID)}
	handler := NewReadingHandler(svc)

	body, _ := json.Marshal(CreateReadingRequest{Query: "", CardCount: 3})
	req := authedRequest(http.MethodPost, "/api/readings", body, userID)
	rec := httptest.NewRecorder()

	handler.CreateReading(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "", svc.lastQuery)
}

func TestCreateReadingHandlerUnsupportedCount(t *testing.T) {
	t.Parallel()

	svc := &mockReadingService{}
	handler := NewReadingHandler(svc)

	body, _ := json.Marshal(CreateReadingRequest{Query: "¿Qué me espera?", CardCount: 4})
	req := authedRequest(http.MethodPost, "/api/readings", body, uuid.New())
	rec := httptest.NewRecorder()

	handler.CreateReading(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	// The service is never consulted for an uncataloged spread.
	assert.Equal(t, 0, svc.lastCardCount)
}

func TestCreateReadingHandlerRequiresAuth(t *testing.T) {
	t.Parallel()

	handler := NewReadingHandler(&mockReadingService{})

	body, _ := json.Marshal(CreateReadingRequest{Query: "¿Qué me espera?", CardCount: 3})
	req := httptest.NewRequest(http.MethodPost, "/api/readings", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.CreateReading(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateReadingHandlerValidation(t *testing.T) {
	t.Parallel()

	handler := NewReadingHandler(&mockReadingService{})

	// Query over the length cap.
	body, _ := json.Marshal(CreateReadingRequest{
		Query:     strings.Repeat("x", 1001),
		CardCount: 3,
	})
	req := authedRequest(http.MethodPost, "/api/readings", body, uuid.New())
	rec := httptest.NewRecorder()
	handler.CreateReading(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Malformed JSON.
	req = authedRequest(http.MethodPost, "/api/readings", []byte("{not json"), uuid.New())
	rec = httptest.NewRecorder()
	handler.CreateReading(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateReadingHandlerServiceErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid model output", &generation.InvalidOutputError{ExpectedCards: 3, CardIndex: -1}, http.StatusBadGateway},
		{"transient", generation.ErrTransientFailure, http.StatusServiceUnavailable},
		{"blocked", generation.ErrContentBlocked, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := NewReadingHandler(&mockReadingService{createErr: tt.err})
			body, _ := json.Marshal(CreateReadingRequest{Query: "¿Qué me espera?", CardCount: 3})
			req := authedRequest(http.MethodPost, "/api/readings", body, uuid.New())
			rec := httptest.NewRecorder()

			handler.CreateReading(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestListReadingsHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := &mockReadingService{listed: []*domain.UserReading{sampleUserReading(userID)}}
	handler := NewReadingHandler(svc)

	req := authedRequest(http.MethodGet, "/api/readings?limit=10&offset=0", nil, userID)
	rec := httptest.NewRecorder()

	handler.ListReadings(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ReadingListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Readings, 1)
	assert.Equal(t, "¿Qué me espera?", resp.Readings[0].Query)
}

// withChiParam attaches a chi route parameter to the request context.
func withChiParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestGetReadingHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	reading := sampleUserReading(userID)
	handler := NewReadingHandler(&mockReadingService{got: reading})

	req := authedRequest(http.MethodGet, "/api/readings/"+reading.ID.String(), nil, userID)
	req = withChiParam(req, "id", reading.ID.String())
	rec := httptest.NewRecorder()

	handler.GetReading(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ReadingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, reading.ID, resp.ID)
}

func TestGetReadingHandlerNotFound(t *testing.T) {
	t.Parallel()

	handler := NewReadingHandler(&mockReadingService{getErr: store.ErrReadingNotFound})

	id := uuid.New().String()
	req := authedRequest(http.MethodGet, "/api/readings/"+id, nil, uuid.New())
	req = withChiParam(req, "id", id)
	rec := httptest.NewRecorder()

	handler.GetReading(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetReadingHandlerBadID(t *testing.T) {
	t.Parallel()

	handler := NewReadingHandler(&mockReadingService{})

	req := authedRequest(http.MethodGet, "/api/readings/not-a-uuid", nil, uuid.New())
	req = withChiParam(req, "id", "not-a-uuid")
	rec := httptest.NewRecorder()

	handler.GetReading(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteReadingHandler(t *testing.T) {
	t.Parallel()

	handler := NewReadingHandler(&mockReadingService{})

	id := uuid.New().String()
	req := authedRequest(http.MethodDelete, "/api/readings/"+id, nil, uuid.New())
	req = withChiParam(req, "id", id)
	rec := httptest.NewRecorder()

	handler.DeleteReading(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
