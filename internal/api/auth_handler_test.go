package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veladora/arcana-api/internal/domain"
	"github.com/veladora/arcana-api/internal/service/auth"
	"github.com/veladora/arcana-api/internal/store"
)

// mockUserStore keeps users in a map keyed by email.
type mockUserStore struct {
	users     map[string]*domain.User
	createErr error
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[string]*domain.User)}
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.users[user.Email]; exists {
		return store.ErrEmailExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return u, nil
}

// mockJWTService issues predictable token strings.
type mockJWTService struct {
	generateErr error
	claims      *auth.Claims
	validateErr error
}

func (m *mockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return "access-" + userID.String(), nil
}

func (m *mockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.validateErr != nil {
		return nil, m.validateErr
	}
	return m.claims, nil
}

func (m *mockJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return "refresh-" + userID.String(), nil
}

func (m *mockJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.validateErr != nil {
		return nil, m.validateErr
	}
	return m.claims, nil
}

// mockPasswordVerifier accepts a single expected plaintext password.
type mockPasswordVerifier struct {
	accept string
}

func (m *mockPasswordVerifier) Compare(hashedPassword, password string) error {
	if password == m.accept {
		return nil
	}
	return errors.New("password mismatch")
}

func newAuthTestHandler(userStore store.UserStore, jwt auth.JWTService, verifier auth.PasswordVerifier) *AuthHandler {
	return NewAuthHandler(userStore, jwt, verifier)
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestRegisterSuccess(t *testing.T) {
	t.Parallel()

	users := newMockUserStore()
	handler := newAuthTestHandler(users, &mockJWTService{}, &mockPasswordVerifier{})

	rec := postJSON(t, handler.Register, "/auth/register", RegisterRequest{
		Email:    "consulta@example.com",
		Password: "una-frase-larga-y-segura",
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEqual(t, uuid.Nil, resp.UserID)
	assert.Equal(t, "access-"+resp.UserID.String(), resp.AccessToken)
	assert.Equal(t, "refresh-"+resp.UserID.String(), resp.RefreshToken)

	created, err := users.GetByEmail(context.Background(), "consulta@example.com")
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, created.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	users := newMockUserStore()
	handler := newAuthTestHandler(users, &mockJWTService{}, &mockPasswordVerifier{})

	payload := RegisterRequest{Email: "consulta@example.com", Password: "una-frase-larga-y-segura"}
	rec := postJSON(t, handler.Register, "/auth/register", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, handler.Register, "/auth/register", payload)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	handler := newAuthTestHandler(newMockUserStore(), &mockJWTService{}, &mockPasswordVerifier{})

	tests := []struct {
		name    string
		payload RegisterRequest
	}{
		{"bad email", RegisterRequest{Email: "not-an-email", Password: "una-frase-larga-y-segura"}},
		{"short password", RegisterRequest{Email: "consulta@example.com", Password: "corta"}},
		{"empty", RegisterRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := postJSON(t, handler.Register, "/auth/register", tt.payload)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRegisterTokenFailure(t *testing.T) {
	t.Parallel()

	handler := newAuthTestHandler(
		newMockUserStore(),
		&mockJWTService{generateErr: errors.New("signing failed")},
		&mockPasswordVerifier{},
	)

	rec := postJSON(t, handler.Register, "/auth/register", RegisterRequest{
		Email:    "consulta@example.com",
		Password: "una-frase-larga-y-segura",
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	users := newMockUserStore()
	user, err := domain.NewUser("consulta@example.com", "una-frase-larga-y-segura")
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), user))

	handler := newAuthTestHandler(users, &mockJWTService{}, &mockPasswordVerifier{accept: "una-frase-larga-y-segura"})

	rec := postJSON(t, handler.Login, "/auth/login", LoginRequest{
		Email:    "consulta@example.com",
		Password: "una-frase-larga-y-segura",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, user.ID, resp.UserID)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()

	users := newMockUserStore()
	user, err := domain.NewUser("consulta@example.com", "una-frase-larga-y-segura")
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), user))

	handler := newAuthTestHandler(users, &mockJWTService{}, &mockPasswordVerifier{accept: "una-frase-larga-y-segura"})

	// Wrong password and unknown email must be indistinguishable.
	wrongPassword := postJSON(t, handler.Login, "/auth/login", LoginRequest{
		Email:    "consulta@example.com",
		Password: "otra-contraseña-cualquiera",
	})
	unknownEmail := postJSON(t, handler.Login, "/auth/login", LoginRequest{
		Email:    "nadie@example.com",
		Password: "una-frase-larga-y-segura",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestRefreshTokenSuccess(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	handler := newAuthTestHandler(
		newMockUserStore(),
		&mockJWTService{claims: &auth.Claims{UserID: userID, TokenType: "refresh"}},
		&mockPasswordVerifier{},
	)

	rec := postJSON(t, handler.RefreshToken, "/auth/refresh", RefreshTokenRequest{
		RefreshToken: "refresh-" + userID.String(),
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp RefreshTokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "access-"+userID.String(), resp.AccessToken)
	assert.Equal(t, "refresh-"+userID.String(), resp.RefreshToken)
}

func TestRefreshTokenRejectsInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"expired", auth.ErrExpiredRefreshToken, http.StatusUnauthorized},
		{"invalid", auth.ErrInvalidRefreshToken, http.StatusUnauthorized},
		{"wrong type", auth.ErrWrongTokenType, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := newAuthTestHandler(
				newMockUserStore(),
				&mockJWTService{validateErr: tt.err},
				&mockPasswordVerifier{},
			)

			rec := postJSON(t, handler.RefreshToken, "/auth/refresh", RefreshTokenRequest{
				RefreshToken: "whatever",
			})
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
