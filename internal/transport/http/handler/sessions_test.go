package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-auth-trust/internal/domain"
	"github.com/go-auth-trust/internal/transport/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSessionService struct{ mock.Mock }

func (m *mockSessionService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Profile, error) {
	args := m.Called(ctx, req)
	if p, _ := args.Get(0).(*domain.Profile); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSessionService) Login(ctx context.Context, req domain.LoginRequest) (string, *domain.Profile, error) {
	args := m.Called(ctx, req)
	if p, _ := args.Get(1).(*domain.Profile); p != nil {
		return args.String(0), p, args.Error(2)
	}
	return args.String(0), nil, args.Error(2)
}

func testCookies() CookieConfig {
	return CookieConfig{Domain: "localhost", TTL: 24 * time.Hour}
}

func sessionCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// --- Login ---

func TestLogin_SetsCookieAndReturnsProfile(t *testing.T) {
	svc := &mockSessionService{}
	svc.On("Login", mock.Anything, domain.LoginRequest{Email: "test@test.com", Password: "Testing123"}).
		Return("session-token", &domain.Profile{AccountID: "acc1", Email: "test@test.com", Role: domain.RoleUnverified}, nil)
	h := NewSessionHandler(svc, testCookies())

	req := httptest.NewRequest(http.MethodPost, "/v1/login",
		strings.NewReader(`{"email":"test@test.com","password":"Testing123"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookieFrom(t, rec)
	require.NotNil(t, cookie)
	assert.Equal(t, "session-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, int((24 * time.Hour).Seconds()), cookie.MaxAge)

	body := decodeBody(t, rec)
	profile, ok := body["profile"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "UNVERIFIED", profile["role"])
}

func TestLogin_InvalidCredentials_Uniform400(t *testing.T) {
	svc := &mockSessionService{}
	svc.On("Login", mock.Anything, mock.Anything).
		Return("", nil, domain.E(domain.ErrBadRequest, "Invalid username or password"))
	h := NewSessionHandler(svc, testCookies())

	req := httptest.NewRequest(http.MethodPost, "/v1/login",
		strings.NewReader(`{"email":"test@test.com","password":"Wrong1234"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid username or password", decodeBody(t, rec)["error"])
	assert.Nil(t, sessionCookieFrom(t, rec))
}

func TestLogin_MalformedBody(t *testing.T) {
	h := NewSessionHandler(&mockSessionService{}, testCookies())

	req := httptest.NewRequest(http.MethodPost, "/v1/login", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- Logout ---

func TestLogout_AlwaysClearsCookie(t *testing.T) {
	h := NewSessionHandler(&mockSessionService{}, testCookies())

	req := httptest.NewRequest(http.MethodPost, "/v1/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logged out", decodeBody(t, rec)["message"])
	cookie := sessionCookieFrom(t, rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
}

// --- Register ---

func TestRegister_Created(t *testing.T) {
	svc := &mockSessionService{}
	svc.On("Register", mock.Anything, mock.MatchedBy(func(req domain.RegisterRequest) bool {
		return req.Email == "test@test.com"
	})).Return(&domain.Profile{AccountID: "acc1", Email: "test@test.com", Role: domain.RoleUnverified}, nil)
	h := NewSessionHandler(svc, testCookies())

	req := httptest.NewRequest(http.MethodPost, "/v1/register",
		strings.NewReader(`{"name":"Test","surname":"Tester","email":"test@test.com","password":"Testing123"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Account created", body["message"])
	// Registration never starts a session.
	assert.Nil(t, sessionCookieFrom(t, rec))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := &mockSessionService{}
	svc.On("Register", mock.Anything, mock.Anything).
		Return(nil, domain.E(domain.ErrBadRequest, "Email already registered"))
	h := NewSessionHandler(svc, testCookies())

	req := httptest.NewRequest(http.MethodPost, "/v1/register",
		strings.NewReader(`{"name":"Test","surname":"Tester","email":"test@test.com","password":"Testing123"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered", decodeBody(t, rec)["error"])
}

func TestRegister_DependencyFailure_Generic500(t *testing.T) {
	svc := &mockSessionService{}
	svc.On("Register", mock.Anything, mock.Anything).Return(nil, domain.ErrDependency)
	h := NewSessionHandler(svc, testCookies())

	req := httptest.NewRequest(http.MethodPost, "/v1/register",
		strings.NewReader(`{"name":"Test","surname":"Tester","email":"test@test.com","password":"Testing123"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decodeBody(t, rec)["error"])
}
