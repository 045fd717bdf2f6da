package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coinsage/coinsage-backend/internal/service"
	"github.com/coinsage/coinsage-backend/internal/testutil"
	"github.com/coinsage/coinsage-backend/internal/util"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

type authHandlerFixture struct {
	handler  *AuthHandler
	sessions *testutil.MockSessionRepository
}

func newAuthHandlerFixture(t *testing.T) *authHandlerFixture {
	t.Helper()
	users := testutil.NewMockUserRepository()
	sessions := testutil.NewMockSessionRepository()
	clock := util.FixedClock{Instant: handlerTestNow}
	authService := service.NewAuthService(users, sessions, clock, bcrypt.MinCost)
	return &authHandlerFixture{
		handler:  NewAuthHandler(authService),
		sessions: sessions,
	}
}

func (f *authHandlerFixture) request(t *testing.T, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRegister_Success(t *testing.T) {
	f := newAuthHandlerFixture(t)

	c, rec := f.request(t, "/api/v1/auth/register", `{"email": "alice@example.com", "password": "correct horse"}`)
	if err := f.handler.Register(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rec.Code)
	}

	var response UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Email != "alice@example.com" {
		t.Errorf("Expected normalized email, got %s", response.Email)
	}
	if response.ID == "" {
		t.Error("Expected an assigned ID")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newAuthHandlerFixture(t)

	body := `{"email": "alice@example.com", "password": "correct horse"}`
	c, _ := f.request(t, "/api/v1/auth/register", body)
	if err := f.handler.Register(c); err != nil {
		t.Fatalf("First registration failed: %v", err)
	}

	c, rec := f.request(t, "/api/v1/auth/register", body)
	if err := f.handler.Register(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}
}

func TestRegister_WeakPassword(t *testing.T) {
	f := newAuthHandlerFixture(t)

	c, rec := f.request(t, "/api/v1/auth/register", `{"email": "alice@example.com", "password": "short"}`)
	if err := f.handler.Register(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestLogin_Success(t *testing.T) {
	f := newAuthHandlerFixture(t)

	c, _ := f.request(t, "/api/v1/auth/register", `{"email": "alice@example.com", "password": "correct horse"}`)
	if err := f.handler.Register(c); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	c, rec := f.request(t, "/api/v1/auth/login", `{"email": "alice@example.com", "password": "correct horse"}`)
	if err := f.handler.Login(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Token == "" {
		t.Error("Expected a session token")
	}
	if response.User.Email != "alice@example.com" {
		t.Errorf("Expected the user in the response, got %s", response.User.Email)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newAuthHandlerFixture(t)

	c, _ := f.request(t, "/api/v1/auth/register", `{"email": "alice@example.com", "password": "correct horse"}`)
	if err := f.handler.Register(c); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	c, rec := f.request(t, "/api/v1/auth/login", `{"email": "alice@example.com", "password": "wrong"}`)
	if err := f.handler.Login(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestLogout_DeletesSession(t *testing.T) {
	f := newAuthHandlerFixture(t)

	c, _ := f.request(t, "/api/v1/auth/register", `{"email": "alice@example.com", "password": "correct horse"}`)
	if err := f.handler.Register(c); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	c, rec := f.request(t, "/api/v1/auth/login", `{"email": "alice@example.com", "password": "correct horse"}`)
	if err := f.handler.Login(c); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	var login LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)

	if err := f.handler.Logout(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
	if _, ok := f.sessions.Sessions[login.Token]; ok {
		t.Error("Expected the session to be deleted")
	}
}
