package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/voidnire/APANEsportes-sub000/internal/api"
	"github.com/voidnire/APANEsportes-sub000/internal/model"
	"github.com/voidnire/APANEsportes-sub000/internal/service"
)

type fakeAuthService struct {
	signupErr  error
	loginOwner *model.Owner
	loginSID   string
	loginErr   error
	profile    *model.Owner
	profileErr error

	loggedOut []string
}

func (f *fakeAuthService) Signup(ctx context.Context, email, password, name string) (*model.Owner, error) {
	if f.signupErr != nil {
		return nil, f.signupErr
	}
	return &model.Owner{ID: uuid.New(), Email: email, Name: name}, nil
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (*model.Owner, string, error) {
	return f.loginOwner, f.loginSID, f.loginErr
}

func (f *fakeAuthService) Logout(ctx context.Context, sessionID string) error {
	f.loggedOut = append(f.loggedOut, sessionID)
	return nil
}

func (f *fakeAuthService) GetProfile(ctx context.Context, ownerID uuid.UUID) (*model.Owner, error) {
	return f.profile, f.profileErr
}

func newAuthApp(svc service.AuthService) *fiber.App {
	handler := api.NewAuthHandler(svc, time.Hour)
	app := fiber.New()
	app.Post("/signup", handler.Signup)
	app.Post("/login", handler.Login)
	app.Get("/me", handler.Me)
	return app
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAuthHandler_Login_SetsCookieAndReturnsSessionID(t *testing.T) {
	owner := &model.Owner{ID: uuid.New(), Email: "coach@apan.org", Name: "Coach"}
	svc := &fakeAuthService{loginOwner: owner, loginSID: "raw-session-id"}
	app := newAuthApp(svc)

	resp, err := app.Test(jsonRequest("POST", "/login", `{"email":"coach@apan.org","password":"secret123"}`))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body api.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "raw-session-id", body.SessionID)
	require.Equal(t, owner.Email, body.Owner.Email)

	var sessionCookie *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == api.SessionCookieName {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie)
	require.Equal(t, "raw-session-id", sessionCookie.Value)
	require.True(t, sessionCookie.HttpOnly)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	svc := &fakeAuthService{loginErr: service.ErrInvalidCredentials}
	app := newAuthApp(svc)

	resp, err := app.Test(jsonRequest("POST", "/login", `{"email":"coach@apan.org","password":"wrong-pass"}`))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.Empty(t, resp.Cookies())
}

func TestAuthHandler_Signup_DuplicateEmail(t *testing.T) {
	svc := &fakeAuthService{signupErr: &pgconn.PgError{Code: "23505"}}
	app := newAuthApp(svc)

	resp, err := app.Test(jsonRequest("POST", "/signup", `{"email":"coach@apan.org","password":"secret123","name":"Coach"}`))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestAuthHandler_Signup_RejectsShortPassword(t *testing.T) {
	svc := &fakeAuthService{}
	app := newAuthApp(svc)

	resp, err := app.Test(jsonRequest("POST", "/signup", `{"email":"coach@apan.org","password":"short","name":"Coach"}`))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	svc := &fakeAuthService{}
	app := newAuthApp(svc)

	// No gate ran, so no claims are in the locals.
	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
