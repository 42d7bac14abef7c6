package auth_api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/JulianKoehler/kanban-backend/internal/model/auth_model"
	"github.com/JulianKoehler/kanban-backend/internal/repository/auth_repository"
	"github.com/JulianKoehler/kanban-backend/internal/services/auth_services"
	"github.com/JulianKoehler/kanban-backend/internal/services/mail_services"
	"github.com/gorilla/mux"
)

type fakeAuthService struct {
	loginErr error
	resetErr error
	newErr   error
	token    string
	user     auth_model.UserInfoReturn

	gotEmail    string
	gotPassword string
}

func (f *fakeAuthService) Login(_ context.Context, email, password string) (string, auth_model.UserInfoReturn, error) {
	f.gotEmail = email
	f.gotPassword = password
	if f.loginErr != nil {
		return "", auth_model.UserInfoReturn{}, f.loginErr
	}
	return f.token, f.user, nil
}

func (f *fakeAuthService) RequestPasswordReset(_ context.Context, email string) error {
	f.gotEmail = email
	return f.resetErr
}

func (f *fakeAuthService) SetNewPassword(_ context.Context, _, password string) (string, auth_model.UserInfoReturn, error) {
	f.gotPassword = password
	if f.newErr != nil {
		return "", auth_model.UserInfoReturn{}, f.newErr
	}
	return f.token, f.user, nil
}

func newRouter(svc AuthService) *mux.Router {
	r := mux.NewRouter()
	NewAuthHandler(svc).RegisterRoutes(r)
	return r
}

func loginRequest(email, password string) *http.Request {
	form := url.Values{"username": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "access_token" {
			return c
		}
	}
	t.Fatal("expected an access_token cookie")
	return nil
}

func TestLoginSuccess(t *testing.T) {
	svc := &fakeAuthService{
		token: "jwt-token",
		user:  auth_model.UserInfoReturn{ID: "user-1", FirstName: "Anna", Email: "anna@example.com"},
	}
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, loginRequest("anna@example.com", "hunter2"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotEmail != "anna@example.com" || svc.gotPassword != "hunter2" {
		t.Fatalf("credentials not forwarded: %q / %q", svc.gotEmail, svc.gotPassword)
	}

	cookie := sessionCookie(t, rec)
	if cookie.Value != "Bearer jwt-token" {
		t.Fatalf("expected Bearer-prefixed cookie, got %q", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Fatal("session cookie must be http-only")
	}

	var body auth_model.UserInfoReturn
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.ID != "user-1" {
		t.Fatalf("expected user-1 in body, got %+v", body)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := &fakeAuthService{loginErr: auth_repository.ErrUserNotFound}
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, loginRequest("ghost@example.com", "x"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Incorrect e-mail") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := &fakeAuthService{loginErr: auth_services.ErrWrongPassword}
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, loginRequest("anna@example.com", "nope"))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Wrong password") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&fakeAuthService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cookie := sessionCookie(t, rec)
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Fatalf("expected an expired empty cookie, got %+v", cookie)
	}
}

func TestRequestPasswordResetErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown email", auth_repository.ErrUserNotFound, http.StatusNotFound},
		{"mail outage", mail_services.ErrSendFailed, http.StatusServiceUnavailable},
		{"success", nil, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeAuthService{resetErr: tc.err}
			req := httptest.NewRequest(http.MethodPost, "/password/request-reset",
				strings.NewReader(`{"email":"anna@example.com"}`))
			rec := httptest.NewRecorder()
			newRouter(svc).ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
			if svc.gotEmail != "anna@example.com" {
				t.Fatalf("email not forwarded, got %q", svc.gotEmail)
			}
		})
	}
}

func TestNewPasswordIssuesFreshSession(t *testing.T) {
	svc := &fakeAuthService{token: "fresh-token"}
	req := httptest.NewRequest(http.MethodPost, "/password/new",
		strings.NewReader(`{"access_token":"reset-token","password":"s3cret"}`))
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if cookie := sessionCookie(t, rec); cookie.Value != "Bearer fresh-token" {
		t.Fatalf("expected fresh session cookie, got %q", cookie.Value)
	}
}

func TestNewPasswordInvalidToken(t *testing.T) {
	svc := &fakeAuthService{newErr: auth_services.ErrInvalidToken}
	req := httptest.NewRequest(http.MethodPost, "/password/new",
		strings.NewReader(`{"access_token":"stale","password":"x"}`))
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
