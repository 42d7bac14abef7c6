package user_api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JulianKoehler/kanban-backend/internal/model/auth_model"
	"github.com/JulianKoehler/kanban-backend/internal/repository/auth_repository"
	"github.com/JulianKoehler/kanban-backend/internal/validation"
	"github.com/gorilla/mux"
)

type fakeUserService struct {
	createErr error
	deleteErr error
	leaveErr  error
	user      auth_model.UserReturn
	results   []auth_model.UserReturn

	gotQuery   string
	gotBoardID string
	gotUserID  string
}

func (f *fakeUserService) Create(_ context.Context, userName, email, password string) (auth_model.UserReturn, error) {
	if err := validation.ValidateUsername(userName); err != nil {
		return auth_model.UserReturn{}, err
	}
	if f.createErr != nil {
		return auth_model.UserReturn{}, f.createErr
	}
	return f.user, nil
}

func (f *fakeUserService) Get(_ context.Context, userID string) (auth_model.UserReturn, error) {
	f.gotUserID = userID
	return f.user, nil
}

func (f *fakeUserService) GetInfo(_ context.Context, userID string) (auth_model.UserInfoReturn, error) {
	f.gotUserID = userID
	return auth_model.UserInfoReturn{ID: userID, FirstName: "Anna"}, nil
}

func (f *fakeUserService) Search(_ context.Context, selfID, query string) ([]auth_model.UserReturn, error) {
	f.gotUserID = selfID
	f.gotQuery = query
	return f.results, nil
}

func (f *fakeUserService) LeaveBoard(_ context.Context, boardID, userID string) error {
	f.gotBoardID = boardID
	f.gotUserID = userID
	return f.leaveErr
}

func (f *fakeUserService) Delete(_ context.Context, userID string) error {
	f.gotUserID = userID
	return f.deleteErr
}

type fakeTokens struct{}

func (fakeTokens) CreateSessionToken(userID string) (string, error) { return "token-" + userID, nil }

type fakeParser struct{ userID string }

func (f fakeParser) ParseAccessToken(string) (string, error) { return f.userID, nil }

const boardID = "33333333-3333-3333-3333-333333333333"

func newRouter(svc UserService, selfID string) *mux.Router {
	r := mux.NewRouter()
	NewUserHandler(svc, fakeTokens{}, fakeParser{userID: selfID}).UserRoutes(r)
	return r
}

func authed(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "Bearer t"})
	return req
}

func TestCreateUserSetsSessionCookie(t *testing.T) {
	svc := &fakeUserService{user: auth_model.UserReturn{ID: "user-1", FirstName: "Anna", Email: "anna@example.com"}}
	req := httptest.NewRequest(http.MethodPost, "/users",
		strings.NewReader(`{"user_name":"Anna Schmidt","email":"anna@example.com","password":"pw"}`))
	rec := httptest.NewRecorder()
	newRouter(svc, "").ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "access_token" && c.Value == "Bearer token-user-1" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a session cookie for the fresh account")
	}
}

func TestCreateUserInvalidName(t *testing.T) {
	svc := &fakeUserService{}
	req := httptest.NewRequest(http.MethodPost, "/users",
		strings.NewReader(`{"user_name":"x22","email":"a@b.c","password":"pw"}`))
	rec := httptest.NewRecorder()
	newRouter(svc, "").ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc := &fakeUserService{createErr: auth_repository.ErrEmailTaken}
	req := httptest.NewRequest(http.MethodPost, "/users",
		strings.NewReader(`{"user_name":"Anna","email":"a@b.c","password":"pw"}`))
	rec := httptest.NewRecorder()
	newRouter(svc, "").ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSearchUsersEmptyQuery(t *testing.T) {
	svc := &fakeUserService{results: []auth_model.UserReturn{{ID: "other"}}}
	rec := httptest.NewRecorder()
	newRouter(svc, "self").ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/users", nil)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Fatalf("empty query must return an empty list, got %s", body)
	}
}

func TestSearchUsersForwardsSelfAndQuery(t *testing.T) {
	svc := &fakeUserService{results: []auth_model.UserReturn{{ID: "other", FirstName: "Ben"}}}
	rec := httptest.NewRecorder()
	newRouter(svc, "self").ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/users?q=be", nil)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.gotUserID != "self" || svc.gotQuery != "be" {
		t.Fatalf("expected self/be forwarded, got %q/%q", svc.gotUserID, svc.gotQuery)
	}

	var results []auth_model.UserReturn
	if err := json.NewDecoder(rec.Body).Decode(&results); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(results) != 1 || results[0].ID != "other" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestGetCurrentUser(t *testing.T) {
	svc := &fakeUserService{}
	rec := httptest.NewRecorder()
	newRouter(svc, "self").ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/users/current", nil)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotUserID != "self" {
		t.Fatalf("expected lookup for self, got %q", svc.gotUserID)
	}
}

func TestGetUserRejectsMalformedID(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&fakeUserService{}, "").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/not-a-uuid", nil))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLeaveBoard(t *testing.T) {
	svc := &fakeUserService{}
	req := authed(httptest.NewRequest(http.MethodPut, "/users",
		strings.NewReader(`{"board_id":"`+boardID+`"}`)))
	rec := httptest.NewRecorder()
	newRouter(svc, "self").ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotBoardID != boardID || svc.gotUserID != "self" {
		t.Fatalf("leave not forwarded: %q / %q", svc.gotBoardID, svc.gotUserID)
	}
}

func TestDeleteUserOwningBoardsConflicts(t *testing.T) {
	svc := &fakeUserService{deleteErr: auth_repository.ErrOwnsBoards}
	rec := httptest.NewRecorder()
	newRouter(svc, "self").ServeHTTP(rec, authed(httptest.NewRequest(http.MethodDelete, "/users", nil)))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "detail") {
		t.Fatalf("expected a detail body, got %s", rec.Body.String())
	}
}

func TestDeleteUserSuccess(t *testing.T) {
	svc := &fakeUserService{}
	rec := httptest.NewRecorder()
	newRouter(svc, "self").ServeHTTP(rec, authed(httptest.NewRequest(http.MethodDelete, "/users", nil)))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
