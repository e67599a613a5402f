package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/orderstack/orderstack/internal/api/response"
	"github.com/orderstack/orderstack/internal/core/service"
	"github.com/orderstack/orderstack/internal/storage/jsonfile"
)

func newUsersTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	repo := jsonfile.NewUserRepository(filepath.Join(t.TempDir(), "users.json"))
	tokens := service.NewTokenService("secret", time.Hour)
	users := service.NewUserService(repo, tokens, zerolog.Nop())
	return NewUsersRouter(users, tokens, zerolog.Nop())
}

func registerUser(t *testing.T, e *echo.Echo, email string) string {
	t.Helper()
	rec, env := do(e, http.MethodPost, "/register", "", `{"email":"`+email+`","name":"Alice","password":"hunter22"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var user struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &user); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return user.ID
}

func loginUser(t *testing.T, e *echo.Echo, email string) string {
	t.Helper()
	rec, env := do(e, http.MethodPost, "/login", "", `{"email":"`+email+`","password":"hunter22"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Token == "" {
		t.Fatal("no token")
	}
	return data.Token
}

// doBearer performs a request authenticated with a raw bearer token.
func doBearer(e *echo.Echo, method, path, token, body string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestUsersRouter_RegisterLoginMe(t *testing.T) {
	e := newUsersTestRouter(t)
	registerUser(t, e, "alice@example.com")
	token := loginUser(t, e, "alice@example.com")

	rec, _ := do(e, http.MethodGet, "/me", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("me without token: expected 401, got %d", rec.Code)
	}

	rec, env := doBearer(e, http.MethodGet, "/me", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var me struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal(env.Data, &me); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if me.Email != "alice@example.com" {
		t.Errorf("email = %q", me.Email)
	}
	if me.Password != "" {
		t.Error("password hash leaked")
	}
}

func TestUsersRouter_DuplicateEmail(t *testing.T) {
	e := newUsersTestRouter(t)
	registerUser(t, e, "alice@example.com")

	rec, env := do(e, http.MethodPost, "/register", "", `{"email":"Alice@example.com","name":"Other","password":"hunter22"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if env.Error == nil || env.Error.Code != response.CodeEmailExists {
		t.Fatalf("error = %+v", env.Error)
	}
}

func TestUsersRouter_RegisterValidation(t *testing.T) {
	e := newUsersTestRouter(t)

	cases := []string{
		`{"email":"not-an-email","name":"A","password":"hunter22"}`,
		`{"email":"a@example.com","name":"","password":"hunter22"}`,
		`{"email":"a@example.com","name":"A","password":"short"}`,
	}
	for _, body := range cases {
		rec, env := do(e, http.MethodPost, "/register", "", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, rec.Code)
			continue
		}
		if env.Error == nil || env.Error.Code != response.CodeValidation {
			t.Errorf("body %s: error = %+v", body, env.Error)
		}
	}
}

func TestUsersRouter_LoginBadCredentials(t *testing.T) {
	e := newUsersTestRouter(t)
	registerUser(t, e, "alice@example.com")

	for _, body := range []string{
		`{"email":"alice@example.com","password":"wrong"}`,
		`{"email":"nobody@example.com","password":"hunter22"}`,
	} {
		rec, env := do(e, http.MethodPost, "/login", "", body)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
			continue
		}
		if env.Error == nil || env.Error.Code != response.CodeUnauthorized {
			t.Errorf("error = %+v", env.Error)
		}
	}
}

func TestUsersRouter_AdminEndpoints(t *testing.T) {
	e := newUsersTestRouter(t)
	id := registerUser(t, e, "alice@example.com")

	// A plain user may not list users or change roles.
	rec, env := do(e, http.MethodGet, "/", asOwner, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("list as user: expected 403, got %d", rec.Code)
	}
	if env.Error == nil || env.Error.Code != response.CodeForbidden {
		t.Fatalf("error = %+v", env.Error)
	}

	rec, _ = do(e, http.MethodPatch, "/"+id+"/roles", asOwner, `{"roles":["admin"]}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("roles as user: expected 403, got %d", rec.Code)
	}

	// An admin may do both.
	rec, env = do(e, http.MethodGet, "/", asAdmin, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list as admin: expected 200, got %d", rec.Code)
	}
	var users []struct {
		Password string `json:"password"`
	}
	if err := json.Unmarshal(env.Data, &users); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, u := range users {
		if u.Password != "" {
			t.Error("password hash leaked in list")
		}
	}

	rec, env = do(e, http.MethodPatch, "/"+id+"/roles", asAdmin, `{"roles":["user","admin"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("roles as admin: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated struct {
		Roles []string `json:"roles"`
	}
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(updated.Roles) != 2 {
		t.Errorf("roles = %v", updated.Roles)
	}

	rec, env = do(e, http.MethodPatch, "/no-such-user/roles", asAdmin, `{"roles":["user"]}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown user: expected 404, got %d", rec.Code)
	}
	if env.Error == nil || env.Error.Code != response.CodeNotFound {
		t.Fatalf("error = %+v", env.Error)
	}
}
