package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/orderstack/orderstack/internal/api/response"
	"github.com/orderstack/orderstack/internal/config"
	"github.com/orderstack/orderstack/internal/core/domain"
	"github.com/orderstack/orderstack/internal/core/service"
)

// upstreamRecorder captures what the proxied request looked like on arrival.
type upstreamRecorder struct {
	mu        sync.Mutex
	path      string
	userHdr   string
	requestID string
}

func (u *upstreamRecorder) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.path = r.URL.Path
		u.userHdr = r.Header.Get("X-User")
		u.requestID = r.Header.Get(echo.HeaderXRequestID)
		u.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	})
}

func newTestGateway(t *testing.T, usersURL, ordersURL string) (*echo.Echo, *service.TokenService) {
	t.Helper()
	cfg := &config.GatewayConfig{
		UsersURL:        usersURL,
		OrdersURL:       ordersURL,
		UpstreamTimeout: 2 * time.Second,
		RateLimitWindow: time.Minute,
		RateLimitMax:    1000,
	}
	tokens := service.NewTokenService("secret", time.Hour)
	e, err := New(cfg, tokens, zerolog.Nop())
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}
	return e, tokens
}

func issueToken(t *testing.T, tokens *service.TokenService, id string, roles ...string) string {
	t.Helper()
	token, err := tokens.Issue(&domain.User{ID: id, Roles: roles})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return token
}

func gwRequest(e *echo.Echo, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader("{}"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Set(k, v)
		}
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var env struct {
		Success bool                `json:"success"`
		Error   *response.ErrorBody `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	if env.Success || env.Error == nil {
		t.Fatalf("expected failure envelope, got %s", rec.Body.String())
	}
	return *env.Error
}

func TestGateway_OpenPathsBypassAuth(t *testing.T) {
	users := &upstreamRecorder{}
	usersSrv := httptest.NewServer(users.handler())
	defer usersSrv.Close()
	ordersSrv := httptest.NewServer((&upstreamRecorder{}).handler())
	defer ordersSrv.Close()

	e, _ := newTestGateway(t, usersSrv.URL, ordersSrv.URL)

	for path, want := range map[string]string{
		"/v1/users/register": "/register",
		"/v1/users/login":    "/login",
	} {
		rec := gwRequest(e, http.MethodPost, path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", path, rec.Code, rec.Body.String())
		}
		if users.path != want {
			t.Errorf("%s: upstream path = %q, want %q", path, users.path, want)
		}
	}
}

func TestGateway_StripsClientIdentityHeader(t *testing.T) {
	users := &upstreamRecorder{}
	usersSrv := httptest.NewServer(users.handler())
	defer usersSrv.Close()
	ordersSrv := httptest.NewServer((&upstreamRecorder{}).handler())
	defer ordersSrv.Close()

	e, _ := newTestGateway(t, usersSrv.URL, ordersSrv.URL)

	// A client-forged X-User must never reach the backend.
	hdr := http.Header{}
	hdr.Set("X-User", `{"id":"evil","roles":["admin"]}`)
	rec := gwRequest(e, http.MethodPost, "/v1/users/register", hdr)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if users.userHdr != "" {
		t.Fatalf("forged X-User forwarded: %q", users.userHdr)
	}
}

func TestGateway_RequiresToken(t *testing.T) {
	usersSrv := httptest.NewServer((&upstreamRecorder{}).handler())
	defer usersSrv.Close()
	ordersSrv := httptest.NewServer((&upstreamRecorder{}).handler())
	defer ordersSrv.Close()

	e, _ := newTestGateway(t, usersSrv.URL, ordersSrv.URL)

	rec := gwRequest(e, http.MethodGet, "/v1/orders", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if errBody := decodeError(t, rec); errBody.Code != response.CodeUnauthorized {
		t.Fatalf("error code = %q", errBody.Code)
	}

	hdr := http.Header{}
	hdr.Set("Authorization", "Bearer garbage")
	rec = gwRequest(e, http.MethodGet, "/v1/orders", hdr)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token: expected 401, got %d", rec.Code)
	}
}

func TestGateway_InjectsVerifiedIdentity(t *testing.T) {
	orders := &upstreamRecorder{}
	ordersSrv := httptest.NewServer(orders.handler())
	defer ordersSrv.Close()
	usersSrv := httptest.NewServer((&upstreamRecorder{}).handler())
	defer usersSrv.Close()

	e, tokens := newTestGateway(t, usersSrv.URL, ordersSrv.URL)
	token := issueToken(t, tokens, "u1", "user", "admin")

	hdr := http.Header{}
	hdr.Set("Authorization", "Bearer "+token)
	hdr.Set("X-User", `{"id":"evil","roles":["admin"]}`) // forged, must be replaced
	rec := gwRequest(e, http.MethodGet, "/v1/orders/abc/status", hdr)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if orders.path != "/abc/status" {
		t.Errorf("upstream path = %q, want /abc/status", orders.path)
	}

	var id domain.Identity
	if err := json.Unmarshal([]byte(orders.userHdr), &id); err != nil {
		t.Fatalf("decode X-User %q: %v", orders.userHdr, err)
	}
	if id.SubjectID != "u1" || !id.IsAdmin() {
		t.Errorf("identity = %+v", id)
	}
	if orders.requestID == "" {
		t.Error("X-Request-ID not propagated upstream")
	}
}

func TestGateway_UpstreamFailure(t *testing.T) {
	usersSrv := httptest.NewServer((&upstreamRecorder{}).handler())
	defer usersSrv.Close()
	// Orders upstream is dead: point at a closed server.
	deadSrv := httptest.NewServer(http.NotFoundHandler())
	deadURL := deadSrv.URL
	deadSrv.Close()

	e, tokens := newTestGateway(t, usersSrv.URL, deadURL)
	token := issueToken(t, tokens, "u1", "user")

	hdr := http.Header{}
	hdr.Set("Authorization", "Bearer "+token)
	rec := gwRequest(e, http.MethodGet, "/v1/orders", hdr)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", rec.Code, rec.Body.String())
	}
	if errBody := decodeError(t, rec); errBody.Code != response.CodeUpstream {
		t.Fatalf("error code = %q, want %s", errBody.Code, response.CodeUpstream)
	}
}

func TestGateway_Health(t *testing.T) {
	usersSrv := httptest.NewServer((&upstreamRecorder{}).handler())
	defer usersSrv.Close()
	ordersSrv := httptest.NewServer((&upstreamRecorder{}).handler())
	defer ordersSrv.Close()

	e, _ := newTestGateway(t, usersSrv.URL, ordersSrv.URL)

	rec := gwRequest(e, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
