package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/orderstack/orderstack/internal/core/domain"
)

func runAdminOnly(t *testing.T, identity *domain.Identity) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		c.Set(identityKey, *identity)
	}

	handler := AdminOnly()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAdminOnly_Admin(t *testing.T) {
	rec := runAdminOnly(t, &domain.Identity{SubjectID: "a1", Roles: []string{"admin"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAdminOnly_PlainUser(t *testing.T) {
	rec := runAdminOnly(t, &domain.Identity{SubjectID: "u1", Roles: []string{"user"}})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAdminOnly_NoIdentity(t *testing.T) {
	// Unauthenticated and underprivileged are distinct outcomes.
	rec := runAdminOnly(t, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
