package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func contextWithRoles(req *http.Request, roles ...string) *http.Request {
	ctx := context.WithValue(req.Context(), UserRolesKey, roles)
	return req.WithContext(ctx)
}

func TestRequireRole_Allowed(t *testing.T) {
	e := echo.New()
	req := contextWithRoles(httptest.NewRequest(http.MethodPost, "/", nil), RoleCoordinator)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := RequireRole(WriteRoles...)(okHandler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole_Denied(t *testing.T) {
	e := echo.New()
	req := contextWithRoles(httptest.NewRequest(http.MethodPost, "/", nil), RoleViewer)
	c := e.NewContext(req, httptest.NewRecorder())

	expectStatus(t, RequireRole(WriteRoles...)(okHandler)(c), http.StatusForbidden)
}

func TestRequireRole_NoRoles(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	expectStatus(t, RequireRole(ReadRoles...)(okHandler)(c), http.StatusForbidden)
}

func TestRequireRole_AdminBypass(t *testing.T) {
	e := echo.New()
	req := contextWithRoles(httptest.NewRequest(http.MethodGet, "/", nil), RoleAdmin)
	c := e.NewContext(req, httptest.NewRecorder())

	if err := RequireRole("auditor")(okHandler)(c); err != nil {
		t.Fatalf("expected admin to bypass, got %v", err)
	}
}

func TestHasAnyRole(t *testing.T) {
	tests := []struct {
		name     string
		has      []string
		required []string
		want     bool
	}{
		{"viewer reads", []string{RoleViewer}, ReadRoles, true},
		{"viewer writes", []string{RoleViewer}, WriteRoles, false},
		{"coordinator writes", []string{RoleCoordinator}, WriteRoles, true},
		{"admin anything", []string{RoleAdmin}, []string{"x"}, true},
		{"none", nil, ReadRoles, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasAnyRole(tt.has, tt.required...); got != tt.want {
				t.Errorf("HasAnyRole(%v, %v) = %v, want %v", tt.has, tt.required, got, tt.want)
			}
		})
	}
}

func TestUserIDFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), UserIDKey, "user-123")
	if got := UserIDFromContext(ctx); got != "user-123" {
		t.Errorf("expected user-123, got %s", got)
	}
	if got := UserIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty, got %s", got)
	}
}

func TestAuthSkipper(t *testing.T) {
	e := echo.New()
	for path, want := range map[string]bool{
		"/health":                  true,
		"/health/db":               true,
		"/api/v1/resource-requests": false,
	} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, path, nil), httptest.NewRecorder())
		c.SetPath(path)
		if got := AuthSkipper(c); got != want {
			t.Errorf("AuthSkipper(%s) = %v, want %v", path, got, want)
		}
	}
}
