package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func runJWT(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured echo.Context
	next := func(c echo.Context) error {
		captured = c
		return c.NoContent(http.StatusOK)
	}
	if err := JWTAuth(testSecret)(next)(c); err != nil {
		t.Fatalf("middleware returned %v", err)
	}
	return rec, captured
}

func TestJWTAuthValidToken(t *testing.T) {
	raw := signToken(t, testSecret, jwt.MapClaims{
		"sub":  "42",
		"role": "CUSTOMER",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	rec, c := runJWT(t, "Bearer "+raw)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if c.Get("user_id") != "42" {
		t.Errorf("user_id = %v, want \"42\"", c.Get("user_id"))
	}
	if c.Get("role") != "CUSTOMER" {
		t.Errorf("role = %v, want CUSTOMER", c.Get("role"))
	}
}

func TestJWTAuthRejections(t *testing.T) {
	expired := signToken(t, testSecret, jwt.MapClaims{
		"sub": "42", "role": "CUSTOMER", "exp": time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := signToken(t, "other-secret", jwt.MapClaims{
		"sub": "42", "role": "CUSTOMER", "exp": time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Token abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired token", "Bearer " + expired},
		{"wrong signing key", "Bearer " + wrongKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := runJWT(t, tt.header)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	mw := RequireRole("ADMIN", "EMPLOYEE")(next)

	tests := []struct {
		role string
		want int
	}{
		{"ADMIN", http.StatusOK},
		{"EMPLOYEE", http.StatusOK},
		{"CUSTOMER", http.StatusForbidden},
		{"", http.StatusForbidden},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if tt.role != "" {
			c.Set("role", tt.role)
		}
		if err := mw(c); err != nil {
			t.Fatalf("middleware returned %v", err)
		}
		if rec.Code != tt.want {
			t.Errorf("role %q: status = %d, want %d", tt.role, rec.Code, tt.want)
		}
	}
}
