package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func ctxWithPath(path, query string) echo.Context {
	e := echo.New()
	target := "/"
	if query != "" {
		target += "?" + query
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(path)
	return c
}

func TestCacheSkipper(t *testing.T) {
	tests := []struct {
		path  string
		query string
		skip  bool
	}{
		{"/v1/shows/:id/availability", "", true},
		{"/v1/reservations/:id", "", true},
		{"/v1/reservations/:id/ticket", "", true},
		{"/v1/my-reservations", "", true},
		{"/v1/halls/:id/layout", "show_id=3", true},
		{"/v1/halls/:id/layout", "", false},
		{"/v1/halls", "", false},
		{"/v1/movies", "", false},
		{"/v1/shows", "", false},
		{"/v1/shows/:id", "", false},
	}
	for _, tt := range tests {
		if got := CacheSkipper(ctxWithPath(tt.path, tt.query)); got != tt.skip {
			t.Errorf("CacheSkipper(%s?%s) = %v, want %v", tt.path, tt.query, got, tt.skip)
		}
	}
}
