package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticketing/internal/region"
	"github.com/iliyamo/cinema-ticketing/internal/repository"
)

func newTestContext(t *testing.T, target string, header map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestDomainJSONMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"show not found", repository.ErrShowNotFound, http.StatusNotFound, "not_found"},
		{"unknown region", region.ErrUnknownRegion, http.StatusNotFound, "unknown_region"},
		{"missing region", errRegionRequired, http.StatusBadRequest, "bad_request"},
		{"empty seat set", repository.ErrNoSeats, http.StatusBadRequest, "bad_request"},
		{"forbidden", repository.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"invalid state", repository.ErrInvalidState, http.StatusConflict, "invalid_state"},
		{"has reservations", repository.ErrHasReservations, http.StatusConflict, "has_reservations"},
		{"generic conflict", repository.ErrConflict, http.StatusConflict, "conflict"},
		{"seats taken", &repository.SeatsReservedError{SeatIDs: []uint64{4, 9}}, http.StatusConflict, "seat_already_reserved"},
		{"foreign seats", &repository.InvalidSeatsError{SeatIDs: []uint64{99}}, http.StatusBadRequest, "invalid_seat"},
		{"schedule clash", &repository.ScheduleConflictError{}, http.StatusConflict, "schedule_conflict"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext(t, "/v1/shows", nil)
			if err := domainJSON(c, tt.err); err != nil {
				t.Fatalf("domainJSON returned %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body map[string]interface{}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON body: %v", err)
			}
			if body["kind"] != tt.wantKind {
				t.Errorf("kind = %v, want %q", body["kind"], tt.wantKind)
			}
		})
	}
}

func TestDomainJSONConflictPayloads(t *testing.T) {
	c, rec := newTestContext(t, "/v1/shows/1/reserve", nil)
	_ = domainJSON(c, &repository.SeatsReservedError{SeatIDs: []uint64{4, 9}})
	var body struct {
		SeatIDs []uint64 `json:"seat_ids"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if len(body.SeatIDs) != 2 || body.SeatIDs[0] != 4 || body.SeatIDs[1] != 9 {
		t.Errorf("seat_ids = %v, want [4 9]", body.SeatIDs)
	}
}

func TestResolveRegion(t *testing.T) {
	reg := region.NewRegistry()
	reg.Add(&region.Dataset{Name: "krakow"})

	t.Run("query parameter", func(t *testing.T) {
		c, _ := newTestContext(t, "/v1/halls?region=krakow", nil)
		ds, err := resolveRegion(c, reg)
		if err != nil {
			t.Fatalf("resolveRegion: %v", err)
		}
		if ds.Name != "krakow" {
			t.Errorf("resolved %q", ds.Name)
		}
	})

	t.Run("header fallback", func(t *testing.T) {
		c, _ := newTestContext(t, "/v1/halls", map[string]string{"X-Region": "Krakow"})
		ds, err := resolveRegion(c, reg)
		if err != nil {
			t.Fatalf("resolveRegion: %v", err)
		}
		if ds.Name != "krakow" {
			t.Errorf("resolved %q", ds.Name)
		}
	})

	t.Run("unknown region", func(t *testing.T) {
		c, _ := newTestContext(t, "/v1/halls?region=berlin", nil)
		if _, err := resolveRegion(c, reg); err != region.ErrUnknownRegion {
			t.Errorf("err = %v, want ErrUnknownRegion", err)
		}
	})

	t.Run("missing region", func(t *testing.T) {
		c, _ := newTestContext(t, "/v1/halls", nil)
		if _, err := resolveRegion(c, reg); err != errRegionRequired {
			t.Errorf("err = %v, want errRegionRequired", err)
		}
	})
}

func TestGetUserID(t *testing.T) {
	c, _ := newTestContext(t, "/", nil)

	c.Set("user_id", "42")
	if id, err := getUserID(c); err != nil || id != 42 {
		t.Errorf("string claim: id=%d err=%v", id, err)
	}

	c.Set("user_id", float64(7))
	if id, err := getUserID(c); err != nil || id != 7 {
		t.Errorf("float64 claim: id=%d err=%v", id, err)
	}

	c.Set("user_id", nil)
	if _, err := getUserID(c); err == nil {
		t.Error("expected error for missing user_id")
	}
}

func TestIsStaff(t *testing.T) {
	c, _ := newTestContext(t, "/", nil)
	for role, want := range map[string]bool{"ADMIN": true, "EMPLOYEE": true, "CUSTOMER": false, "": false} {
		c.Set("role", role)
		if got := isStaff(c); got != want {
			t.Errorf("isStaff(%q) = %v, want %v", role, got, want)
		}
	}
}
