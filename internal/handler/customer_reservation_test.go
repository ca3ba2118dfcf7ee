package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticketing/internal/region"
)

func newJSONContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func testRegistry() *region.Registry {
	reg := region.NewRegistry()
	reg.Add(&region.Dataset{Name: "krakow"})
	return reg
}

func TestPayRequiresPaymentMethod(t *testing.T) {
	h := NewCustomerHandler(testRegistry(), 15*time.Minute)
	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"blank method", `{"payment_method": "  "}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newJSONContext(t, http.MethodPost, "/v1/reservations/5/pay?region=krakow", tt.body)
			c.SetParamNames("id")
			c.SetParamValues("5")
			c.Set("user_id", uint64(11))
			if err := h.Pay(c); err != nil {
				t.Fatalf("Pay returned %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			var body map[string]interface{}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON body: %v", err)
			}
			if body["error"] != "payment_method is required" {
				t.Errorf("error = %v, want payment_method requirement", body["error"])
			}
		})
	}
}

func TestReserveRejectsUnusableSeatIDs(t *testing.T) {
	h := NewCustomerHandler(testRegistry(), 15*time.Minute)
	// Zero IDs survive the handler's non-empty check but dedupe away in
	// the repository, which must answer with a bad request rather than a
	// mislabeled seat error.
	c, rec := newJSONContext(t, http.MethodPost, "/v1/shows/3/reserve?region=krakow", `{"seat_ids": [0, 0]}`)
	c.SetParamNames("id")
	c.SetParamValues("3")
	c.Set("user_id", uint64(11))
	if err := h.Reserve(c); err != nil {
		t.Fatalf("Reserve returned %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["kind"] != "bad_request" {
		t.Errorf("kind = %v, want %q", body["kind"], "bad_request")
	}
}
