package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trimline/server/internal/domain"
	"trimline/server/internal/schedule"
	"trimline/server/internal/service/booking"
	"trimline/server/internal/store/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelError}))
	handler := NewHandler(booking.NewService(memory.NewStore()), log)
	srv := httptest.NewServer(Chain(handler.Routes(), WithRequestID))
	t.Cleanup(srv.Close)
	return srv
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

func postJSON(t *testing.T, srv *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s error: %v", path, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func get(t *testing.T, srv *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s error: %v", path, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func del(t *testing.T, srv *httptest.Server, path string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodDelete, srv.URL+path, nil)
	if err != nil {
		t.Fatalf("NewRequest error: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE %s error: %v", path, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

const validBooking = `{
	"service": "haircut",
	"startTime": "2024-01-10T10:00:00Z",
	"endTime": "2024-01-10T10:30:00Z",
	"customerName": "Jane",
	"email": "jane@example.com",
	"phone": "5551234567"
}`

func TestCreateThenConflictThenAvailability(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv, "/appointments", validBooking)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first POST status = %d, want 201", resp.StatusCode)
	}
	created := decode[domain.Appointment](t, resp)
	if created.ID != 1 {
		t.Fatalf("created.ID = %d, want 1", created.ID)
	}
	if created.CreatedAt.IsZero() {
		t.Fatalf("created.CreatedAt is zero, want set")
	}

	overlapping := strings.Replace(
		strings.Replace(validBooking, "10:00:00Z", "10:15:00Z", 1),
		"10:30:00Z", "10:45:00Z", 1)
	resp = postJSON(t, srv, "/appointments", overlapping)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("overlapping POST status = %d, want 409", resp.StatusCode)
	}

	resp = get(t, srv, "/appointments/availability/2024-01-10")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("availability status = %d, want 200", resp.StatusCode)
	}
	slots := decode[[]schedule.Slot](t, resp)
	if len(slots) != 20 {
		t.Fatalf("len(slots) = %d, want 20", len(slots))
	}
	for _, slot := range slots {
		want := slot.Time != "10:00"
		if slot.Available != want {
			t.Fatalf("slot %s available = %v, want %v", slot.Time, slot.Available, want)
		}
	}
}

func TestCreateValidationFailures(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		mutate     func(string) string
		wantStatus int
	}{
		{"unknown service", func(b string) string {
			return strings.Replace(b, `"haircut"`, `"perm"`, 1)
		}, http.StatusBadRequest},
		{"bad email", func(b string) string {
			return strings.Replace(b, "jane@example.com", "nope", 1)
		}, http.StatusBadRequest},
		{"short phone", func(b string) string {
			return strings.Replace(b, "5551234567", "555", 1)
		}, http.StatusBadRequest},
		{"bad start time", func(b string) string {
			return strings.Replace(b, "2024-01-10T10:00:00Z", "yesterday", 1)
		}, http.StatusBadRequest},
		{"before business hours", func(b string) string {
			b = strings.Replace(b, "10:00:00Z", "08:30:00Z", 1)
			return strings.Replace(b, "10:30:00Z", "09:00:00Z", 1)
		}, http.StatusBadRequest},
		{"past business hours", func(b string) string {
			b = strings.Replace(b, "10:00:00Z", "18:45:00Z", 1)
			return strings.Replace(b, "10:30:00Z", "19:15:00Z", 1)
		}, http.StatusBadRequest},
		{"not json", func(b string) string { return "{" }, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, srv, "/appointments", tt.mutate(validBooking))
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestListFiltersAndValidatesDate(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv, "/appointments", validBooking)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d, want 201", resp.StatusCode)
	}

	resp = get(t, srv, "/appointments")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d, want 200", resp.StatusCode)
	}
	all := decode[[]domain.Appointment](t, resp)
	if len(all) != 1 {
		t.Fatalf("len(all) = %d, want 1", len(all))
	}

	resp = get(t, srv, "/appointments?date=2024-01-10")
	sameDay := decode[[]domain.Appointment](t, resp)
	if len(sameDay) != 1 {
		t.Fatalf("len(sameDay) = %d, want 1", len(sameDay))
	}

	resp = get(t, srv, "/appointments?date=2024-01-11")
	otherDay := decode[[]domain.Appointment](t, resp)
	if len(otherDay) != 0 {
		t.Fatalf("len(otherDay) = %d, want 0", len(otherDay))
	}

	resp = get(t, srv, "/appointments?date=not-a-date")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad date status = %d, want 400", resp.StatusCode)
	}
}

func TestGetAppointment(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv, "/appointments", validBooking)
	created := decode[domain.Appointment](t, resp)

	resp = get(t, srv, "/appointments/1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d, want 200", resp.StatusCode)
	}
	got := decode[domain.Appointment](t, resp)
	if got.ID != created.ID || got.Email != created.Email {
		t.Fatalf("got = %+v, want %+v", got, created)
	}

	resp = get(t, srv, "/appointments/99")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("absent get status = %d, want 404", resp.StatusCode)
	}

	resp = get(t, srv, "/appointments/abc")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("non-numeric get status = %d, want 400", resp.StatusCode)
	}
}

func TestDeleteAppointment(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv, "/appointments", validBooking)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d, want 201", resp.StatusCode)
	}

	resp = del(t, srv, "/appointments/1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", resp.StatusCode)
	}

	resp = del(t, srv, "/appointments/1")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", resp.StatusCode)
	}

	resp = del(t, srv, "/appointments/abc")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("non-numeric delete status = %d, want 400", resp.StatusCode)
	}

	// The slot frees up again.
	resp = postJSON(t, srv, "/appointments", validBooking)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("rebook status = %d, want 201", resp.StatusCode)
	}
}

func TestAvailabilityBadDate(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv, "/appointments/availability/january")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestListServices(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv, "/services")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	catalog := decode[map[string]domain.ServiceOffering](t, resp)
	if len(catalog) != 3 {
		t.Fatalf("len(catalog) = %d, want 3", len(catalog))
	}
	if catalog["haircut"].Name != "Signature Cut" || catalog["haircut"].Price != 45 {
		t.Fatalf(`catalog["haircut"] = %+v`, catalog["haircut"])
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv, "/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestRequestIDEchoedAndGenerated(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv, "/healthz")
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Fatalf("missing %s header", RequestIDHeader)
	}

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	if err != nil {
		t.Fatalf("NewRequest error: %v", err)
	}
	req.Header.Set(RequestIDHeader, "req-123")
	echoed, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	defer echoed.Body.Close()
	if got := echoed.Header.Get(RequestIDHeader); got != "req-123" {
		t.Fatalf("%s = %q, want %q", RequestIDHeader, got, "req-123")
	}
}
