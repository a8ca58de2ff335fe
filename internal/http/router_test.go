package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	intconfig "busbooking/internal/config"
	"busbooking/internal/events"
	h "busbooking/internal/http/handlers"
	"busbooking/internal/memstore"
	"busbooking/internal/services"

	"github.com/gin-gonic/gin"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	api    *h.API
	token  string
}

func newTestServer(t *testing.T, authRequired bool) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memstore.New()
	a := &h.API{
		Periods:    store.Periods(),
		Buses:      store.Buses(),
		Passengers: store.Passengers(),
		Operators:  store.Operators(),
		Hub:        events.NewHub(),
		JWTSecret:  []byte("router-test"),
	}
	env := intconfig.Env{AuthRequired: authRequired, CORSOrigins: []string{"http://localhost:5173"}}
	return &testServer{t: t, router: NewRouter(env, a), api: a}
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"details"`
	RequestID string `json:"request_id"`
}

func (s *testServer) expect(w *httptest.ResponseRecorder, status int) envelope {
	s.t.Helper()
	if w.Code != status {
		s.t.Fatalf("status = %d, want %d: %s", w.Code, status, w.Body.String())
	}
	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			s.t.Fatalf("decode: %v (%s)", err, w.Body.String())
		}
	}
	return env
}

func (s *testServer) id(env envelope) string {
	s.t.Helper()
	var v struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &v); err != nil || v.ID == "" {
		s.t.Fatalf("no id in %s", env.Data)
	}
	return v.ID
}

func (s *testServer) seedBooking() (periodID, busID string) {
	s.t.Helper()
	periodID = s.id(s.expect(s.do(http.MethodPost, "/api/periods", gin.H{"name": "Mudik 2025"}), http.StatusCreated))
	busID = s.id(s.expect(s.do(http.MethodPost, "/api/periods/"+periodID+"/buses", gin.H{
		"destination": "Bandung", "max_passengers": 2, "fare_per_passenger": "50000", "meal_count": 1, "meal_price": "10000",
	}), http.StatusCreated))
	return periodID, busID
}

func pondokBody(name, busID string, seat int) gin.H {
	return gin.H{
		"name": name, "gender": "L", "address": "Jl. Pesantren", "status": "pondok",
		"group_pondok": "Santri Baru", "bus_id": busID, "bus_seat_number": seat, "petugas": "Ust. Hadi",
	}
}

func TestHealthAndRequestID(t *testing.T) {
	s := newTestServer(t, false)
	w := s.do(http.MethodGet, "/api/health", nil)
	s.expect(w, http.StatusOK)
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing request id header")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/db-check", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Header().Get("X-Request-ID") != "abc-123" {
		t.Fatalf("db-check %d, request id %q", w.Code, w.Header().Get("X-Request-ID"))
	}

	w = s.do(http.MethodGet, "/api/nowhere", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestBookingOverHTTP(t *testing.T) {
	s := newTestServer(t, false)
	periodID, busID := s.seedBooking()
	base := "/api/periods/" + periodID

	env := s.expect(s.do(http.MethodPost, base+"/passengers", pondokBody("Ahmad", busID, 1)), http.StatusCreated)
	var created struct {
		ID           string `json:"id"`
		TotalPayment string `json:"total_payment"`
		Destination  string `json:"destination"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode passenger: %v", err)
	}
	if created.TotalPayment != "50000" || created.Destination != "Bandung" {
		t.Fatalf("unexpected passenger %+v", created)
	}

	env = s.expect(s.do(http.MethodPost, base+"/passengers", pondokBody("Budi", busID, 1)), http.StatusConflict)
	if env.Code != "seat_taken" || env.RequestID == "" {
		t.Fatalf("unexpected conflict payload %+v", env)
	}
	env = s.expect(s.do(http.MethodPost, base+"/passengers", pondokBody("Budi", busID, 3)), http.StatusUnprocessableEntity)
	if env.Code != "seat_out_of_range" {
		t.Fatalf("unexpected code %q", env.Code)
	}

	umum := pondokBody("Siti", busID, 2)
	umum["status"] = "umum"
	umum["gender"] = "P"
	env = s.expect(s.do(http.MethodPost, base+"/passengers", umum), http.StatusBadRequest)
	if env.Code != "validation_error" || len(env.Details) == 0 {
		t.Fatalf("expected field details, got %+v", env)
	}
	fields := map[string]bool{}
	for _, d := range env.Details {
		fields[d.Field] = true
	}
	if !fields["phone"] || !fields["daerah_pondok"] || !fields["kelompok"] {
		t.Fatalf("missing umum field errors: %+v", env.Details)
	}

	w := s.do(http.MethodPost, base+"/buses/"+busID+"/seats/check", gin.H{"seat_number": 1, "passenger_id": created.ID})
	if !strings.Contains(w.Body.String(), `"available":true`) {
		t.Fatalf("own seat should be available: %s", w.Body.String())
	}
	w = s.do(http.MethodPost, base+"/buses/"+busID+"/seats/check", gin.H{"seat_number": 1})
	if !strings.Contains(w.Body.String(), `"code":"seat_taken"`) {
		t.Fatalf("seat 1 should be taken: %s", w.Body.String())
	}

	var seatMap struct {
		Occupied  int `json:"occupied"`
		Available int `json:"available"`
	}
	env = s.expect(s.do(http.MethodGet, base+"/buses/"+busID+"/seats", nil), http.StatusOK)
	if err := json.Unmarshal(env.Data, &seatMap); err != nil || seatMap.Occupied != 1 || seatMap.Available != 1 {
		t.Fatalf("unexpected seat map %s", env.Data)
	}

	w = s.do(http.MethodGet, base+"/passengers/"+created.ID+"/ticket", nil)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("ticket: %d %q", w.Code, w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "TIKET_Ahmad_1.pdf") {
		t.Fatalf("ticket disposition %q", w.Header().Get("Content-Disposition"))
	}

	w = s.do(http.MethodGet, base+"/manifest", nil)
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Header().Get("Content-Disposition"), "attachment") {
		t.Fatalf("manifest: %d %q", w.Code, w.Header().Get("Content-Disposition"))
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), services.ManifestFilename) {
		t.Fatalf("manifest filename %q", w.Header().Get("Content-Disposition"))
	}

	env = s.expect(s.do(http.MethodGet, base+"/passengers/missing", nil), http.StatusNotFound)
	if env.Code != "passenger_not_found" {
		t.Fatalf("unexpected code %q", env.Code)
	}
	env = s.expect(s.do(http.MethodGet, "/api/periods/missing/buses", nil), http.StatusNotFound)
	if env.Code != "period_not_found" {
		t.Fatalf("unexpected code %q", env.Code)
	}
}

func TestLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t, false)
	periodID, busID := s.seedBooking()
	base := "/api/periods/" + periodID

	s.expect(s.do(http.MethodPut, base+"/activate", nil), http.StatusOK)
	env := s.expect(s.do(http.MethodGet, "/api/periods/active", nil), http.StatusOK)
	if s.id(env) != periodID {
		t.Fatalf("active period mismatch")
	}

	env = s.expect(s.do(http.MethodDelete, base, nil), http.StatusConflict)
	if env.Code != "conflict" {
		t.Fatalf("deleting an active period should conflict, got %q", env.Code)
	}

	s.expect(s.do(http.MethodPut, base+"/lock", nil), http.StatusOK)
	env = s.expect(s.do(http.MethodPost, base+"/passengers", pondokBody("Ahmad", busID, 1)), http.StatusConflict)
	if env.Code != "period_locked" {
		t.Fatalf("unexpected code %q", env.Code)
	}

	s.expect(s.do(http.MethodPut, base+"/archive", nil), http.StatusOK)
	s.expect(s.do(http.MethodDelete, base, nil), http.StatusOK)
	s.expect(s.do(http.MethodGet, base, nil), http.StatusNotFound)

	w := s.do(http.MethodGet, "/api/periods/active", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"data":null`) {
		t.Fatalf("expected no active period: %d %s", w.Code, w.Body.String())
	}
}

func TestAuthRequiredForWrites(t *testing.T) {
	s := newTestServer(t, true)
	ctx := context.Background()
	if err := s.api.AuthService("").EnsureOperator(ctx, "hadi", "Ust. Hadi", "rahasia"); err != nil {
		t.Fatalf("seed operator: %v", err)
	}

	s.expect(s.do(http.MethodGet, "/api/periods", nil), http.StatusOK)
	env := s.expect(s.do(http.MethodPost, "/api/periods", gin.H{"name": "Mudik"}), http.StatusUnauthorized)
	if env.Code != "unauthorized" {
		t.Fatalf("unexpected code %q", env.Code)
	}

	s.expect(s.do(http.MethodPost, "/api/auth/login", gin.H{"username": "hadi", "password": "salah"}), http.StatusUnauthorized)
	s.expect(s.do(http.MethodPost, "/api/auth/login", nil), http.StatusBadRequest)

	w := s.do(http.MethodPost, "/api/auth/login", gin.H{"username": "hadi", "password": "rahasia"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &login); err != nil || login.Token == "" {
		t.Fatalf("no token: %s", w.Body.String())
	}

	s.token = login.Token
	periodID, busID := s.seedBooking()
	in := pondokBody("Ahmad", busID, 1)
	delete(in, "petugas")
	env = s.expect(s.do(http.MethodPost, "/api/periods/"+periodID+"/passengers", in), http.StatusCreated)
	if !strings.Contains(string(env.Data), `"petugas":"Ust. Hadi"`) {
		t.Fatalf("petugas not filled from operator: %s", env.Data)
	}

	s.token = "garbage"
	s.expect(s.do(http.MethodGet, "/api/periods", nil), http.StatusUnauthorized)
}

func TestEventStream(t *testing.T) {
	s := newTestServer(t, false)
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events?table=periods", nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer resp.Body.Close()
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream") {
		t.Fatalf("content type %q", resp.Header.Get("Content-Type"))
	}

	for deadline := time.Now().Add(2 * time.Second); s.api.Hub.SubscriberCount() == 0; {
		if time.Now().After(deadline) {
			t.Fatalf("stream never subscribed")
		}
		time.Sleep(10 * time.Millisecond)
	}
	s.expect(s.do(http.MethodPost, "/api/periods", gin.H{"name": "Mudik"}), http.StatusCreated)

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if scanner.Text() == "event:change" {
			if !scanner.Scan() || !strings.Contains(scanner.Text(), `"table":"periods"`) {
				t.Fatalf("unexpected change payload %q", scanner.Text())
			}
			return
		}
	}
	t.Fatalf("no change event received: %v", scanner.Err())
}
