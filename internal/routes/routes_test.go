package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/homebarber/internal/config"
	"github.com/BruksfildServices01/homebarber/internal/domain/identity"
	"github.com/BruksfildServices01/homebarber/internal/geo"
	"github.com/BruksfildServices01/homebarber/internal/infra/memory"
	"github.com/BruksfildServices01/homebarber/internal/metrics"
	"github.com/BruksfildServices01/homebarber/internal/middleware"
	"github.com/BruksfildServices01/homebarber/internal/payment"
	"github.com/BruksfildServices01/homebarber/internal/seed"
	"github.com/BruksfildServices01/homebarber/internal/snapshot"
	"github.com/BruksfildServices01/homebarber/internal/store"
	"github.com/BruksfildServices01/homebarber/internal/timezone"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// 2026-10-19 is a Monday.
var monday = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

type fakePayments struct {
	got payment.Checkout
	err error
}

func (f *fakePayments) CreatePreference(_ context.Context, c payment.Checkout) (payment.Preference, error) {
	f.got = c
	if f.err != nil {
		return payment.Preference{}, f.err
	}
	return payment.Preference{ID: "pref-1", InitPoint: "https://pay.example/pref-1"}, nil
}

type testServer struct {
	engine *gin.Engine
	reg    *prometheus.Registry
}

func newTestServer(t *testing.T, payments payment.Provider) *testServer {
	t.Helper()
	ctx := context.Background()

	reg := prometheus.NewRegistry()
	clock := timezone.Fixed(monday)
	opts := store.Options{
		Log:     zerolog.Nop(),
		Metrics: metrics.NewCollector(reg),
		Clock:   clock,
		Timeout: time.Second,
	}

	catalog := store.NewCatalog(memory.NewServiceRepository(0, seed.Services()), opts)
	provider := store.NewProvider(memory.NewBarberRepository(0, seed.Barbers()), geo.NewStaticGeocoder(), opts)
	booking := store.NewBooking(
		memory.NewAppointmentRepository(0),
		provider,
		snapshot.NewMemoryStorage(),
		store.BookingConfig{Location: time.UTC},
		opts,
	)
	if err := catalog.Fetch(ctx); err != nil {
		t.Fatalf("fetch catalog: %v", err)
	}
	if err := provider.Fetch(ctx); err != nil {
		t.Fatalf("fetch barbers: %v", err)
	}

	tokens := identity.NewTokenIssuer("test-secret", time.Hour)
	sessions := store.NewSessions(store.IdentityDeps{
		Users:    memory.NewUserRepository(0),
		Tokens:   tokens,
		Storage:  snapshot.NewMemoryStorage(),
		Profiles: provider,
	}, opts)

	cfg := &config.AppConfig{}
	cfg.Catalog.FeaturedLimit = 2

	r := gin.New()
	RegisterRoutes(r, Deps{
		Config:   cfg,
		Clock:    clock,
		Tokens:   tokens,
		Gatherer: reg,
		Sessions: sessions,
		Catalog:  catalog,
		Provider: provider,
		Booking:  booking,
		Payments: payments,
	})
	return &testServer{engine: r, reg: reg}
}

type call struct {
	method string
	path   string
	body   any
	token  string
	device string
}

func (s *testServer) do(t *testing.T, c call) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if c.body != nil {
		if err := json.NewEncoder(&body).Encode(c.body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(c.method, c.path, &body)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.device != "" {
		req.Header.Set(middleware.DeviceIDHeader, c.device)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON %q: %v", w.Body.String(), err)
	}
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, w)["error_code"].(string)
}

type authBody struct {
	User struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
	Token string `json:"token"`
}

func (s *testServer) register(t *testing.T, device, email string, role identity.Role) authBody {
	t.Helper()
	w := s.do(t, call{
		method: http.MethodPost,
		path:   "/api/auth/register",
		device: device,
		body: map[string]string{
			"name": "User " + device, "email": email, "password": "secret1", "role": string(role),
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", email, w.Code, w.Body.String())
	}
	return decode[authBody](t, w)
}

type appointmentBody struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, nil)

	if w := s.do(t, call{method: http.MethodGet, path: "/health"}); w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}

	s.do(t, call{method: http.MethodPost, path: "/api/auth/login", device: "phone", body: map[string]string{
		"email": "nobody@example.com", "password": "whatever",
	}})

	w := s.do(t, call{method: http.MethodGet, path: "/metrics"})
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `homebarber_auth_attempts_total{op="login",outcome="rejected"} 1`) {
		t.Errorf("login rejection not exported:\n%s", w.Body.String())
	}
}

func TestBrowse(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name      string
		path      string
		wantCode  int
		wantTotal int
	}{
		{"services", "/api/services", http.StatusOK, 6},
		{"barbers by service", "/api/barbers?service=coloring", http.StatusOK, 1},
		{"featured default limit", "/api/barbers/featured", http.StatusOK, 2},
		{"featured explicit limit", "/api/barbers/featured?limit=1", http.StatusOK, 1},
		{"barber services", "/api/barbers/1/services", http.StatusOK, 3},
		{"featured bad limit", "/api/barbers/featured?limit=x", http.StatusBadRequest, 0},
		{"nearby needs coordinates", "/api/barbers/nearby", http.StatusBadRequest, 0},
		{"unknown barber", "/api/barbers/404", http.StatusNotFound, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, call{method: http.MethodGet, path: tt.path})
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantCode, w.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			body := decode[struct {
				Total int `json:"total"`
			}](t, w)
			if body.Total != tt.wantTotal {
				t.Errorf("total = %d, want %d", body.Total, tt.wantTotal)
			}
		})
	}
}

func TestNearby_ClosestFirst(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, call{method: http.MethodGet, path: "/api/barbers/nearby?lat=33.5951&lng=-7.6188&radius_km=50"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decode[struct {
		Data []struct {
			ID         string  `json:"id"`
			DistanceKm float64 `json:"distanceKm"`
		} `json:"data"`
	}](t, w)
	if len(body.Data) == 0 || body.Data[0].ID != "2" {
		t.Fatalf("nearest = %+v, want barber 2 first", body.Data)
	}
}

func TestAvailability_DayAndTaken(t *testing.T) {
	s := newTestServer(t, nil)
	customer := s.register(t, "phone-1", "amina@example.com", identity.RoleCustomer)

	w := s.do(t, call{method: http.MethodPost, path: "/api/appointments", token: customer.Token, body: map[string]string{
		"barberId": "1", "date": "2026-10-19", "time": "12:00", "serviceId": "2",
	}})
	if w.Code != http.StatusCreated {
		t.Fatalf("book status = %d, body %s", w.Code, w.Body.String())
	}

	w = s.do(t, call{method: http.MethodGet, path: "/api/barbers/1/availability?day=mon"})
	if w.Code != http.StatusOK {
		t.Fatalf("availability status = %d, body %s", w.Code, w.Body.String())
	}
	body := decode[struct {
		Date  string `json:"date"`
		Slots []struct {
			Time  string `json:"time"`
			Taken bool   `json:"taken"`
		} `json:"slots"`
	}](t, w)

	if body.Date != "2026-10-19" {
		t.Errorf("date = %s, want today", body.Date)
	}
	if len(body.Slots) != 4 {
		t.Fatalf("slots = %+v", body.Slots)
	}
	for _, slot := range body.Slots {
		if slot.Taken != (slot.Time == "12:00") {
			t.Errorf("slot %s taken = %v", slot.Time, slot.Taken)
		}
	}

	if w := s.do(t, call{method: http.MethodGet, path: "/api/barbers/1/availability"}); w.Code != http.StatusBadRequest {
		t.Errorf("missing date status = %d", w.Code)
	}
}

func TestBookingLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	barber := s.register(t, "barber-phone", "omar@example.com", identity.RoleBarber)
	customer := s.register(t, "customer-phone", "amina@example.com", identity.RoleCustomer)
	stranger := s.register(t, "other-phone", "x@example.com", identity.RoleCustomer)

	w := s.do(t, call{method: http.MethodPut, path: "/api/me/availability", token: barber.Token, device: "barber-phone", body: map[string]any{
		"availability": map[string][]string{"Mon": {"15:00"}},
	}})
	if w.Code != http.StatusOK {
		t.Fatalf("availability status = %d, body %s", w.Code, w.Body.String())
	}
	w = s.do(t, call{method: http.MethodPut, path: "/api/me/services", token: barber.Token, device: "barber-phone", body: map[string]any{
		"services": []string{"haircut"},
	}})
	if w.Code != http.StatusOK {
		t.Fatalf("services status = %d, body %s", w.Code, w.Body.String())
	}

	// barbers cannot book
	w = s.do(t, call{method: http.MethodPost, path: "/api/appointments", token: barber.Token, body: map[string]string{
		"barberId": barber.User.ID, "date": "2026-10-19", "time": "15:00", "service": "Haircut",
	}})
	if w.Code != http.StatusForbidden {
		t.Fatalf("barber booking status = %d", w.Code)
	}

	w = s.do(t, call{method: http.MethodPost, path: "/api/appointments", token: customer.Token, body: map[string]string{
		"barberId": barber.User.ID, "date": "2026-10-19", "time": "16:00", "service": "haircut",
	}})
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "slot_not_offered" {
		t.Fatalf("off-template booking: %d %s", w.Code, w.Body.String())
	}

	w = s.do(t, call{method: http.MethodPost, path: "/api/appointments", token: customer.Token, body: map[string]string{
		"barberId": barber.User.ID, "date": "2026-10-19", "time": "15:00", "service": "haircut",
	}})
	if w.Code != http.StatusCreated {
		t.Fatalf("book status = %d, body %s", w.Code, w.Body.String())
	}
	ap := decode[appointmentBody](t, w)
	if ap.Status != "pending" {
		t.Fatalf("status = %s, want pending", ap.Status)
	}

	path := "/api/appointments/" + ap.ID
	steps := []struct {
		name     string
		path     string
		token    string
		wantCode int
		wantBody string
	}{
		{"customer cannot confirm", path + "/confirm", customer.Token, http.StatusForbidden, "forbidden"},
		{"stranger cannot cancel", path + "/cancel", stranger.Token, http.StatusForbidden, "forbidden"},
		{"barber confirms", path + "/confirm", barber.Token, http.StatusOK, "confirmed"},
		{"barber completes", path + "/complete", barber.Token, http.StatusOK, "completed"},
		{"completed cannot be cancelled", path + "/cancel", customer.Token, http.StatusConflict, "invalid_state"},
		{"unknown id", "/api/appointments/nope/cancel", customer.Token, http.StatusNotFound, "appointment_not_found"},
	}
	for _, st := range steps {
		w := s.do(t, call{method: http.MethodPatch, path: st.path, token: st.token})
		if w.Code != st.wantCode {
			t.Fatalf("%s: status = %d, body %s", st.name, w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), st.wantBody) {
			t.Errorf("%s: body %s, want %s", st.name, w.Body.String(), st.wantBody)
		}
	}

	w = s.do(t, call{method: http.MethodGet, path: "/api/appointments?scope=upcoming", token: barber.Token})
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	list := decode[struct {
		Total int `json:"total"`
		Data  []struct {
			BarberName string `json:"barberName"`
			Service    string `json:"service"`
			Status     string `json:"status"`
		} `json:"data"`
	}](t, w)
	if list.Total != 1 || list.Data[0].Status != "completed" || list.Data[0].Service != "Haircut" {
		t.Errorf("list = %+v", list)
	}
	if list.Data[0].BarberName != "User barber-phone" {
		t.Errorf("barber name = %q", list.Data[0].BarberName)
	}

	if w := s.do(t, call{method: http.MethodGet, path: "/api/appointments?scope=later", token: customer.Token}); w.Code != http.StatusBadRequest {
		t.Errorf("bad scope status = %d", w.Code)
	}
}

func TestCancelTwiceIsIdempotent(t *testing.T) {
	s := newTestServer(t, nil)
	customer := s.register(t, "phone", "amina@example.com", identity.RoleCustomer)

	w := s.do(t, call{method: http.MethodPost, path: "/api/appointments", token: customer.Token, body: map[string]string{
		"barberId": "2", "date": "2026-10-20", "time": "09:00", "service": "Beard Trim",
	}})
	ap := decode[appointmentBody](t, w)

	for i := 0; i < 2; i++ {
		w := s.do(t, call{method: http.MethodPatch, path: "/api/appointments/" + ap.ID + "/cancel", token: customer.Token})
		if w.Code != http.StatusOK || decode[appointmentBody](t, w).Status != "cancelled" {
			t.Fatalf("cancel #%d: %d %s", i+1, w.Code, w.Body.String())
		}
	}
}

func TestCheckout(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		s := newTestServer(t, nil)
		customer := s.register(t, "phone", "amina@example.com", identity.RoleCustomer)

		w := s.do(t, call{method: http.MethodPost, path: "/api/appointments/any/checkout", token: customer.Token})
		if w.Code != http.StatusServiceUnavailable || errorCode(t, w) != "payments_disabled" {
			t.Fatalf("got %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("creates preference for the barber price", func(t *testing.T) {
		payments := &fakePayments{}
		s := newTestServer(t, payments)
		customer := s.register(t, "phone", "amina@example.com", identity.RoleCustomer)

		w := s.do(t, call{method: http.MethodPost, path: "/api/appointments", token: customer.Token, body: map[string]string{
			"barberId": "1", "date": "2026-10-19", "time": "10:00", "service": "Haircut",
		}})
		ap := decode[appointmentBody](t, w)

		w = s.do(t, call{method: http.MethodPost, path: "/api/appointments/" + ap.ID + "/checkout", token: customer.Token})
		if w.Code != http.StatusOK {
			t.Fatalf("checkout status = %d, body %s", w.Code, w.Body.String())
		}
		if pref := decode[payment.Preference](t, w); pref.InitPoint == "" {
			t.Errorf("missing init point: %+v", pref)
		}
		if payments.got.Amount != 120 || payments.got.AppointmentID != ap.ID {
			t.Errorf("checkout = %+v", payments.got)
		}
	})

	t.Run("provider failure", func(t *testing.T) {
		s := newTestServer(t, &fakePayments{err: errors.New("gateway down")})
		customer := s.register(t, "phone", "amina@example.com", identity.RoleCustomer)

		w := s.do(t, call{method: http.MethodPost, path: "/api/appointments", token: customer.Token, body: map[string]string{
			"barberId": "1", "date": "2026-10-19", "time": "10:00", "service": "Haircut",
		}})
		ap := decode[appointmentBody](t, w)

		w = s.do(t, call{method: http.MethodPost, path: "/api/appointments/" + ap.ID + "/checkout", token: customer.Token})
		if w.Code != http.StatusBadGateway {
			t.Fatalf("status = %d", w.Code)
		}
	})
}

func TestMe_SessionPerDevice(t *testing.T) {
	s := newTestServer(t, nil)
	customer := s.register(t, "phone-a", "amina@example.com", identity.RoleCustomer)

	w := s.do(t, call{method: http.MethodGet, path: "/api/me", token: customer.Token, device: "phone-a"})
	if w.Code != http.StatusOK {
		t.Fatalf("me status = %d, body %s", w.Code, w.Body.String())
	}

	w = s.do(t, call{method: http.MethodGet, path: "/api/me", token: customer.Token, device: "phone-b"})
	if w.Code != http.StatusUnauthorized || errorCode(t, w) != "session_mismatch" {
		t.Fatalf("other device: %d %s", w.Code, w.Body.String())
	}

	w = s.do(t, call{method: http.MethodPatch, path: "/api/me", token: customer.Token, device: "phone-a", body: map[string]string{
		"name": "Amina <b>B.</b>", "phone": "+212600000000",
	}})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"name":"Amina B."`) {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}

	w = s.do(t, call{method: http.MethodPost, path: "/api/me/avatar", token: customer.Token, device: "phone-a"})
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("avatar without storage status = %d", w.Code)
	}

	w = s.do(t, call{method: http.MethodPost, path: "/api/auth/logout", token: customer.Token, device: "phone-a"})
	if w.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d", w.Code)
	}
	w = s.do(t, call{method: http.MethodGet, path: "/api/auth/session", token: customer.Token, device: "phone-a"})
	if w.Code != http.StatusUnauthorized || errorCode(t, w) != "session_mismatch" {
		t.Errorf("session after logout: %d %s", w.Code, w.Body.String())
	}
}

func TestAuthSession_GuardedByTokenAndDevice(t *testing.T) {
	s := newTestServer(t, nil)
	victim := s.register(t, "victim-phone", "amina@example.com", identity.RoleCustomer)
	other := s.register(t, "other-phone", "omar@example.com", identity.RoleCustomer)

	tests := []struct {
		name     string
		call     call
		wantCode int
		wantErr  string
	}{
		{"anonymous session read",
			call{method: http.MethodGet, path: "/api/auth/session", device: "victim-phone"},
			http.StatusUnauthorized, "missing_authorization_header"},
		{"anonymous logout",
			call{method: http.MethodPost, path: "/api/auth/logout", device: "victim-phone"},
			http.StatusUnauthorized, "missing_authorization_header"},
		{"no device header",
			call{method: http.MethodGet, path: "/api/auth/session", token: victim.Token},
			http.StatusBadRequest, "missing_device_id"},
		{"other user's session read",
			call{method: http.MethodGet, path: "/api/auth/session", token: other.Token, device: "victim-phone"},
			http.StatusUnauthorized, "session_mismatch"},
		{"other user's logout",
			call{method: http.MethodPost, path: "/api/auth/logout", token: other.Token, device: "victim-phone"},
			http.StatusUnauthorized, "session_mismatch"},
		{"me without device",
			call{method: http.MethodGet, path: "/api/me", token: victim.Token},
			http.StatusBadRequest, "missing_device_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.call)
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantCode, w.Body.String())
			}
			if got := errorCode(t, w); got != tt.wantErr {
				t.Errorf("error_code = %s, want %s", got, tt.wantErr)
			}
		})
	}

	w := s.do(t, call{method: http.MethodGet, path: "/api/auth/session", token: victim.Token, device: "victim-phone"})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"isAuthenticated":true`) {
		t.Fatalf("own session: %d %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), victim.Token) || strings.Contains(w.Body.String(), `"token"`) {
		t.Errorf("session response leaks the token: %s", w.Body.String())
	}
}

func TestAuthErrors(t *testing.T) {
	s := newTestServer(t, nil)
	s.register(t, "phone", "amina@example.com", identity.RoleCustomer)

	tests := []struct {
		name     string
		path     string
		body     map[string]string
		wantCode int
		wantErr  string
	}{
		{"wrong password", "/api/auth/login",
			map[string]string{"email": "amina@example.com", "password": "nope123"},
			http.StatusUnauthorized, "invalid_credentials"},
		{"wrong role", "/api/auth/login",
			map[string]string{"email": "amina@example.com", "password": "secret1", "role": "barber"},
			http.StatusUnauthorized, "role_mismatch"},
		{"duplicate email", "/api/auth/register",
			map[string]string{"name": "A", "email": "AMINA@example.com", "password": "secret1"},
			http.StatusConflict, "email_already_registered"},
		{"missing fields", "/api/auth/register",
			map[string]string{"email": "b@example.com"},
			http.StatusBadRequest, "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, call{method: http.MethodPost, path: tt.path, body: tt.body, device: "phone"})
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantCode, w.Body.String())
			}
			if got := errorCode(t, w); got != tt.wantErr {
				t.Errorf("error_code = %s, want %s", got, tt.wantErr)
			}
		})
	}

	if w := s.do(t, call{method: http.MethodGet, path: "/api/me"}); w.Code != http.StatusUnauthorized {
		t.Errorf("me without token status = %d", w.Code)
	}
}
