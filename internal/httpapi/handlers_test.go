package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdrakibmia99/hospital-management-system-server/internal/auth"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/availability"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/booking"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/catalog"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/directory"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/metrics"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/models"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/payments"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/store/memstore"
)

type testServer struct {
	router *gin.Engine
	store  *memstore.Store
	issuer *auth.Issuer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memstore.New(
		models.Service{Name: "Checkup", Slots: []string{"10:00", "11:00", "12:00"}, Price: 25},
		models.Service{Name: "Cleaning", Slots: []string{"09:00"}, Price: 40},
	)
	issuer := auth.NewIssuer("test-secret", 0)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	logger := zerolog.Nop()

	api := New(Config{
		Catalog:      catalog.New(store),
		Availability: availability.New(store, store),
		Bookings: booking.NewService(booking.Config{
			Bookings: store,
			Payments: store,
			Metrics:  m,
			Logger:   logger,
		}),
		Directory: directory.NewService(directory.Config{
			Users:    store,
			Doctors:  store,
			Feedback: store,
			Tokens:   issuer,
			Logger:   logger,
		}),
		Payments: payments.NewStripeClient(payments.Config{DryRun: true}, m, logger),
		Tokens:   issuer,
		Health:   store,
		Metrics:  m,
		Gatherer: reg,
		Logger:   logger,
	})
	return &testServer{router: api.Router(), store: store, issuer: issuer}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) token(t *testing.T, email string) string {
	t.Helper()
	token, err := s.issuer.Issue(email)
	require.NoError(t, err)
	return token
}

func (s *testServer) makeAdmin(t *testing.T, email string) {
	t.Helper()
	_, err := s.store.UpsertUser(context.Background(), email, models.User{})
	require.NoError(t, err)
	_, err = s.store.SetUserRole(context.Background(), email, models.RoleAdmin)
	require.NoError(t, err)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type bookingResponse struct {
	Success bool           `json:"success"`
	Result  models.Booking `json:"result"`
}

func checkupBooking(patient, email, slot string) models.Booking {
	return models.Booking{
		TreatmentName:   "Checkup",
		PatientName:     patient,
		PatientEmail:    email,
		AppointmentDate: "2024-05-01",
		AppointmentTime: slot,
	}
}

func TestRootAndHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "running")
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	rec = s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetServicesHidesSlots(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/services", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	services := decode[[]map[string]any](t, rec)
	require.Len(t, services, 2)
	assert.Equal(t, "Checkup", services[0]["name"])
	assert.NotContains(t, services[0], "slots")
}

func TestBookingThenAvailability(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/booking", "", checkupBooking("Alice", "alice@example.com", "11:00"))
	require.Equal(t, http.StatusOK, rec.Code)
	first := decode[bookingResponse](t, rec)
	assert.True(t, first.Success)

	rec = s.do(t, http.MethodGet, "/available?date=2024-05-01", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	options := decode[[]models.ServiceAvailability](t, rec)
	require.Len(t, options, 2)
	assert.Equal(t, []string{"10:00", "12:00"}, options[0].Slots)
	assert.Equal(t, []string{"11:00"}, options[0].Booked)
	assert.Equal(t, []string{"09:00"}, options[1].Slots)
}

func TestAvailableRequiresDate(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/available", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec), "message")
}

func TestDuplicateBookingReturnsExisting(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/booking", "", checkupBooking("Alice", "alice@example.com", "11:00"))
	first := decode[bookingResponse](t, rec)

	rec = s.do(t, http.MethodPost, "/booking", "", checkupBooking("Alice", "alice@example.com", "12:00"))
	require.Equal(t, http.StatusOK, rec.Code)
	second := decode[bookingResponse](t, rec)
	assert.False(t, second.Success)
	assert.Equal(t, first.Result.ID, second.Result.ID)
	assert.Equal(t, "11:00", second.Result.AppointmentTime)
	assert.Equal(t, 1, s.store.BookingCount())
}

func TestPostBookingValidation(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/booking", "", map[string]string{"patientName": "Alice"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, s.store.BookingCount())
}

func TestBookingsAuth(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/booking", "", checkupBooking("Alice", "alice@example.com", "11:00"))

	tests := []struct {
		name   string
		header string
		path   string
		want   int
	}{
		{"missing header", "", "/bookings?email=alice@example.com", http.StatusUnauthorized},
		{"not bearer", "Basic abc", "/bookings?email=alice@example.com", http.StatusUnauthorized},
		{"bad token", "Bearer not-a-jwt", "/bookings?email=alice@example.com", http.StatusForbidden},
		{"other patient", "Bearer " + s.token(t, "bob@example.com"), "/bookings?email=alice@example.com", http.StatusForbidden},
		{"self", "Bearer " + s.token(t, "alice@example.com"), "/bookings?email=alice@example.com", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			s.router.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestPaymentFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "alice@example.com")

	rec := s.do(t, http.MethodPost, "/booking", "", checkupBooking("Alice", "alice@example.com", "10:00"))
	created := decode[bookingResponse](t, rec)
	id := created.Result.ID.Hex()

	rec = s.do(t, http.MethodPost, "/create-payment-intent", token, map[string]float64{"price": 25})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[map[string]string](t, rec)["clientSecret"])

	rec = s.do(t, http.MethodPatch, "/booking/"+id, token, map[string]any{"transactionId": "tx1", "amount": 25})
	require.Equal(t, http.StatusOK, rec.Code)
	result := decode[models.UpdateResult](t, rec)
	assert.Equal(t, int64(1), result.MatchedCount)

	rec = s.do(t, http.MethodGet, "/booking/"+id, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[models.Booking](t, rec)
	assert.True(t, got.Paid)
	assert.Equal(t, "tx1", got.TransactionID)
	assert.Len(t, s.store.Payments(), 1)
}

func TestPaymentIntentRejectsBadPrice(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/create-payment-intent", s.token(t, "alice@example.com"), map[string]float64{"price": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookingByIDErrors(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "alice@example.com")

	rec := s.do(t, http.MethodGet, "/booking/not-hex", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/booking/65f0c0ffee0000000000beef", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPatch, "/booking/65f0c0ffee0000000000beef", token, map[string]string{"transactionId": "tx1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, s.store.Payments())
}

func TestUserAndAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	s.makeAdmin(t, "root@example.com")

	rec := s.do(t, http.MethodPut, "/user/alice@example.com", "", map[string]string{"name": "Alice", "role": "admin"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	aliceToken, _ := body["token"].(string)
	require.NotEmpty(t, aliceToken)

	rec = s.do(t, http.MethodGet, "/admin/alice@example.com", "", nil)
	assert.JSONEq(t, `{"admin":false}`, rec.Body.String())

	rec = s.do(t, http.MethodPut, "/user/admin/bob@example.com", aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPut, "/user/admin/alice@example.com", s.token(t, "root@example.com"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[map[string]any](t, rec)["token"])

	rec = s.do(t, http.MethodGet, "/admin/alice@example.com", "", nil)
	assert.JSONEq(t, `{"admin":true}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/doctor/ghost@example.com", "", nil)
	assert.JSONEq(t, `{"doctor":false}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/user", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.User](t, rec), 2)

	rec = s.do(t, http.MethodDelete, "/user/alice@example.com", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decode[models.DeleteResult](t, rec).DeletedCount)
}

func TestDoctorRoutesRequireAdmin(t *testing.T) {
	s := newTestServer(t)
	s.makeAdmin(t, "root@example.com")
	admin := s.token(t, "root@example.com")
	doctor := models.Doctor{Name: "Dr. Who", Email: "who@example.com", Specialty: "Checkup"}

	rec := s.do(t, http.MethodPost, "/doctor", s.token(t, "alice@example.com"), doctor)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/doctor", "", doctor)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/doctor", admin, doctor)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/doctor", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Doctor](t, rec), 1)

	rec = s.do(t, http.MethodDelete, "/doctor/who@example.com", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decode[models.DeleteResult](t, rec).DeletedCount)
}

func TestPublicProfileAndFeedbackRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/oncologists", "", models.Doctor{Name: "Dr. Onco", Email: "onco@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodGet, "/oncologists", "", nil)
	assert.Len(t, decode[[]models.Doctor](t, rec), 1)

	rec = s.do(t, http.MethodPut, "/reviews/alice@example.com", "", models.Review{Rating: 5, Comment: "great"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodPut, "/reviews/alice@example.com", "", models.Review{Rating: 4, Comment: "good"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodGet, "/reviews", "", nil)
	reviews := decode[[]models.Review](t, rec)
	require.Len(t, reviews, 1)
	assert.Equal(t, 4, reviews[0].Rating)

	rec = s.do(t, http.MethodPost, "/contact", "", models.Contact{Name: "Alice", Email: "alice@example.com", Message: "hi"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodPost, "/contact", "", map[string]string{"name": "Alice"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/services", "", nil)

	rec := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "portal_http_requests_total")
}
