package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/Harmonybod/Event-Ticketing-System/internal/reservation/api"
)

func newTestRouter() *chi.Mux {
	handler := api.NewHandler(nil)
	r := chi.NewRouter()
	r.Post("/api/reservations", handler.CreateReservation)
	r.Put("/api/reservations/{reservationId}/approve", handler.ApproveReservation)
	r.Post("/api/customers", handler.AddCustomer)
	return r
}

// Request-shape failures are rejected before the service is touched, so a
// nil service is safe here.
func TestCreateReservationRejectsMalformedBody(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/reservations", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid request body")
}

func TestCreateReservationRejectsBadPhone(t *testing.T) {
	router := newTestRouter()

	body := `{"phone_number":"0911-no-code","customer_name":"Alice","total_tickets":1,"ticket_type":"promo"}`
	req := httptest.NewRequest(http.MethodPost, "/api/reservations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid phone number")
}

func TestAddCustomerRejectsBadPhone(t *testing.T) {
	router := newTestRouter()

	body := `{"phone_number":"not-a-phone","name":"Alice"}`
	req := httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid phone number")
}

func TestApproveRejectsNonNumericID(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPut, "/api/reservations/abc/approve", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid reservation id")
}
