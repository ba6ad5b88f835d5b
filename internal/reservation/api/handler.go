package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Harmonybod/Event-Ticketing-System/internal/reservation"
	"github.com/Harmonybod/Event-Ticketing-System/internal/utils"
)

type Handler struct {
	Service *reservation.Service
}

func NewHandler(s *reservation.Service) *Handler {
	return &Handler{Service: s}
}

// statusFor maps the service error taxonomy onto HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, reservation.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, reservation.ErrDeadlinePassed):
		return http.StatusForbidden
	case errors.Is(err, reservation.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, reservation.ErrCapacityExceeded):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func reservationIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "reservationId"), 10, 64)
}

type createRequest struct {
	PhoneNumber  string `json:"phone_number"`
	CustomerName string `json:"customer_name"`
	TotalTickets int    `json:"total_tickets"`
	TicketType   string `json:"ticket_type"`
}

func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	phone, err := utils.NormalizePhone(req.PhoneNumber)
	if err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.Service.Create(r.Context(), phone, req.CustomerName, req.TotalTickets, req.TicketType)
	if err != nil {
		utils.ErrorResponse(w, statusFor(err), err.Error())
		return
	}
	utils.SuccessResponse(w, http.StatusCreated, "Reservation created", result)
}

func (h *Handler) ApproveReservation(w http.ResponseWriter, r *http.Request) {
	id, err := reservationIDParam(r)
	if err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid reservation id")
		return
	}
	result, err := h.Service.Approve(r.Context(), id)
	if err != nil {
		utils.ErrorResponse(w, statusFor(err), err.Error())
		return
	}
	utils.SuccessResponse(w, http.StatusOK, result.Message, result)
}

func (h *Handler) RejectReservation(w http.ResponseWriter, r *http.Request) {
	id, err := reservationIDParam(r)
	if err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid reservation id")
		return
	}
	if err := h.Service.Reject(r.Context(), id); err != nil {
		utils.ErrorResponse(w, statusFor(err), err.Error())
		return
	}
	utils.SuccessResponse(w, http.StatusOK, "Reservation rejected", nil)
}

func (h *Handler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	id, err := reservationIDParam(r)
	if err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid reservation id")
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		utils.ErrorResponse(w, statusFor(err), err.Error())
		return
	}
	utils.SuccessResponse(w, http.StatusOK, "Reservation deleted", nil)
}

func (h *Handler) ListReservations(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	search := r.URL.Query().Get("search")

	result, err := h.Service.ListAll(r.Context(), page, limit, search)
	if err != nil {
		utils.ErrorResponse(w, statusFor(err), err.Error())
		return
	}
	utils.SuccessResponse(w, http.StatusOK, "", result)
}

func (h *Handler) ReservationsByPhone(w http.ResponseWriter, r *http.Request) {
	phone, err := utils.NormalizePhone(chi.URLParam(r, "phone"))
	if err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	reservations, err := h.Service.ListByPhone(r.Context(), phone)
	if err != nil {
		utils.ErrorResponse(w, statusFor(err), err.Error())
		return
	}
	utils.SuccessResponse(w, http.StatusOK, "", reservations)
}

func (h *Handler) ReservationTickets(w http.ResponseWriter, r *http.Request) {
	id, err := reservationIDParam(r)
	if err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid reservation id")
		return
	}
	tickets, err := h.Service.TicketsOf(r.Context(), id)
	if err != nil {
		utils.ErrorResponse(w, statusFor(err), err.Error())
		return
	}
	utils.SuccessResponse(w, http.StatusOK, "", tickets)
}

func (h *Handler) PromoAvailability(w http.ResponseWriter, r *http.Request) {
	availability, err := h.Service.PromoAvailability(r.Context())
	if err != nil {
		utils.ErrorResponse(w, statusFor(err), err.Error())
		return
	}
	utils.SuccessResponse(w, http.StatusOK, "", availability)
}

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	search := r.URL.Query().Get("search")

	result, err := h.Service.ListCustomers(r.Context(), page, limit, search)
	if err != nil {
		utils.ErrorResponse(w, statusFor(err), err.Error())
		return
	}
	utils.SuccessResponse(w, http.StatusOK, "", result)
}

func (h *Handler) SearchCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Service.SearchCustomers(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		utils.ErrorResponse(w, statusFor(err), err.Error())
		return
	}
	utils.SuccessResponse(w, http.StatusOK, "", customers)
}

type addCustomerRequest struct {
	PhoneNumber string `json:"phone_number"`
	Name        string `json:"name"`
}

func (h *Handler) AddCustomer(w http.ResponseWriter, r *http.Request) {
	var req addCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	phone, err := utils.NormalizePhone(req.PhoneNumber)
	if err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	customer, err := h.Service.AddCustomer(r.Context(), phone, req.Name)
	if err != nil {
		utils.ErrorResponse(w, statusFor(err), err.Error())
		return
	}
	utils.SuccessResponse(w, http.StatusCreated, "Customer saved", customer)
}

type instantRequest struct {
	PhoneNumber string  `json:"phone_number"`
	EventID     int64   `json:"event_id"`
	Count       int     `json:"count"`
	Amount      float64 `json:"amount"`
	TicketType  string  `json:"ticket_type"`
}

func (h *Handler) CreateInstantTickets(w http.ResponseWriter, r *http.Request) {
	var req instantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	phone, err := utils.NormalizePhone(req.PhoneNumber)
	if err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.Service.CreateInstant(r.Context(), phone, req.EventID, req.Count, req.Amount, req.TicketType)
	if err != nil {
		utils.ErrorResponse(w, statusFor(err), err.Error())
		return
	}
	utils.SuccessResponse(w, http.StatusCreated, "Tickets created", result)
}

type paymentRequest struct {
	PhoneNumber string  `json:"phone_number"`
	EventID     int64   `json:"event_id"`
	Amount      float64 `json:"amount"`
	TicketType  string  `json:"ticket_type"`
}

func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	phone, err := utils.NormalizePhone(req.PhoneNumber)
	if err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.Service.ConfirmPayment(r.Context(), phone, req.EventID, req.Amount, req.TicketType)
	if err != nil {
		utils.ErrorResponse(w, statusFor(err), err.Error())
		return
	}
	utils.SuccessResponse(w, http.StatusOK, result.Message, result)
}

func (h *Handler) GenerateQRCodes(w http.ResponseWriter, r *http.Request) {
	id, err := reservationIDParam(r)
	if err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid reservation id")
		return
	}
	files, err := h.Service.GenerateQRCodes(r.Context(), id)
	if err != nil {
		utils.ErrorResponse(w, statusFor(err), err.Error())
		return
	}
	utils.SuccessResponse(w, http.StatusOK, "QR codes generated", files)
}

func (h *Handler) SendQRCodes(w http.ResponseWriter, r *http.Request) {
	id, err := reservationIDParam(r)
	if err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid reservation id")
		return
	}
	report, err := h.Service.SendQRCodes(r.Context(), id)
	if err != nil {
		utils.ErrorResponse(w, statusFor(err), err.Error())
		return
	}
	utils.SuccessResponse(w, http.StatusOK, "QR codes sent", report)
}
