package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Harmonybod/Event-Ticketing-System/internal/config"
	"github.com/Harmonybod/Event-Ticketing-System/internal/logger"
	"github.com/Harmonybod/Event-Ticketing-System/internal/models"
	"github.com/Harmonybod/Event-Ticketing-System/internal/reservation/db"
)

type DBLayer interface {
	EnsureCustomer(ctx context.Context, phone, name string) error
	GetCustomer(ctx context.Context, phone string) (*models.Customer, error)
	SearchCustomers(ctx context.Context, query string, limit int) ([]models.Customer, error)
	ListCustomers(ctx context.Context, search string, limit, offset int) ([]models.Customer, int, error)
	CreateReservation(ctx context.Context, reservation *models.Reservation) error
	GetReservationByID(ctx context.Context, id int64) (*models.Reservation, error)
	UpdateReservationStatus(ctx context.Context, id int64, status string) error
	DeleteReservationCascade(ctx context.Context, id int64) error
	SumActiveTicketsByPhone(ctx context.Context, phone string) (int, error)
	CountPromoTicketsInUse(ctx context.Context) (int, error)
	AllocateCodes(ctx context.Context, reservationID int64, count int) ([]string, error)
	InsertTicketsGuarded(ctx context.Context, tickets []models.Ticket, promoCap int) error
	TicketsByReservation(ctx context.Context, reservationID int64) ([]models.Ticket, error)
	ApprovedTickets(ctx context.Context, reservationID int64) ([]models.Ticket, error)
	ReservationsByPhone(ctx context.Context, phone string) ([]models.ReservationWithCodes, error)
	ListReservations(ctx context.Context, search string, limit, offset int) ([]models.ReservationSummary, int, error)
	GetEventDate(ctx context.Context, eventID int64) (string, error)
	ApproveReservationTickets(ctx context.Context, reservationID, eventID int64, dateCompact, phone string, now time.Time) ([]string, error)
	CreateInstantTickets(ctx context.Context, phone string, eventID int64, dateCompact string, count int, amount float64, ticketType string, promoCap int, now time.Time) ([]string, error)
	ApprovePaidTickets(ctx context.Context, phone string, eventID int64, dateCompact string, amount float64, ticketType string, now time.Time) (int, error)
}

// SequenceLock serializes hashkey numbering per (event, phone) across
// service instances.
type SequenceLock interface {
	Acquire(ctx context.Context, eventID int64, phone, owner string) (bool, error)
	Release(ctx context.Context, eventID int64, phone, owner string) error
}

type KafkaPublisher interface {
	PublishReservationCreated(reservation models.Reservation, codes []string) error
	PublishReservationApproved(reservation models.Reservation, hashkeys []string) error
	PublishReservationRejected(reservation models.Reservation) error
	PublishReservationDeleted(reservationID int64) error
}

// QRRenderer writes a scannable PNG for a hashkey and resolves filenames
// back to paths for upload.
type QRRenderer interface {
	WriteFile(hashkey string) (filename string, err error)
	Path(filename string) string
}

// ImageHost uploads a local file and returns a public URL.
type ImageHost interface {
	Upload(ctx context.Context, localPath string) (string, error)
}

// MessageSender delivers notifications. Failures are logged per item and
// never roll back ticket state.
type MessageSender interface {
	SendText(ctx context.Context, phone, body string) error
	SendImage(ctx context.Context, phone, imageURL string) error
}

type Service struct {
	DB       DBLayer
	Lock     SequenceLock
	Kafka    KafkaPublisher
	QR       QRRenderer
	Images   ImageHost
	Messages MessageSender
	Logger   *logger.Logger

	cfg config.LifecycleConfig
}

func NewService(db DBLayer, lock SequenceLock, kafka KafkaPublisher, qr QRRenderer, images ImageHost, messages MessageSender, log *logger.Logger, cfg config.LifecycleConfig) *Service {
	return &Service{
		DB:       db,
		Lock:     lock,
		Kafka:    kafka,
		QR:       qr,
		Images:   images,
		Messages: messages,
		Logger:   log,
		cfg:      cfg,
	}
}

// ---------------- CREATE ----------------

type CreateResult struct {
	ReservationID int64    `json:"reservation_id"`
	Codes         []string `json:"codes"`
}

// Create runs the full admission path: deadline, validation, phone limit,
// promo capacity, customer upsert, reservation insert, code allocation,
// ticket insert. Any failure after the reservation row exists triggers a
// compensating delete so no orphaned pending reservation survives.
func (s *Service) Create(ctx context.Context, phone, name string, count int, ticketType string) (*CreateResult, error) {
	if ticketType == models.TicketTypePromo && time.Now().UTC().After(s.cfg.ReservationDeadline) {
		return nil, fmt.Errorf("%w: promo tickets are no longer available", ErrDeadlinePassed)
	}
	if phone == "" || name == "" || ticketType == "" {
		return nil, fmt.Errorf("%w: missing required fields", ErrValidation)
	}
	if ticketType != models.TicketTypePromo && ticketType != models.TicketTypeRegular {
		return nil, fmt.Errorf("%w: unknown ticket type %q", ErrValidation, ticketType)
	}
	if count < 1 || count > s.cfg.PhoneCap {
		return nil, fmt.Errorf("%w: you can reserve 1 to %d tickets only", ErrValidation, s.cfg.PhoneCap)
	}

	already, err := s.DB.SumActiveTicketsByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to check phone limit: %w", err)
	}
	if already+count > s.cfg.PhoneCap {
		return nil, fmt.Errorf("%w: this phone number already reserved %d ticket(s), max %d allowed",
			ErrCapacityExceeded, already, s.cfg.PhoneCap)
	}

	if ticketType == models.TicketTypePromo {
		used, err := s.DB.CountPromoTicketsInUse(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to check promo capacity: %w", err)
		}
		if used+count > s.cfg.PromoCap {
			return nil, fmt.Errorf("%w: promo tickets are sold out", ErrCapacityExceeded)
		}
	}

	if err := s.DB.EnsureCustomer(ctx, phone, name); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	reservation := models.Reservation{
		PhoneNumber:     phone,
		CustomerName:    name,
		TotalTickets:    count,
		TicketType:      ticketType,
		Status:          models.ReservationPending,
		ReservationDate: time.Now().UTC(),
	}
	if err := s.DB.CreateReservation(ctx, &reservation); err != nil {
		return nil, fmt.Errorf("reservation insert failed: %w", err)
	}

	reservationCodes, err := s.DB.AllocateCodes(ctx, reservation.ReservationID, count)
	if err != nil {
		return nil, s.compensate(ctx, reservation.ReservationID, fmt.Errorf("failed creating ticket codes: %w", err))
	}

	tickets := make([]models.Ticket, count)
	now := time.Now().UTC()
	for i := range tickets {
		tickets[i] = models.Ticket{
			PhoneNumber:      phone,
			EventID:          s.cfg.EventID,
			PurchaseDatetime: now,
			Status:           models.TicketReserved,
			ReservationID:    &reservation.ReservationID,
			TicketType:       ticketType,
		}
	}
	// The guarded insert re-checks the promo cap inside the insert's own
	// transaction; the count above is only the fast path.
	if err := s.DB.InsertTicketsGuarded(ctx, tickets, s.cfg.PromoCap); err != nil {
		if errors.Is(err, db.ErrPromoCapExceeded) {
			return nil, s.compensate(ctx, reservation.ReservationID,
				fmt.Errorf("%w: promo tickets are sold out", ErrCapacityExceeded))
		}
		return nil, s.compensate(ctx, reservation.ReservationID, fmt.Errorf("ticket insert failed: %w", err))
	}

	s.Logger.LogReservation("CREATE", reservation.ReservationID,
		fmt.Sprintf("%d %s ticket(s) for %s", count, ticketType, phone))
	if err := s.Kafka.PublishReservationCreated(reservation, reservationCodes); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("publish reservation created: %v", err))
	}

	return &CreateResult{ReservationID: reservation.ReservationID, Codes: reservationCodes}, nil
}

// compensate rolls the reservation row back after a downstream failure.
// If the rollback itself fails the orphan is surfaced in the returned
// error for manual reconciliation, never silently dropped.
func (s *Service) compensate(ctx context.Context, reservationID int64, cause error) error {
	if delErr := s.DB.DeleteReservationCascade(ctx, reservationID); delErr != nil {
		s.Logger.Error("RESERVATION",
			fmt.Sprintf("compensating delete failed for reservation %d: %v", reservationID, delErr))
		return fmt.Errorf("%w (orphaned reservation %d: compensating delete failed: %v)", cause, reservationID, delErr)
	}
	return cause
}

// ---------------- APPROVE / REJECT / DELETE ----------------

type ApproveResult struct {
	UpdatedTickets int      `json:"updated_tickets"`
	Hashkeys       []string `json:"hashkeys,omitempty"`
	Message        string   `json:"message"`
}

// Approve flips the reservation to approved and assigns sequential
// hashkeys to every ticket still reserved under it, both inside the
// approval transaction: a failure leaves the reservation pending rather
// than approved with hashkey-less tickets. Re-running on an already
// approved reservation finds nothing reserved and is a no-op.
func (s *Service) Approve(ctx context.Context, reservationID int64) (*ApproveResult, error) {
	reservation, err := s.DB.GetReservationByID(ctx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("%w: reservation %d", ErrNotFound, reservationID)
	}

	eventDate, err := s.DB.GetEventDate(ctx, s.cfg.EventID)
	if err != nil {
		return nil, fmt.Errorf("%w: event %d", ErrNotFound, s.cfg.EventID)
	}
	dateCompact := strings.ReplaceAll(eventDate, "-", "")

	release, err := s.acquireSequenceLock(ctx, reservation.PhoneNumber)
	if err != nil {
		return nil, err
	}
	defer release()

	hashkeys, err := s.DB.ApproveReservationTickets(ctx, reservationID, s.cfg.EventID, dateCompact, reservation.PhoneNumber, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to update tickets: %w", err)
	}

	if len(hashkeys) == 0 {
		s.Logger.LogReservation("APPROVE", reservationID, "no reserved tickets found")
		return &ApproveResult{Message: "Reservation approved but no reserved tickets found."}, nil
	}

	s.Logger.LogReservation("APPROVE", reservationID, fmt.Sprintf("%d ticket(s) updated", len(hashkeys)))
	reservation.Status = models.ReservationApproved
	if err := s.Kafka.PublishReservationApproved(*reservation, hashkeys); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("publish reservation approved: %v", err))
	}

	return &ApproveResult{
		UpdatedTickets: len(hashkeys),
		Hashkeys:       hashkeys,
		Message:        fmt.Sprintf("Reservation approved and %d ticket(s) updated.", len(hashkeys)),
	}, nil
}

// Reject marks the reservation rejected. Its ticket rows stay reserved
// and inert; the phone-limit sum already excludes rejected reservations.
func (s *Service) Reject(ctx context.Context, reservationID int64) error {
	reservation, err := s.DB.GetReservationByID(ctx, reservationID)
	if err != nil {
		return fmt.Errorf("%w: reservation %d", ErrNotFound, reservationID)
	}
	if err := s.DB.UpdateReservationStatus(ctx, reservationID, models.ReservationRejected); err != nil {
		return fmt.Errorf("failed to reject reservation: %w", err)
	}

	s.Logger.LogReservation("REJECT", reservationID, "rejected")
	reservation.Status = models.ReservationRejected
	if err := s.Kafka.PublishReservationRejected(*reservation); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("publish reservation rejected: %v", err))
	}
	return nil
}

// Delete is the cascading hard delete: reservation, codes, tickets.
func (s *Service) Delete(ctx context.Context, reservationID int64) error {
	if err := s.DB.DeleteReservationCascade(ctx, reservationID); err != nil {
		return fmt.Errorf("failed to delete reservation %d: %w", reservationID, err)
	}
	s.Logger.LogReservation("DELETE", reservationID, "deleted with codes and tickets")
	if err := s.Kafka.PublishReservationDeleted(reservationID); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("publish reservation deleted: %v", err))
	}
	return nil
}

// ---------------- WALK-IN / PAYMENT ----------------

type InstantResult struct {
	Created  int      `json:"created"`
	Hashkeys []string `json:"hashkeys"`
}

// CreateInstant is the walk-in path: no reservation, tickets approved and
// hashkeyed at creation.
func (s *Service) CreateInstant(ctx context.Context, phone string, eventID int64, count int, amount float64, ticketType string) (*InstantResult, error) {
	if phone == "" || count < 1 || amount <= 0 || ticketType == "" {
		return nil, fmt.Errorf("%w: missing or invalid input", ErrValidation)
	}

	if ticketType == models.TicketTypePromo {
		used, err := s.DB.CountPromoTicketsInUse(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to check promo capacity: %w", err)
		}
		if used+count > s.cfg.PromoCap {
			return nil, fmt.Errorf("%w: promo tickets are sold out", ErrCapacityExceeded)
		}
	}

	eventDate, err := s.DB.GetEventDate(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%w: event %d", ErrNotFound, eventID)
	}
	dateCompact := strings.ReplaceAll(eventDate, "-", "")

	release, err := s.acquireSequenceLock(ctx, phone)
	if err != nil {
		return nil, err
	}
	defer release()

	hashkeys, err := s.DB.CreateInstantTickets(ctx, phone, eventID, dateCompact, count, amount, ticketType, s.cfg.PromoCap, time.Now().UTC())
	if err != nil {
		if errors.Is(err, db.ErrPromoCapExceeded) {
			return nil, fmt.Errorf("%w: promo tickets are sold out", ErrCapacityExceeded)
		}
		return nil, fmt.Errorf("failed to create tickets: %w", err)
	}

	s.Logger.Info("TICKETS", fmt.Sprintf("created %d instant ticket(s) for %s", len(hashkeys), phone))
	return &InstantResult{Created: len(hashkeys), Hashkeys: hashkeys}, nil
}

type PaymentResult struct {
	Approved       int    `json:"approved"`
	WalkInRequired bool   `json:"walk_in_required"`
	Message        string `json:"message"`
}

// ConfirmPayment approves the phone's reserved tickets for the event. No
// matching rows is not an error: it signals the caller to create tickets
// through the walk-in path instead.
func (s *Service) ConfirmPayment(ctx context.Context, phone string, eventID int64, amount float64, ticketType string) (*PaymentResult, error) {
	if phone == "" || amount <= 0 || ticketType == "" {
		return nil, fmt.Errorf("%w: missing fields", ErrValidation)
	}
	if _, err := s.DB.GetCustomer(ctx, phone); err != nil {
		return nil, fmt.Errorf("%w: customer %s", ErrNotFound, phone)
	}

	eventDate, err := s.DB.GetEventDate(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%w: event %d", ErrNotFound, eventID)
	}
	dateCompact := strings.ReplaceAll(eventDate, "-", "")

	release, err := s.acquireSequenceLock(ctx, phone)
	if err != nil {
		return nil, err
	}
	defer release()

	approved, err := s.DB.ApprovePaidTickets(ctx, phone, eventID, dateCompact, amount, ticketType, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to approve tickets: %w", err)
	}

	if approved == 0 {
		return &PaymentResult{
			WalkInRequired: true,
			Message:        "Payment confirmed. Tickets will be created as approved.",
		}, nil
	}
	return &PaymentResult{
		Approved: approved,
		Message:  fmt.Sprintf("Payment confirmed. %d reserved ticket(s) approved.", approved),
	}, nil
}

// ---------------- QUERIES ----------------

func (s *Service) ListByPhone(ctx context.Context, phone string) ([]models.ReservationWithCodes, error) {
	if phone == "" {
		return nil, fmt.Errorf("%w: phone required", ErrValidation)
	}
	return s.DB.ReservationsByPhone(ctx, phone)
}

type Page struct {
	Reservations []models.ReservationSummary `json:"reservations"`
	Total        int                         `json:"total"`
	Page         int                         `json:"page"`
	PerPage      int                         `json:"per_page"`
}

func (s *Service) ListAll(ctx context.Context, page, limit int, search string) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	reservations, total, err := s.DB.ListReservations(ctx, search, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return &Page{Reservations: reservations, Total: total, Page: page, PerPage: limit}, nil
}

func (s *Service) TicketsOf(ctx context.Context, reservationID int64) ([]models.Ticket, error) {
	if _, err := s.DB.GetReservationByID(ctx, reservationID); err != nil {
		return nil, fmt.Errorf("%w: reservation %d", ErrNotFound, reservationID)
	}
	return s.DB.TicketsByReservation(ctx, reservationID)
}

type Availability struct {
	PromoRemaining int  `json:"promo_remaining"`
	PromoSoldOut   bool `json:"promo_sold_out"`
}

func (s *Service) PromoAvailability(ctx context.Context) (*Availability, error) {
	used, err := s.DB.CountPromoTicketsInUse(ctx)
	if err != nil {
		return nil, err
	}
	remaining := s.cfg.PromoCap - used
	if remaining < 0 {
		remaining = 0
	}
	return &Availability{PromoRemaining: remaining, PromoSoldOut: remaining == 0}, nil
}

// ---------------- CUSTOMERS ----------------

// quickSearchLimit caps the confirmation screen's typeahead lookup.
const quickSearchLimit = 5

type CustomersPage struct {
	Customers []models.Customer `json:"customers"`
	Total     int               `json:"total"`
	Page      int               `json:"page"`
	PerPage   int               `json:"per_page"`
}

func (s *Service) ListCustomers(ctx context.Context, page, limit int, search string) (*CustomersPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	customers, total, err := s.DB.ListCustomers(ctx, search, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return &CustomersPage{Customers: customers, Total: total, Page: page, PerPage: limit}, nil
}

// SearchCustomers backs the typeahead lookup: a blank query matches
// nobody instead of everybody.
func (s *Service) SearchCustomers(ctx context.Context, query string) ([]models.Customer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Customer{}, nil
	}
	return s.DB.SearchCustomers(ctx, query, quickSearchLimit)
}

// AddCustomer registers a customer ahead of any reservation, or renames
// an existing one. Same upsert the reservation path uses.
func (s *Service) AddCustomer(ctx context.Context, phone, name string) (*models.Customer, error) {
	name = strings.TrimSpace(name)
	if phone == "" || name == "" {
		return nil, fmt.Errorf("%w: phone and name required", ErrValidation)
	}
	if err := s.DB.EnsureCustomer(ctx, phone, name); err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}
	s.Logger.Info("CUSTOMER", fmt.Sprintf("saved %s (%s)", name, phone))
	return &models.Customer{PhoneNumber: phone, Name: name}, nil
}

// ---------------- QR GENERATION & DELIVERY ----------------

type QRCodeFile struct {
	TicketID int64  `json:"ticket_id"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// GenerateQRCodes renders one PNG per approved hashkey of the
// reservation. Overwrite-safe: re-running regenerates the same files.
func (s *Service) GenerateQRCodes(ctx context.Context, reservationID int64) ([]QRCodeFile, error) {
	if _, err := s.DB.GetReservationByID(ctx, reservationID); err != nil {
		return nil, fmt.Errorf("%w: reservation %d", ErrNotFound, reservationID)
	}
	tickets, err := s.DB.ApprovedTickets(ctx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tickets: %w", err)
	}
	if len(tickets) == 0 {
		return nil, fmt.Errorf("%w: no approved tickets with hashkeys for this reservation", ErrValidation)
	}

	results := make([]QRCodeFile, 0, len(tickets))
	for _, t := range tickets {
		filename, err := s.QR.WriteFile(t.Hashkey)
		if err != nil {
			return nil, fmt.Errorf("failed to render QR for %s: %w", t.Hashkey, err)
		}
		results = append(results, QRCodeFile{TicketID: t.TicketID, Filename: filename, URL: "/qr/" + filename})
	}
	return results, nil
}

type SendOutcome struct {
	TicketID int64  `json:"ticket_id"`
	ImageURL string `json:"image_url,omitempty"`
	Error    string `json:"error,omitempty"`
}

type SendReport struct {
	Sent    int           `json:"sent_count"`
	Results []SendOutcome `json:"results"`
}

// SendQRCodes uploads each approved ticket's QR image and sends it to the
// reservation's phone. Delivery failures are recorded per item and never
// touch ticket state; a ticket stays validly approved with its
// notification undelivered.
func (s *Service) SendQRCodes(ctx context.Context, reservationID int64) (*SendReport, error) {
	reservation, err := s.DB.GetReservationByID(ctx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("%w: reservation %d", ErrNotFound, reservationID)
	}
	tickets, err := s.DB.ApprovedTickets(ctx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tickets: %w", err)
	}
	if len(tickets) == 0 {
		return nil, fmt.Errorf("%w: no approved tickets found", ErrValidation)
	}

	report := &SendReport{}
	for _, t := range tickets {
		outcome := SendOutcome{TicketID: t.TicketID}

		filename, err := s.QR.WriteFile(t.Hashkey)
		if err != nil {
			outcome.Error = fmt.Sprintf("render: %v", err)
			s.Logger.Error("DELIVERY", fmt.Sprintf("QR render failed for ticket %d: %v", t.TicketID, err))
			report.Results = append(report.Results, outcome)
			continue
		}

		imageURL, err := s.Images.Upload(ctx, s.QR.Path(filename))
		if err != nil {
			outcome.Error = fmt.Sprintf("upload: %v", err)
			s.Logger.Error("DELIVERY", fmt.Sprintf("upload failed for ticket %d: %v", t.TicketID, err))
			report.Results = append(report.Results, outcome)
			continue
		}
		outcome.ImageURL = imageURL

		if err := s.Messages.SendImage(ctx, reservation.PhoneNumber, imageURL); err != nil {
			outcome.Error = fmt.Sprintf("send: %v", err)
			s.Logger.Error("DELIVERY", fmt.Sprintf("send failed for ticket %d: %v", t.TicketID, err))
			report.Results = append(report.Results, outcome)
			continue
		}

		s.Logger.LogDelivery("WHATSAPP", reservation.PhoneNumber, fmt.Sprintf("ticket %d QR sent", t.TicketID))
		report.Sent++
		report.Results = append(report.Results, outcome)
	}
	return report, nil
}

// ---------------- LOCKING ----------------

const (
	lockRetries    = 50
	lockRetryDelay = 100 * time.Millisecond
)

// acquireSequenceLock takes the per-(event, phone) lock with a bounded
// wait and returns the release func.
func (s *Service) acquireSequenceLock(ctx context.Context, phone string) (func(), error) {
	owner := uuid.NewString()
	for i := 0; i < lockRetries; i++ {
		ok, err := s.Lock.Acquire(ctx, s.cfg.EventID, phone, owner)
		if err != nil {
			return nil, fmt.Errorf("sequence lock error: %w", err)
		}
		if ok {
			return func() {
				if err := s.Lock.Release(context.Background(), s.cfg.EventID, phone, owner); err != nil {
					s.Logger.Error("REDIS", fmt.Sprintf("failed to release sequence lock for %s: %v", phone, err))
				}
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}
	return nil, fmt.Errorf("sequence allocation busy for %s", phone)
}
