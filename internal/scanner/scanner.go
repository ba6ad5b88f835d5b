package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/Harmonybod/Event-Ticketing-System/internal/logger"
	"github.com/Harmonybod/Event-Ticketing-System/internal/models"
)

const (
	StatusValid   = "valid"
	StatusUsed    = "used"
	StatusInvalid = "invalid"
)

type DBLayer interface {
	TicketScanRowByHash(ctx context.Context, hashkey string) (*models.TicketScanRow, error)
	MarkTicketScanned(ctx context.Context, ticketID int64, at time.Time) (bool, error)
}

type Service struct {
	DB     DBLayer
	Logger *logger.Logger
}

func NewService(db DBLayer, log *logger.Logger) *Service {
	return &Service{DB: db, Logger: log}
}

type Result struct {
	Status       string     `json:"status"`
	Message      string     `json:"message"`
	TicketID     int64      `json:"ticket_id,omitempty"`
	CustomerName string     `json:"customer_name,omitempty"`
	PhoneNumber  string     `json:"phone_number,omitempty"`
	ScannedAt    *time.Time `json:"scanned_at,omitempty"`
}

// Validate resolves a scanned hashkey at the gate. Only approved unused
// tickets pass; the mark is a compare-and-set so two lanes scanning the
// same QR at once admit exactly one.
func (s *Service) Validate(ctx context.Context, hashkey string) (*Result, error) {
	if hashkey == "" {
		return &Result{Status: StatusInvalid, Message: "No ticket code provided."}, nil
	}

	row, err := s.DB.TicketScanRowByHash(ctx, hashkey)
	if err != nil {
		return nil, fmt.Errorf("scan lookup failed: %w", err)
	}
	if row == nil {
		s.Logger.LogScan(hashkey, "invalid (unknown hashkey)")
		return &Result{Status: StatusInvalid, Message: "Ticket not found."}, nil
	}

	if row.Status != models.TicketApproved {
		s.Logger.LogScan(hashkey, "invalid (status "+row.Status+")")
		return &Result{
			Status:  StatusInvalid,
			Message: fmt.Sprintf("Ticket is not approved (status: %s).", row.Status),
		}, nil
	}

	if row.ScannedAt != nil {
		s.Logger.LogScan(hashkey, "used")
		return &Result{
			Status:       StatusUsed,
			Message:      "Ticket already used.",
			TicketID:     row.TicketID,
			CustomerName: row.Name,
			PhoneNumber:  row.PhoneNumber,
			ScannedAt:    row.ScannedAt,
		}, nil
	}

	now := time.Now().UTC()
	won, err := s.DB.MarkTicketScanned(ctx, row.TicketID, now)
	if err != nil {
		return nil, fmt.Errorf("scan update failed: %w", err)
	}
	if !won {
		// Another lane admitted this ticket between the read and the mark.
		s.Logger.LogScan(hashkey, "used (lost scan race)")
		return &Result{
			Status:       StatusUsed,
			Message:      "Ticket already used.",
			TicketID:     row.TicketID,
			CustomerName: row.Name,
			PhoneNumber:  row.PhoneNumber,
		}, nil
	}

	s.Logger.LogScan(hashkey, "valid")
	return &Result{
		Status:       StatusValid,
		Message:      "Ticket valid. Welcome!",
		TicketID:     row.TicketID,
		CustomerName: row.Name,
		PhoneNumber:  row.PhoneNumber,
		ScannedAt:    &now,
	}, nil
}
