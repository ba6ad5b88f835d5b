package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	TicketReserved = "reserved"
	TicketApproved = "approved"
	TicketExpired  = "expired"
)

type Ticket struct {
	bun.BaseModel `bun:"table:tickets"`

	TicketID         int64      `bun:"ticket_id,pk,autoincrement" json:"ticket_id"`
	PhoneNumber      string     `bun:"phone_number" json:"phone_number"`
	EventID          int64      `bun:"event_id" json:"event_id"`
	PurchaseDatetime time.Time  `bun:"purchase_datetime,nullzero" json:"purchase_datetime"`
	Hashkey          string     `bun:"hashkey,nullzero" json:"hashkey,omitempty"`
	Status           string     `bun:"status" json:"status"`
	ReservationID    *int64     `bun:"reservation_id,nullzero" json:"reservation_id,omitempty"`
	Amount           float64    `bun:"amount,nullzero" json:"amount,omitempty"`
	TicketType       string     `bun:"ticket_type" json:"ticket_type"`
	ScannedAt        *time.Time `bun:"scanned_at,nullzero" json:"scanned_at,omitempty"`
	PromoWarningSent bool       `bun:"promo_warning_sent" json:"promo_warning_sent"`
}

// TicketSequence is the per-(event, phone) counter behind hashkey
// numbering. next_seq is the last sequence handed out, incremented
// atomically inside the allocation transaction.
type TicketSequence struct {
	bun.BaseModel `bun:"table:ticket_sequences"`

	EventID     int64  `bun:"event_id,pk"`
	PhoneNumber string `bun:"phone_number,pk"`
	NextSeq     int    `bun:"next_seq"`
}

// TicketScanRow is the entry-scan lookup: ticket joined with its owner.
type TicketScanRow struct {
	TicketID    int64      `bun:"ticket_id"`
	Status      string     `bun:"status"`
	ScannedAt   *time.Time `bun:"scanned_at"`
	PhoneNumber string     `bun:"phone_number"`
	Name        string     `bun:"name"`
}

// SweepStats reports what a single expiry sweep touched.
type SweepStats struct {
	ExpiredTickets      int64 `json:"expired_tickets"`
	ExpiredReservations int64 `json:"expired_reservations"`
	ConvertedTickets    int64 `json:"converted_tickets"`
}

// PromoHolder is one phone due a promo expiry warning.
type PromoHolder struct {
	PhoneNumber string `bun:"phone_number"`
	Name        string `bun:"name"`
	EventName   string `bun:"event_name"`
}
