package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	ReservationPending  = "pending"
	ReservationApproved = "approved"
	ReservationRejected = "rejected"
	ReservationExpired  = "expired"
)

const (
	TicketTypePromo   = "promo"
	TicketTypeRegular = "regular"
)

type Reservation struct {
	bun.BaseModel `bun:"table:reservation"`

	ReservationID   int64     `bun:"reservation_id,pk,autoincrement" json:"reservation_id"`
	PhoneNumber     string    `bun:"phone_number" json:"phone_number"`
	CustomerName    string    `bun:"customer_name" json:"customer_name"`
	TotalTickets    int       `bun:"total_tickets" json:"total_tickets"`
	TicketType      string    `bun:"ticket_type" json:"ticket_type"`
	Status          string    `bun:"status" json:"status"`
	ReservationDate time.Time `bun:"reservation_date" json:"reservation_date"`
}

// ReservationTicketCode is the human-shareable code handed out at creation
// time. Codes are bound to exactly one reservation and never reassigned.
type ReservationTicketCode struct {
	bun.BaseModel `bun:"table:reservation_ticket"`

	ID            int64  `bun:"id,pk,autoincrement" json:"-"`
	ReservationID int64  `bun:"reservation_id" json:"reservation_id"`
	TicketCode    string `bun:"ticket_code,unique" json:"ticket_code"`
}

// ReservationWithCodes is the customer-facing listing row.
type ReservationWithCodes struct {
	Reservation
	Codes []string `json:"codes"`
}

// ReservationSummary is the back-office listing row.
type ReservationSummary struct {
	Reservation
	CodesCount int `json:"codes_count"`
}
