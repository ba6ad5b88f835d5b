package models

import "github.com/uptrace/bun"

// Event is read-only reference data; hashkeys embed its date.
type Event struct {
	bun.BaseModel `bun:"table:event"`

	EventID   int64  `bun:"event_id,pk" json:"event_id"`
	EventName string `bun:"event_name" json:"event_name"`
	EventDate string `bun:"event_date" json:"event_date"` // YYYY-MM-DD
}
