package models

import "github.com/uptrace/bun"

type Customer struct {
	bun.BaseModel `bun:"table:customers"`

	PhoneNumber string `bun:"phone_number,pk" json:"phone_number"`
	Name        string `bun:"name" json:"name"`
}
