package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Staff struct {
	bun.BaseModel `bun:"table:staff"`

	ID        string    `bun:"id,pk" json:"id"`
	AccountID string    `bun:"account_id,notnull" json:"-"`
	FirstName string    `bun:"first_name,notnull" json:"first_name"`
	LastName  string    `bun:"last_name,notnull" json:"last_name"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
}

type StaffWithOrders struct {
	Staff
	Orders []Order `json:"orders"`
}
