package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Order statuses and payment statuses accepted by the API.
const (
	StatusPending    = "Pending"
	StatusInProgress = "InProgress"
	StatusDone       = "Done"

	PaymentUnpaid = "Unpaid"
	PaymentPaid   = "Paid"
)

type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID            string    `bun:"id,pk" json:"id"`
	AccountID     string    `bun:"account_id,notnull" json:"-"`
	Name          string    `bun:"name,notnull" json:"name"`
	CleaningDate  string    `bun:"cleaning_date,notnull" json:"cleaning_date"`
	StartTime     string    `bun:"start_time,nullzero" json:"start_time,omitempty"`
	Status        string    `bun:"status,notnull" json:"status"`
	PaymentStatus string    `bun:"payment_status,notnull" json:"payment_status"`
	Notes         string    `bun:"notes,nullzero" json:"notes,omitempty"`
	Price         *float64  `bun:"price" json:"price,omitempty"`
	CreatedAt     time.Time `bun:"created_at,notnull" json:"created_at"`
}

// Assignment links one Order to one Staff member. The composite primary key
// keeps the (order_id, staff_id) pair unique.
type Assignment struct {
	bun.BaseModel `bun:"table:assignments"`

	OrderID string `bun:"order_id,pk" json:"order_id"`
	StaffID string `bun:"staff_id,pk" json:"staff_id"`
}

// StaffSummary is the name-only staff projection embedded in order responses.
type StaffSummary struct {
	ID        string `bun:"id" json:"id"`
	FirstName string `bun:"first_name" json:"first_name"`
	LastName  string `bun:"last_name" json:"last_name"`
}

type OrderWithStaff struct {
	Order
	Staff []StaffSummary `json:"employees"`
}
