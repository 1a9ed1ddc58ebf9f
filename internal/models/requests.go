package models

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// OrderRequest is the create/update payload for an order. It is validated at
// the API boundary before the storage layer runs; the table model above is the
// persistence side of the same field set.
type OrderRequest struct {
	Name          string   `json:"name"`
	CleaningDate  string   `json:"cleaning_date"`
	StartTime     string   `json:"start_time,omitempty"`
	Status        string   `json:"status,omitempty"`
	PaymentStatus string   `json:"payment_status,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	StaffIDs      []string `json:"staff_ids"`
}

// Validate checks the payload and fills status defaults for blank fields.
func (r *OrderRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if utf8.RuneCountInString(r.Name) < 1 || utf8.RuneCountInString(r.Name) > 100 {
		return errors.New("name must be between 1 and 100 characters")
	}

	if _, err := time.Parse("2006-01-02", r.CleaningDate); err != nil {
		return errors.New("cleaning_date must be a valid YYYY-MM-DD date")
	}

	if r.StartTime != "" {
		if _, err := time.Parse("15:04", r.StartTime); err != nil {
			return errors.New("start_time must be a valid HH:MM time")
		}
	}

	if r.Status == "" {
		r.Status = StatusPending
	}
	switch r.Status {
	case StatusPending, StatusInProgress, StatusDone:
	default:
		return errors.New("status must be one of: Pending, InProgress, Done")
	}

	if r.PaymentStatus == "" {
		r.PaymentStatus = PaymentUnpaid
	}
	switch r.PaymentStatus {
	case PaymentUnpaid, PaymentPaid:
	default:
		return errors.New("payment_status must be one of: Unpaid, Paid")
	}

	if r.Price != nil && *r.Price < 0 {
		return errors.New("price must not be negative")
	}

	for _, id := range r.StaffIDs {
		if strings.TrimSpace(id) == "" {
			return errors.New("staff_ids must not contain empty ids")
		}
	}

	return nil
}

type StaffRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (r *StaffRequest) Validate() error {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)

	if utf8.RuneCountInString(r.FirstName) < 1 || utf8.RuneCountInString(r.FirstName) > 50 {
		return errors.New("first_name must be between 1 and 50 characters")
	}
	if utf8.RuneCountInString(r.LastName) < 1 || utf8.RuneCountInString(r.LastName) > 50 {
		return errors.New("last_name must be between 1 and 50 characters")
	}
	return nil
}

func (r *RegisterRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if !strings.Contains(r.Email, "@") || len(r.Email) < 3 || len(r.Email) > 254 {
		return errors.New("email must be a valid address")
	}
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if r.Email == "" || r.Password == "" {
		return errors.New("email and password are required")
	}
	return nil
}
