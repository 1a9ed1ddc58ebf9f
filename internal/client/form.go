package client

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"cleansched/internal/models"
)

// FormState is the modal dialog lifecycle:
// closed -> open(empty|populated) -> submitting -> (closed | open+error).
type FormState int

const (
	StateClosed FormState = iota
	StateOpen
	StateSubmitting
)

// OrderForm backs the order create/edit modal. Field values survive a failed
// submission so the user can correct and retry.
type OrderForm struct {
	state     FormState
	editingID string

	Values models.OrderRequest
	// PriceInput is the raw text field; it is coerced to a number on submit.
	PriceInput string
	Err        string
}

func (f *OrderForm) State() FormState { return f.state }
func (f *OrderForm) Editing() bool    { return f.editingID != "" }

// Open resets the form to blank create defaults.
func (f *OrderForm) Open() {
	f.state = StateOpen
	f.editingID = ""
	f.Values = models.OrderRequest{
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentUnpaid,
		StaffIDs:      []string{},
	}
	f.PriceInput = ""
	f.Err = ""
}

// OpenWith populates the form from an existing record for editing.
func (f *OrderForm) OpenWith(record *models.OrderWithStaff) {
	f.state = StateOpen
	f.editingID = record.ID
	staffIDs := make([]string, len(record.Staff))
	for i, member := range record.Staff {
		staffIDs[i] = member.ID
	}
	f.Values = models.OrderRequest{
		Name:          record.Name,
		CleaningDate:  record.CleaningDate,
		StartTime:     record.StartTime,
		Status:        record.Status,
		PaymentStatus: record.PaymentStatus,
		Notes:         record.Notes,
		Price:         record.Price,
		StaffIDs:      staffIDs,
	}
	f.PriceInput = ""
	if record.Price != nil {
		f.PriceInput = strconv.FormatFloat(*record.Price, 'f', -1, 64)
	}
	f.Err = ""
}

func (f *OrderForm) Close() {
	f.state = StateClosed
	f.Err = ""
}

// Submit validates the fields and sends the payload. On success the modal
// closes and the caller's caches are already invalidated; on failure it stays
// open with the server's message and the entered values intact.
func (f *OrderForm) Submit(ctx context.Context, c *Client) error {
	if f.state != StateOpen {
		return errors.New("form is not open")
	}

	if err := f.coercePrice(); err != nil {
		f.Err = err.Error()
		return err
	}
	if err := f.Values.Validate(); err != nil {
		f.Err = err.Error()
		return err
	}

	f.state = StateSubmitting
	var err error
	if f.Editing() {
		_, err = c.UpdateOrder(ctx, f.editingID, f.Values)
	} else {
		_, err = c.CreateOrder(ctx, f.Values)
	}

	if err != nil {
		f.state = StateOpen
		f.Err = err.Error()
		c.Notifier.Error(err.Error())
		return err
	}

	f.state = StateClosed
	f.Err = ""
	if f.Editing() {
		c.Notifier.Success("order updated")
	} else {
		c.Notifier.Success("order created")
	}
	return nil
}

func (f *OrderForm) coercePrice() error {
	input := strings.TrimSpace(f.PriceInput)
	if input == "" {
		f.Values.Price = nil
		return nil
	}
	price, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return errors.New("price must be a number")
	}
	if price < 0 {
		return errors.New("price must not be negative")
	}
	f.Values.Price = &price
	return nil
}

// StaffForm backs the staff create modal.
type StaffForm struct {
	state FormState

	Values models.StaffRequest
	Err    string
}

func (f *StaffForm) State() FormState { return f.state }

func (f *StaffForm) Open() {
	f.state = StateOpen
	f.Values = models.StaffRequest{}
	f.Err = ""
}

func (f *StaffForm) Close() {
	f.state = StateClosed
	f.Err = ""
}

func (f *StaffForm) Submit(ctx context.Context, c *Client) error {
	if f.state != StateOpen {
		return errors.New("form is not open")
	}
	if err := f.Values.Validate(); err != nil {
		f.Err = err.Error()
		return err
	}

	f.state = StateSubmitting
	if _, err := c.CreateStaff(ctx, f.Values); err != nil {
		f.state = StateOpen
		f.Err = err.Error()
		c.Notifier.Error(err.Error())
		return err
	}

	f.state = StateClosed
	f.Err = ""
	c.Notifier.Success("staff member created")
	return nil
}
