package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"cleansched/internal/models"
	"cleansched/internal/utils"

	"github.com/uptrace/bun"
)

// ErrUnknownStaff reports assignment ids that do not resolve to staff owned by
// the order's account.
var ErrUnknownStaff = errors.New("unknown staff id in assignments")

type DB struct {
	Bun *bun.DB
}

// ---------------- ORDERS ----------------

// ListOrders returns every order owned by the account, each with its assigned
// staff names. Default ordering is newest cleaning date first; sortBy="name"
// switches to ascending name. search OR-matches a case-insensitive substring
// over name, notes, status and payment_status.
func (d *DB) ListOrders(ctx context.Context, accountID, sortBy, search string) ([]models.OrderWithStaff, error) {
	var orders []models.Order
	q := d.Bun.NewSelect().
		Model(&orders).
		Where("account_id = ?", accountID)

	if search != "" {
		pattern := "%" + utils.EscapeLike(strings.ToLower(search)) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern).
				WhereOr(`LOWER(notes) LIKE ? ESCAPE '\'`, pattern).
				WhereOr(`LOWER(status) LIKE ? ESCAPE '\'`, pattern).
				WhereOr(`LOWER(payment_status) LIKE ? ESCAPE '\'`, pattern)
		})
	}

	if sortBy == "name" {
		q = q.Order("name ASC")
	} else {
		q = q.Order("cleaning_date DESC")
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return d.attachStaff(ctx, accountID, orders)
}

// GetOrderWithStaff returns one owned order with its staff, or sql.ErrNoRows
// when the id is absent or belongs to another account.
func (d *DB) GetOrderWithStaff(ctx context.Context, accountID, id string) (*models.OrderWithStaff, error) {
	var order models.Order
	err := d.Bun.NewSelect().
		Model(&order).
		Where("id = ?", id).
		Where("account_id = ?", accountID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	result, err := d.attachStaff(ctx, accountID, []models.Order{order})
	if err != nil {
		return nil, err
	}
	return &result[0], nil
}

// CreateOrder inserts the order and one assignment per staff id in a single
// transaction. Duplicate ids in the input are collapsed before insert; ids that
// do not belong to the order's account fail the transaction with
// ErrUnknownStaff.
func (d *DB) CreateOrder(ctx context.Context, order models.Order, staffIDs []string) (*models.OrderWithStaff, error) {
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&order).Exec(ctx); err != nil {
			return err
		}
		return insertAssignments(ctx, tx, order.AccountID, order.ID, staffIDs)
	})
	if err != nil {
		return nil, err
	}
	return d.GetOrderWithStaff(ctx, order.AccountID, order.ID)
}

// UpdateOrder updates the order fields and replaces its whole assignment set.
// The delete-then-insert runs inside one transaction so concurrent readers
// never see a half-reassigned order. Returns sql.ErrNoRows when the order does
// not exist for this account.
func (d *DB) UpdateOrder(ctx context.Context, order models.Order, staffIDs []string) (*models.OrderWithStaff, error) {
	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model(&order).
			Column("name", "cleaning_date", "start_time", "status", "payment_status", "notes", "price").
			Where("id = ?", order.ID).
			Where("account_id = ?", order.AccountID).
			Exec(ctx)
		if err != nil {
			return err
		}
		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			return sql.ErrNoRows
		}

		if _, err := tx.NewDelete().
			Model((*models.Assignment)(nil)).
			Where("order_id = ?", order.ID).
			Exec(ctx); err != nil {
			return err
		}
		return insertAssignments(ctx, tx, order.AccountID, order.ID, staffIDs)
	})
	if err != nil {
		return nil, err
	}
	return d.GetOrderWithStaff(ctx, order.AccountID, order.ID)
}

// DeleteOrder removes the order and cascades its assignments. The ownership
// check runs first so an id owned by another account returns sql.ErrNoRows and
// leaves that account's assignments untouched.
func (d *DB) DeleteOrder(ctx context.Context, accountID, id string) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*models.Order)(nil)).
			Where("id = ?", id).
			Where("account_id = ?", accountID).
			Exec(ctx)
		if err != nil {
			return err
		}
		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			return sql.ErrNoRows
		}

		_, err = tx.NewDelete().
			Model((*models.Assignment)(nil)).
			Where("order_id = ?", id).
			Exec(ctx)
		return err
	})
}

// ---------------- CALENDAR ----------------

// OrdersByRange returns orders with cleaning_date in [from, to), ordered by
// date then start time. ISO date strings compare lexicographically, so the
// range works on both Postgres and SQLite.
func (d *DB) OrdersByRange(ctx context.Context, accountID, from, to string) ([]models.OrderWithStaff, error) {
	var orders []models.Order
	err := d.Bun.NewSelect().
		Model(&orders).
		Where("account_id = ?", accountID).
		Where("cleaning_date >= ?", from).
		Where("cleaning_date < ?", to).
		Order("cleaning_date ASC", "start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return d.attachStaff(ctx, accountID, orders)
}

// OrdersByDate returns orders on an exact date, ordered by start time.
func (d *DB) OrdersByDate(ctx context.Context, accountID, date string) ([]models.OrderWithStaff, error) {
	var orders []models.Order
	err := d.Bun.NewSelect().
		Model(&orders).
		Where("account_id = ?", accountID).
		Where("cleaning_date = ?", date).
		Order("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return d.attachStaff(ctx, accountID, orders)
}

// ---------------- RELATION QUERIES ----------------

type staffRow struct {
	OrderID   string `bun:"order_id"`
	ID        string `bun:"id"`
	FirstName string `bun:"first_name"`
	LastName  string `bun:"last_name"`
}

// attachStaff resolves the assigned staff for a batch of orders with one
// grouped join instead of a lookup per order. The join is scoped to the
// account so a stray assignment row can never surface another account's staff.
func (d *DB) attachStaff(ctx context.Context, accountID string, orders []models.Order) ([]models.OrderWithStaff, error) {
	if len(orders) == 0 {
		return []models.OrderWithStaff{}, nil
	}

	orderIDs := make([]string, len(orders))
	for i, order := range orders {
		orderIDs[i] = order.ID
	}

	var rows []staffRow
	err := d.Bun.NewSelect().
		Table("assignments").
		ColumnExpr("assignments.order_id AS order_id").
		ColumnExpr("s.id AS id").
		ColumnExpr("s.first_name AS first_name").
		ColumnExpr("s.last_name AS last_name").
		Join("JOIN staff s ON s.id = assignments.staff_id").
		Where("assignments.order_id IN (?)", bun.In(orderIDs)).
		Where("s.account_id = ?", accountID).
		OrderExpr("s.last_name, s.first_name, s.id").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}

	staffByOrder := make(map[string][]models.StaffSummary)
	for _, row := range rows {
		staffByOrder[row.OrderID] = append(staffByOrder[row.OrderID], models.StaffSummary{
			ID:        row.ID,
			FirstName: row.FirstName,
			LastName:  row.LastName,
		})
	}

	result := make([]models.OrderWithStaff, len(orders))
	for i, order := range orders {
		result[i] = models.OrderWithStaff{
			Order: order,
			Staff: staffByOrder[order.ID],
		}
		if result[i].Staff == nil {
			result[i].Staff = []models.StaffSummary{}
		}
	}
	return result, nil
}

// insertAssignments writes one assignment per staff id after resolving every
// id against the account's own staff. A single foreign or unknown id aborts
// the enclosing transaction.
func insertAssignments(ctx context.Context, tx bun.Tx, accountID, orderID string, staffIDs []string) error {
	assignments := buildAssignments(orderID, staffIDs)
	if len(assignments) == 0 {
		return nil
	}

	ids := make([]string, len(assignments))
	for i, a := range assignments {
		ids[i] = a.StaffID
	}
	owned, err := tx.NewSelect().
		Model((*models.Staff)(nil)).
		Where("id IN (?)", bun.In(ids)).
		Where("account_id = ?", accountID).
		Count(ctx)
	if err != nil {
		return err
	}
	if owned != len(ids) {
		return ErrUnknownStaff
	}

	_, err = tx.NewInsert().Model(&assignments).Exec(ctx)
	return err
}

// buildAssignments collapses duplicate staff ids, preserving first-seen order,
// so the unique (order_id, staff_id) constraint can't trip on bad input.
func buildAssignments(orderID string, staffIDs []string) []models.Assignment {
	seen := make(map[string]bool, len(staffIDs))
	assignments := make([]models.Assignment, 0, len(staffIDs))
	for _, staffID := range staffIDs {
		if staffID == "" || seen[staffID] {
			continue
		}
		seen[staffID] = true
		assignments = append(assignments, models.Assignment{OrderID: orderID, StaffID: staffID})
	}
	return assignments
}
