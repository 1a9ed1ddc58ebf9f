package db

import (
	"context"
	"database/sql"
	"strings"

	"cleansched/internal/models"
	"cleansched/internal/utils"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

// ListStaff returns every staff member owned by the account, each joined with
// the full orders they are assigned to. search matches a case-insensitive
// substring of the first or last name.
func (d *DB) ListStaff(ctx context.Context, accountID, search string) ([]models.StaffWithOrders, error) {
	var staff []models.Staff
	q := d.Bun.NewSelect().
		Model(&staff).
		Where("account_id = ?", accountID).
		Order("last_name ASC", "first_name ASC")

	if search != "" {
		pattern := "%" + utils.EscapeLike(strings.ToLower(search)) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where(`LOWER(first_name) LIKE ? ESCAPE '\'`, pattern).
				WhereOr(`LOWER(last_name) LIKE ? ESCAPE '\'`, pattern)
		})
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return d.attachOrders(ctx, accountID, staff)
}

// GetStaffWithOrders returns one owned staff member with assigned orders, or
// sql.ErrNoRows when absent or foreign.
func (d *DB) GetStaffWithOrders(ctx context.Context, accountID, id string) (*models.StaffWithOrders, error) {
	var member models.Staff
	err := d.Bun.NewSelect().
		Model(&member).
		Where("id = ?", id).
		Where("account_id = ?", accountID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	result, err := d.attachOrders(ctx, accountID, []models.Staff{member})
	if err != nil {
		return nil, err
	}
	return &result[0], nil
}

func (d *DB) CreateStaff(ctx context.Context, member models.Staff) error {
	_, err := d.Bun.NewInsert().Model(&member).Exec(ctx)
	return err
}

// DeleteStaff removes the staff member and cascades their assignments. The
// orders themselves survive with that member unassigned. The ownership check
// runs first so an id owned by another account returns sql.ErrNoRows and
// leaves that account's assignments untouched.
func (d *DB) DeleteStaff(ctx context.Context, accountID, id string) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*models.Staff)(nil)).
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
			Where("staff_id = ?", id).
			Exec(ctx)
		return err
	})
}

// attachOrders resolves assigned orders for a batch of staff with one grouped
// join instead of a lookup per member. The order lookup is scoped to the
// account so a stray assignment row can never surface another account's orders.
func (d *DB) attachOrders(ctx context.Context, accountID string, staff []models.Staff) ([]models.StaffWithOrders, error) {
	if len(staff) == 0 {
		return []models.StaffWithOrders{}, nil
	}

	staffIDs := make([]string, len(staff))
	for i, member := range staff {
		staffIDs[i] = member.ID
	}

	var assignments []models.Assignment
	err := d.Bun.NewSelect().
		Model(&assignments).
		Where("staff_id IN (?)", bun.In(staffIDs)).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]models.StaffWithOrders, len(staff))
	if len(assignments) == 0 {
		for i, member := range staff {
			result[i] = models.StaffWithOrders{Staff: member, Orders: []models.Order{}}
		}
		return result, nil
	}

	orderIDs := make([]string, 0, len(assignments))
	for _, a := range assignments {
		orderIDs = append(orderIDs, a.OrderID)
	}

	var orders []models.Order
	err = d.Bun.NewSelect().
		Model(&orders).
		Where("id IN (?)", bun.In(orderIDs)).
		Where("account_id = ?", accountID).
		Order("cleaning_date DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	ordersByID := make(map[string]models.Order, len(orders))
	for _, order := range orders {
		ordersByID[order.ID] = order
	}

	ordersByStaff := make(map[string][]models.Order)
	for _, a := range assignments {
		if order, ok := ordersByID[a.OrderID]; ok {
			ordersByStaff[a.StaffID] = append(ordersByStaff[a.StaffID], order)
		}
	}

	for i, member := range staff {
		result[i] = models.StaffWithOrders{
			Staff:  member,
			Orders: ordersByStaff[member.ID],
		}
		if result[i].Orders == nil {
			result[i].Orders = []models.Order{}
		}
	}
	return result, nil
}
