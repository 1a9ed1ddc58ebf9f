package stats

import (
	"context"

	"cleansched/internal/models"

	"github.com/uptrace/bun"
)

// DB handles the aggregate statistics queries.
type DB struct {
	bun *bun.DB
}

func NewDB(db *bun.DB) *DB {
	return &DB{bun: db}
}

// CountOrders returns the total number of orders owned by the account.
func (db *DB) CountOrders(ctx context.Context, accountID string) (int, error) {
	return db.bun.NewSelect().
		Model((*models.Order)(nil)).
		Where("account_id = ?", accountID).
		Count(ctx)
}

// TopStaff returns the staff members with the most assignments. The secondary
// sort on id keeps tie order stable across runs.
func (db *DB) TopStaff(ctx context.Context, accountID string, limit int) ([]models.StaffJobCount, error) {
	var rows []models.StaffJobCount
	err := db.bun.NewRaw(`
		SELECT
			s.id,
			s.first_name,
			s.last_name,
			COUNT(a.order_id) AS jobs
		FROM
			assignments a
		JOIN
			staff s ON s.id = a.staff_id
		WHERE
			s.account_id = ?
		GROUP BY
			s.id, s.first_name, s.last_name
		ORDER BY
			jobs DESC, s.id ASC
		LIMIT ?
	`, accountID, limit).Scan(ctx, &rows)

	if rows == nil {
		rows = []models.StaffJobCount{}
	}
	return rows, err
}

// BusiestDays returns the cleaning dates with the most orders, ties broken by
// earliest date.
func (db *DB) BusiestDays(ctx context.Context, accountID string, limit int) ([]models.DayOrderCount, error) {
	var rows []models.DayOrderCount
	err := db.bun.NewRaw(`
		SELECT
			cleaning_date,
			COUNT(*) AS order_count
		FROM
			orders
		WHERE
			account_id = ?
		GROUP BY
			cleaning_date
		ORDER BY
			order_count DESC, cleaning_date ASC
		LIMIT ?
	`, accountID, limit).Scan(ctx, &rows)

	if rows == nil {
		rows = []models.DayOrderCount{}
	}
	return rows, err
}
