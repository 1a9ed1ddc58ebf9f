package db

import (
	"context"

	"cleansched/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateAccount(ctx context.Context, account models.Account) error {
	_, err := d.Bun.NewInsert().Model(&account).Exec(ctx)
	return err
}

// GetAccountByEmail returns sql.ErrNoRows when no account carries the email.
func (d *DB) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	err := d.Bun.NewSelect().
		Model(&account).
		Where("email = ?", email).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (d *DB) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	err := d.Bun.NewSelect().
		Model(&account).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// DeleteAccount physically removes the account and everything it owns:
// assignments first, then orders, staff and the account row itself, all in one
// transaction.
func (d *DB) DeleteAccount(ctx context.Context, id string) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*models.Assignment)(nil)).
			Where("order_id IN (SELECT id FROM orders WHERE account_id = ?)", id).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().
			Model((*models.Order)(nil)).
			Where("account_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().
			Model((*models.Staff)(nil)).
			Where("account_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().
			Model((*models.Account)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		return err
	})
}
