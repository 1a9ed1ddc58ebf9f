package database

import (
	"context"

	"cleansched/internal/models"

	"github.com/uptrace/bun"
)

// CreateSchema creates the four tables directly from the bun models. Used for
// SQLite runs and tests; Postgres goes through the migrations runner.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.Account)(nil),
		(*models.Order)(nil),
		(*models.Staff)(nil),
		(*models.Assignment)(nil),
	}
	for _, table := range tables {
		if _, err := db.NewCreateTable().
			Model(table).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
