package db_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"cleansched/internal/database"
	"cleansched/internal/models"
	ordersdb "cleansched/internal/orders/db"
	"cleansched/internal/staff/db"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const testAccount = "acc-1"

func setupTestDB(t *testing.T) (*db.DB, *bun.DB) {
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, database.CreateSchema(context.Background(), bunDB))

	t.Cleanup(func() { bunDB.Close() })
	return &db.DB{Bun: bunDB}, bunDB
}

func newStaff(first, last string) models.Staff {
	return models.Staff{
		ID:        uuid.NewString(),
		AccountID: testAccount,
		FirstName: first,
		LastName:  last,
		CreatedAt: time.Now(),
	}
}

func TestCreateAndGetStaff(t *testing.T) {
	staffDB, _ := setupTestDB(t)
	ctx := context.Background()

	anna := newStaff("Anna", "Bianchi")
	require.NoError(t, staffDB.CreateStaff(ctx, anna))

	got, err := staffDB.GetStaffWithOrders(ctx, testAccount, anna.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anna", got.FirstName)
	assert.Empty(t, got.Orders)

	_, err = staffDB.GetStaffWithOrders(ctx, "other-account", anna.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListStaffSearch(t *testing.T) {
	staffDB, _ := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, staffDB.CreateStaff(ctx, newStaff("Anna", "Bianchi")))
	require.NoError(t, staffDB.CreateStaff(ctx, newStaff("Marco", "Bianchi")))
	require.NoError(t, staffDB.CreateStaff(ctx, newStaff("Luca", "Verdi")))

	list, err := staffDB.ListStaff(ctx, testAccount, "bianchi")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = staffDB.ListStaff(ctx, testAccount, "")
	require.NoError(t, err)
	require.Len(t, list, 3)
	// Sorted by last then first name.
	assert.Equal(t, "Anna", list[0].FirstName)
	assert.Equal(t, "Marco", list[1].FirstName)
	assert.Equal(t, "Luca", list[2].FirstName)
}

func TestListStaffJoinsFullOrders(t *testing.T) {
	staffDB, bunDB := setupTestDB(t)
	ctx := context.Background()

	anna := newStaff("Anna", "Bianchi")
	require.NoError(t, staffDB.CreateStaff(ctx, anna))

	orderDB := &ordersdb.DB{Bun: bunDB}
	order := models.Order{
		ID:            uuid.NewString(),
		AccountID:     testAccount,
		Name:          "Flat 3B",
		CleaningDate:  "2024-06-01",
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentUnpaid,
		Notes:         "bring the spare keys",
		CreatedAt:     time.Now(),
	}
	_, err := orderDB.CreateOrder(ctx, order, []string{anna.ID})
	require.NoError(t, err)

	list, err := staffDB.ListStaff(ctx, testAccount, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].Orders, 1)
	// Full order fields come through, not just names.
	assert.Equal(t, "Flat 3B", list[0].Orders[0].Name)
	assert.Equal(t, "bring the spare keys", list[0].Orders[0].Notes)
}

func TestDeleteStaffNotOwned(t *testing.T) {
	staffDB, bunDB := setupTestDB(t)
	ctx := context.Background()

	anna := newStaff("Anna", "Bianchi")
	require.NoError(t, staffDB.CreateStaff(ctx, anna))

	orderDB := &ordersdb.DB{Bun: bunDB}
	order := models.Order{
		ID:            uuid.NewString(),
		AccountID:     testAccount,
		Name:          "Flat 3B",
		CleaningDate:  "2024-06-01",
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentUnpaid,
		CreatedAt:     time.Now(),
	}
	_, err := orderDB.CreateOrder(ctx, order, []string{anna.ID})
	require.NoError(t, err)

	err = staffDB.DeleteStaff(ctx, "other-account", anna.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	// The owner's member and assignment must be untouched.
	got, err := staffDB.GetStaffWithOrders(ctx, testAccount, anna.ID)
	require.NoError(t, err)
	require.Len(t, got.Orders, 1)
	assert.Equal(t, order.ID, got.Orders[0].ID)
}

func TestAttachOrdersSkipsForeignRows(t *testing.T) {
	staffDB, bunDB := setupTestDB(t)
	ctx := context.Background()

	anna := newStaff("Anna", "Bianchi")
	require.NoError(t, staffDB.CreateStaff(ctx, anna))

	foreignOrder := models.Order{
		ID:            uuid.NewString(),
		AccountID:     "other-account",
		Name:          "Secret villa",
		CleaningDate:  "2024-06-01",
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentUnpaid,
		CreatedAt:     time.Now(),
	}
	_, err := bunDB.NewInsert().Model(&foreignOrder).Exec(ctx)
	require.NoError(t, err)

	// A stray cross-account assignment row must not surface foreign orders.
	stray := models.Assignment{OrderID: foreignOrder.ID, StaffID: anna.ID}
	_, err = bunDB.NewInsert().Model(&stray).Exec(ctx)
	require.NoError(t, err)

	got, err := staffDB.GetStaffWithOrders(ctx, testAccount, anna.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Orders)
}

func TestListStaffSearchLiteralWildcards(t *testing.T) {
	staffDB, _ := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, staffDB.CreateStaff(ctx, newStaff("Anna", "O_Brien")))
	require.NoError(t, staffDB.CreateStaff(ctx, newStaff("Marco", "OxBrien")))

	// "_" must match literally, not as a single-character wildcard.
	list, err := staffDB.ListStaff(ctx, testAccount, "o_brien")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Anna", list[0].FirstName)
}

func TestDeleteStaffCascadesAssignmentsOnly(t *testing.T) {
	staffDB, bunDB := setupTestDB(t)
	ctx := context.Background()

	anna := newStaff("Anna", "Bianchi")
	require.NoError(t, staffDB.CreateStaff(ctx, anna))

	orderDB := &ordersdb.DB{Bun: bunDB}
	order := models.Order{
		ID:            uuid.NewString(),
		AccountID:     testAccount,
		Name:          "Flat 3B",
		CleaningDate:  "2024-06-01",
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentUnpaid,
		CreatedAt:     time.Now(),
	}
	_, err := orderDB.CreateOrder(ctx, order, []string{anna.ID})
	require.NoError(t, err)

	require.NoError(t, staffDB.DeleteStaff(ctx, testAccount, anna.ID))

	_, err = staffDB.GetStaffWithOrders(ctx, testAccount, anna.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	// The order survives without the deleted member.
	got, err := orderDB.GetOrderWithStaff(ctx, testAccount, order.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Staff)
}
