package orders_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"cleansched/internal/logger"
	"cleansched/internal/models"
	"cleansched/internal/orders"
	ordersdb "cleansched/internal/orders/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) ListOrders(ctx context.Context, accountID, sortBy, search string) ([]models.OrderWithStaff, error) {
	args := m.Called(ctx, accountID, sortBy, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OrderWithStaff), args.Error(1)
}

func (m *MockDBLayer) GetOrderWithStaff(ctx context.Context, accountID, id string) (*models.OrderWithStaff, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderWithStaff), args.Error(1)
}

func (m *MockDBLayer) CreateOrder(ctx context.Context, order models.Order, staffIDs []string) (*models.OrderWithStaff, error) {
	args := m.Called(ctx, order, staffIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderWithStaff), args.Error(1)
}

func (m *MockDBLayer) UpdateOrder(ctx context.Context, order models.Order, staffIDs []string) (*models.OrderWithStaff, error) {
	args := m.Called(ctx, order, staffIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderWithStaff), args.Error(1)
}

func (m *MockDBLayer) DeleteOrder(ctx context.Context, accountID, id string) error {
	args := m.Called(ctx, accountID, id)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderCreated(order models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockPublisher) PublishOrderUpdated(order models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockPublisher) PublishOrderDeleted(orderID string) error {
	args := m.Called(orderID)
	return args.Error(0)
}

func newService(t *testing.T) (*orders.OrderService, *MockDBLayer, *MockPublisher) {
	log, err := logger.New("")
	require.NoError(t, err)

	dbMock := new(MockDBLayer)
	pubMock := new(MockPublisher)
	return orders.NewOrderService(dbMock, pubMock, log), dbMock, pubMock
}

func TestGetOrderMapsNotFound(t *testing.T) {
	service, dbMock, _ := newService(t)

	dbMock.On("GetOrderWithStaff", mock.Anything, "acc", "missing").Return(nil, sql.ErrNoRows)

	_, err := service.GetOrder(context.Background(), "acc", "missing")
	assert.ErrorIs(t, err, orders.ErrNotFound)
}

func TestCreateOrderAssignsIDAndPublishes(t *testing.T) {
	service, dbMock, pubMock := newService(t)

	req := models.OrderRequest{
		Name:          "Flat 3B",
		CleaningDate:  "2024-06-01",
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentUnpaid,
		StaffIDs:      []string{"s1"},
	}

	dbMock.On("CreateOrder", mock.Anything, mock.MatchedBy(func(order models.Order) bool {
		return order.ID != "" && order.AccountID == "acc" && order.Name == "Flat 3B"
	}), []string{"s1"}).Return(&models.OrderWithStaff{
		Order: models.Order{ID: "o1", Name: "Flat 3B"},
		Staff: []models.StaffSummary{{ID: "s1"}},
	}, nil)
	pubMock.On("PublishOrderCreated", mock.Anything).Return(nil)

	created, err := service.CreateOrder(context.Background(), "acc", req)
	require.NoError(t, err)
	assert.Equal(t, "Flat 3B", created.Name)

	dbMock.AssertExpectations(t)
	pubMock.AssertExpectations(t)
}

func TestCreateOrderSurvivesPublishFailure(t *testing.T) {
	service, dbMock, pubMock := newService(t)

	dbMock.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything).Return(&models.OrderWithStaff{
		Order: models.Order{ID: "o1"},
		Staff: []models.StaffSummary{},
	}, nil)
	pubMock.On("PublishOrderCreated", mock.Anything).Return(errors.New("broker down"))

	_, err := service.CreateOrder(context.Background(), "acc", models.OrderRequest{
		Name:         "Flat",
		CleaningDate: "2024-06-01",
	})
	assert.NoError(t, err)
}

func TestUpdateOrderMapsNotFound(t *testing.T) {
	service, dbMock, _ := newService(t)

	dbMock.On("UpdateOrder", mock.Anything, mock.Anything, mock.Anything).Return(nil, sql.ErrNoRows)

	_, err := service.UpdateOrder(context.Background(), "acc", "missing", models.OrderRequest{})
	assert.ErrorIs(t, err, orders.ErrNotFound)
}

func TestCreateOrderMapsUnknownStaff(t *testing.T) {
	service, dbMock, pubMock := newService(t)

	dbMock.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything).Return(nil, ordersdb.ErrUnknownStaff)

	_, err := service.CreateOrder(context.Background(), "acc", models.OrderRequest{
		Name:         "Flat 3B",
		CleaningDate: "2024-06-01",
		StaffIDs:     []string{"foreign"},
	})
	assert.ErrorIs(t, err, orders.ErrUnknownStaff)
	pubMock.AssertNotCalled(t, "PublishOrderCreated", mock.Anything)
}

func TestUpdateOrderMapsUnknownStaff(t *testing.T) {
	service, dbMock, _ := newService(t)

	dbMock.On("UpdateOrder", mock.Anything, mock.Anything, mock.Anything).Return(nil, ordersdb.ErrUnknownStaff)

	_, err := service.UpdateOrder(context.Background(), "acc", "o1", models.OrderRequest{})
	assert.ErrorIs(t, err, orders.ErrUnknownStaff)
}

func TestDeleteOrderMapsNotFound(t *testing.T) {
	service, dbMock, pubMock := newService(t)

	dbMock.On("DeleteOrder", mock.Anything, "acc", "missing").Return(sql.ErrNoRows)

	err := service.DeleteOrder(context.Background(), "acc", "missing")
	assert.ErrorIs(t, err, orders.ErrNotFound)
	pubMock.AssertNotCalled(t, "PublishOrderDeleted", mock.Anything)
}

func TestDeleteOrderPublishes(t *testing.T) {
	service, dbMock, pubMock := newService(t)

	dbMock.On("DeleteOrder", mock.Anything, "acc", "o1").Return(nil)
	pubMock.On("PublishOrderDeleted", "o1").Return(nil)

	require.NoError(t, service.DeleteOrder(context.Background(), "acc", "o1"))
	pubMock.AssertExpectations(t)
}
