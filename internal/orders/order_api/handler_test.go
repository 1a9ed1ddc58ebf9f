package order_api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cleansched/internal/auth"
	"cleansched/internal/database"
	"cleansched/internal/kafka"
	"cleansched/internal/logger"
	"cleansched/internal/models"
	"cleansched/internal/orders"
	ordersdb "cleansched/internal/orders/db"
	"cleansched/internal/orders/order_api"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type testEnv struct {
	server  *httptest.Server
	bunDB   *bun.DB
	token   string
	account string
}

func setup(t *testing.T) *testEnv {
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, database.CreateSchema(context.Background(), bunDB))

	log, err := logger.New("")
	require.NoError(t, err)

	tokens := auth.NewTokens("test-secret", time.Hour)
	accountID := uuid.NewString()
	token, err := tokens.Issue(accountID)
	require.NoError(t, err)

	service := orders.NewOrderService(&ordersdb.DB{Bun: bunDB}, kafka.NoopPublisher{}, log)
	handler := order_api.NewHandler(service, log)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokens))
			handler.RegisterRoutes(r)
		})
	})

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		bunDB.Close()
	})

	return &testEnv{server: server, bunDB: bunDB, token: token, account: accountID}
}

func (e *testEnv) request(t *testing.T, method, path string, payload interface{}) *http.Response {
	var body *bytes.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(encoded)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.server.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+e.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func (e *testEnv) seedStaff(t *testing.T, first, last string) models.Staff {
	member := models.Staff{
		ID:        uuid.NewString(),
		AccountID: e.account,
		FirstName: first,
		LastName:  last,
		CreatedAt: time.Now(),
	}
	_, err := e.bunDB.NewInsert().Model(&member).Exec(context.Background())
	require.NoError(t, err)
	return member
}

func TestCreateAndGetOrder(t *testing.T) {
	env := setup(t)
	anna := env.seedStaff(t, "Anna", "Bianchi")

	resp := env.request(t, http.MethodPost, "/api/orders", models.OrderRequest{
		Name:         "Flat 3B",
		CleaningDate: "2024-06-15",
		StartTime:    "09:30",
		StaffIDs:     []string{anna.ID},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.OrderWithStaff
	decode(t, resp, &created)
	assert.Equal(t, "Flat 3B", created.Name)
	assert.Equal(t, models.StatusPending, created.Status, "blank status defaults to Pending")
	require.Len(t, created.Staff, 1)
	assert.Equal(t, "Anna", created.Staff[0].FirstName)

	resp = env.request(t, http.MethodGet, "/api/orders/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched models.OrderWithStaff
	decode(t, resp, &fetched)
	assert.Equal(t, created.ID, fetched.ID)
}

func TestCreateOrderValidation(t *testing.T) {
	env := setup(t)

	resp := env.request(t, http.MethodPost, "/api/orders", models.OrderRequest{
		Name:         "",
		CleaningDate: "2024-06-15",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetOrderBadID(t *testing.T) {
	env := setup(t)

	resp := env.request(t, http.MethodGet, "/api/orders/not-a-uuid", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetOrderNotFound(t *testing.T) {
	env := setup(t)

	resp := env.request(t, http.MethodGet, "/api/orders/"+uuid.NewString(), nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateOrderReplacesStaff(t *testing.T) {
	env := setup(t)
	anna := env.seedStaff(t, "Anna", "Bianchi")
	marco := env.seedStaff(t, "Marco", "Rossi")

	resp := env.request(t, http.MethodPost, "/api/orders", models.OrderRequest{
		Name:         "Office 12",
		CleaningDate: "2024-06-20",
		StaffIDs:     []string{anna.ID},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.OrderWithStaff
	decode(t, resp, &created)

	resp = env.request(t, http.MethodPut, "/api/orders/"+created.ID, models.OrderRequest{
		Name:         "Office 12",
		CleaningDate: "2024-06-21",
		Status:       models.StatusDone,
		StaffIDs:     []string{marco.ID},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.OrderWithStaff
	decode(t, resp, &updated)
	assert.Equal(t, "2024-06-21", updated.CleaningDate)
	assert.Equal(t, models.StatusDone, updated.Status)
	require.Len(t, updated.Staff, 1)
	assert.Equal(t, marco.ID, updated.Staff[0].ID)
}

func TestUpdateMissingOrderReturns404(t *testing.T) {
	env := setup(t)

	resp := env.request(t, http.MethodPut, "/api/orders/"+uuid.NewString(), models.OrderRequest{
		Name:         "Ghost",
		CleaningDate: "2024-06-21",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteOrder(t *testing.T) {
	env := setup(t)

	resp := env.request(t, http.MethodPost, "/api/orders", models.OrderRequest{
		Name:         "Flat 3B",
		CleaningDate: "2024-06-15",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.OrderWithStaff
	decode(t, resp, &created)

	resp = env.request(t, http.MethodDelete, "/api/orders/"+created.ID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/orders/"+created.ID, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteMissingOrderReturns404(t *testing.T) {
	env := setup(t)

	resp := env.request(t, http.MethodDelete, "/api/orders/"+uuid.NewString(), nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateOrderForeignStaffReturns400(t *testing.T) {
	env := setup(t)

	foreign := models.Staff{
		ID:        uuid.NewString(),
		AccountID: uuid.NewString(),
		FirstName: "Secret",
		LastName:  "Person",
		CreatedAt: time.Now(),
	}
	_, err := env.bunDB.NewInsert().Model(&foreign).Exec(context.Background())
	require.NoError(t, err)

	resp := env.request(t, http.MethodPost, "/api/orders", models.OrderRequest{
		Name:         "Flat 3B",
		CleaningDate: "2024-06-15",
		StaffIDs:     []string{foreign.ID},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRequestsRequireToken(t *testing.T) {
	env := setup(t)

	req, err := http.NewRequest(http.MethodGet, env.server.URL+"/api/orders", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
