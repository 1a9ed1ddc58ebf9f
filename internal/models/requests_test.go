package models_test

import (
	"testing"

	"cleansched/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderRequestDefaults(t *testing.T) {
	req := models.OrderRequest{Name: "  Flat 3B  ", CleaningDate: "2024-06-15"}
	require.NoError(t, req.Validate())

	assert.Equal(t, "Flat 3B", req.Name, "name is trimmed")
	assert.Equal(t, models.StatusPending, req.Status)
	assert.Equal(t, models.PaymentUnpaid, req.PaymentStatus)
}

func TestOrderRequestRejections(t *testing.T) {
	negative := -1.0
	cases := []struct {
		name string
		req  models.OrderRequest
	}{
		{"empty name", models.OrderRequest{Name: "   ", CleaningDate: "2024-06-15"}},
		{"bad date", models.OrderRequest{Name: "Flat 3B", CleaningDate: "15/06/2024"}},
		{"impossible date", models.OrderRequest{Name: "Flat 3B", CleaningDate: "2024-02-30"}},
		{"bad time", models.OrderRequest{Name: "Flat 3B", CleaningDate: "2024-06-15", StartTime: "25:00"}},
		{"unknown status", models.OrderRequest{Name: "Flat 3B", CleaningDate: "2024-06-15", Status: "Cancelled"}},
		{"negative price", models.OrderRequest{Name: "Flat 3B", CleaningDate: "2024-06-15", Price: &negative}},
		{"blank staff id", models.OrderRequest{Name: "Flat 3B", CleaningDate: "2024-06-15", StaffIDs: []string{" "}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.req.Validate())
		})
	}
}

func TestStaffRequestValidation(t *testing.T) {
	req := models.StaffRequest{FirstName: " Anna ", LastName: "Bianchi"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "Anna", req.FirstName)

	bad := models.StaffRequest{FirstName: "Anna"}
	assert.Error(t, bad.Validate())
}

func TestRegisterRequestValidation(t *testing.T) {
	req := models.RegisterRequest{Email: " Anna@Example.COM ", Password: "secret123"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "anna@example.com", req.Email, "email is normalized")

	short := models.RegisterRequest{Email: "anna@example.com", Password: "short"}
	assert.Error(t, short.Validate())
}
