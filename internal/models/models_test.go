package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	role, err := ParseRole(1)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	role, err = ParseRole(2)
	require.NoError(t, err)
	assert.Equal(t, RoleCustomer, role)

	for _, code := range []int{0, 3, -1} {
		_, err := ParseRole(code)
		assert.Error(t, err, code)
	}
}

func TestIdentityHasRole(t *testing.T) {
	admin := Identity{UserID: "a", Role: RoleAdmin}
	assert.True(t, admin.HasRole())
	assert.True(t, admin.HasRole(RoleAdmin))
	assert.True(t, admin.HasRole(RoleCustomer, RoleAdmin))
	assert.False(t, admin.HasRole(RoleCustomer))
	assert.False(t, Identity{}.HasRole())
}

func TestTotalOf(t *testing.T) {
	items := []OrderItem{
		{Quantity: 2, Price: decimal.RequireFromString("19.99")},
		{Quantity: 1, Price: decimal.RequireFromString("0.02")},
	}
	assert.Equal(t, "40", TotalOf(items).String())
	assert.True(t, TotalOf(nil).IsZero())
}

func TestDecimalsMarshalAsNumbers(t *testing.T) {
	data, err := json.Marshal(Book{Title: "Dune", Price: decimal.RequireFromString("12.50")})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"price":12.5`)
}
