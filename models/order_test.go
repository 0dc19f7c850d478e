package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusOutForDelivery, StatusDelivered, StatusCompleted, StatusCancelled} {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, OrderStatus("shipped").IsValid())

	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusReady.IsTerminal())

	assert.Less(t, StatusPending.Rank(), StatusConfirmed.Rank())
	assert.Equal(t, StatusDelivered.Rank(), StatusCompleted.Rank())
	assert.Equal(t, -1, StatusCancelled.Rank())
}

func TestRoleAllowed(t *testing.T) {
	assert.True(t, RoleAllowed(RoleStaff, []Role{RoleAdmin, RoleStaff}))
	assert.False(t, RoleAllowed(RoleCustomer, []Role{RoleAdmin, RoleStaff}))
	assert.False(t, RoleAllowed(RoleAdmin, nil))
	assert.True(t, Identity{Role: RoleAdmin}.IsStaff())
	assert.False(t, Identity{Role: RoleCustomer}.IsStaff())
}

func TestMenuItemUnitPrice(t *testing.T) {
	m := MenuItem{Price: 12}
	assert.Equal(t, 12.0, m.UnitPrice())
	d := 9.5
	m.DiscountPrice = &d
	assert.Equal(t, 9.5, m.UnitPrice())
}
