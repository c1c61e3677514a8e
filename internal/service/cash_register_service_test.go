package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/market-leases/internal/model"
)

func newCashRegisterFixture() (*CashRegisterService, *fakeCashRegisters) {
	users := &fakeUsers{items: map[int64]*model.User{
		1: {ID: 1, Username: "cajero", Role: model.RoleOperator, Active: true},
	}}
	registers := newFakeCashRegisters()
	return NewCashRegisterService(registers, users), registers
}

func TestCashRegisterService_Status(t *testing.T) {
	ctx := context.Background()

	for _, status := range []string{"active", "inactive", "maintenance"} {
		t.Run(status, func(t *testing.T) {
			svc, _ := newCashRegisterFixture()
			register, err := svc.Create(ctx, CashRegisterInput{Name: "Caja 1", Status: status})
			require.NoError(t, err)
			assert.Equal(t, model.CashRegisterStatus(status), register.Status)
			assert.Nil(t, register.UserID)
		})
	}

	for _, status := range []string{"", "closed", "Active"} {
		t.Run("invalid "+status, func(t *testing.T) {
			svc, _ := newCashRegisterFixture()
			_, err := svc.Create(ctx, CashRegisterInput{Name: "Caja 1", Status: status})
			require.ErrorIs(t, err, ErrInvalidInput)
			ve, ok := AsValidation(err)
			require.True(t, ok)
			assert.True(t, ve.Has("status"))
		})
	}
}

func TestCashRegisterService_AssignedUserMustExist(t *testing.T) {
	ctx := context.Background()
	svc, registers := newCashRegisterFixture()

	for _, raw := range []string{"9", "abc", "-1"} {
		_, err := svc.Create(ctx, CashRegisterInput{Name: "Caja 1", UserID: raw, Status: "active"})
		require.ErrorIs(t, err, ErrInvalidInput, raw)
		ve, ok := AsValidation(err)
		require.True(t, ok)
		assert.True(t, ve.Has("user_id"), raw)
	}
	assert.Empty(t, registers.items)

	register, err := svc.Create(ctx, CashRegisterInput{Name: "Caja 1", UserID: "1", Status: "active"})
	require.NoError(t, err)
	require.NotNil(t, register.UserID)
	assert.Equal(t, int64(1), *register.UserID)

	input := CashRegisterInputFrom(register)
	assert.Equal(t, "1", input.UserID)
	input.UserID = ""
	updated, err := svc.Update(ctx, register.ID, input)
	require.NoError(t, err)
	assert.Nil(t, updated.UserID)
}

func TestCashRegisterService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCashRegisterFixture()

	register, err := svc.Create(ctx, CashRegisterInput{Name: "Caja 1", Status: "active"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, register.ID))
	assert.ErrorIs(t, svc.Delete(ctx, register.ID), ErrNotFound)
	_, err = svc.Update(ctx, register.ID, CashRegisterInput{Name: "Caja 1", Status: "active"})
	assert.ErrorIs(t, err, ErrNotFound)
}
