package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestPointsAbsentReadsZero(t *testing.T) {
	svc := NewPointsService(testDB(t))

	amount, err := svc.GetBalance(uuid.New())
	require.NoError(t, err)
	require.EqualValues(t, 0, amount)
}

func TestPointsAddAndGet(t *testing.T) {
	svc := NewPointsService(testDB(t))
	user := uuid.New()

	amount, err := svc.Add(user, 5)
	require.NoError(t, err)
	require.EqualValues(t, 5, amount)

	amount, err = svc.Add(user, 3)
	require.NoError(t, err)
	require.EqualValues(t, 8, amount)

	amount, err = svc.GetBalance(user)
	require.NoError(t, err)
	require.EqualValues(t, 8, amount)
}

func TestPointsAddRejectsNonPositive(t *testing.T) {
	svc := NewPointsService(testDB(t))

	_, err := svc.Add(uuid.New(), 0)
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Subtract(uuid.New(), -1)
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestPointsSubtractFloorsAtZero(t *testing.T) {
	svc := NewPointsService(testDB(t))
	user := uuid.New()

	_, err := svc.Add(user, 4)
	require.NoError(t, err)

	amount, err := svc.Subtract(user, 10)
	require.NoError(t, err)
	require.EqualValues(t, 0, amount)

	amount, err = svc.GetBalance(user)
	require.NoError(t, err)
	require.EqualValues(t, 0, amount)
}

func TestPointsSubtractFromAbsentStaysZero(t *testing.T) {
	svc := NewPointsService(testDB(t))
	user := uuid.New()

	amount, err := svc.Subtract(user, 3)
	require.NoError(t, err)
	require.EqualValues(t, 0, amount)
}

func TestPointsReset(t *testing.T) {
	svc := NewPointsService(testDB(t))
	user := uuid.New()

	_, err := svc.Add(user, 7)
	require.NoError(t, err)

	require.NoError(t, svc.Reset(user))

	amount, err := svc.GetBalance(user)
	require.NoError(t, err)
	require.EqualValues(t, 0, amount)

	// Resetting an already absent balance is a no-op, not an error.
	require.NoError(t, svc.Reset(user))
}
