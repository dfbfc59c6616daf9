package service

import (
	"testing"

	"invest_learn_backend/internal/testutil"
	"invest_learn_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	f := newFixture(t)

	u, err := f.accounts.CreateUser("  Alice@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, 0, u.Points)
	assert.Equal(t, 1000, u.Coins)

	_, err = f.accounts.CreateUser("alice@example.com")
	assert.ErrorIs(t, err, util.ErrEmailRegistered)

	_, err = f.accounts.CreateUser("not-an-email")
	assert.ErrorIs(t, err, util.ErrInvalidEmail)
}

func TestCreateUserRespectsStartingCoins(t *testing.T) {
	f := newFixture(t)
	accounts := NewAccountService(f.users, 0, 0)

	u, err := accounts.CreateUser("zero@example.com")
	require.NoError(t, err)

	stored, err := accounts.GetBalance("zero@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, u.Coins)
	assert.Equal(t, 0, stored.Coins)
}

func TestGetBalanceMissingUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.accounts.GetBalance("ghost@example.com")
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestDeductCoinsRules(t *testing.T) {
	f := newFixture(t)
	testutil.SeedUser(t, f.db, "a@example.com", 0, 100)

	_, err := f.accounts.DeductCoins("a@example.com", 0)
	assert.ErrorIs(t, err, util.ErrInvalidAmount)

	_, err = f.accounts.DeductCoins("a@example.com", 101)
	assert.ErrorIs(t, err, util.ErrInsufficientFunds)

	_, err = f.accounts.DeductCoins("ghost@example.com", 1)
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	u, err := f.accounts.DeductCoins("A@example.com", 100)
	require.NoError(t, err)
	assert.Equal(t, 0, u.Coins)
}

func TestAddCoinsAndPoints(t *testing.T) {
	f := newFixture(t)
	testutil.SeedUser(t, f.db, "a@example.com", 10, 100)

	u, err := f.accounts.AddCoins("a@example.com", 25)
	require.NoError(t, err)
	assert.Equal(t, 125, u.Coins)

	u, err = f.accounts.AddPoints("a@example.com", 15)
	require.NoError(t, err)
	assert.Equal(t, 25, u.Points)

	_, err = f.accounts.AddPoints("a@example.com", 0)
	assert.ErrorIs(t, err, util.ErrInvalidPoints)

	_, err = f.accounts.SetPoints("a@example.com", -1)
	assert.ErrorIs(t, err, util.ErrInvalidPoints)
}

func TestUpdateUser(t *testing.T) {
	f := newFixture(t)
	testutil.SeedUser(t, f.db, "a@example.com", 10, 100)

	points := 70
	u, err := f.accounts.UpdateUser("a@example.com", &points, nil)
	require.NoError(t, err)
	assert.Equal(t, 70, u.Points)
	assert.Equal(t, 100, u.Coins)

	coins := -5
	_, err = f.accounts.UpdateUser("a@example.com", nil, &coins)
	assert.ErrorIs(t, err, util.ErrInvalidAmount)

	_, err = f.accounts.UpdateUser("ghost@example.com", &points, nil)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestListTopUsers(t *testing.T) {
	f := newFixture(t)
	testutil.SeedUser(t, f.db, "low@example.com", 5, 0)
	testutil.SeedUser(t, f.db, "high@example.com", 500, 0)
	testutil.SeedUser(t, f.db, "mid@example.com", 50, 0)

	users, err := f.accounts.ListTopUsers(0)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "high@example.com", users[0].Email)
	assert.Equal(t, "mid@example.com", users[1].Email)
	assert.Equal(t, "low@example.com", users[2].Email)

	users, err = f.accounts.ListTopUsers(1)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	rank, err := f.accounts.Rank(50)
	require.NoError(t, err)
	assert.Equal(t, 2, rank)
}
