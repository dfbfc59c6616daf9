package repository

import (
	"errors"
	"sync"
	"testing"

	"invest_learn_backend/internal/testutil"
	"invest_learn_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserRepo(t *testing.T) (*UserRepository, *gorm.DB) {
	db := testutil.NewDB(t)
	return NewUserRepository(db, nil, 0), db
}

func TestDeductCoins(t *testing.T) {
	repo, db := newUserRepo(t)
	testutil.SeedUser(t, db, "a@example.com", 0, 100)

	u, err := repo.DeductCoins("a@example.com", 40)
	require.NoError(t, err)
	assert.Equal(t, 60, u.Coins)
}

func TestDeductCoinsInsufficientLeavesBalance(t *testing.T) {
	repo, db := newUserRepo(t)
	testutil.SeedUser(t, db, "a@example.com", 0, 30)

	_, err := repo.DeductCoins("a@example.com", 31)
	assert.ErrorIs(t, err, util.ErrInsufficientFunds)

	u, err := repo.FindByEmail("a@example.com")
	require.NoError(t, err)
	assert.Equal(t, 30, u.Coins)
}

func TestDeductCoinsUnknownUser(t *testing.T) {
	repo, _ := newUserRepo(t)

	_, err := repo.DeductCoins("ghost@example.com", 1)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestDeductCoinsConcurrentNeverNegative(t *testing.T) {
	repo, db := newUserRepo(t)
	testutil.SeedUser(t, db, "a@example.com", 0, 100)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.DeductCoins("a@example.com", 30); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	u, err := repo.FindByEmail("a@example.com")
	require.NoError(t, err)
	assert.Equal(t, 3, ok)
	assert.Equal(t, 10, u.Coins)
}

func TestAddCoinsAndPoints(t *testing.T) {
	repo, db := newUserRepo(t)
	testutil.SeedUser(t, db, "a@example.com", 10, 100)

	u, err := repo.AddCoins("a@example.com", 25)
	require.NoError(t, err)
	assert.Equal(t, 125, u.Coins)

	u, err = repo.SetPoints("a@example.com", 70)
	require.NoError(t, err)
	assert.Equal(t, 70, u.Points)

	u, err = repo.AddPoints("a@example.com", 5)
	require.NoError(t, err)
	assert.Equal(t, 75, u.Points)

	_, err = repo.AddCoins("ghost@example.com", 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateBalance(t *testing.T) {
	repo, db := newUserRepo(t)
	testutil.SeedUser(t, db, "a@example.com", 10, 100)

	coins := 5
	u, err := repo.UpdateBalance("a@example.com", nil, &coins)
	require.NoError(t, err)
	assert.Equal(t, 10, u.Points)
	assert.Equal(t, 5, u.Coins)

	u, err = repo.UpdateBalance("a@example.com", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, u.Coins)
}

func TestFindTopByPointsAndRank(t *testing.T) {
	repo, db := newUserRepo(t)
	testutil.SeedUser(t, db, "low@example.com", 5, 0)
	testutil.SeedUser(t, db, "high@example.com", 500, 0)
	testutil.SeedUser(t, db, "mid@example.com", 120, 0)
	testutil.SeedUser(t, db, "mid2@example.com", 120, 0)

	users, err := repo.FindTopByPointsCached(3)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "high@example.com", users[0].Email)
	assert.Equal(t, "mid@example.com", users[1].Email)
	assert.Equal(t, "mid2@example.com", users[2].Email)

	rank, err := repo.RankOf(120)
	require.NoError(t, err)
	assert.Equal(t, 2, rank)

	rank, err = repo.RankOf(5)
	require.NoError(t, err)
	assert.Equal(t, 4, rank)
}
