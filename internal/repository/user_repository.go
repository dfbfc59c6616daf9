package repository

import (
	"context"
	"strconv"
	"time"

	"invest_learn_backend/internal/model"
	"invest_learn_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"
	"gorm.io/gorm"
)

const leaderboardCacheKey = "invest:leaderboard:top"

type UserRepository struct {
	DB       *gorm.DB
	Redis    *redis.Client
	ctx      context.Context
	cacheTTL time.Duration
}

func NewUserRepository(db *gorm.DB, rdb *redis.Client, cacheTTL time.Duration) *UserRepository {
	return &UserRepository{
		DB:       db,
		Redis:    rdb,
		ctx:      context.Background(),
		cacheTTL: cacheTTL,
	}
}

func (r *UserRepository) Create(user *model.User) error {
	if err := r.DB.Create(user).Error; err != nil {
		return err
	}
	r.invalidateLeaderboard()
	return nil
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// DeductCoins 仅在余额足够时扣减，余额不足返回 ErrInsufficientFunds 且不修改任何数据
func (r *UserRepository) DeductCoins(email string, amount int) (*model.User, error) {
	var user *model.User
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = deductCoins(tx, email, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	r.invalidateLeaderboard()
	return user, nil
}

func (r *UserRepository) AddCoins(email string, amount int) (*model.User, error) {
	return r.applyUpdate(email, map[string]interface{}{
		"coins": gorm.Expr("coins + ?", amount),
	})
}

func (r *UserRepository) SetPoints(email string, points int) (*model.User, error) {
	return r.applyUpdate(email, map[string]interface{}{"points": points})
}

// AddPoints 原子累加，避免读改写竞争
func (r *UserRepository) AddPoints(email string, delta int) (*model.User, error) {
	return r.applyUpdate(email, map[string]interface{}{
		"points": gorm.Expr("points + ?", delta),
	})
}

// UpdateBalance 覆盖 points 和/或 coins，nil 表示不修改
func (r *UserRepository) UpdateBalance(email string, points, coins *int) (*model.User, error) {
	updates := map[string]interface{}{}
	if points != nil {
		updates["points"] = *points
	}
	if coins != nil {
		updates["coins"] = *coins
	}
	if len(updates) == 0 {
		return r.FindByEmail(email)
	}
	return r.applyUpdate(email, updates)
}

func (r *UserRepository) applyUpdate(email string, updates map[string]interface{}) (*model.User, error) {
	var user model.User
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.User{}).Where("email = ?", email).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("email = ?", email).First(&user).Error
	})
	if err != nil {
		return nil, err
	}
	r.invalidateLeaderboard()
	return &user, nil
}

func (r *UserRepository) FindTopByPoints(limit int) ([]model.User, error) {
	var users []model.User
	err := r.DB.Order("points DESC").Order("id ASC").Limit(limit).Find(&users).Error
	return users, err
}

// FindTopByPointsCached 排行榜读多写少，按 limit 缓存在同一个 hash 中
func (r *UserRepository) FindTopByPointsCached(limit int) ([]model.User, error) {
	if r.Redis == nil {
		return r.FindTopByPoints(limit)
	}

	field := strconv.Itoa(limit)
	if cached, err := r.Redis.HGet(r.ctx, leaderboardCacheKey, field).Bytes(); err == nil {
		var users []model.User
		if json.Unmarshal(cached, &users) == nil {
			return users, nil
		}
	}

	users, err := r.FindTopByPoints(limit)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(users); err == nil {
		pipe := r.Redis.TxPipeline()
		pipe.HSet(r.ctx, leaderboardCacheKey, field, data)
		pipe.Expire(r.ctx, leaderboardCacheKey, r.cacheTTL)
		pipe.Exec(r.ctx)
	}
	return users, nil
}

// RankOf 名次 = 积分严格更高的用户数 + 1
func (r *UserRepository) RankOf(points int) (int, error) {
	var higher int64
	err := r.DB.Model(&model.User{}).Where("points > ?", points).Count(&higher).Error
	return int(higher) + 1, err
}

func (r *UserRepository) Count() (int64, error) {
	var n int64
	err := r.DB.Model(&model.User{}).Count(&n).Error
	return n, err
}

func (r *UserRepository) invalidateLeaderboard() {
	if r.Redis != nil {
		r.Redis.Del(r.ctx, leaderboardCacheKey)
	}
}

func deductCoins(tx *gorm.DB, email string, amount int) (*model.User, error) {
	res := tx.Model(&model.User{}).
		Where("email = ? AND coins >= ?", email, amount).
		Update("coins", gorm.Expr("coins - ?", amount))
	if res.Error != nil {
		return nil, res.Error
	}

	var user model.User
	if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, util.ErrInsufficientFunds
	}
	return &user, nil
}
