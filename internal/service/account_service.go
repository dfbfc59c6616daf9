package service

import (
	"errors"
	"strings"

	"invest_learn_backend/internal/model"
	"invest_learn_backend/internal/repository"
	"invest_learn_backend/internal/util"
	"invest_learn_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AccountService 管理积分和金币余额，硬币余额永不为负
type AccountService struct {
	UserRepo         *repository.UserRepository
	startingCoins    int
	leaderboardLimit int
}

func NewAccountService(userRepo *repository.UserRepository, startingCoins, leaderboardLimit int) *AccountService {
	if leaderboardLimit <= 0 {
		leaderboardLimit = util.DefaultLeaderboardLimit
	}
	return &AccountService{
		UserRepo:         userRepo,
		startingCoins:    startingCoins,
		leaderboardLimit: leaderboardLimit,
	}
}

func (s *AccountService) GetBalance(email string) (*model.User, error) {
	user, err := s.UserRepo.FindByEmail(util.NormalizeEmail(email))
	if err != nil {
		return nil, mapUserErr(err)
	}
	return user, nil
}

// CreateUser 新用户积分为 0，金币为初始值
func (s *AccountService) CreateUser(email string) (*model.User, error) {
	email = util.NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, util.ErrInvalidEmail
	}

	exists, err := s.UserRepo.ExistsByEmail(email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrEmailRegistered
	}

	user := &model.User{Email: email, Points: 0, Coins: s.startingCoins}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}
	logger.Log.Info("用户已创建", zap.String("email", email))
	return user, nil
}

func (s *AccountService) DeductCoins(email string, amount int) (*model.User, error) {
	if amount <= 0 {
		return nil, util.ErrInvalidAmount
	}
	user, err := s.UserRepo.DeductCoins(util.NormalizeEmail(email), amount)
	if err != nil {
		return nil, mapUserErr(err)
	}
	return user, nil
}

func (s *AccountService) AddCoins(email string, amount int) (*model.User, error) {
	if amount <= 0 {
		return nil, util.ErrInvalidAmount
	}
	user, err := s.UserRepo.AddCoins(util.NormalizeEmail(email), amount)
	if err != nil {
		return nil, mapUserErr(err)
	}
	return user, nil
}

func (s *AccountService) SetPoints(email string, points int) (*model.User, error) {
	if points < 0 {
		return nil, util.ErrInvalidPoints
	}
	user, err := s.UserRepo.SetPoints(util.NormalizeEmail(email), points)
	if err != nil {
		return nil, mapUserErr(err)
	}
	return user, nil
}

// AddPoints 用于会话奖励，delta 必须为正
func (s *AccountService) AddPoints(email string, delta int) (*model.User, error) {
	if delta <= 0 {
		return nil, util.ErrInvalidPoints
	}
	user, err := s.UserRepo.AddPoints(util.NormalizeEmail(email), delta)
	if err != nil {
		return nil, mapUserErr(err)
	}
	return user, nil
}

// UpdateUser 覆盖 points 和/或 coins
func (s *AccountService) UpdateUser(email string, points, coins *int) (*model.User, error) {
	if points != nil && *points < 0 {
		return nil, util.ErrInvalidPoints
	}
	if coins != nil && *coins < 0 {
		return nil, util.ErrInvalidAmount
	}
	user, err := s.UserRepo.UpdateBalance(util.NormalizeEmail(email), points, coins)
	if err != nil {
		return nil, mapUserErr(err)
	}
	return user, nil
}

// ListTopUsers 按积分降序
func (s *AccountService) ListTopUsers(limit int) ([]model.User, error) {
	if limit <= 0 {
		limit = s.leaderboardLimit
	}
	if limit > util.MaxLeaderboardLimit {
		limit = util.MaxLeaderboardLimit
	}
	return s.UserRepo.FindTopByPointsCached(limit)
}

func (s *AccountService) Rank(points int) (int, error) {
	return s.UserRepo.RankOf(points)
}

func mapUserErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrUserNotFound
	}
	return err
}
