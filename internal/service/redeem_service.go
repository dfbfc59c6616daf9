package service

import (
	"errors"

	"invest_learn_backend/internal/model"
	"invest_learn_backend/internal/repository"
	"invest_learn_backend/internal/util"
	"invest_learn_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RedeemService struct {
	repo *repository.RedemptionRepository
}

func NewRedeemService(repo *repository.RedemptionRepository) *RedeemService {
	return &RedeemService{repo: repo}
}

func (s *RedeemService) Offers() []model.Offer {
	return model.Offers()
}

// Redeem 扣除优惠所需金币并记录兑换，余额不足时不做任何修改
func (s *RedeemService) Redeem(email string, offerID uint) (*model.User, *model.Redemption, error) {
	offer, ok := model.FindOffer(offerID)
	if !ok {
		return nil, nil, util.ErrOfferNotFound
	}

	email = util.NormalizeEmail(email)
	user, record, err := s.repo.Redeem(email, offer)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrUserNotFound
		}
		return nil, nil, err
	}

	logger.Log.Info("优惠已兑换",
		zap.String("email", email),
		zap.String("brand", offer.Brand),
		zap.Int("cost", offer.Cost),
		zap.Int("coins", user.Coins))
	return user, record, nil
}

func (s *RedeemService) History(email string) ([]model.Redemption, error) {
	return s.repo.FindByEmail(util.NormalizeEmail(email))
}
