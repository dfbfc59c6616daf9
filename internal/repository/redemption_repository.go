package repository

import (
	"invest_learn_backend/internal/model"

	"gorm.io/gorm"
)

type RedemptionRepository struct {
	DB    *gorm.DB
	users *UserRepository
}

func NewRedemptionRepository(db *gorm.DB, users *UserRepository) *RedemptionRepository {
	return &RedemptionRepository{DB: db, users: users}
}

// Redeem 在同一事务内扣减金币并记录兑换
func (r *RedemptionRepository) Redeem(email string, offer model.Offer) (*model.User, *model.Redemption, error) {
	var (
		user       *model.User
		redemption *model.Redemption
	)
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		if user, err = deductCoins(tx, email, offer.Cost); err != nil {
			return err
		}
		redemption = &model.Redemption{
			Email:   email,
			OfferID: offer.ID,
			Brand:   offer.Brand,
			Cost:    offer.Cost,
		}
		return tx.Create(redemption).Error
	})
	if err != nil {
		return nil, nil, err
	}
	r.users.invalidateLeaderboard()
	return user, redemption, nil
}

func (r *RedemptionRepository) FindByEmail(email string) ([]model.Redemption, error) {
	var list []model.Redemption
	err := r.DB.Where("email = ?", email).Order("created_at DESC").Find(&list).Error
	return list, err
}
