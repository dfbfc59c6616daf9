package repository

import (
	"invest_learn_backend/internal/model"

	"gorm.io/gorm"
)

type SessionResultRepository struct {
	DB *gorm.DB
}

func NewSessionResultRepository(db *gorm.DB) *SessionResultRepository {
	return &SessionResultRepository{DB: db}
}

func (r *SessionResultRepository) Create(result *model.SessionResult) error {
	return r.DB.Create(result).Error
}

func (r *SessionResultRepository) FindByEmail(email string, limit int) ([]model.SessionResult, error) {
	var results []model.SessionResult
	err := r.DB.Where("email = ?", email).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error
	return results, err
}

type ModuleStat struct {
	ModuleKey string `json:"moduleKey"`
	Completed int64  `json:"completed"`
	TotalXP   int64  `json:"totalXp"`
}

// StatsByEmail 按模块汇总已完成的会话
func (r *SessionResultRepository) StatsByEmail(email string) ([]ModuleStat, error) {
	var stats []ModuleStat
	err := r.DB.Model(&model.SessionResult{}).
		Select("module_key, COUNT(*) AS completed, COALESCE(SUM(total_xp), 0) AS total_xp").
		Where("email = ? AND outcome = ?", email, model.OutcomeCompleted).
		Group("module_key").
		Order("module_key").
		Scan(&stats).Error
	return stats, err
}
