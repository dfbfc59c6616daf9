package model

import "time"

type SessionOutcome string

const (
	OutcomeCompleted SessionOutcome = "completed"
	OutcomeFailed    SessionOutcome = "failed"
	OutcomeAbandoned SessionOutcome = "abandoned"
)

// SessionResult 记录一次学习会话的结果，序列数据不落库
type SessionResult struct {
	UUIDBase
	Email       string         `gorm:"size:255;index;not null" json:"email"`
	ModuleKey   string         `gorm:"size:32;index;not null" json:"moduleKey"`
	Title       string         `gorm:"size:255" json:"title"`
	Outcome     SessionOutcome `gorm:"size:16;not null" json:"outcome"`
	Challenges  int            `gorm:"not null;default:0" json:"challenges"`
	TotalXP     int            `gorm:"not null;default:0" json:"totalXp"`
	CoinsSpent  int            `gorm:"not null;default:0" json:"coinsSpent"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
}

func (SessionResult) TableName() string {
	return "session_results"
}
