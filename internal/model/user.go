package model

// swagger:model User
type User struct {
	BaseModel
	Email  string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Points int    `gorm:"not null;default:0;index" json:"points"`
	Coins  int    `gorm:"not null" json:"coins"`
}

func (User) TableName() string {
	return "users"
}

// Balance 是账户对外暴露的余额视图
type Balance struct {
	Email  string `json:"email"`
	Points int    `json:"points"`
	Coins  int    `json:"coins"`
}

func (u *User) Balance() Balance {
	return Balance{Email: u.Email, Points: u.Points, Coins: u.Coins}
}
