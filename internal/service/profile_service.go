package service

import (
	"math"

	"invest_learn_backend/internal/model"
	"invest_learn_backend/internal/repository"
)

type Achievement struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
	Desc string `json:"desc"`
}

type Level struct {
	Name     string  `json:"name"`
	Color    string  `json:"color"`
	Next     string  `json:"next"`
	NextAt   int     `json:"nextAt"`
	ToNext   int     `json:"toNext"`
	Progress float64 `json:"progress"`
}

type Profile struct {
	model.Balance
	Rank         int                     `json:"rank"`
	TotalUsers   int64                   `json:"totalUsers"`
	Level        Level                   `json:"level"`
	Achievements []Achievement           `json:"achievements"`
	Modules      []repository.ModuleStat `json:"modules"`
	Redemptions  int                     `json:"redemptions"`
}

type levelBand struct {
	min    int
	name   string
	color  string
	next   string
	nextAt int
}

// 从高到低匹配
var levelBands = []levelBand{
	{1000, "Expert", "#8b5cf6", "Master", 2000},
	{500, "Advanced", "#3b82f6", "Expert", 1000},
	{200, "Intermediate", "#10b981", "Advanced", 500},
	{50, "Beginner", "#f59e0b", "Intermediate", 200},
	{0, "Novice", "#6b7280", "Beginner", 50},
}

func LevelFor(points int) Level {
	band := levelBands[len(levelBands)-1]
	for _, b := range levelBands {
		if points >= b.min {
			band = b
			break
		}
	}
	toNext := band.nextAt - points
	if toNext < 0 {
		toNext = 0
	}
	return Level{
		Name:     band.name,
		Color:    band.color,
		Next:     band.next,
		NextAt:   band.nextAt,
		ToNext:   toNext,
		Progress: math.Min(100, float64(points)/float64(band.nextAt)*100),
	}
}

// AchievementsFor 按积分、金币和排名解锁成就，rank 为 0 表示未上榜
func AchievementsFor(points, coins, rank int) []Achievement {
	out := []Achievement{}
	if points >= 100 {
		out = append(out, Achievement{Name: "Century Club", Icon: "💯", Desc: "Earned 100+ points"})
	}
	if points >= 500 {
		out = append(out, Achievement{Name: "High Achiever", Icon: "🌟", Desc: "Earned 500+ points"})
	}
	if coins >= 1000 {
		out = append(out, Achievement{Name: "Coin Collector", Icon: "🪙", Desc: "Accumulated 1000+ coins"})
	}
	if rank > 0 && rank <= 10 {
		out = append(out, Achievement{Name: "Top 10", Icon: "🏆", Desc: "Ranked in top 10"})
	}
	if rank == 1 {
		out = append(out, Achievement{Name: "Champion", Icon: "👑", Desc: "Rank #1 player"})
	}
	return out
}

type ProfileService struct {
	accounts    *AccountService
	results     *repository.SessionResultRepository
	redemptions *repository.RedemptionRepository
}

func NewProfileService(accounts *AccountService, results *repository.SessionResultRepository, redemptions *repository.RedemptionRepository) *ProfileService {
	return &ProfileService{accounts: accounts, results: results, redemptions: redemptions}
}

func (s *ProfileService) GetProfile(email string) (*Profile, error) {
	user, err := s.accounts.GetBalance(email)
	if err != nil {
		return nil, err
	}

	rank, err := s.accounts.Rank(user.Points)
	if err != nil {
		return nil, err
	}
	total, err := s.accounts.UserRepo.Count()
	if err != nil {
		return nil, err
	}

	stats, err := s.results.StatsByEmail(user.Email)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []repository.ModuleStat{}
	}

	history, err := s.redemptions.FindByEmail(user.Email)
	if err != nil {
		return nil, err
	}

	return &Profile{
		Balance:      user.Balance(),
		Rank:         rank,
		TotalUsers:   total,
		Level:        LevelFor(user.Points),
		Achievements: AchievementsFor(user.Points, user.Coins, rank),
		Modules:      stats,
		Redemptions:  len(history),
	}, nil
}
