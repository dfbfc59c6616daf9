package service

import (
	"context"
	"sync"
	"time"

	"invest_learn_backend/internal/config"
	"invest_learn_backend/internal/model"
	"invest_learn_backend/internal/repository"
	"invest_learn_backend/internal/session"
	"invest_learn_backend/internal/util"
	"invest_learn_backend/pkg/logger"
	"invest_learn_backend/pkg/monitoring"
	"invest_learn_backend/pkg/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// SessionGenerator 为会话生成挑战
type SessionGenerator interface {
	GenerateSession(ctx context.Context, transcript string) (*session.LearningSession, error)
}

type SessionState struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	ModuleKey string         `json:"moduleKey"`
	Cost      int            `json:"cost"`
	View      session.View   `json:"view"`
	Balance   *model.Balance `json:"balance,omitempty"`
}

type liveSession struct {
	id        string
	email     string
	module    model.Module
	cost      int
	machine   *session.Machine
	cancel    context.CancelFunc
	startedAt time.Time

	// 以下字段由 LearningService.mu 保护
	lastActive time.Time
	recorded   bool
	balance    *model.Balance
}

// LearningService 管理内存中的学习会话
type LearningService struct {
	accounts  *AccountService
	results   *repository.SessionResultRepository
	generator SessionGenerator
	scheduler session.Scheduler

	mu          sync.Mutex
	sessions    map[string]*liveSession
	moduleCost  int
	revealDelay time.Duration
	idleTTL     time.Duration
	wg          sync.WaitGroup
}

func NewLearningService(
	accounts *AccountService,
	results *repository.SessionResultRepository,
	generator SessionGenerator,
	cfg config.SessionConfig,
) *LearningService {
	return &LearningService{
		accounts:    accounts,
		results:     results,
		generator:   generator,
		scheduler:   session.TimerScheduler(),
		sessions:    make(map[string]*liveSession),
		moduleCost:  cfg.ModuleCost,
		revealDelay: cfg.RevealDelay,
		idleTTL:     cfg.IdleTTL,
	}
}

// WithScheduler 替换场景揭晓使用的定时器
func (s *LearningService) WithScheduler(sched session.Scheduler) *LearningService {
	s.scheduler = sched
	return s
}

func (s *LearningService) ModuleCost() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moduleCost
}

func (s *LearningService) SetModuleCost(cost int) {
	if cost < 0 {
		return
	}
	s.mu.Lock()
	s.moduleCost = cost
	s.mu.Unlock()
}

func (s *LearningService) SetIdleTTL(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	s.mu.Lock()
	s.idleTTL = ttl
	s.mu.Unlock()
}

// Open 先扣除模块费用，余额不足时不会创建会话；生成在后台进行，会话立即进入视频阶段
func (s *LearningService) Open(ctx context.Context, email, moduleKey string) (state *SessionState, err error) {
	_, span := tracing.Start(ctx, "learning.open", attribute.String("module", moduleKey))
	defer func() { tracing.End(span, err) }()

	module, ok := model.FindModule(moduleKey)
	if !ok {
		return nil, util.ErrModuleNotFound
	}
	email = util.NormalizeEmail(email)

	s.mu.Lock()
	cost, delay := s.moduleCost, s.revealDelay
	s.mu.Unlock()

	var user *model.User
	if cost > 0 {
		user, err = s.accounts.DeductCoins(email, cost)
	} else {
		user, err = s.accounts.GetBalance(email)
	}
	if err != nil {
		return nil, err
	}

	genCtx, cancel := context.WithCancel(context.Background())
	ls := &liveSession{
		id:         uuid.NewString(),
		email:      email,
		module:     module,
		cost:       cost,
		cancel:     cancel,
		startedAt:  time.Now(),
		lastActive: time.Now(),
	}
	ls.machine = session.NewMachine(session.Options{
		Scheduler:   s.scheduler,
		RevealDelay: delay,
		OnComplete:  func(totalXP int) { s.complete(ls, totalXP) },
	})

	s.mu.Lock()
	s.sessions[ls.id] = ls
	s.mu.Unlock()
	monitoring.ActiveSessions.Inc()

	s.wg.Add(1)
	go s.generate(genCtx, ls)

	logger.Log.Info("学习会话已开启",
		zap.String("session", ls.id),
		zap.String("email", email),
		zap.String("module", module.Key),
		zap.Int("cost", cost))

	balance := user.Balance()
	return &SessionState{
		ID:        ls.id,
		Email:     email,
		ModuleKey: module.Key,
		Cost:      cost,
		View:      ls.machine.View(),
		Balance:   &balance,
	}, nil
}

func (s *LearningService) generate(ctx context.Context, ls *liveSession) {
	defer s.wg.Done()

	generated, err := s.generator.GenerateSession(ctx, ls.module.Transcript)
	if ctx.Err() != nil {
		// 会话已关闭，丢弃结果
		return
	}
	if err != nil {
		logger.Log.Warn("会话生成失败",
			zap.String("session", ls.id),
			zap.String("module", ls.module.Key),
			zap.Error(err))
		if ls.machine.Fail(util.ErrGenerationFailed) {
			s.record(ls, model.OutcomeFailed, 0)
		}
		return
	}
	if ls.machine.Resolve(generated) && ls.machine.Phase() == session.PhaseFailed {
		s.record(ls, model.OutcomeFailed, 0)
	}
}

// complete 在会话锁之外被调用，且每个会话只调用一次
func (s *LearningService) complete(ls *liveSession, totalXP int) {
	var balance *model.Balance
	if totalXP > 0 {
		if _, err := s.accounts.AddPoints(ls.email, totalXP); err != nil {
			logger.Log.Error("发放积分失败", zap.String("session", ls.id), zap.Error(err))
		}
		user, err := s.accounts.AddCoins(ls.email, totalXP)
		if err != nil {
			logger.Log.Error("发放金币失败", zap.String("session", ls.id), zap.Error(err))
		} else {
			b := user.Balance()
			balance = &b
		}
	}

	s.mu.Lock()
	ls.balance = balance
	s.mu.Unlock()

	s.record(ls, model.OutcomeCompleted, totalXP)
	logger.Log.Info("学习会话完成",
		zap.String("session", ls.id),
		zap.String("email", ls.email),
		zap.Int("totalXp", totalXP))
}

func (s *LearningService) record(ls *liveSession, outcome model.SessionOutcome, totalXP int) {
	s.mu.Lock()
	if ls.recorded {
		s.mu.Unlock()
		return
	}
	ls.recorded = true
	s.mu.Unlock()

	monitoring.LearningSessions.WithLabelValues(string(outcome)).Inc()
	if s.results == nil {
		return
	}

	view := ls.machine.View()
	result := &model.SessionResult{
		Email:      ls.email,
		ModuleKey:  ls.module.Key,
		Title:      view.Title,
		Outcome:    outcome,
		Challenges: view.Total,
		TotalXP:    totalXP,
		CoinsSpent: ls.cost,
	}
	result.ID = ls.id
	if outcome == model.OutcomeCompleted {
		now := time.Now()
		result.CompletedAt = &now
	}
	if err := s.results.Create(result); err != nil {
		logger.Log.Error("保存会话结果失败", zap.String("session", ls.id), zap.Error(err))
	}
}

func (s *LearningService) get(id string) (*liveSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ls, ok := s.sessions[id]
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	ls.lastActive = time.Now()
	return ls, nil
}

func (s *LearningService) state(ls *liveSession) *SessionState {
	view := ls.machine.View()
	s.mu.Lock()
	balance := ls.balance
	s.mu.Unlock()
	return &SessionState{
		ID:        ls.id,
		Email:     ls.email,
		ModuleKey: ls.module.Key,
		Cost:      ls.cost,
		View:      view,
		Balance:   balance,
	}
}

// Owner 返回会话所属的邮箱
func (s *LearningService) Owner(id string) (string, error) {
	ls, err := s.get(id)
	if err != nil {
		return "", err
	}
	return ls.email, nil
}

func (s *LearningService) View(id string) (*SessionState, error) {
	ls, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return s.state(ls), nil
}

func (s *LearningService) Ready(id string) (*SessionState, error) {
	ls, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if err := ls.machine.Ready(); err != nil {
		return nil, err
	}
	return s.state(ls), nil
}

func (s *LearningService) Handle(id string, ev session.Event) (*SessionState, error) {
	ls, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if err := ls.machine.Handle(ev); err != nil {
		return nil, err
	}
	return s.state(ls), nil
}

// Close 取消生成和定时器，会话从内存移除；未完成的会话记为放弃
func (s *LearningService) Close(id string) error {
	s.mu.Lock()
	ls, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	if !ok {
		return util.ErrSessionNotFound
	}
	s.shutdown(ls)
	return nil
}

func (s *LearningService) shutdown(ls *liveSession) {
	ls.cancel()
	ls.machine.Close()
	monitoring.ActiveSessions.Dec()
	s.record(ls, model.OutcomeAbandoned, 0)
}

func (s *LearningService) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ReapIdle 关闭超过空闲时间的会话，返回关闭数量
func (s *LearningService) ReapIdle(now time.Time) int {
	s.mu.Lock()
	ttl := s.idleTTL
	var idle []*liveSession
	if ttl > 0 {
		for id, ls := range s.sessions {
			if now.Sub(ls.lastActive) > ttl {
				idle = append(idle, ls)
				delete(s.sessions, id)
			}
		}
	}
	s.mu.Unlock()

	for _, ls := range idle {
		s.shutdown(ls)
	}
	if len(idle) > 0 {
		logger.Log.Info("回收空闲学习会话", zap.Int("count", len(idle)))
	}
	return len(idle)
}

// CloseAll 关闭全部会话并等待后台生成退出
func (s *LearningService) CloseAll() {
	s.mu.Lock()
	all := make([]*liveSession, 0, len(s.sessions))
	for id, ls := range s.sessions {
		all = append(all, ls)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for _, ls := range all {
		s.shutdown(ls)
	}
	s.wg.Wait()
}
