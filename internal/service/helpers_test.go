package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"invest_learn_backend/internal/repository"
	"invest_learn_backend/internal/testutil"

	"gorm.io/gorm"
)

// fakeChatter 按顺序返回预设回复，最后一条重复使用
type fakeChatter struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   int
	prompts []string
}

func (f *fakeChatter) Chat(ctx context.Context, system, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", errors.New("no reply configured")
	}
	i := f.calls - 1
	if i >= len(f.replies) {
		i = len(f.replies) - 1
	}
	return f.replies[i], nil
}

func (f *fakeChatter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// stepScheduler 只记录任务，测试中手动执行
type stepScheduler struct {
	mu    sync.Mutex
	tasks []func()
}

func (s *stepScheduler) AfterFunc(d time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	cancelled := false
	s.tasks = append(s.tasks, func() {
		s.mu.Lock()
		skip := cancelled
		s.mu.Unlock()
		if !skip {
			fn()
		}
	})
	return func() {
		s.mu.Lock()
		cancelled = true
		s.mu.Unlock()
	}
}

func (s *stepScheduler) Flush() {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = nil
	s.mu.Unlock()
	for _, t := range tasks {
		t()
	}
}

type fixture struct {
	db          *gorm.DB
	users       *repository.UserRepository
	results     *repository.SessionResultRepository
	redemptions *repository.RedemptionRepository
	accounts    *AccountService
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	users := repository.NewUserRepository(db, nil, 0)
	return &fixture{
		db:          db,
		users:       users,
		results:     repository.NewSessionResultRepository(db),
		redemptions: repository.NewRedemptionRepository(db, users),
		accounts:    NewAccountService(users, 1000, 50),
	}
}
