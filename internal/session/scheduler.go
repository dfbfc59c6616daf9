package session

import "time"

// Scheduler 延迟执行 fn，返回的函数用于取消
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// TimerScheduler 基于 time.AfterFunc
func TimerScheduler() Scheduler {
	return timerScheduler{}
}
