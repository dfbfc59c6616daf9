package configwatcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"invest_learn_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchConfigReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("session:\n  module_cost: 10\n"), 0o644))

	var cost atomic.Int64
	cost.Store(-1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, dir, func(cfg *config.Config) {
			cost.Store(int64(cfg.Session.ModuleCost))
		})
	}()

	// 监听可能晚于首次写入，每轮超过防抖时间后重写一次
	n := 0
	assert.Eventually(t, func() bool {
		if cost.Load() == 25 {
			return true
		}
		n++
		body := fmt.Sprintf("# rev %d\nsession:\n  module_cost: 25\n", n)
		_ = os.WriteFile(file, []byte(body), 0o644)
		return false
	}, 10*time.Second, 1500*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatchConfigMissingDir(t *testing.T) {
	err := WatchConfig(context.Background(), filepath.Join(t.TempDir(), "missing"), func(*config.Config) {})
	assert.Error(t, err)
}
