package xconf

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", "workers: 2")

	cfg, err := New(path)
	require.NoError(t, err)

	reloaded := make(chan error, 4)
	w, err := Watch(cfg, func(_ Config, err error) {
		reloaded <- err
	}, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	w.StartAsync()
	// 给 fsnotify 一点时间就位
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("workers: 16"), 0o600))

	select {
	case err := <-reloaded:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("reload callback not invoked")
	}
	assert.Equal(t, 16, cfg.Client().Int("workers"))
}

func TestWatch_CallbackGetsReloadError(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", "workers: 2")

	cfg, err := New(path)
	require.NoError(t, err)

	reloaded := make(chan error, 4)
	w, err := Watch(cfg, func(_ Config, err error) {
		reloaded <- err
	}, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	w.StartAsync()
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("workers: [broken"), 0o600))

	select {
	case err := <-reloaded:
		require.ErrorIs(t, err, ErrParseFailed)
	case <-time.After(5 * time.Second):
		t.Fatal("reload callback not invoked")
	}
	// 旧配置仍然有效
	assert.Equal(t, 2, cfg.Client().Int("workers"))
}

func TestWatch_FromBytesRejected(t *testing.T) {
	cfg, err := NewFromBytes([]byte("a: 1"), FormatYAML)
	require.NoError(t, err)

	_, err = Watch(cfg, nil)
	assert.ErrorIs(t, err, ErrNotReloadable)
}

func TestWatcher_StopIdempotent(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", "a: 1")

	cfg, err := New(path)
	require.NoError(t, err)

	w, err := Watch(cfg, nil)
	require.NoError(t, err)

	w.StartAsync()
	w.StartAsync() // 重复启动无效果

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}

func TestWatcher_NoCallbackAfterStop(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", "a: 1")

	cfg, err := New(path)
	require.NoError(t, err)

	called := make(chan struct{}, 4)
	w, err := Watch(cfg, func(_ Config, _ error) {
		called <- struct{}{}
	}, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	w.StartAsync()
	time.Sleep(50 * time.Millisecond)

	// 触发变更后立刻 Stop，防抖定时器应被取消
	require.NoError(t, os.WriteFile(path, []byte("a: 2"), 0o600))
	require.NoError(t, w.Stop())

	select {
	case <-called:
		t.Fatal("callback fired after Stop")
	case <-time.After(100 * time.Millisecond):
	}
}
