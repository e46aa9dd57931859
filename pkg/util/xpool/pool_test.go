package xpool

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_Basic(t *testing.T) {
	var processed atomic.Int32
	var wg sync.WaitGroup
	wg.Add(5)

	pool, err := New(2, 10)
	require.NoError(t, err)
	defer pool.Close()

	for range 5 {
		err := pool.Submit(func() {
			processed.Add(1)
			wg.Done()
		})
		assert.NoError(t, err)
	}

	wg.Wait()
	assert.Equal(t, int32(5), processed.Load())
}

func TestPool_InvalidParams(t *testing.T) {
	t.Run("workers out of range", func(t *testing.T) {
		_, err := New(0, 10)
		assert.ErrorIs(t, err, ErrInvalidWorkers)

		_, err = New(maxWorkers+1, 10)
		assert.ErrorIs(t, err, ErrInvalidWorkers)
	})

	t.Run("queue size out of range", func(t *testing.T) {
		_, err := New(1, 0)
		assert.ErrorIs(t, err, ErrInvalidQueueSize)

		_, err = New(1, maxQueueSize+1)
		assert.ErrorIs(t, err, ErrInvalidQueueSize)
	})
}

func TestPool_NilTask(t *testing.T) {
	pool, err := New(1, 1)
	require.NoError(t, err)
	defer pool.Close()

	assert.ErrorIs(t, pool.Submit(nil), ErrNilTask)
}

func TestPool_QueueFull(t *testing.T) {
	pool, err := New(1, 1)
	require.NoError(t, err)
	defer pool.Close()

	blockerStarted := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, pool.Submit(func() {
		close(blockerStarted)
		<-release
	}))
	<-blockerStarted

	// worker 被占住，队列容量 1：第一个入队成功，第二个满
	require.NoError(t, pool.Submit(func() {}))

	var full bool
	for range 10 {
		if err := pool.Submit(func() {}); err != nil {
			assert.ErrorIs(t, err, ErrQueueFull)
			full = true
			break
		}
	}
	assert.True(t, full, "queue should report full")

	close(release)
}

func TestPool_CloseDrainsQueue(t *testing.T) {
	var processed atomic.Int32

	pool, err := New(1, 100)
	require.NoError(t, err)

	for range 20 {
		require.NoError(t, pool.Submit(func() {
			time.Sleep(time.Millisecond)
			processed.Add(1)
		}))
	}

	pool.Close()
	assert.Equal(t, int32(20), processed.Load(), "close waits for queued tasks")

	assert.ErrorIs(t, pool.Submit(func() {}), ErrPoolStopped)

	// 重复 Close 安全
	pool.Close()
	pool.Close()
}

func TestPool_ShutdownTimeout(t *testing.T) {
	pool, err := New(1, 10)
	require.NoError(t, err)

	release := make(chan struct{})
	require.NoError(t, pool.Submit(func() { <-release }))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err = pool.Shutdown(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// 残留 worker 在任务完成后退出，Done 关闭
	close(release)
	select {
	case <-pool.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("workers did not exit after release")
	}
}

func TestPool_ShutdownNilContext(t *testing.T) {
	pool, err := New(1, 1)
	require.NoError(t, err)
	defer pool.Close()

	assert.ErrorIs(t, pool.Shutdown(nil), ErrNilContext)
}

func TestPool_PanicRecovery(t *testing.T) {
	var processed atomic.Int32
	var wg sync.WaitGroup
	wg.Add(3)

	pool, err := New(1, 10, WithLogger(slog.Default()), WithName("panicky"))
	require.NoError(t, err)
	defer pool.Close()

	for i := range 3 {
		require.NoError(t, pool.Submit(func() {
			defer wg.Done()
			if i == 1 {
				panic("task boom")
			}
			processed.Add(1)
		}))
	}

	wg.Wait()
	assert.Equal(t, int32(2), processed.Load(), "panicking task is dropped, others run")
}

func TestPool_Accessors(t *testing.T) {
	pool, err := New(3, 7)
	require.NoError(t, err)
	defer pool.Close()

	assert.Equal(t, 3, pool.Workers())
	assert.Equal(t, 7, pool.QueueSize())
}

func TestPool_ConcurrentSubmitAndClose(t *testing.T) {
	pool, err := New(4, 1000)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				// Close 竞态下 Submit 必须返回错误而非 panic
				_ = pool.Submit(func() {})
			}
		}()
	}

	pool.Close()
	wg.Wait()
}
