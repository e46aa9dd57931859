package xtimer

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats_Empty(t *testing.T) {
	s := newStats()

	assert.Zero(t, s.Scheduled())
	assert.Zero(t, s.Fired())
	assert.Zero(t, s.SuccessCount())
	assert.Zero(t, s.FailureCount())
	assert.Zero(t, s.PanicCount())
	assert.Zero(t, s.CancelledCount())
	assert.Zero(t, s.SuccessRate())
	assert.Zero(t, s.AvgDuration())
	assert.Zero(t, s.MinDuration(), "min is zero before any execution")
	assert.Zero(t, s.MaxDuration())
	assert.Nil(t, s.LastError())
}

func TestStats_RecordExecution(t *testing.T) {
	s := newStats()

	s.recordScheduled("job")
	s.recordScheduled("job")
	s.recordExecution("job", 10*time.Millisecond, nil, false)
	s.recordExecution("job", 30*time.Millisecond, errors.New("fail"), false)

	assert.Equal(t, int64(2), s.Scheduled())
	assert.Equal(t, int64(2), s.Fired())
	assert.Equal(t, int64(1), s.SuccessCount())
	assert.Equal(t, int64(1), s.FailureCount())
	assert.Zero(t, s.PanicCount())
	assert.Equal(t, 0.5, s.SuccessRate())
	assert.Equal(t, 10*time.Millisecond, s.MinDuration())
	assert.Equal(t, 30*time.Millisecond, s.MaxDuration())
	assert.Equal(t, 20*time.Millisecond, s.AvgDuration())
	assert.Equal(t, 30*time.Millisecond, s.LastDuration())
	assert.EqualError(t, s.LastError(), "fail")
	assert.False(t, s.LastFireTime().IsZero())
}

func TestStats_PanicCounted(t *testing.T) {
	s := newStats()

	s.recordExecution("", time.Millisecond, &PanicError{Value: "boom"}, true)

	assert.Equal(t, int64(1), s.FailureCount())
	assert.Equal(t, int64(1), s.PanicCount())
}

func TestStats_PerTask(t *testing.T) {
	s := newStats()

	s.recordScheduled("a")
	s.recordExecution("a", 5*time.Millisecond, nil, false)
	s.recordExecution("b", 7*time.Millisecond, errors.New("b failed"), false)
	s.recordCancelled("a")
	// 未命名任务不产生任务级统计
	s.recordExecution("", time.Millisecond, nil, false)

	ta := s.TaskStats("a")
	require.NotNil(t, ta)
	assert.Equal(t, int64(1), ta.Scheduled())
	assert.Equal(t, int64(1), ta.Fired())
	assert.Equal(t, int64(1), ta.SuccessCount())
	assert.Equal(t, int64(1), ta.CancelledCount())
	assert.Equal(t, 5*time.Millisecond, ta.MinDuration())
	assert.Equal(t, float64(1), ta.SuccessRate())

	tb := s.TaskStats("b")
	require.NotNil(t, tb)
	assert.Equal(t, int64(1), tb.FailureCount())
	assert.EqualError(t, tb.LastError(), "b failed")

	assert.Nil(t, s.TaskStats("missing"))
	assert.Len(t, s.AllTaskStats(), 2)
}

func TestStats_Snapshot(t *testing.T) {
	s := newStats()
	s.recordScheduled("job")
	s.recordExecution("job", 10*time.Millisecond, errors.New("fail"), false)

	snap := s.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, int64(1), snap.Scheduled)
	assert.Equal(t, int64(1), snap.Fired)
	assert.Equal(t, int64(1), snap.FailureCount)
	assert.Equal(t, "fail", snap.LastError)
	require.Contains(t, snap.Tasks, "job")
	assert.Equal(t, "job", snap.Tasks["job"].Name)

	// 快照可序列化
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"failure_count":1`)
}

func TestStats_ConcurrentRecord(t *testing.T) {
	s := newStats()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.recordScheduled("hot")
				s.recordExecution("hot", time.Duration(j+1)*time.Microsecond, nil, false)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(800), s.Scheduled())
	assert.Equal(t, int64(800), s.Fired())
	assert.Equal(t, int64(800), s.SuccessCount())
	assert.Equal(t, time.Microsecond, s.MinDuration())
	assert.Equal(t, 100*time.Microsecond, s.MaxDuration())
}
