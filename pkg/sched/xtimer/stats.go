package xtimer

import (
	"sync"
	"sync/atomic"
	"time"
)

// Stats 调度器执行统计。
//
// 线程安全，可在任务执行期间安全读取。
//
// 用法：
//
//	stats := s.Stats()
//	fmt.Printf("已调度: %d, 已触发: %d, 失败: %d\n",
//	    stats.Scheduled(), stats.Fired(), stats.FailureCount())
type Stats struct {
	scheduled atomic.Int64
	fired     atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
	panicked  atomic.Int64
	cancelled atomic.Int64

	mu           sync.RWMutex
	lastFireTime time.Time
	lastDuration time.Duration
	lastError    error

	totalDuration atomic.Int64 // 纳秒
	minDuration   atomic.Int64 // 纳秒
	maxDuration   atomic.Int64 // 纳秒

	// 按任务名的统计，未命名任务不参与
	taskStats sync.Map // map[string]*TaskStats
}

// TaskStats 单个命名任务的执行统计。
// 设计决策: 字段与 Stats 高度重复但不抽公共结构，全局聚合与
// 任务粒度职责不同，共享实现只会增加间接层次。
type TaskStats struct {
	Name      string
	scheduled atomic.Int64
	fired     atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
	panicked  atomic.Int64
	cancelled atomic.Int64

	mu           sync.RWMutex
	lastFireTime time.Time
	lastDuration time.Duration
	lastError    error

	totalDuration atomic.Int64
	minDuration   atomic.Int64
	maxDuration   atomic.Int64
}

func newStats() *Stats {
	s := &Stats{}
	// 初始化最小值为最大值，以便首次执行时正确更新
	s.minDuration.Store(int64(1<<63 - 1))
	return s
}

// Scheduled 返回累计入队的任务数。
func (s *Stats) Scheduled() int64 { return s.scheduled.Load() }

// Fired 返回累计触发的执行次数（循环任务每轮计一次）。
func (s *Stats) Fired() int64 { return s.fired.Load() }

// SuccessCount 返回成功执行次数。
func (s *Stats) SuccessCount() int64 { return s.succeeded.Load() }

// FailureCount 返回失败执行次数（含 panic）。
func (s *Stats) FailureCount() int64 { return s.failed.Load() }

// PanicCount 返回以 panic 结束的执行次数。
func (s *Stats) PanicCount() int64 { return s.panicked.Load() }

// CancelledCount 返回被取消的任务数（含关闭时放弃的）。
func (s *Stats) CancelledCount() int64 { return s.cancelled.Load() }

// LastFireTime 返回最近一次执行的结束时间。
func (s *Stats) LastFireTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastFireTime
}

// LastDuration 返回最近一次执行耗时。
func (s *Stats) LastDuration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastDuration
}

// LastError 返回最近一次执行的错误（nil 表示成功）。
func (s *Stats) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// AvgDuration 返回平均执行耗时。
func (s *Stats) AvgDuration() time.Duration {
	fired := s.fired.Load()
	if fired == 0 {
		return 0
	}
	return time.Duration(s.totalDuration.Load() / fired)
}

// MinDuration 返回最小执行耗时。
func (s *Stats) MinDuration() time.Duration {
	min := s.minDuration.Load()
	if min == int64(1<<63-1) {
		return 0 // 尚未执行
	}
	return time.Duration(min)
}

// MaxDuration 返回最大执行耗时。
func (s *Stats) MaxDuration() time.Duration {
	return time.Duration(s.maxDuration.Load())
}

// SuccessRate 返回成功率（0-1），尚未执行时为 0。
func (s *Stats) SuccessRate() float64 {
	fired := s.fired.Load()
	if fired == 0 {
		return 0
	}
	return float64(s.succeeded.Load()) / float64(fired)
}

// TaskStats 返回指定命名任务的统计，不存在时返回 nil。
func (s *Stats) TaskStats(name string) *TaskStats {
	if v, ok := s.taskStats.Load(name); ok {
		if ts, ok := v.(*TaskStats); ok {
			return ts
		}
	}
	return nil
}

// AllTaskStats 返回所有命名任务的统计。
func (s *Stats) AllTaskStats() map[string]*TaskStats {
	result := make(map[string]*TaskStats)
	s.taskStats.Range(func(key, value any) bool {
		if name, ok := key.(string); ok {
			if ts, ok := value.(*TaskStats); ok {
				result[name] = ts
			}
		}
		return true
	})
	return result
}

// recordScheduled 记录一次入队。
func (s *Stats) recordScheduled(name string) {
	s.scheduled.Add(1)
	if name != "" {
		s.getOrCreateTaskStats(name).scheduled.Add(1)
	}
}

// recordCancelled 记录一次取消。
func (s *Stats) recordCancelled(name string) {
	s.cancelled.Add(1)
	if name != "" {
		s.getOrCreateTaskStats(name).cancelled.Add(1)
	}
}

// recordExecution 记录一次执行结果。
func (s *Stats) recordExecution(name string, duration time.Duration, err error, panicked bool) {
	now := time.Now()
	durationNs := int64(duration)

	s.fired.Add(1)
	s.totalDuration.Add(durationNs)
	if err != nil {
		s.failed.Add(1)
		if panicked {
			s.panicked.Add(1)
		}
	} else {
		s.succeeded.Add(1)
	}

	updateMin(&s.minDuration, durationNs)
	updateMax(&s.maxDuration, durationNs)

	s.mu.Lock()
	s.lastFireTime = now
	s.lastDuration = duration
	s.lastError = err
	s.mu.Unlock()

	if name != "" {
		s.getOrCreateTaskStats(name).recordExecution(duration, err, panicked)
	}
}

func (s *Stats) getOrCreateTaskStats(name string) *TaskStats {
	if v, ok := s.taskStats.Load(name); ok {
		if ts, ok := v.(*TaskStats); ok {
			return ts
		}
	}

	ts := &TaskStats{Name: name}
	ts.minDuration.Store(int64(1<<63 - 1))

	actual, _ := s.taskStats.LoadOrStore(name, ts)
	if result, ok := actual.(*TaskStats); ok {
		return result
	}
	return ts
}

// updateMin 以 CAS 循环更新最小值。
func updateMin(target *atomic.Int64, v int64) {
	for {
		old := target.Load()
		if v >= old {
			return
		}
		if target.CompareAndSwap(old, v) {
			return
		}
	}
}

// updateMax 以 CAS 循环更新最大值。
func updateMax(target *atomic.Int64, v int64) {
	for {
		old := target.Load()
		if v <= old {
			return
		}
		if target.CompareAndSwap(old, v) {
			return
		}
	}
}

// TaskStats 方法

// Scheduled 返回任务累计入队次数。
func (ts *TaskStats) Scheduled() int64 { return ts.scheduled.Load() }

// Fired 返回任务累计触发次数。
func (ts *TaskStats) Fired() int64 { return ts.fired.Load() }

// SuccessCount 返回任务成功次数。
func (ts *TaskStats) SuccessCount() int64 { return ts.succeeded.Load() }

// FailureCount 返回任务失败次数。
func (ts *TaskStats) FailureCount() int64 { return ts.failed.Load() }

// PanicCount 返回任务 panic 次数。
func (ts *TaskStats) PanicCount() int64 { return ts.panicked.Load() }

// CancelledCount 返回任务被取消次数。
func (ts *TaskStats) CancelledCount() int64 { return ts.cancelled.Load() }

// LastFireTime 返回任务最近执行时间。
func (ts *TaskStats) LastFireTime() time.Time {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.lastFireTime
}

// LastDuration 返回任务最近执行耗时。
func (ts *TaskStats) LastDuration() time.Duration {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.lastDuration
}

// LastError 返回任务最近执行错误。
func (ts *TaskStats) LastError() error {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.lastError
}

// AvgDuration 返回任务平均执行耗时。
func (ts *TaskStats) AvgDuration() time.Duration {
	fired := ts.fired.Load()
	if fired == 0 {
		return 0
	}
	return time.Duration(ts.totalDuration.Load() / fired)
}

// MinDuration 返回任务最小执行耗时。
func (ts *TaskStats) MinDuration() time.Duration {
	min := ts.minDuration.Load()
	if min == int64(1<<63-1) {
		return 0
	}
	return time.Duration(min)
}

// MaxDuration 返回任务最大执行耗时。
func (ts *TaskStats) MaxDuration() time.Duration {
	return time.Duration(ts.maxDuration.Load())
}

// SuccessRate 返回任务成功率。
func (ts *TaskStats) SuccessRate() float64 {
	fired := ts.fired.Load()
	if fired == 0 {
		return 0
	}
	return float64(ts.succeeded.Load()) / float64(fired)
}

func (ts *TaskStats) recordExecution(duration time.Duration, err error, panicked bool) {
	now := time.Now()
	durationNs := int64(duration)

	ts.fired.Add(1)
	ts.totalDuration.Add(durationNs)
	if err != nil {
		ts.failed.Add(1)
		if panicked {
			ts.panicked.Add(1)
		}
	} else {
		ts.succeeded.Add(1)
	}

	updateMin(&ts.minDuration, durationNs)
	updateMax(&ts.maxDuration, durationNs)

	ts.mu.Lock()
	ts.lastFireTime = now
	ts.lastDuration = duration
	ts.lastError = err
	ts.mu.Unlock()
}

// StatsSnapshot 统计快照，用于序列化。
type StatsSnapshot struct {
	Scheduled    int64                         `json:"scheduled"`
	Fired        int64                         `json:"fired"`
	SuccessCount int64                         `json:"success_count"`
	FailureCount int64                         `json:"failure_count"`
	PanicCount   int64                         `json:"panic_count"`
	Cancelled    int64                         `json:"cancelled"`
	SuccessRate  float64                       `json:"success_rate"`
	LastFireTime time.Time                     `json:"last_fire_time,omitempty"`
	LastDuration time.Duration                 `json:"last_duration"`
	LastError    string                        `json:"last_error,omitempty"`
	AvgDuration  time.Duration                 `json:"avg_duration"`
	MinDuration  time.Duration                 `json:"min_duration"`
	MaxDuration  time.Duration                 `json:"max_duration"`
	Tasks        map[string]*TaskStatsSnapshot `json:"tasks,omitempty"`
}

// TaskStatsSnapshot 任务统计快照。
type TaskStatsSnapshot struct {
	Name         string        `json:"name"`
	Scheduled    int64         `json:"scheduled"`
	Fired        int64         `json:"fired"`
	SuccessCount int64         `json:"success_count"`
	FailureCount int64         `json:"failure_count"`
	PanicCount   int64         `json:"panic_count"`
	Cancelled    int64         `json:"cancelled"`
	SuccessRate  float64       `json:"success_rate"`
	LastFireTime time.Time     `json:"last_fire_time,omitempty"`
	LastDuration time.Duration `json:"last_duration"`
	LastError    string        `json:"last_error,omitempty"`
	AvgDuration  time.Duration `json:"avg_duration"`
	MinDuration  time.Duration `json:"min_duration"`
	MaxDuration  time.Duration `json:"max_duration"`
}

// Snapshot 返回统计快照。
func (s *Stats) Snapshot() *StatsSnapshot {
	snap := &StatsSnapshot{
		Scheduled:    s.Scheduled(),
		Fired:        s.Fired(),
		SuccessCount: s.SuccessCount(),
		FailureCount: s.FailureCount(),
		PanicCount:   s.PanicCount(),
		Cancelled:    s.CancelledCount(),
		SuccessRate:  s.SuccessRate(),
		LastFireTime: s.LastFireTime(),
		LastDuration: s.LastDuration(),
		AvgDuration:  s.AvgDuration(),
		MinDuration:  s.MinDuration(),
		MaxDuration:  s.MaxDuration(),
		Tasks:        make(map[string]*TaskStatsSnapshot),
	}

	if err := s.LastError(); err != nil {
		snap.LastError = err.Error()
	}

	for name, ts := range s.AllTaskStats() {
		snap.Tasks[name] = ts.Snapshot()
	}

	return snap
}

// Snapshot 返回任务统计快照。
func (ts *TaskStats) Snapshot() *TaskStatsSnapshot {
	snap := &TaskStatsSnapshot{
		Name:         ts.Name,
		Scheduled:    ts.Scheduled(),
		Fired:        ts.Fired(),
		SuccessCount: ts.SuccessCount(),
		FailureCount: ts.FailureCount(),
		PanicCount:   ts.PanicCount(),
		Cancelled:    ts.CancelledCount(),
		SuccessRate:  ts.SuccessRate(),
		LastFireTime: ts.LastFireTime(),
		LastDuration: ts.LastDuration(),
		AvgDuration:  ts.AvgDuration(),
		MinDuration:  ts.MinDuration(),
		MaxDuration:  ts.MaxDuration(),
	}

	if err := ts.LastError(); err != nil {
		snap.LastError = err.Error()
	}

	return snap
}
