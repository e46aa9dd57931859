package xtimer

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// 调度器生命周期状态。
const (
	stateRunning int32 = iota
	stateStopping
)

// timerScheduler 是 Scheduler 的默认实现。
//
// 队列和序号由 mu 保护；分发协程与外部调用者之间通过 notify
// （1 缓冲的信号通道）和 stopCh 协作，不使用条件变量。
type timerScheduler struct {
	opts options
	id   string

	mu    sync.Mutex
	queue *eventQueue
	seq   uint64
	state int32

	shutdownMode ShutdownMode
	drainCutoff  time.Time
	shutdownOnce sync.Once

	notify chan struct{}
	stopCh chan struct{}
	done   chan struct{}
	wg     sync.WaitGroup // 经 executor 卸载的任务

	stats   *Stats
	history *lru.Cache[uint64, TaskOutcome]
}

// New 创建调度器并启动分发协程。
//
// 用法：
//
//	s := xtimer.New(
//	    xtimer.WithLogger(xtimer.NewSlogLogger(slog.Default())),
//	)
//	defer s.Close()
func New(opts ...Option) Scheduler {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	// 容量合法性已在 WithHistorySize 中保证，此处不会出错
	history, _ := lru.New[uint64, TaskOutcome](o.historySize)

	s := &timerScheduler{
		opts:    o,
		id:      uuid.NewString(),
		queue:   newEventQueue(),
		notify:  make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
		stats:   newStats(),
		history: history,
	}
	go s.run()
	return s
}

// Schedule 实现 [Scheduler] 接口。
func (s *timerScheduler) Schedule(delay time.Duration, task Task, opts ...TaskOption) (Handle, error) {
	return s.enqueue(s.opts.clock.Now().Add(delay), 0, task, opts)
}

// ScheduleFunc 实现 [Scheduler] 接口。
func (s *timerScheduler) ScheduleFunc(delay time.Duration, fn func(ctx context.Context) error, opts ...TaskOption) (Handle, error) {
	if fn == nil {
		return Handle{}, ErrNilTask
	}
	return s.Schedule(delay, TaskFunc(fn), opts...)
}

// ScheduleAt 实现 [Scheduler] 接口。
func (s *timerScheduler) ScheduleAt(at time.Time, task Task, opts ...TaskOption) (Handle, error) {
	return s.enqueue(at, 0, task, opts)
}

// ScheduleEvery 实现 [Scheduler] 接口。
func (s *timerScheduler) ScheduleEvery(interval time.Duration, task Task, opts ...TaskOption) (Handle, error) {
	if interval <= 0 {
		return Handle{}, ErrInvalidInterval
	}
	return s.enqueue(s.opts.clock.Now().Add(interval), interval, task, opts)
}

// enqueue 构造事件并入队，然后唤醒分发协程重新评估堆顶。
func (s *timerScheduler) enqueue(wake time.Time, interval time.Duration, task Task, opts []TaskOption) (Handle, error) {
	if task == nil {
		return Handle{}, ErrNilTask
	}
	to := defaultTaskOptions()
	for _, opt := range opts {
		opt(&to)
	}

	s.mu.Lock()
	if s.state != stateRunning {
		s.mu.Unlock()
		return Handle{}, ErrSchedulerStopped
	}
	s.seq++
	e := &event{
		seq:      s.seq,
		wake:     wake,
		task:     task,
		opts:     to,
		interval: interval,
	}
	s.queue.push(e)
	s.mu.Unlock()

	s.stats.recordScheduled(to.name)
	s.wake()

	if s.opts.logger != nil {
		s.opts.logger.Debug(context.Background(), "task scheduled",
			"seq", e.seq, "name", to.name, "wake", wake, "interval", interval)
	}
	return Handle{seq: e.seq, owner: s.id}, nil
}

// Cancel 实现 [Scheduler] 接口。
func (s *timerScheduler) Cancel(h Handle) bool {
	if h.IsZero() || h.owner != s.id {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.queue.lookup(h.seq)
	if e == nil {
		return false
	}
	if e.index >= 0 {
		s.queue.remove(h.seq)
		s.stats.recordCancelled(e.opts.name)
		return true
	}
	// 出堆但仍在索引中：循环任务正在执行本轮，
	// 标记取消以阻止下一轮入队
	if e.running && !e.cancelled {
		e.cancelled = true
		s.stats.recordCancelled(e.opts.name)
		return true
	}
	return false
}

// Shutdown 实现 [Scheduler] 接口。
func (s *timerScheduler) Shutdown(mode ShutdownMode) {
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		s.state = stateStopping
		s.shutdownMode = mode
		s.drainCutoff = s.opts.clock.Now()
		s.mu.Unlock()
		close(s.stopCh)

		if s.opts.logger != nil {
			s.opts.logger.Info(context.Background(), "scheduler shutting down",
				"mode", mode.String())
		}
	})
	<-s.done
}

// Close 实现 [Scheduler] 接口。
func (s *timerScheduler) Close() error {
	s.Shutdown(ShutdownDrain)
	return nil
}

// Pending 实现 [Scheduler] 接口。
func (s *timerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.len()
}

// Outcome 实现 [Scheduler] 接口。
func (s *timerScheduler) Outcome(h Handle) (TaskOutcome, bool) {
	if h.IsZero() || h.owner != s.id {
		return TaskOutcome{}, false
	}
	return s.history.Get(h.seq)
}

// Stats 实现 [Scheduler] 接口。
func (s *timerScheduler) Stats() *Stats {
	return s.stats
}

// wake 向分发协程发送一次重评估信号。
// 通道带 1 缓冲，信号可合并，不会阻塞调用者。
func (s *timerScheduler) wake() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

var _ Scheduler = (*timerScheduler)(nil)
