package xclock

import (
	"sync"
	"time"
)

// Fake 手动推进的时钟，用于确定性时序测试。
//
// Fake 的时间只在 Advance/SetTime 时前进。到期判定发生在推进时刻：
// 所有 deadline <= 当前时间的未停止定时器都会收到通知。
//
// 所有方法并发安全。
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	timers  map[*fakeTimer]struct{}
	waiters []waiter // BlockUntil 的等待者
}

// waiter 记录一个 BlockUntil 请求。
type waiter struct {
	n  int
	ch chan struct{}
}

// NewFake 创建 Fake 时钟，起始时间为 start。
// start 为零值时使用一个固定的非零基准，避免与 time.Time 零值混淆。
func NewFake(start time.Time) *Fake {
	if start.IsZero() {
		start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return &Fake{
		now:    start,
		timers: make(map[*fakeTimer]struct{}),
	}
}

// Now 返回 Fake 时钟的当前时间。
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// NewTimer 创建在 d 之后到期的定时器。
// d <= 0 时立即到期（通道内已有通知）。
func (f *Fake) NewTimer(d time.Duration) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.newTimerLocked(f.now.Add(d))
}

// NewTimerAt 创建在绝对时刻 at 到期的定时器。
//
// 到期判定以创建时刻的时钟读数为准：若时钟在调用方读取 Now 之后、
// 创建定时器之前被推进越过了 at，定时器立即到期，不会漏唤醒。
func (f *Fake) NewTimerAt(at time.Time) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.newTimerLocked(at)
}

// newTimerLocked 创建到期于 deadline 的定时器。调用方持有 f.mu。
func (f *Fake) newTimerLocked(deadline time.Time) *fakeTimer {
	t := &fakeTimer{
		clk:      f,
		deadline: deadline,
		ch:       make(chan time.Time, 1),
	}
	if !deadline.After(f.now) {
		t.fired = true
		t.ch <- f.now
		return t
	}
	f.timers[t] = struct{}{}
	f.notifyWaitersLocked()
	return t
}

// Advance 将时钟推进 d，触发所有到期的定时器。
// d 必须非负，负值会被忽略。
func (f *Fake) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setTimeLocked(f.now.Add(d))
}

// SetTime 将时钟直接设置到 t，触发所有到期的定时器。
// t 早于当前时间时被忽略（时钟不回退）。
func (f *Fake) SetTime(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.Before(f.now) {
		return
	}
	f.setTimeLocked(t)
}

// BlockUntil 阻塞直到至少有 n 个定时器处于等待状态。
//
// 用于测试中确认被测组件已创建定时器并进入等待，再调用 Advance。
// 已到期或已停止的定时器不计入。
func (f *Fake) BlockUntil(n int) {
	f.mu.Lock()
	if len(f.timers) >= n {
		f.mu.Unlock()
		return
	}
	w := waiter{n: n, ch: make(chan struct{})}
	f.waiters = append(f.waiters, w)
	f.mu.Unlock()
	<-w.ch
}

// Timers 返回当前等待中的定时器数量。
func (f *Fake) Timers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}

// setTimeLocked 设置时间并触发到期定时器。调用方持有 f.mu。
func (f *Fake) setTimeLocked(t time.Time) {
	f.now = t
	for tm := range f.timers {
		if !tm.deadline.After(t) {
			tm.fired = true
			tm.ch <- t // 缓冲为 1，不会阻塞
			delete(f.timers, tm)
		}
	}
}

// notifyWaitersLocked 唤醒条件已满足的 BlockUntil 等待者。调用方持有 f.mu。
func (f *Fake) notifyWaitersLocked() {
	kept := f.waiters[:0]
	for _, w := range f.waiters {
		if len(f.timers) >= w.n {
			close(w.ch)
			continue
		}
		kept = append(kept, w)
	}
	f.waiters = kept
}

// fakeTimer 是 Fake 时钟的定时器实现。
type fakeTimer struct {
	clk      *Fake
	deadline time.Time
	ch       chan time.Time
	fired    bool
	stopped  bool
}

func (t *fakeTimer) C() <-chan time.Time { return t.ch }

func (t *fakeTimer) Stop() bool {
	t.clk.mu.Lock()
	defer t.clk.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	delete(t.clk.timers, t)
	return true
}

// 编译时接口检查
var (
	_ Clock = (*Fake)(nil)
	_ Timer = (*fakeTimer)(nil)
)
