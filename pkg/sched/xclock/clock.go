package xclock

import "time"

// Clock 单调时间源接口。
//
// Now 返回的 time.Time 携带单调读数，所有比较（Before/After/Sub）
// 均基于单调分量，墙钟回拨不影响判断。
type Clock interface {
	// Now 返回当前时间。
	Now() time.Time

	// NewTimer 创建在 d 之后到期的定时器。
	// d <= 0 时定时器立即到期。
	NewTimer(d time.Duration) Timer

	// NewTimerAt 创建在绝对时刻 at 到期的定时器。
	// at 不晚于当前时间时定时器立即到期。到期判定以创建时刻的
	// 时钟读数为准，适合等待"某个事件的唤醒时间"而非固定时长。
	NewTimerAt(at time.Time) Timer
}

// Timer 一次性定时器。
//
// 与 time.Timer 的约定一致：C() 在到期时恰好收到一个值；
// Stop 返回 false 表示定时器已到期或已停止。
type Timer interface {
	// C 返回到期通知通道。
	C() <-chan time.Time

	// Stop 停止定时器，阻止尚未发生的到期通知。
	// 返回 true 表示成功阻止；false 表示已到期或已停止。
	Stop() bool
}

// Real 返回基于标准库 time 的时钟。
//
// 多次调用返回的实例等价，可安全共享。
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) NewTimer(d time.Duration) Timer {
	return realTimer{t: time.NewTimer(d)}
}

func (realClock) NewTimerAt(at time.Time) Timer {
	return realTimer{t: time.NewTimer(time.Until(at))}
}

type realTimer struct{ t *time.Timer }

func (t realTimer) C() <-chan time.Time { return t.t.C }

func (t realTimer) Stop() bool { return t.t.Stop() }

// 编译时接口检查
var (
	_ Clock = realClock{}
	_ Timer = realTimer{}
)
