package xtimer

import (
	"context"
	"time"
)

// Scheduler 进程内时间序任务调度器接口。
//
// 所有方法可从任意协程并发调用。使用 [New] 创建默认实现。
type Scheduler interface {
	// Schedule 在 delay 之后触发任务。
	//
	// delay 非正时任务视为已到期，在分发协程的下一轮循环中尽快触发，
	// 仍然排在所有更早到期的任务之后。
	//
	// 返回的 Handle 用于取消和查询执行结果。
	// task 为 nil 时返回 ErrNilTask，调度器已关闭时返回
	// ErrSchedulerStopped。
	//
	// 用法：
	//
	//	h, err := s.Schedule(5*time.Second, task, xtimer.WithName("refresh"))
	Schedule(delay time.Duration, task Task, opts ...TaskOption) (Handle, error)

	// ScheduleFunc 是 Schedule 的函数形式。
	//
	// 用法：
	//
	//	h, err := s.ScheduleFunc(5*time.Second, func(ctx context.Context) error {
	//	    return refresh(ctx)
	//	})
	ScheduleFunc(delay time.Duration, fn func(ctx context.Context) error, opts ...TaskOption) (Handle, error)

	// ScheduleAt 在绝对时刻 at 触发任务。
	// at 已经过去时任务视为已到期，尽快触发。
	ScheduleAt(at time.Time, task Task, opts ...TaskOption) (Handle, error)

	// ScheduleEvery 注册固定间隔的循环任务，首次在 interval 之后触发。
	//
	// 间隔按"上一轮执行结束"起算（fixed-delay），执行耗时不会导致
	// 轮次重叠。interval 非正时返回 ErrInvalidInterval。
	// 循环任务的所有轮次共用同一个 Handle，Cancel 一次即停止后续轮次。
	ScheduleEvery(interval time.Duration, task Task, opts ...TaskOption) (Handle, error)

	// Cancel 取消句柄指向的任务。
	//
	// 返回 true 保证任务（对循环任务：后续所有轮次）不会执行；
	// 返回 false 表示句柄未知、属于其他调度器、或任务已经触发。
	// 幂等，重复调用安全。
	Cancel(h Handle) bool

	// Shutdown 关闭调度器并等待分发协程退出。
	//
	// mode 决定队列中任务的去向，见 [ShutdownMode]。重复调用安全：
	// 后续调用不改变模式，只等待首次关闭完成。
	Shutdown(mode ShutdownMode)

	// Close 等价于 Shutdown(ShutdownDrain)，便于 defer。
	Close() error

	// Pending 返回队列中待执行的任务数（不含正在执行的）。
	Pending() int

	// Outcome 查询句柄指向任务最近一次完成的执行结果。
	// 任务尚未执行、句柄未知、或结果已移出历史窗口时返回 false。
	Outcome(h Handle) (TaskOutcome, bool)

	// Stats 返回执行统计信息。
	// 返回的 Stats 对象是线程安全的，可在任务执行期间读取。
	Stats() *Stats

	// Health 返回调度器当前的健康检查结果。
	Health() *HealthCheck
}
