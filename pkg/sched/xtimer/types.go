package xtimer

import (
	"context"
	"time"
)

// Task 定时任务接口。
// 实现此接口以定义任务执行逻辑。
type Task interface {
	// Run 执行任务。
	// ctx 携带超时控制（如果配置了 WithTimeout），任务应响应 ctx.Done()。
	// 返回 error 表示执行失败，会记入统计并转发给错误回调。
	Run(ctx context.Context) error
}

// TaskFunc 函数适配器，将普通函数转换为 [Task] 接口。
//
// 用法：
//
//	var task Task = TaskFunc(func(ctx context.Context) error {
//	    return doSomething(ctx)
//	})
type TaskFunc func(ctx context.Context) error

// Run 实现 [Task] 接口。
func (f TaskFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Logger 日志接口，兼容 xlog 风格的结构化日志器。
// 不设置时调度器保持静默（仅异常路径退化为标准库 log）。
type Logger interface {
	// Debug 记录调试日志
	Debug(ctx context.Context, msg string, args ...any)
	// Info 记录信息日志
	Info(ctx context.Context, msg string, args ...any)
	// Warn 记录警告日志
	Warn(ctx context.Context, msg string, args ...any)
	// Error 记录错误日志
	Error(ctx context.Context, msg string, args ...any)
}

// Executor 任务执行器接口，用于把任务执行从分发协程卸载出去。
// *xpool.Pool 直接满足此接口。
type Executor interface {
	// Submit 提交一个执行单元。
	// 返回非 nil 错误表示提交被拒绝（队列满、执行器已关闭等）。
	Submit(fn func()) error
}

// ShutdownMode 关闭模式。
type ShutdownMode int

const (
	// ShutdownDrain 触发所有在关闭时刻已到期的任务后退出，
	// 未到期的任务被取消。
	ShutdownDrain ShutdownMode = iota

	// ShutdownCancelPending 取消全部待执行任务后立即退出。
	ShutdownCancelPending
)

// String 返回关闭模式的可读表示。
func (m ShutdownMode) String() string {
	switch m {
	case ShutdownDrain:
		return "drain"
	case ShutdownCancelPending:
		return "cancel-pending"
	default:
		return "unknown"
	}
}

// Hook 任务执行钩子接口。
//
// 用于在任务执行前后注入自定义逻辑，如审计日志、指标上报、告警。
// 通过 [WithHook] 或 [WithHooks] 配置，Before 按添加顺序执行，
// After 逆序执行（类似 defer）。
type Hook interface {
	// BeforeRun 在任务执行前调用。
	// 返回的 context 传递给任务和后续钩子，可用于注入追踪信息。
	BeforeRun(ctx context.Context, name string) context.Context

	// AfterRun 在任务执行后调用（无论成功、失败还是 panic）。
	// duration 为本次执行耗时（含重试），err 为最终结果。
	AfterRun(ctx context.Context, name string, duration time.Duration, err error)
}

// HookFunc 函数适配器，将函数对转换为 [Hook] 接口。
//
// 用法：
//
//	hook := xtimer.HookFunc{
//	    After: func(ctx context.Context, name string, d time.Duration, err error) {
//	        metrics.Observe(name, d, err)
//	    },
//	}
type HookFunc struct {
	// Before 任务执行前调用，可为 nil
	Before func(ctx context.Context, name string) context.Context
	// After 任务执行后调用，可为 nil
	After func(ctx context.Context, name string, duration time.Duration, err error)
}

// BeforeRun 实现 [Hook] 接口。
func (h HookFunc) BeforeRun(ctx context.Context, name string) context.Context {
	if h.Before != nil {
		return h.Before(ctx, name)
	}
	return ctx
}

// AfterRun 实现 [Hook] 接口。
func (h HookFunc) AfterRun(ctx context.Context, name string, duration time.Duration, err error) {
	if h.After != nil {
		h.After(ctx, name, duration, err)
	}
}

// TaskOutcome 一次任务执行的结果记录。
// 通过 [Scheduler] 的 Outcome 方法按句柄查询最近完成的任务。
type TaskOutcome struct {
	// Seq 任务的调度序号。
	Seq uint64 `json:"seq"`
	// Name 任务名（未设置时为空）。
	Name string `json:"name,omitempty"`
	// Started 本次执行的开始时间。
	Started time.Time `json:"started"`
	// Duration 执行耗时（含重试）。
	Duration time.Duration `json:"duration"`
	// Err 执行错误，nil 表示成功。
	Err error `json:"-"`
	// Panicked 本次执行是否以 panic 结束。
	Panicked bool `json:"panicked,omitempty"`
}
