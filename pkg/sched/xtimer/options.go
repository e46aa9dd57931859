package xtimer

import (
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/omeyang/xsched/pkg/observability/xmetrics"
	"github.com/omeyang/xsched/pkg/sched/xclock"
)

// 历史窗口默认容量。
const defaultHistorySize = 128

// Option 定义调度器可选配置函数类型。
type Option func(*options)

type options struct {
	clock        xclock.Clock
	logger       Logger
	observer     xmetrics.Observer
	errorHandler func(TaskOutcome)
	executor     Executor
	historySize  int
}

func defaultOptions() options {
	return options{
		clock:       xclock.Real(),
		observer:    xmetrics.NoopObserver{},
		historySize: defaultHistorySize,
	}
}

// WithClock 设置时钟源。
// 默认使用真实时钟；测试中可注入 xclock.NewFake 获得确定性时间。
// 传入 nil 将被忽略，保持使用默认值。
func WithClock(clock xclock.Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger 设置日志器。
// 默认不输出日志。传入 nil 将被忽略。
func WithLogger(logger Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver 设置观测器，用于上报任务执行指标和追踪。
// 默认使用 xmetrics.Noop()。传入 nil 将被忽略。
func WithObserver(observer xmetrics.Observer) Option {
	return func(o *options) {
		if observer != nil {
			o.observer = observer
		}
	}
}

// WithErrorHandler 设置任务失败回调。
//
// 任务返回非 nil 错误或 panic 时，调度器在任务执行结束后调用 handler。
// handler 在分发路径上同步执行，应保持轻量；handler 自身 panic 会被
// 捕获并记录，不影响调度器。
func WithErrorHandler(handler func(TaskOutcome)) Option {
	return func(o *options) {
		if handler != nil {
			o.errorHandler = handler
		}
	}
}

// WithExecutor 设置任务执行器，把任务执行从分发协程卸载出去。
//
// 默认在分发协程内联执行，长任务会推迟后续任务；设置执行器后
// 任务按到期顺序提交、并发执行。执行器拒绝提交时（队列满、已关闭）
// 调度器记录警告并退回内联执行，保证任务不丢。
func WithExecutor(executor Executor) Option {
	return func(o *options) {
		if executor != nil {
			o.executor = executor
		}
	}
}

// WithHistorySize 设置执行结果历史窗口的容量。
// 默认 128，Outcome 只能查到窗口内最近完成的任务。
// 非正值将被忽略。
func WithHistorySize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.historySize = size
		}
	}
}

// TaskOption 定义单个任务的可选配置函数类型。
type TaskOption func(*taskOptions)

type taskOptions struct {
	name          string
	timeout       time.Duration
	retryAttempts uint
	retryDelay    time.Duration
	retryMaxDelay time.Duration
	breaker       *gobreaker.CircuitBreaker[any]
	hooks         []Hook
}

func defaultTaskOptions() taskOptions {
	return taskOptions{
		retryDelay:    100 * time.Millisecond,
		retryMaxDelay: 10 * time.Second,
	}
}

// WithName 设置任务名，用于日志、指标和任务级统计。
// 默认为空字符串（不参与任务级统计）。
func WithName(name string) TaskOption {
	return func(o *taskOptions) {
		o.name = name
	}
}

// WithTimeout 设置单次执行的超时时间。
// 超时通过传给任务的 context 传递，任务需要响应 ctx.Done() 才会
// 真正中断。非正值将被忽略（不限时）。
func WithTimeout(timeout time.Duration) TaskOption {
	return func(o *taskOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithRetry 设置失败重试次数（不含首次执行）。
// 默认不重试。重试采用指数退避，参见 WithRetryDelay 和
// WithRetryMaxDelay。
func WithRetry(attempts uint) TaskOption {
	return func(o *taskOptions) {
		o.retryAttempts = attempts
	}
}

// WithRetryDelay 设置重试的初始退避间隔。
// 默认 100ms，之后每次翻倍直到 WithRetryMaxDelay。非正值将被忽略。
func WithRetryDelay(delay time.Duration) TaskOption {
	return func(o *taskOptions) {
		if delay > 0 {
			o.retryDelay = delay
		}
	}
}

// WithRetryMaxDelay 设置重试退避间隔的上限。
// 默认 10s。非正值将被忽略。
func WithRetryMaxDelay(maxDelay time.Duration) TaskOption {
	return func(o *taskOptions) {
		if maxDelay > 0 {
			o.retryMaxDelay = maxDelay
		}
	}
}

// WithBreaker 为任务挂接熔断器。
//
// 多个任务可共享同一个熔断器实例（如都依赖同一下游）。熔断器打开时
// 执行直接失败并返回 gobreaker.ErrOpenState，照常走失败统计和错误
// 回调。传入 nil 将被忽略。
func WithBreaker(breaker *gobreaker.CircuitBreaker[any]) TaskOption {
	return func(o *taskOptions) {
		if breaker != nil {
			o.breaker = breaker
		}
	}
}

// WithHook 追加一个执行钩子。
// 多个钩子的 BeforeRun 按添加顺序执行，AfterRun 逆序执行。
// 传入 nil 将被忽略。
func WithHook(hook Hook) TaskOption {
	return func(o *taskOptions) {
		if hook != nil {
			o.hooks = append(o.hooks, hook)
		}
	}
}

// WithHooks 追加多个执行钩子，等价于依次调用 WithHook。
func WithHooks(hooks ...Hook) TaskOption {
	return func(o *taskOptions) {
		for _, h := range hooks {
			if h != nil {
				o.hooks = append(o.hooks, h)
			}
		}
	}
}
