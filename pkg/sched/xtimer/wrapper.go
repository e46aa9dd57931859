package xtimer

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/avast/retry-go/v5"

	"github.com/omeyang/xsched/pkg/observability/xmetrics"
)

// invoke 执行一个到期事件的完整生命周期：
// 超时上下文、观测 span、钩子、执行（含重试与熔断）、统计与历史、
// 错误回调，最后为循环任务安排下一轮。
func (s *timerScheduler) invoke(e *event) {
	ctx := context.Background()
	if e.opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.timeout)
		defer cancel()
	}

	ctx, span := xmetrics.Start(ctx, s.opts.observer, xmetrics.SpanOptions{
		Component: "xtimer",
		Operation: "run",
		Attrs: []xmetrics.Attr{
			xmetrics.String("task.name", e.opts.name),
			xmetrics.Uint64("task.seq", e.seq),
		},
	})

	for _, h := range e.opts.hooks {
		ctx = s.safeBefore(h, ctx, e.opts.name)
	}

	started := s.opts.clock.Now()
	err := s.execute(ctx, e)
	duration := s.opts.clock.Now().Sub(started)

	for i := len(e.opts.hooks) - 1; i >= 0; i-- {
		s.safeAfter(e.opts.hooks[i], ctx, e.opts.name, duration, err)
	}

	var pe *PanicError
	panicked := errors.As(err, &pe)
	span.End(xmetrics.Result{Status: statusOf(err, panicked), Err: err})

	s.stats.recordExecution(e.opts.name, duration, err, panicked)
	outcome := TaskOutcome{
		Seq:      e.seq,
		Name:     e.opts.name,
		Started:  started,
		Duration: duration,
		Err:      err,
		Panicked: panicked,
	}
	s.history.Add(e.seq, outcome)

	if err != nil {
		if s.opts.logger != nil {
			s.opts.logger.Error(ctx, "task failed",
				"seq", e.seq, "name", e.opts.name,
				"duration", duration, "panicked", panicked, "error", err)
		}
		if s.opts.errorHandler != nil {
			s.safeErrorHandler(outcome)
		}
	} else if s.opts.logger != nil {
		s.opts.logger.Debug(ctx, "task completed",
			"seq", e.seq, "name", e.opts.name, "duration", duration)
	}

	s.reschedule(e)
}

// execute 执行任务本体，panic 在此边界被捕获并包装为 *PanicError。
// 配置了熔断器时整个重试序列作为一次熔断请求计数。
func (s *timerScheduler) execute(ctx context.Context, e *event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	if e.opts.breaker != nil {
		_, err = e.opts.breaker.Execute(func() (any, error) {
			return nil, s.runWithRetry(ctx, e)
		})
		return err
	}
	return s.runWithRetry(ctx, e)
}

// runWithRetry 按任务的重试配置执行，不重试时直接调用 Run。
func (s *timerScheduler) runWithRetry(ctx context.Context, e *event) error {
	if e.opts.retryAttempts == 0 {
		return e.task.Run(ctx)
	}
	return retry.New(
		retry.Context(ctx),
		retry.Attempts(e.opts.retryAttempts+1),
		retry.Delay(e.opts.retryDelay),
		retry.MaxDelay(e.opts.retryMaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	).Do(func() error {
		return e.task.Run(ctx)
	})
}

// reschedule 为循环任务安排下一轮。
// 间隔从本轮执行结束起算，执行期间被取消或调度器已开始关闭则终止。
func (s *timerScheduler) reschedule(e *event) {
	if e.interval <= 0 {
		return
	}

	s.mu.Lock()
	if e.cancelled || s.state != stateRunning {
		s.queue.forget(e.seq)
		s.mu.Unlock()
		return
	}
	e.running = false
	e.wake = s.opts.clock.Now().Add(e.interval)
	s.queue.push(e)
	s.mu.Unlock()

	s.wake()
}

// safeBefore 执行单个 BeforeRun 钩子，panic 只丢弃该钩子的结果。
func (s *timerScheduler) safeBefore(h Hook, ctx context.Context, name string) (next context.Context) {
	next = ctx
	defer func() {
		if r := recover(); r != nil {
			next = ctx
			if s.opts.logger != nil {
				s.opts.logger.Error(ctx, "before hook panicked", "name", name, "panic", r)
			}
		}
	}()
	if out := h.BeforeRun(ctx, name); out != nil {
		next = out
	}
	return next
}

// safeAfter 执行单个 AfterRun 钩子。
func (s *timerScheduler) safeAfter(h Hook, ctx context.Context, name string, duration time.Duration, err error) {
	defer func() {
		if r := recover(); r != nil && s.opts.logger != nil {
			s.opts.logger.Error(ctx, "after hook panicked", "name", name, "panic", r)
		}
	}()
	h.AfterRun(ctx, name, duration, err)
}

// safeErrorHandler 调用错误回调，回调自身的 panic 不得影响分发。
func (s *timerScheduler) safeErrorHandler(outcome TaskOutcome) {
	defer func() {
		if r := recover(); r != nil && s.opts.logger != nil {
			s.opts.logger.Error(context.Background(), "error handler panicked",
				"seq", outcome.Seq, "name", outcome.Name, "panic", r)
		}
	}()
	s.opts.errorHandler(outcome)
}

func statusOf(err error, panicked bool) xmetrics.Status {
	switch {
	case panicked:
		return xmetrics.StatusPanic
	case err != nil:
		return xmetrics.StatusError
	default:
		return xmetrics.StatusOK
	}
}
