package xtimer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/omeyang/xsched/pkg/observability/xmetrics"
	"github.com/omeyang/xsched/pkg/sched/xclock"
)

func TestOptions_Defaults(t *testing.T) {
	o := defaultOptions()

	assert.NotNil(t, o.clock)
	assert.Nil(t, o.logger)
	assert.Equal(t, xmetrics.NoopObserver{}, o.observer)
	assert.Nil(t, o.errorHandler)
	assert.Nil(t, o.executor)
	assert.Equal(t, defaultHistorySize, o.historySize)
}

func TestOptions_NilValuesIgnored(t *testing.T) {
	o := defaultOptions()

	WithClock(nil)(&o)
	WithLogger(nil)(&o)
	WithObserver(nil)(&o)
	WithErrorHandler(nil)(&o)
	WithExecutor(nil)(&o)
	WithHistorySize(0)(&o)
	WithHistorySize(-5)(&o)

	assert.NotNil(t, o.clock)
	assert.Nil(t, o.logger)
	assert.Equal(t, xmetrics.NoopObserver{}, o.observer)
	assert.Equal(t, defaultHistorySize, o.historySize)
}

func TestOptions_Override(t *testing.T) {
	o := defaultOptions()
	clk := xclock.NewFake(time.Time{})

	WithClock(clk)(&o)
	WithHistorySize(16)(&o)
	WithErrorHandler(func(TaskOutcome) {})(&o)

	assert.Same(t, clk, o.clock.(*xclock.Fake))
	assert.Equal(t, 16, o.historySize)
	assert.NotNil(t, o.errorHandler)
}

func TestTaskOptions_Defaults(t *testing.T) {
	o := defaultTaskOptions()

	assert.Empty(t, o.name)
	assert.Zero(t, o.timeout)
	assert.Zero(t, o.retryAttempts)
	assert.Equal(t, 100*time.Millisecond, o.retryDelay)
	assert.Equal(t, 10*time.Second, o.retryMaxDelay)
	assert.Nil(t, o.breaker)
	assert.Empty(t, o.hooks)
}

func TestTaskOptions_InvalidValuesIgnored(t *testing.T) {
	o := defaultTaskOptions()

	WithTimeout(-time.Second)(&o)
	WithRetryDelay(0)(&o)
	WithRetryMaxDelay(-time.Minute)(&o)
	WithBreaker(nil)(&o)
	WithHook(nil)(&o)
	WithHooks(nil, nil)(&o)

	assert.Zero(t, o.timeout)
	assert.Equal(t, 100*time.Millisecond, o.retryDelay)
	assert.Equal(t, 10*time.Second, o.retryMaxDelay)
	assert.Nil(t, o.breaker)
	assert.Empty(t, o.hooks)
}

func TestTaskOptions_Hooks(t *testing.T) {
	o := defaultTaskOptions()

	h := HookFunc{Before: func(ctx context.Context, _ string) context.Context { return ctx }}
	WithHook(h)(&o)
	WithHooks(h, h)(&o)

	assert.Len(t, o.hooks, 3)
}

func TestShutdownMode_String(t *testing.T) {
	assert.Equal(t, "drain", ShutdownDrain.String())
	assert.Equal(t, "cancel-pending", ShutdownCancelPending.String())
	assert.Equal(t, "unknown", ShutdownMode(42).String())
}

func TestHandle_Zero(t *testing.T) {
	var h Handle
	assert.True(t, h.IsZero())
	assert.Zero(t, h.Seq())

	issued := Handle{seq: 7, owner: "abc"}
	assert.False(t, issued.IsZero())
	assert.Equal(t, uint64(7), issued.Seq())
}
