package xtimer

import (
	"errors"
	"fmt"
)

var (
	// ErrNilTask 表示 Schedule* 收到 nil 任务。
	ErrNilTask = errors.New("xtimer: task cannot be nil")

	// ErrSchedulerStopped 表示调度器已开始关闭，不再接受新任务。
	ErrSchedulerStopped = errors.New("xtimer: scheduler is stopped")

	// ErrInvalidInterval 表示循环任务的间隔非正。
	ErrInvalidInterval = errors.New("xtimer: interval must be positive")
)

// PanicError 包装任务执行期间捕获的 panic。
//
// 通过 errors.As 可以从 Stats/错误回调拿到的错误中还原出 panic 值
// 和发生时的堆栈。
type PanicError struct {
	// Value 是 recover() 捕获的原始值。
	Value any
	// Stack 是捕获时的调用堆栈。
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("xtimer: task panicked: %v", e.Value)
}
