package xpool

import (
	"context"
	"runtime/debug"
	"sync"
)

// worker 数量与队列大小的有效范围。
const (
	maxWorkers   = 65536
	maxQueueSize = 1 << 24
)

// Pool 固定 worker 数量的任务执行池。
// 使用 [New] 创建，创建后 worker 即开始消费队列。
type Pool struct {
	opts      options
	workers   int
	queueSize int

	queue    chan func()
	wg       sync.WaitGroup
	stopOnce sync.Once
	stopped  chan struct{}
	done     chan struct{}
}

// New 创建并启动任务执行池。
//
// workers 取值范围 [1, 65536]，queueSize 取值范围 [1, 16777216]，
// 超出范围返回错误而非就地修正。
//
// 用法：
//
//	pool, err := xpool.New(8, 1024, xpool.WithName("sched-exec"))
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
func New(workers, queueSize int, opts ...Option) (*Pool, error) {
	if workers < 1 || workers > maxWorkers {
		return nil, ErrInvalidWorkers
	}
	if queueSize < 1 || queueSize > maxQueueSize {
		return nil, ErrInvalidQueueSize
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p := &Pool{
		opts:      o,
		workers:   workers,
		queueSize: queueSize,
		queue:     make(chan func(), queueSize),
		stopped:   make(chan struct{}),
		done:      make(chan struct{}),
	}

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	go func() {
		p.wg.Wait()
		close(p.done)
	}()

	return p, nil
}

// worker 只从 queue 读取任务，不检查 stopped 信号。
// 这确保关闭时队列中的剩余任务仍会被处理完（优雅关闭）。
func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.queue {
		p.runTask(task)
	}
}

// runTask 执行单个任务并捕获 panic。
func (p *Pool) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			p.opts.logger.Error("xpool: task panic recovered",
				"pool", p.opts.name, "panic", r, "stack", string(debug.Stack()))
		}
	}()
	task()
}

// Submit 提交任务，非阻塞。
// 队列满返回 ErrQueueFull，pool 已关闭返回 ErrPoolStopped，
// task 为 nil 返回 ErrNilTask。
func (p *Pool) Submit(task func()) (err error) {
	if task == nil {
		return ErrNilTask
	}
	// Stop 关闭 p.stopped 后、关闭 p.queue 前存在极短窗口，
	// select 可能选中 queue 分支并撞上 send on closed channel
	defer func() {
		if r := recover(); r != nil {
			err = ErrPoolStopped
		}
	}()

	select {
	case <-p.stopped:
		return ErrPoolStopped
	case p.queue <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close 关闭 pool 并等待队列中所有任务处理完成。
// 幂等，重复调用安全。
func (p *Pool) Close() {
	p.stop()
	<-p.done
}

// Shutdown 关闭 pool，等待剩余任务完成或 ctx 到期。
//
// ctx 到期时立即返回 ctx 的错误；残留 worker 仍在后台处理剩余
// 任务，可通过 [Pool.Done] 等待它们最终退出。
func (p *Pool) Shutdown(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	p.stop()
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done 返回在所有 worker 退出后关闭的 channel。
func (p *Pool) Done() <-chan struct{} {
	return p.done
}

// Workers 返回 worker 数量。
func (p *Pool) Workers() int {
	return p.workers
}

// QueueSize 返回队列容量。
func (p *Pool) QueueSize() int {
	return p.queueSize
}

// stop 拒绝新任务并关闭队列，让 worker 排空后退出。
func (p *Pool) stop() {
	p.stopOnce.Do(func() {
		close(p.stopped)
		close(p.queue)
	})
}
