package xtimer

import "context"

// run 分发协程主循环。
//
// 每次醒来都从头重新评估堆顶：队列可能在睡眠期间被 schedule 抢占
// （更早的任务入队）或被 cancel 掏空，唤醒原因本身不携带任何结论。
// 任务绝不早于唤醒时间触发；时钟读数与触发决策都在锁内完成。
func (s *timerScheduler) run() {
	defer close(s.done)

	for {
		s.mu.Lock()
		if s.state != stateRunning {
			s.mu.Unlock()
			s.finish()
			return
		}

		e := s.queue.peek()
		if e == nil {
			s.mu.Unlock()
			select {
			case <-s.notify:
			case <-s.stopCh:
			}
			continue
		}

		if e.wake.After(s.opts.clock.Now()) {
			s.mu.Unlock()
			// 按绝对时刻等待：时钟在解锁后、定时器创建前被推进时，
			// NewTimerAt 直接判定到期，相对时长会把这段推进算丢
			t := s.opts.clock.NewTimerAt(e.wake)
			select {
			case <-t.C():
			case <-s.notify:
				t.Stop()
			case <-s.stopCh:
				t.Stop()
			}
			continue
		}

		// 堆顶已到期
		s.queue.pop()
		if e.interval > 0 {
			e.running = true
			s.queue.track(e)
		}
		s.mu.Unlock()

		s.dispatch(e)
	}
}

// dispatch 执行一个到期事件。
// 配置了 executor 时卸载到执行器，提交被拒绝则退回内联执行。
func (s *timerScheduler) dispatch(e *event) {
	if s.opts.executor == nil {
		s.invoke(e)
		return
	}

	s.wg.Add(1)
	err := s.opts.executor.Submit(func() {
		defer s.wg.Done()
		s.invoke(e)
	})
	if err != nil {
		s.wg.Done()
		if s.opts.logger != nil {
			s.opts.logger.Warn(context.Background(), "executor rejected task, running inline",
				"seq", e.seq, "name", e.opts.name, "error", err)
		}
		s.invoke(e)
	}
}

// finish 按关闭模式清空队列，然后等待卸载出去的任务收尾。
//
// Drain 模式触发所有唤醒时间不晚于关闭时刻的任务；关闭之后才到期
// 的任务一律取消，不做"追赶"。CancelPending 模式取消全部。
func (s *timerScheduler) finish() {
	for {
		s.mu.Lock()
		e := s.queue.peek()
		if e == nil {
			s.mu.Unlock()
			break
		}
		if s.shutdownMode == ShutdownCancelPending || e.wake.After(s.drainCutoff) {
			cancelled := 0
			for s.queue.len() > 0 {
				ev := s.queue.pop()
				s.stats.recordCancelled(ev.opts.name)
				cancelled++
			}
			s.mu.Unlock()
			if cancelled > 0 && s.opts.logger != nil {
				s.opts.logger.Info(context.Background(), "pending tasks cancelled on shutdown",
					"count", cancelled)
			}
			break
		}
		s.queue.pop()
		s.mu.Unlock()

		// 排空阶段一律内联执行，不再经过 executor
		s.invoke(e)
	}

	s.wg.Wait()
}
