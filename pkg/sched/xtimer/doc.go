// Package xtimer 提供进程内的时间序任务调度器。
//
// # 概述
//
// xtimer 维护一个按唤醒时间排序的待执行任务队列，由单个后台分发协程
// 在任务到期时触发执行。支持一次性延迟任务、绝对时刻任务和固定间隔
// 的循环任务，所有 API 可从任意协程并发调用。
//
// 与 cron 类调度器不同，xtimer 不解析任何时间表达式，只接受
// time.Duration / time.Time，定位是"延迟回调"这一层的基础设施。
// 它是纯内存组件：不持久化、不跨进程，进程退出后所有待执行任务丢失。
//
// # 核心概念
//
//   - Scheduler: 调度器，可多实例共存，各自拥有独立的队列和分发协程
//   - Task: 任务接口，TaskFunc 为函数适配器
//   - Handle: schedule 返回的取消凭证，轻量值类型，可跨协程传递
//
// # 快速开始
//
//	s := xtimer.New()
//	defer s.Close()
//
//	h, err := s.ScheduleFunc(100*time.Millisecond, func(ctx context.Context) error {
//	    return doSomething(ctx)
//	}, xtimer.WithName("my-task"))
//	if err != nil {
//	    return err
//	}
//
//	// 不再需要时取消
//	s.Cancel(h)
//
// # 顺序保证
//
// 任务按 (唤醒时间, 调度序号) 的非降序触发：唤醒时间相同的任务按
// schedule 调用顺序执行。任务绝不会早于唤醒时间触发；在默认的内联
// 执行模式下，上一个任务执行完毕前不会触发下一个任务，因此长任务会
// 推迟后续任务。吞吐敏感的场景可通过 WithExecutor 把执行卸载到
// xpool 之类的 worker pool，代价是"触发顺序"不再等于"完成顺序"。
//
// # 取消语义
//
// Cancel 是尽力而为的：返回 true 保证任务不会执行；返回 false 表示
// 句柄未知、属于其他调度器实例、或任务已经触发。取消与触发存在固有
// 竞态，输掉竞态的 Cancel 返回 false 且任务恰好执行一次。Cancel
// 幂等，对已取消/已触发的句柄重复调用安全。
//
// 对循环任务，Cancel 阻止所有后续轮次；正在执行中的那一轮不会被中断。
//
// # 关闭语义
//
// Shutdown 有两种模式：
//
//   - ShutdownDrain: 触发所有在调用时刻已到期的任务，放弃未到期任务，
//     等待分发协程退出后返回
//   - ShutdownCancelPending: 取消全部待执行任务，立即让分发协程退出
//
// 关闭开始后 Schedule* 返回 ErrSchedulerStopped。Close 等价于
// Shutdown(ShutdownDrain)。
//
// # 失败隔离
//
// 任务返回 error 或 panic 都只影响它自己：panic 在执行边界被捕获并
// 包装为 *PanicError，分发协程继续运行。失败会记入 Stats 并转发给
// WithErrorHandler 注册的回调（如果有）。
package xtimer
