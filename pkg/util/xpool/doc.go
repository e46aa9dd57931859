// Package xpool 提供轻量级的任务执行池。
//
// Pool 以固定数量的 worker 协程消费一个有界队列，用于把任务执行
// 从调用方（如 xtimer 的分发协程）卸载出去。支持以下特性：
//   - 可配置的 worker 数量（[1, 65536]）和队列大小（[1, 16777216]）
//   - 优雅关闭（处理完队列中的任务后退出）
//   - 超时关闭（Shutdown(ctx) 支持 context 超时/取消）
//   - panic 恢复（单个任务失败不影响 pool，含堆栈跟踪日志）
//   - 队列满时返回 ErrQueueFull
//   - Done() channel：Shutdown 超时返回后可等待残留 worker 最终完成
//   - 可注入自定义日志记录器（WithLogger）
//   - 多实例场景下可设置名称以区分日志来源（WithName）
//
// # 注意事项
//
//   - Submit 是非阻塞的，队列满时返回 ErrQueueFull
//   - Close 会等待所有队列中的任务处理完成
//   - Close/Shutdown 不可在任务内调用，否则会死锁
//   - panic 的任务不会被重试，仅记录日志后丢弃
//   - New 创建后自动启动 worker，无需手动 Start
//
// # 关闭策略
//
// Close 等价于 Shutdown(context.Background())，无限等待所有任务完成。
// Shutdown(ctx) 支持超时控制：ctx 到期后立即返回 context 错误，
// 残留的 worker goroutine 仍在后台运行，会继续处理剩余任务直到耗尽后退出。
// 调用方可通过 Done() 返回的 channel 等待所有 worker 最终完成。
package xpool
