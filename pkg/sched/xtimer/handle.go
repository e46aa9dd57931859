package xtimer

// Handle 取消凭证，由 Schedule* 返回，指向一个已入队的任务。
//
// Handle 是轻量值类型，可自由复制和跨协程传递；它不持有任务本身，
// 任务归队列所有。任务触发后继续使用 Handle 是安全的：Cancel 退化
// 为 no-op 并返回 false，Outcome 仍可查到执行结果（在历史窗口内）。
//
// 零值 Handle 无效，对它的任何操作都返回"未知句柄"。
type Handle struct {
	seq   uint64
	owner string // 签发调度器的实例 ID
}

// Seq 返回任务的调度序号。
// 序号在单个调度器生命周期内严格递增且不复用，零表示无效句柄。
func (h Handle) Seq() uint64 { return h.seq }

// IsZero 报告 h 是否为零值（未由任何调度器签发）。
func (h Handle) IsZero() bool { return h.seq == 0 && h.owner == "" }
