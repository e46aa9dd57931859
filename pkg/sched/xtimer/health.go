package xtimer

import "time"

// HealthStatus 表示调度器的健康状态。
type HealthStatus string

const (
	// HealthStatusHealthy 表示调度器正常运行。
	HealthStatusHealthy HealthStatus = "healthy"
	// HealthStatusDegraded 表示调度器仍在运行但失败率过高。
	HealthStatusDegraded HealthStatus = "degraded"
	// HealthStatusUnhealthy 表示调度器已停止，不再调度任务。
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// 失败率超过此阈值时状态降级；执行次数不足时不计算失败率。
const (
	degradedFailureRate  = 0.5
	minExecutionsForRate = 10
)

// HealthCheck 健康检查结果，可直接序列化进探针响应。
type HealthCheck struct {
	// Status 总体健康状态
	Status HealthStatus `json:"status"`
	// Running 分发协程是否仍在运行
	Running bool `json:"running"`
	// PendingTasks 队列中待执行的任务数
	PendingTasks int `json:"pending_tasks"`
	// Fired 累计触发次数
	Fired int64 `json:"fired"`
	// FailureCount 失败次数
	FailureCount int64 `json:"failure_count"`
	// SuccessRate 成功率（0-1）
	SuccessRate float64 `json:"success_rate"`
	// LastError 最近一次错误信息
	LastError string `json:"last_error,omitempty"`
	// Message 附加说明
	Message string `json:"message,omitempty"`
	// CheckTime 检查时间
	CheckTime time.Time `json:"check_time"`
}

// Health 实现 [Scheduler] 接口。
func (s *timerScheduler) Health() *HealthCheck {
	s.mu.Lock()
	running := s.state == stateRunning
	pending := s.queue.len()
	s.mu.Unlock()

	hc := &HealthCheck{
		Running:      running,
		PendingTasks: pending,
		Fired:        s.stats.Fired(),
		FailureCount: s.stats.FailureCount(),
		SuccessRate:  s.stats.SuccessRate(),
		CheckTime:    time.Now(),
	}
	if err := s.stats.LastError(); err != nil {
		hc.LastError = err.Error()
	}

	switch {
	case !running:
		hc.Status = HealthStatusUnhealthy
		hc.Message = "scheduler is stopped"
	case hc.Fired >= minExecutionsForRate && hc.SuccessRate < 1-degradedFailureRate:
		hc.Status = HealthStatusDegraded
		hc.Message = "failure rate above threshold"
	default:
		hc.Status = HealthStatusHealthy
	}
	return hc
}
