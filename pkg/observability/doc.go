// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xmetrics: 统一可观测性接口（指标、追踪）
//
// 设计原则：
//   - 遵循 OpenTelemetry 语义规范
//   - 观测点与业务代码解耦，调度器通过 Observer 接口接入
//   - 默认 Noop 实现，零开销可关闭
package observability
