// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xpool: Worker Pool，可配置 worker/队列大小、优雅关闭，
//     可作为调度器的任务执行器
//
// 设计原则：
//   - 提供小而稳定的通用封装
//   - 跨平台兼容
package util
