// Package xconf 提供统一的配置加载和解析功能，基于 koanf 实现。
//
// # 设计理念
//
// xconf 定位为最小化配置加载器，负责文件/字节数据的加载、反序列化
// 和热重载。不负责配置治理（必选字段校验、默认值注入、环境变量覆盖），
// 这些能力由上层（如 xschedctl）按需实现。
//
//   - 工厂函数：New, NewFromBytes
//   - Client() 暴露底层 koanf 实例，基础读取直接用 koanf
//   - 增值功能：并发安全的 Reload、类型安全的 Unmarshal
//
// # 支持的格式
//
//   - YAML（默认，推荐）：.yaml, .yml
//   - JSON：.json
//
// # 配置监视
//
// 支持文件变更监视和自动重载（基于 fsnotify）：监视所在目录而非
// 文件本身、内置防抖、兼容 vim/emacs 的原子写入。从字节数据创建的
// Config 不支持监视。
package xconf
