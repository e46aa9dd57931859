package xmetrics

import "time"

// 属性构造器，覆盖调度器观测点实际出现的几种取值类型。
// 其他类型直接用 Attr 字面量，toKeyValue 会按动态类型转换，
// 未识别的类型回退为字符串。

// String 创建字符串属性，用于任务名等标识。
func String(key, value string) Attr {
	return Attr{Key: key, Value: value}
}

// Int64 创建 int64 属性。
func Int64(key string, value int64) Attr {
	return Attr{Key: key, Value: value}
}

// Uint64 创建 uint64 属性，用于事件序号。
// 超出 int64 范围的值在导出时转为字符串。
func Uint64(key string, value uint64) Attr {
	return Attr{Key: key, Value: value}
}

// Duration 创建时间间隔属性，导出为纳秒整数。
func Duration(key string, value time.Duration) Attr {
	return Attr{Key: key, Value: value}
}
