// Package xclock 提供可注入的单调时间源抽象。
//
// # 概述
//
// xclock 把"读取当前时间"和"等待到某个时刻"收敛为一个最小接口，
// 供 xtimer 等依赖时间的组件注入使用：
//
//   - 生产环境使用 [Real]，基于标准库 time（time.Time 自带单调读数，
//     比较和减法不受墙钟回拨影响）
//   - 测试环境使用 [NewFake]，手动推进时间，让时序测试完全确定化
//
// # 快速开始
//
//	clk := xclock.Real()
//	t := clk.NewTimer(100 * time.Millisecond)
//	select {
//	case <-t.C():
//	    // 到期
//	case <-ctx.Done():
//	    t.Stop()
//	}
//
// 等待绝对时刻用 NewTimerAt，到期判定以创建时刻的时钟读数为准，
// 目标时刻已过时立即到期。
//
// # Fake 时钟
//
// Fake 时钟不会自己走动，只有 Advance 才推进：
//
//	clk := xclock.NewFake(time.Now())
//	t := clk.NewTimer(time.Hour)
//	clk.Advance(time.Hour) // t.C() 立即可读
//
// BlockUntil(n) 用于等待"有 n 个定时器在等待"这一状态，
// 测试中常用它确认被测组件已经进入等待，再推进时间。
package xclock
