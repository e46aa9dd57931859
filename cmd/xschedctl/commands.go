package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xsched/pkg/sched/xtimer"
	"github.com/omeyang/xsched/pkg/util/xpool"
)

// createCommands 创建所有子命令。
func createCommands() []*cli.Command {
	return []*cli.Command{
		createRunCommand(),
		createValidateCommand(),
	}
}

// createRunCommand 创建 run 命令：按配置运行一轮合成调度负载并输出统计。
func createRunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "运行一轮合成调度负载并输出统计",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "输出调度器的 debug 日志",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadSettings(cmd.String("config"))
			if err != nil {
				return fmt.Errorf("加载配置失败: %w", err)
			}
			return runWorkload(ctx, cfg, cmd.Bool("verbose"))
		},
	}
}

// createValidateCommand 创建 validate 命令：校验配置文件并打印解析结果。
func createValidateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "校验配置文件并打印解析结果",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.String("config")
			if path == "" {
				return fmt.Errorf("validate 需要通过 --config 指定配置文件")
			}

			cfg, err := loadSettings(path)
			if err != nil {
				return fmt.Errorf("配置无效: %w", err)
			}
			return printJSON(cfg)
		},
	}
}

// runWorkload 构建调度器并驱动一轮合成负载。
//
// 负载由两部分组成：workload.producers 个并发生产者提交
// workload.tasks 个一次性任务（随机延迟落在 [0, max_delay] 内），
// 外加 workload.recurring 个周期任务。运行 workload.duration 后
// 以 Drain 模式关停并输出统计快照。
func runWorkload(ctx context.Context, cfg settings, verbose bool) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := []xtimer.Option{
		xtimer.WithLogger(xtimer.NewSlogLogger(logger)),
		xtimer.WithHistorySize(cfg.Scheduler.HistorySize),
	}

	if cfg.Scheduler.Executor.Enabled {
		pool, err := xpool.New(cfg.Scheduler.Executor.Workers, cfg.Scheduler.Executor.QueueSize,
			xpool.WithLogger(logger), xpool.WithName("xschedctl"))
		if err != nil {
			return fmt.Errorf("创建执行器失败: %w", err)
		}
		defer pool.Close()
		opts = append(opts, xtimer.WithExecutor(pool))
	}

	sched := xtimer.New(opts...)
	defer func() { _ = sched.Close() }()

	for i := range cfg.Workload.Recurring {
		name := fmt.Sprintf("recurring-%d", i)
		if _, err := sched.ScheduleEvery(cfg.Workload.Interval, xtimer.TaskFunc(func(context.Context) error {
			return nil
		}), xtimer.WithName(name)); err != nil {
			return fmt.Errorf("提交周期任务失败: %w", err)
		}
	}

	var g errgroup.Group
	perProducer := cfg.Workload.Tasks / cfg.Workload.Producers
	maxDelay := cfg.Workload.MaxDelay

	for p := range cfg.Workload.Producers {
		g.Go(func() error {
			name := fmt.Sprintf("producer-%d", p)
			for range perProducer {
				delay := rand.N(maxDelay + 1)
				if _, err := sched.ScheduleFunc(delay, func(context.Context) error {
					return nil
				}, xtimer.WithName(name)); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("提交任务失败: %w", err)
	}

	select {
	case <-ctx.Done():
		logger.Info("收到退出信号，提前关停")
	case <-time.After(cfg.Workload.Duration):
	}

	sched.Shutdown(xtimer.ShutdownDrain)
	return printJSON(sched.Stats().Snapshot())
}

// printJSON 将对象以缩进 JSON 输出到标准输出。
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化输出失败: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
