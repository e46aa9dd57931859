// xschedctl 是 xsched 调度器的命令行工具。
//
// 用法:
//
//	xschedctl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config   配置文件路径 (yaml/json，可省略，省略时使用默认配置)
//
// 命令:
//
//	run            按配置运行一轮合成调度负载并输出统计
//	validate       校验配置文件并打印解析结果
//	help           显示帮助信息
//
// 退出码:
//
//	0: 命令执行成功
//	1: 命令执行失败
//	2: 参数错误（未知命令、无效 flag 等）
//
// 示例:
//
//	xschedctl run                          # 默认配置跑一轮负载
//	xschedctl -c ./xsched.yaml run         # 指定配置文件
//	xschedctl -c ./xsched.yaml validate    # 只校验配置
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入，例如:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD)"
//
// ）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run())
}

// createApp 创建 CLI 应用。
func createApp() *cli.Command {
	return &cli.Command{
		Name:    "xschedctl",
		Usage:   "xsched 调度器命令行工具",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径 (yaml/json)",
			},
		},
		Commands:       createCommands(),
		DefaultCommand: "help",
	}
}

func run() int {
	app := createApp()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}
