// ipcalc 是 IP 范围与 CIDR 代数引擎的命令行入口。
//
// 用法:
//
//	ipcalc [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config      配置文件路径 (YAML/JSON，按扩展名识别)
//	--max-blocks      分解输出块数上限 (默认: 100000)
//	--json            以 JSON 输出结构化结果
//
// 命令:
//
//	expand <entry>            把范围/CIDR/单地址分解为精确 CIDR 块
//	summarize [file]          读取多行清单（文件或 stdin），输出最小覆盖
//	split <parent>            把父块等分为子块 (--count N 或 --prefix P)
//	diff <fileA> <fileB>      对比两份网络清单 (--watch 持续对比)
//	help                      显示帮助信息
//
// 退出码:
//
//	0: 成功
//	1: 运算失败（解析错误、越界、超出上限等）
//	2: 参数错误（缺少参数、未知命令等）
//
// 示例:
//
//	ipcalc expand 10.0.0.0-10.0.0.5
//	ipcalc summarize networks.txt
//	ipcalc summarize --exact networks.txt
//	ipcalc split 10.0.0.0/16 --count 4
//	ipcalc diff before.txt after.txt --json
//	ipcalc diff before.txt after.txt --watch
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入，例如:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// ）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run(os.Args))
}

// createApp 创建 CLI 应用。
func createApp() *cli.Command {
	return &cli.Command{
		Name:    "ipcalc",
		Usage:   "IP 范围与 CIDR 代数计算器",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径 (YAML/JSON)",
			},
			&cli.IntFlag{
				Name:  "max-blocks",
				Usage: "分解输出块数上限",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "以 JSON 输出结构化结果",
			},
		},
		Commands:       createCommands(),
		DefaultCommand: "help",
		Authors: []any{
			"ipkit Team",
		},
		// 设计决策: 禁止 urfave/cli 直接调用 os.Exit，
		// 由 run() 统一处理退出码映射，确保与文档退出码契约一致。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(os.Stderr, err)
			}
		},
		Description: `ipcalc 把任意 IPv4/IPv6 范围、CIDR 和单地址归一化为规范 CIDR 块，
并在其上做汇总、切分与清单对比。

输入文法（每行一个条目）:
  单地址          192.168.0.1 或 2001:db8::1
  CIDR            10.0.0.0/8（宿主位向下取整）
  IPv4 掩码写法   172.16.0.0/255.240.0.0
  显式范围        10.0.0.1-10.0.0.100`,
	}
}

func run(args []string) int {
	app := createApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	setupSignalHandler(cancel)

	if err := app.Run(ctx, args); err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "参数错误: %v\n", usageErr.msg)
			return 2
		}
		if _, ok := err.(cli.ExitCoder); ok {
			// ExitErrHandler 已输出错误详情，此处仅设置退出码
			return 2
		}
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}

	return 0
}

// usageError 表示调用方式错误（退出码 2），区别于运算失败（退出码 1）。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }
