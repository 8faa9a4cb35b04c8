package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/netip"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/ipkit/pkg/ipcalc/xaddr"
	"github.com/omeyang/ipkit/pkg/ipcalc/xcidr"
	"github.com/omeyang/ipkit/pkg/ipcalc/xdiff"
	"github.com/omeyang/ipkit/pkg/ipcalc/xrange"
	"github.com/omeyang/ipkit/pkg/ipcalc/xsplit"
)

// newLogger 创建 CLI 日志器。引擎本身不产生日志，
// 仅 CLI 外层（watch 循环、配置重载）输出到 stderr。
func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// 创建所有子命令。
func createCommands() []*cli.Command {
	return []*cli.Command{
		createExpandCommand(),
		createSummarizeCommand(),
		createSplitCommand(),
		createDiffCommand(),
	}
}

// createExpandCommand 创建 expand 子命令（范围 → 精确 CIDR 块）。
func createExpandCommand() *cli.Command {
	return &cli.Command{
		Name:      "expand",
		Aliases:   []string{"e"},
		Usage:     "把范围/CIDR/单地址分解为精确 CIDR 块",
		ArgsUsage: "<entry>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) != 1 {
				return &usageError{msg: "expand 需要且仅需要一个条目参数"}
			}
			settings, err := resolveSettings(cmd)
			if err != nil {
				return err
			}
			return cmdExpand(os.Stdout, args[0], settings)
		},
	}
}

// createSummarizeCommand 创建 summarize 子命令（清单 → 最小覆盖）。
func createSummarizeCommand() *cli.Command {
	return &cli.Command{
		Name:      "summarize",
		Aliases:   []string{"sum"},
		Usage:     "读取多行清单（文件或 stdin），输出最小覆盖",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "exact",
				Usage: "只做精确分解与归并，不做兄弟块聚合",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) > 1 {
				return &usageError{msg: "summarize 至多接受一个文件参数"}
			}
			settings, err := resolveSettings(cmd)
			if err != nil {
				return err
			}
			lines, err := readInputLines(args)
			if err != nil {
				return err
			}
			return cmdSummarize(os.Stdout, os.Stderr, lines, cmd.Bool("exact"), settings)
		},
	}
}

// createSplitCommand 创建 split 子命令（父块等分）。
func createSplitCommand() *cli.Command {
	return &cli.Command{
		Name:      "split",
		Aliases:   []string{"s"},
		Usage:     "把父块等分为子块",
		ArgsUsage: "<parent-cidr>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "子块数量（向上取整到 2 的幂）",
			},
			&cli.IntFlag{
				Name:    "prefix",
				Aliases: []string{"p"},
				Usage:   "子块目标前缀长度",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) != 1 {
				return &usageError{msg: "split 需要且仅需要一个父块参数"}
			}
			count := int(cmd.Int("count"))
			prefix := int(cmd.Int("prefix"))
			if (count > 0) == (prefix > 0) {
				return &usageError{msg: "split 需要 --count 或 --prefix 二选一"}
			}
			settings, err := resolveSettings(cmd)
			if err != nil {
				return err
			}
			return cmdSplit(os.Stdout, args[0], count, prefix, settings)
		},
	}
}

// createDiffCommand 创建 diff 子命令（清单对比）。
func createDiffCommand() *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Aliases:   []string{"d"},
		Usage:     "对比两份网络清单",
		ArgsUsage: "<fileA> <fileB>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "任一清单文件变更时重新对比",
			},
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "watch 模式防抖时间",
				Value: 200 * time.Millisecond,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) != 2 {
				return &usageError{msg: "diff 需要两个清单文件参数"}
			}
			settings, err := resolveSettings(cmd)
			if err != nil {
				return err
			}
			if cmd.Bool("watch") {
				return watchDiff(ctx, newLogger(), os.Stdout, args[0], args[1], cmd.Duration("debounce"), settings)
			}
			return cmdDiff(os.Stdout, args[0], args[1], settings)
		},
	}
}

// cmdExpand 分解单个条目为精确块。
func cmdExpand(w io.Writer, entry string, settings *settings) error {
	r, err := xrange.ParseEntry(entry)
	if err != nil {
		return err
	}
	blocks, err := xcidr.Decompose(r, xcidr.WithMaxBlocks(settings.MaxBlocks))
	if err != nil {
		return err
	}
	return writeBlockList(w, xcidr.FormatBlocks(blocks), settings.JSON)
}

// cmdSummarize 汇总一份清单。exact 为 true 时跳过兄弟块聚合。
func cmdSummarize(w, noteW io.Writer, lines []string, exact bool, settings *settings) error {
	opt := xcidr.WithMaxBlocks(settings.MaxBlocks)

	if exact {
		ranges, err := xrange.ParseEntries(lines)
		if err != nil {
			return err
		}
		blocks, err := xcidr.DecomposeAll(ranges, opt)
		if err != nil {
			return err
		}
		return writeBlockList(w, xcidr.FormatBlocks(blocks), settings.JSON)
	}

	cover, err := xcidr.SummarizeEntries(lines, opt)
	if err != nil {
		return err
	}
	if cover.OverCovers {
		// 纯兄弟聚合不丢失地址，此提示只在超覆盖模式下出现。
		fmt.Fprintln(noteW, "注意: 覆盖范围大于输入（over-cover）")
	}
	return writeBlockList(w, cover.Strings(), settings.JSON)
}

// cmdSplit 把父块等分。count 与 prefix 恰有一个为正。
func cmdSplit(w io.Writer, parentStr string, count, prefix int, settings *settings) error {
	parent, err := parseParent(parentStr)
	if err != nil {
		return err
	}

	opt := xsplit.WithMaxChildren(settings.MaxChildren)
	var split xsplit.Split
	if count > 0 {
		split, err = xsplit.ByCount(parent, count, opt)
	} else {
		split, err = xsplit.ByPrefix(parent, prefix, opt)
	}
	if err != nil {
		return err
	}

	if settings.JSON {
		return writeJSON(w, map[string]any{
			"parent":      split.Parent.String(),
			"children":    xcidr.FormatBlocks(split.Children),
			"requested":   split.Requested,
			"utilization": split.Utilization,
		})
	}
	for _, s := range xcidr.FormatBlocks(split.Children) {
		fmt.Fprintln(w, s)
	}
	fmt.Fprintf(w, "利用率: %.2f%% (%d/%d)\n", split.Utilization, split.Requested, len(split.Children))
	return nil
}

// cmdDiff 对比两份清单文件。
func cmdDiff(w io.Writer, pathA, pathB string, settings *settings) error {
	listA, err := readFileLines(pathA)
	if err != nil {
		return err
	}
	listB, err := readFileLines(pathB)
	if err != nil {
		return err
	}

	result, err := xdiff.Compare(listA, listB, xcidr.WithMaxBlocks(settings.MaxBlocks))
	if err != nil {
		return err
	}
	return writeDiffResult(w, result, settings.JSON)
}

// writeDiffResult 渲染对比结果。
func writeDiffResult(w io.Writer, result xdiff.Result, asJSON bool) error {
	if asJSON {
		return writeJSON(w, map[string]any{
			"added":     result.Added,
			"removed":   result.Removed,
			"unchanged": result.Unchanged,
		})
	}
	for _, s := range result.Added {
		fmt.Fprintf(w, "+ %s\n", s)
	}
	for _, s := range result.Removed {
		fmt.Fprintf(w, "- %s\n", s)
	}
	for _, s := range result.Unchanged {
		fmt.Fprintf(w, "= %s\n", s)
	}
	return nil
}

// writeBlockList 按设置输出块清单（逐行或 JSON 数组）。
func writeBlockList(w io.Writer, blocks []string, asJSON bool) error {
	if asJSON {
		return writeJSON(w, blocks)
	}
	for _, s := range blocks {
		fmt.Fprintln(w, s)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseParent 解析父块写法 "addr/bits"。
// 宿主位按文档约定向下取整（与 expand/summarize 的入口行为一致）。
func parseParent(s string) (p netip.Prefix, err error) {
	addrStr, bitsStr, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return p, &usageError{msg: fmt.Sprintf("父块需要 CIDR 写法 (addr/bits): %q", s)}
	}
	addr, err := xaddr.ParseAddr(addrStr)
	if err != nil {
		return p, err
	}
	bits, err := strconv.Atoi(strings.TrimSpace(bitsStr))
	if err != nil {
		return p, &usageError{msg: fmt.Sprintf("无效前缀长度: %q", bitsStr)}
	}
	return xrange.NormalizeToNetwork(addr, bits)
}

// readInputLines 从文件参数或 stdin 读取输入行。
func readInputLines(args []string) ([]string, error) {
	if len(args) == 1 {
		return readFileLines(args[0])
	}
	return readLines(os.Stdin)
}

func readFileLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLines(f)
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("读取输入失败: %w", err)
	}
	return lines, nil
}

// setupSignalHandler 设置信号处理。
// 设计决策: 第一次信号优雅取消，第二次信号强制退出（退出码 130 = 128 + SIGINT）。
// watch 模式阻塞时，用户可通过再次 Ctrl+C 强制退出。
func setupSignalHandler(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel() // 第一次信号: 优雅取消

		<-sigCh
		signal.Stop(sigCh) // 回收订阅
		os.Exit(130)       // 第二次信号: 强制退出
	}()
}
