package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDiff 持续监视两份清单文件，任一变更后重新对比并输出。
// 对比失败不终止监视，仅记录日志，下次变更后重试。
// 此方法阻塞直到 ctx 取消。
func watchDiff(ctx context.Context, logger *slog.Logger, out io.Writer, pathA, pathB string, debounce time.Duration, settings *settings) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// 监视清单文件所在目录（而非文件本身）。
	// 编辑器保存文件时可能先删除再创建，直接监视文件会丢失事件。
	targets := map[string]bool{
		filepath.Clean(pathA): true,
		filepath.Clean(pathB): true,
	}
	dirs := map[string]bool{}
	for path := range targets {
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("监视目录 %s 失败: %w", dir, err)
		}
	}

	runOnce := func() {
		if err := cmdDiff(out, pathA, pathB, settings); err != nil {
			logger.Error("对比失败", "error", err)
		}
	}

	logger.Info("开始监视清单文件", "fileA", pathA, "fileB", pathB, "debounce", debounce)
	runOnce()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !targets[filepath.Clean(event.Name)] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			// 防抖处理：重置计时器
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			runOnce()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("监视错误", "error", err)
		}
	}
}
