package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher 监听配置文件变更并回调最新配置。会话 token 绑定创建时的凭据，
// 运行中变更凭据只用于提示重启，不会热切换。
type Watcher struct {
	Path     string
	Cooldown time.Duration // 两次回调之间的最短间隔，避免编辑器连环写触发
}

// Start blocks until ctx is done, invoking onUpdate with the freshly loaded
// config after each write to the file. Files that fail to load are skipped.
func (w Watcher) Start(ctx context.Context, onUpdate func(AppConfig)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	// watch 所在目录；编辑器普遍用 rename+create 方式落盘
	if err := fw.Add(filepath.Dir(w.Path)); err != nil {
		return fmt.Errorf("watch %s: %w", w.Path, err)
	}

	cooldown := w.Cooldown
	if cooldown <= 0 {
		cooldown = time.Second
	}
	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.Path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !last.IsZero() && time.Since(last) < cooldown {
				continue
			}
			cfg, err := LoadWithEnvOverrides(w.Path)
			if err != nil {
				continue
			}
			last = time.Now()
			if onUpdate != nil {
				onUpdate(cfg)
			}
		case _, ok := <-fw.Errors:
			if !ok {
				return nil
			}
		}
	}
}
