package watcher

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/avalia/backend/internal/domain/assistant"
	"github.com/avalia/backend/internal/infrastructure/config"
	"github.com/avalia/backend/internal/infrastructure/log"
)

// PromptWatcher 监听提示词配置文件变更并热重载
// 解析失败时保留上一次的有效配置
type PromptWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	// 当前生效的配置
	mu   sync.RWMutex
	spec *assistant.PromptSpec

	// 防抖相关
	debounceTimer *time.Timer
	debounceMu    sync.Mutex
	debounceDelay time.Duration

	// 控制
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewPromptWatcher 创建提示词配置监听器
// 初始配置加载失败视为启动错误
func NewPromptWatcher(path string) (*PromptWatcher, error) {
	spec, err := config.LoadPromptSpec(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &PromptWatcher{
		path:          path,
		watcher:       watcher,
		logger:        log.NewModuleLogger("watcher", "prompt"),
		spec:          spec,
		debounceDelay: 500 * time.Millisecond,
		stopCh:        make(chan struct{}),
	}, nil
}

// Spec 返回当前生效的提示词配置
func (w *PromptWatcher) Spec() *assistant.PromptSpec {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.spec
}

// Start 启动监听
// 监听配置文件所在目录，编辑器的原子替换（rename+create）也能捕获
func (w *PromptWatcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return err
	}

	w.logger.Info("Watching prompt config", "path", w.path)

	w.wg.Add(1)
	go w.watchLoop()

	return nil
}

// Stop 停止监听
func (w *PromptWatcher) Stop() error {
	close(w.stopCh)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

// watchLoop 事件处理循环
func (w *PromptWatcher) watchLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watcher error", "error", err)
		}
	}
}

// scheduleReload 防抖后触发重载
func (w *PromptWatcher) scheduleReload() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, w.reload)
}

// reload 重新加载配置，失败时保留旧配置
func (w *PromptWatcher) reload() {
	spec, err := config.LoadPromptSpec(w.path)
	if err != nil {
		w.logger.Warn("Failed to reload prompt config, keeping previous version",
			"path", w.path,
			"error", err,
		)
		return
	}

	w.mu.Lock()
	w.spec = spec
	w.mu.Unlock()

	w.logger.Info("Prompt config reloaded", "path", w.path)
}
