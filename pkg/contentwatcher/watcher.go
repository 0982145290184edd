package contentwatcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const DefaultDebounce = time.Second

// Watcher 监听内容目录（递归），变更停止 debounce 时长后触发一次回调
type Watcher struct {
	root     string
	debounce time.Duration
	onChange func(ctx context.Context)
	log      *zap.Logger
	fsw      *fsnotify.Watcher
}

func New(root string, debounce time.Duration, onChange func(ctx context.Context), log *zap.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		root:     absRoot,
		debounce: debounce,
		onChange: onChange,
		log:      log,
		fsw:      fsw,
	}
	if err := w.addTree(absRoot); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && hidden(d.Name()) {
			return filepath.SkipDir
		}
		return w.fsw.Add(p)
	})
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// relevant 只关心 yaml 文档和目录变化
func (w *Watcher) relevant(event fsnotify.Event) bool {
	name := filepath.Base(event.Name)
	if hidden(name) {
		return false
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	ext := filepath.Ext(name)
	return ext == ".yaml" || ext == ".yml" || ext == "" || event.Op&(fsnotify.Remove|fsnotify.Rename) != 0
}

// Run 阻塞直到 ctx 结束
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.log.Warn("watch new content directory failed", zap.String("dir", event.Name), zap.Error(err))
					}
				}
			}
			if !w.relevant(event) {
				continue
			}
			// 防抖处理；go1.23 起 Reset 不会收到过期的触发
			timer.Reset(w.debounce)
		case <-timer.C:
			w.log.Info("content changed, reloading", zap.String("root", w.root))
			w.onChange(ctx)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("content watcher error", zap.Error(err))
		}
	}
}
