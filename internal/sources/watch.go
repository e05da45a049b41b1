package sources

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// kubeDataLink is the symlink swapped by the kubelet when a mounted ConfigMap changes
const kubeDataLink = "..data"

// FileWatcher calls onChange whenever the watched catalog file is written or replaced
type FileWatcher struct {
	path     string
	onChange func()
	watcher  *fsnotify.Watcher
}

// NewFileWatcher watches the directory holding path. Editors and ConfigMap
// updates replace the file instead of writing it, which a watch on the file
// itself would miss.
func NewFileWatcher(path string, onChange func()) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &FileWatcher{path: abs, onChange: onChange, watcher: w}, nil
}

// Run dispatches events until Close is called
func (fw *FileWatcher) Run() {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !fw.relevant(event) {
				continue
			}
			slog.Info("Catalog file changed", "path", fw.path, "op", event.Op.String())
			fw.onChange()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Catalog file watcher error", "path", fw.path, "error", err)
		}
	}
}

// Close stops the watcher and makes Run return. It is safe to call more than once.
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}

func (fw *FileWatcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Clean(event.Name)
	return name == fw.path || filepath.Base(name) == kubeDataLink
}
