package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// TunablesWatcher reloads the ranking weights when the tunables file
// changes, so weight adjustments land without a restart.
type TunablesWatcher struct {
	path     string
	tunables *Tunables
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	stopCh   chan struct{}
}

// NewTunablesWatcher loads the file once and prepares the watcher.
func NewTunablesWatcher(path string, tunables *Tunables, logger *zap.Logger) (*TunablesWatcher, error) {
	if err := tunables.LoadFile(path); err != nil {
		return nil, fmt.Errorf("initial tunables load: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch tunables file: %w", err)
	}
	// Editors often replace the file atomically; watching the directory
	// catches the rename.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		logger.Warn("failed to watch tunables directory", zap.Error(err))
	}

	return &TunablesWatcher{
		path:     path,
		tunables: tunables,
		watcher:  watcher,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}, nil
}

// Start begins watching in a background goroutine.
func (w *TunablesWatcher) Start() {
	go w.watchLoop()
	w.logger.Info("tunables watcher started", zap.String("path", w.path))
}

// Stop halts the watcher.
func (w *TunablesWatcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
}

func (w *TunablesWatcher) watchLoop() {
	// Debounce so an editor's multiple writes trigger one reload.
	var debounce *time.Timer
	const debounceDelay = 100 * time.Millisecond

	for {
		select {
		case <-w.stopCh:
			if debounce != nil {
				debounce.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceDelay, w.reload)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("tunables watcher error", zap.Error(err))
		}
	}
}

// reload applies the new file; a bad file keeps the current weights.
func (w *TunablesWatcher) reload() {
	if err := w.tunables.LoadFile(w.path); err != nil {
		w.logger.Error("tunables reload failed, keeping current weights", zap.Error(err))
		return
	}
	w.logger.Info("ranking tunables reloaded", zap.String("path", w.path))
}
