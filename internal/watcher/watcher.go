// Package watcher reports changes to a transcript file that is still being written.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher calls onChange after the target file is written, created or
// replaced. Bursts of events within the debounce window produce one call.
// It watches the parent directory since editors and loggers often replace
// files instead of writing them in place.
type Watcher struct {
	targetPath string
	parentPath string
	onChange   func()
	logger     zerolog.Logger
	watcher    *fsnotify.Watcher
	ctx        context.Context
	cancel     context.CancelFunc
	mu         sync.Mutex
	running    bool
	debounce   time.Duration
	done       chan struct{}
}

// New creates a Watcher for targetPath.
func New(targetPath string, onChange func(), logger zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		targetPath: filepath.Clean(targetPath),
		parentPath: filepath.Dir(filepath.Clean(targetPath)),
		onChange:   onChange,
		logger:     logger,
		watcher:    fsw,
		ctx:        ctx,
		cancel:     cancel,
		debounce:   100 * time.Millisecond,
		done:       make(chan struct{}),
	}, nil
}

// SetDebounce changes the quiet period before onChange fires. Call it before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Start begins watching. The parent directory must exist.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if err := w.watcher.Add(w.parentPath); err != nil {
		return fmt.Errorf("watch %s: %w", w.parentPath, err)
	}
	w.running = true
	go w.watchLoop()
	return nil
}

// Stop stops the watcher and waits for the event loop to exit. It also
// releases a watcher that never started.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.cancel()
		err := w.watcher.Close()
		w.mu.Unlock()
		return err
	}
	w.running = false
	w.cancel()
	err := w.watcher.Close()
	w.mu.Unlock()

	<-w.done
	return err
}

const changeOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

func (w *Watcher) watchLoop() {
	defer close(w.done)

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.targetPath || event.Op&changeOps == 0 {
				continue
			}

			w.logger.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("Transcript changed")
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, w.fire)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("Watcher error")
		}
	}
}

func (w *Watcher) fire() {
	if w.ctx.Err() != nil {
		return
	}
	if _, err := os.Stat(w.targetPath); err != nil {
		w.logger.Warn().Err(err).Str("path", w.targetPath).Msg("Transcript is gone")
	}
	if w.onChange != nil {
		w.onChange()
	}
}
