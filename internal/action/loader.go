package action

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// LoadDir scans the actions directory and loads all .lua files.
func (e *Engine) LoadDir() error {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return err
	}

	entries, err := os.ReadDir(e.dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".lua") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".lua")
		path := filepath.Join(e.dir, entry.Name())
		if err := e.LoadScript(name, path); err != nil {
			e.logger.Error().Err(err).Str("file", entry.Name()).Msg("failed to load script")
			// Continue loading other scripts.
		}
	}

	return nil
}

// ReloadAll unloads all scripts and reloads from disk.
func (e *Engine) ReloadAll() error {
	e.mu.Lock()
	old := e.scripts
	e.scripts = make(map[string]*scriptState)
	e.mu.Unlock()

	for _, ss := range old {
		e.stopScript(ss)
	}

	return e.LoadDir()
}

// StartWatcher starts an fsnotify watcher on the actions directory.
// It debounces file changes and reloads affected scripts.
func (e *Engine) StartWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(e.dir); err != nil {
		watcher.Close()
		return err
	}

	go e.watchLoop(watcher)

	e.logger.Info().Str("dir", e.dir).Msg("watching for script changes")
	return nil
}

func (e *Engine) watchLoop(watcher *fsnotify.Watcher) {
	defer watcher.Close()

	// Debounce: collect changed files over a 500ms window.
	var mu sync.Mutex
	pending := make(map[string]fsnotify.Op)
	var timer *time.Timer

	flush := func() {
		mu.Lock()
		batch := pending
		pending = make(map[string]fsnotify.Op)
		mu.Unlock()

		e.processBatch(batch)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			mu.Lock()
			pending[event.Name] = event.Op
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(500*time.Millisecond, flush)
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			e.logger.Error().Err(err).Msg("watcher error")
		}
	}
}

// processBatch handles a debounced batch of file change events.
func (e *Engine) processBatch(batch map[string]fsnotify.Op) {
	for path, op := range batch {
		base := filepath.Base(path)
		if !strings.HasSuffix(base, ".lua") {
			continue
		}
		name := strings.TrimSuffix(base, ".lua")

		if op&(fsnotify.Remove|fsnotify.Rename) != 0 {
			e.UnloadScript(name)
			continue
		}
		// Create or Write: (re)load the script.
		if err := e.LoadScript(name, path); err != nil {
			e.logger.Error().Err(err).Str("file", base).Msg("failed to reload script")
		} else {
			e.logger.Info().Str("file", base).Msg("reloaded script")
		}
	}
}
