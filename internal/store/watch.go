package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces the burst of filesystem events a single file
// write produces into one reload.
const reloadDebounce = 500 * time.Millisecond

// Watch reloads the data directory whenever its *.json files change. It
// blocks until ctx is cancelled. LoadDir must have succeeded at least once
// so the store knows which directory to watch.
func (s *Store) Watch(ctx context.Context) error {
	s.mu.RLock()
	dir := s.dir
	s.mu.RUnlock()
	if dir == "" {
		return errors.New("watch: no data directory loaded")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	s.log.WithField("dir", dir).Info("watching data directory")

	var (
		debounce *time.Timer
		pending  <-chan time.Time
	)
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(ev.Name) != ".json" {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(reloadDebounce)
				pending = debounce.C
			} else {
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(reloadDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.WithError(err).Warn("data directory watch error")

		case <-pending:
			if err := s.LoadDir(dir); err != nil {
				s.log.WithError(err).Error("reload failed, keeping previous catalog")
			}
		}
	}
}
