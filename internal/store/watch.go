package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultWatchDebounce = 200 * time.Millisecond

// Watcher reports changes made to a store directory by other processes.
// Bursts of writes (sqlite + WAL + shm) collapse into one notification.
type Watcher struct {
	dir      string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	changes  chan struct{}
	errs     chan error
	cancel   context.CancelFunc
}

func (s Store) Watch(debounce time.Duration) (*Watcher, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fw.Add(filepath.Clean(s.Dir)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", s.Dir, err)
	}
	if debounce <= 0 {
		debounce = defaultWatchDebounce
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		dir:      s.Dir,
		watcher:  fw,
		debounce: debounce,
		changes:  make(chan struct{}, 1),
		errs:     make(chan error, 1),
		cancel:   cancel,
	}
	go w.loop(ctx)
	return w, nil
}

// Changes receives one value per settled burst of writes.
func (w *Watcher) Changes() <-chan struct{} { return w.changes }

func (w *Watcher) Errors() <-chan error { return w.errs }

func (w *Watcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}

func relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return strings.HasPrefix(filepath.Base(ev.Name), sqliteFileName)
}

func (w *Watcher) loop(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}
