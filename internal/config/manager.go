package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Manager loads the optional settings file and republishes it on change.
// With an empty path it serves Defaults() and Watch is a no-op.
type Manager struct {
	path string

	mu   sync.RWMutex
	cur  Settings
	subs []chan Settings
}

func NewManager(path string) *Manager {
	return &Manager{path: path, cur: Defaults()}
}

func (m *Manager) Load() (Settings, error) {
	if m.path == "" {
		return m.Get(), nil
	}
	b, err := os.ReadFile(m.path)
	if err != nil {
		return Settings{}, err
	}
	j, _, err := coerceToJSONBytes(m.path, b)
	if err != nil {
		return Settings{}, err
	}
	var s Settings
	if err := decodeStrict(j, &s); err != nil {
		return Settings{}, err
	}
	s.Normalize()

	m.mu.Lock()
	m.cur = s
	m.mu.Unlock()
	return s, nil
}

func (m *Manager) Get() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur
}

func (m *Manager) Subscribe(buffer int) <-chan Settings {
	ch := make(chan Settings, buffer)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	return ch
}

func (m *Manager) publish(s Settings) {
	m.mu.RLock()
	subs := append([]chan Settings{}, m.subs...)
	m.mu.RUnlock()
	for _, ch := range subs {
		select {
		case ch <- s:
		default:
			// drop for slow subscribers; the next reload republishes
		}
	}
}

// Watch republishes the settings whenever the file changes. It returns when
// ctx is cancelled. A rejected reload (bad YAML, unknown field) keeps the
// previous settings in force.
func (m *Manager) Watch(ctx context.Context) error {
	if m.path == "" {
		<-ctx.Done()
		return nil
	}

	dir := filepath.Dir(m.path)
	file := filepath.Base(m.path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	// debounce to avoid partial writes
	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	debounce := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(250*time.Millisecond, func() {
			if s, err := m.Load(); err == nil {
				m.publish(s)
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-w.Events:
			if ev.Name == filepath.Join(dir, file) {
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					debounce()
				}
			}
		case <-w.Errors:
			// keep watching
		}
	}
}
