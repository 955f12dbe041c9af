package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const debounceDuration = 100 * time.Millisecond

// Settings serves the current dynamic configuration. When backed by a file it
// reloads on change; an invalid file keeps the previous settings. Keys absent
// from the file take their environment values, on every load.
type Settings struct {
	path     string
	watcher  *fsnotify.Watcher
	base     *DynamicConfig
	current  *DynamicConfig
	mu       sync.RWMutex
	onChange []func(*DynamicConfig)
	logger   *zap.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewStaticSettings serves fixed settings derived from cfg
func NewStaticSettings(cfg *Config, logger *zap.Logger) *Settings {
	base := DefaultDynamicConfig(cfg)
	return &Settings{
		base:    base,
		current: base,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}
}

// NewSettings loads settings from cfg.DynamicFile when set, falling back to
// static settings otherwise. Call Start to begin watching the file.
func NewSettings(cfg *Config, logger *zap.Logger) (*Settings, error) {
	s := NewStaticSettings(cfg, logger)
	if cfg.DynamicFile == "" {
		return s, nil
	}

	loaded, err := loadDynamicFile(cfg.DynamicFile, s.base)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial config: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory so atomic saves (write + rename) are seen.
	if err := watcher.Add(filepath.Dir(cfg.DynamicFile)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	s.path = cfg.DynamicFile
	s.watcher = watcher
	s.current = loaded
	return s, nil
}

// Start begins watching for configuration changes
func (s *Settings) Start() {
	if s.watcher == nil {
		return
	}
	go s.watchLoop()
	s.logger.Info("Configuration watcher started", zap.String("path", s.path))
}

// Stop stops watching for configuration changes
func (s *Settings) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		if s.watcher != nil {
			s.watcher.Close()
			s.logger.Info("Configuration watcher stopped")
		}
	})
}

func (s *Settings) watchLoop() {
	var debounceTimer *time.Timer

	for {
		select {
		case <-s.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(s.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounceDuration, s.reload)
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("File watcher error", zap.Error(err))
		}
	}
}

func (s *Settings) reload() {
	next, err := loadDynamicFile(s.path, s.base)
	if err != nil {
		s.logger.Error("Invalid configuration, keeping current", zap.String("path", s.path), zap.Error(err))
		return
	}

	s.mu.Lock()
	s.current = next
	handlers := append([]func(*DynamicConfig){}, s.onChange...)
	s.mu.Unlock()

	s.logger.Info("Configuration reloaded",
		zap.Float64("matchThreshold", next.Search.MatchThreshold),
		zap.Int("defaultLimit", next.Search.DefaultLimit),
	)
	for _, handler := range handlers {
		handler(next)
	}
}

// OnChange registers a callback for configuration changes
func (s *Settings) OnChange(handler func(*DynamicConfig)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, handler)
}

// Current returns the current configuration
func (s *Settings) Current() *DynamicConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// MatchThreshold returns the fuzzy title threshold
func (s *Settings) MatchThreshold() float64 {
	return s.Current().Search.MatchThreshold
}

// DefaultLimit returns the page size used when a request names none
func (s *Settings) DefaultLimit() int {
	return s.Current().Search.DefaultLimit
}
