package config

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/minios-linux/paneltrans/auto"
)

// ErrNoConfigFile is returned by Watcher.Start when there is no file to
// watch.
var ErrNoConfigFile = errors.New("no config file to watch")

// Watcher reloads the settings whenever the config file changes and hands
// the new Settings to every registered callback.
type Watcher struct {
	v   *viper.Viper
	log *slog.Logger

	mu        sync.RWMutex
	callbacks []func(*Settings)
	current   *Settings
	stopped   bool
}

// NewWatcher loads the settings the same way Load does and prepares to
// watch the file they came from.
func NewWatcher(cfgFile string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	v := newViper(cfgFile)
	if err := readConfig(v); err != nil {
		return nil, err
	}
	s, err := decode(v)
	if err != nil {
		return nil, err
	}
	return &Watcher{v: v, log: logger.With("component", "config"), current: s}, nil
}

// Current returns the most recently loaded settings.
func (w *Watcher) Current() *Settings {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// The accessors below always read the current settings, so a Watcher can
// be handed to a session or controller and follow the file.

func (w *Watcher) DefaultFromLanguage() string { return w.Current().DefaultFromLanguage() }
func (w *Watcher) DefaultToLanguage() string   { return w.Current().DefaultToLanguage() }
func (w *Watcher) Engine() string              { return w.Current().Engine() }
func (w *Watcher) Tool() string                { return w.Current().Tool() }

// AutoMode implements auto.ModeSource.
func (w *Watcher) AutoMode(t auto.Trigger) auto.Mode { return w.Current().AutoMode(t) }

// OnChange registers fn to run after each successful reload.
func (w *Watcher) OnChange(fn func(*Settings)) {
	w.mu.Lock()
	w.callbacks = append(w.callbacks, fn)
	w.mu.Unlock()
}

// Start begins watching the config file.
func (w *Watcher) Start() error {
	if w.v.ConfigFileUsed() == "" {
		return ErrNoConfigFile
	}
	w.v.OnConfigChange(func(e fsnotify.Event) {
		w.log.Debug("config file changed", "file", e.Name, "op", e.Op.String())
		w.reload()
	})
	w.v.WatchConfig()
	w.log.Debug("watching config", "file", w.v.ConfigFileUsed())
	return nil
}

// Stop silences further notifications. The underlying file watch lives
// until the process exits.
func (w *Watcher) Stop() {
	w.mu.Lock()
	w.stopped = true
	w.mu.Unlock()
}

// Reload re-reads the config file and notifies the callbacks.
func (w *Watcher) Reload() error {
	if err := readConfig(w.v); err != nil {
		return err
	}
	return w.reload()
}

func (w *Watcher) reload() error {
	s, err := decode(w.v)
	if err != nil {
		w.log.Warn("ignoring config change", "err", err)
		return err
	}

	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.current = s
	callbacks := append([]func(*Settings){}, w.callbacks...)
	w.mu.Unlock()

	for _, fn := range callbacks {
		fn(s)
	}
	return nil
}
