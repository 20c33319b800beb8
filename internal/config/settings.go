package config

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/BurntSushi/toml"
)

const DefaultNotificationTemplate = "New post in $feed_title: [$title]($link)"

// Settings are the knobs the poll loop reads at the start of every cycle.
type Settings struct {
	UpdateInterval time.Duration
	MaxBackoff     time.Duration
	// BackoffBase is the per-failure backoff step. Zero means UpdateInterval.
	BackoffBase time.Duration
	// SpamSleep paces sequential deliveries. Negative delivers concurrently.
	SpamSleep            time.Duration
	NotificationTemplate string
	// FetchConcurrency caps parallel fetches per cycle. Zero is unlimited.
	FetchConcurrency int
	// FetchHostInterval is the minimum gap between requests to one host.
	FetchHostInterval time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		UpdateInterval:       60 * time.Minute,
		MaxBackoff:           7200 * time.Minute,
		SpamSleep:            2 * time.Second,
		NotificationTemplate: DefaultNotificationTemplate,
	}
}

// EffectiveBackoffBase returns BackoffBase, falling back to UpdateInterval.
func (s Settings) EffectiveBackoffBase() time.Duration {
	if s.BackoffBase > 0 {
		return s.BackoffBase
	}
	return s.UpdateInterval
}

func (s Settings) Validate() error {
	switch {
	case s.UpdateInterval < 0:
		return errors.New("update_interval must not be negative")
	case s.MaxBackoff < 0:
		return errors.New("max_backoff must not be negative")
	case s.BackoffBase < 0:
		return errors.New("backoff_base must not be negative")
	case s.FetchConcurrency < 0:
		return errors.New("fetch_concurrency must not be negative")
	case s.FetchHostInterval < 0:
		return errors.New("fetch_host_interval must not be negative")
	}
	return nil
}

// fileSettings mirrors the TOML file. Absent keys keep the current value.
type fileSettings struct {
	UpdateInterval       *float64 `toml:"update_interval"`
	MaxBackoff           *float64 `toml:"max_backoff"`
	BackoffBase          *float64 `toml:"backoff_base"`
	SpamSleep            *float64 `toml:"spam_sleep"`
	NotificationTemplate *string  `toml:"notification_template"`
	FetchConcurrency     *int     `toml:"fetch_concurrency"`
	FetchHostInterval    *float64 `toml:"fetch_host_interval"`
}

// LoadSettingsFile overlays the TOML file at path on top of base.
// Intervals are minutes, spam_sleep and fetch_host_interval are seconds.
func LoadSettingsFile(path string, base Settings) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("error reading settings file: %w", err)
	}

	var file fileSettings
	if err := toml.Unmarshal(data, &file); err != nil {
		return Settings{}, fmt.Errorf("error parsing settings file: %w", err)
	}

	s := base
	if file.UpdateInterval != nil {
		s.UpdateInterval = minutes(*file.UpdateInterval)
	}
	if file.MaxBackoff != nil {
		s.MaxBackoff = minutes(*file.MaxBackoff)
	}
	if file.BackoffBase != nil {
		s.BackoffBase = minutes(*file.BackoffBase)
	}
	if file.SpamSleep != nil {
		s.SpamSleep = seconds(*file.SpamSleep)
	}
	if file.NotificationTemplate != nil {
		s.NotificationTemplate = *file.NotificationTemplate
	}
	if file.FetchConcurrency != nil {
		s.FetchConcurrency = *file.FetchConcurrency
	}
	if file.FetchHostInterval != nil {
		s.FetchHostInterval = seconds(*file.FetchHostInterval)
	}
	return s, nil
}

func settingsFromEnv(s Settings) (Settings, error) {
	apply := []struct {
		key string
		set func(float64)
	}{
		{"RSSBOT_UPDATE_INTERVAL", func(v float64) { s.UpdateInterval = minutes(v) }},
		{"RSSBOT_MAX_BACKOFF", func(v float64) { s.MaxBackoff = minutes(v) }},
		{"RSSBOT_BACKOFF_BASE", func(v float64) { s.BackoffBase = minutes(v) }},
		{"RSSBOT_SPAM_SLEEP", func(v float64) { s.SpamSleep = seconds(v) }},
		{"RSSBOT_FETCH_CONCURRENCY", func(v float64) { s.FetchConcurrency = int(v) }},
		{"RSSBOT_FETCH_HOST_INTERVAL", func(v float64) { s.FetchHostInterval = seconds(v) }},
	}
	for _, a := range apply {
		value, ok, err := envFloat(a.key)
		if err != nil {
			return Settings{}, err
		}
		if ok {
			a.set(value)
		}
	}
	s.NotificationTemplate = envString("RSSBOT_NOTIFICATION_TEMPLATE", s.NotificationTemplate)
	return s, nil
}

func minutes(v float64) time.Duration {
	return time.Duration(v * float64(time.Minute))
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

// Runtime holds the live Settings. Readers get a consistent snapshot per call.
type Runtime struct {
	path    string
	base    Settings
	mu      sync.Mutex
	current atomic.Pointer[Settings]
}

// NewRuntime starts from initial. Reload re-applies the file at path on top of base.
func NewRuntime(path string, base, initial Settings) *Runtime {
	r := &Runtime{path: path, base: base}
	r.current.Store(&initial)
	return r
}

func (r *Runtime) Settings() Settings {
	return *r.current.Load()
}

// Set replaces the live settings.
func (r *Runtime) Set(s Settings) {
	r.current.Store(&s)
}

// Reload re-reads the settings file. On error the previous settings stay in effect.
func (r *Runtime) Reload() (Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.path == "" {
		return r.Settings(), nil
	}
	s, err := LoadSettingsFile(r.path, r.base)
	if err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	r.current.Store(&s)
	return s, nil
}
