package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	AppName    = "rssbot"
	AppVersion = "0.4.0"
	AppRepo    = "https://github.com/maubot/rss"
)

// BotUserAgent identifies the poller to feed hosts.
var BotUserAgent = "Mozilla/5.0 (compatible; " + AppName + "/" + AppVersion + "; +" + AppRepo + ")"

// Chrome headers for TLS fingerprinting (must match azuretls Chrome profile version)
const (
	ChromeUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.0.0 Safari/537.36"
	ChromeSecChUa   = `"Google Chrome";v="135", "Chromium";v="135", "Not-A.Brand";v="8"`
)

type Config struct {
	Addr      string
	DBPath    string
	DataDir   string
	LogLevel  string
	LogFormat string
	NodeID    int64

	ProxyURL        string
	UserAgent       string
	FetchTimeout    time.Duration
	BrowserFallback bool

	SinkURL   string
	SinkToken string
	APIToken  string

	// SettingsPath is the optional TOML file holding the reloadable Settings.
	SettingsPath string
	Settings     Settings

	envSettings Settings
}

// Load reads a .env file when present, then RSSBOT_* variables, then the TOML settings file.
func Load() (Config, error) {
	_ = godotenv.Load()

	dataDir := envString("RSSBOT_DATA_DIR", "./data")
	dbPath := envString("RSSBOT_DB_PATH", filepath.Join(dataDir, "rssbot.db"))

	cfg := Config{
		Addr:            envString("RSSBOT_ADDR", ":8080"),
		DBPath:          filepath.Clean(dbPath),
		DataDir:         filepath.Clean(dataDir),
		LogLevel:        envString("RSSBOT_LOG_LEVEL", "info"),
		LogFormat:       envString("RSSBOT_LOG_FORMAT", "text"),
		ProxyURL:        envString("RSSBOT_PROXY_URL", ""),
		UserAgent:       envString("RSSBOT_USER_AGENT", BotUserAgent),
		BrowserFallback: true,
		SinkURL:         envString("RSSBOT_SINK_URL", ""),
		SinkToken:       envString("RSSBOT_SINK_TOKEN", ""),
		APIToken:        envString("RSSBOT_API_TOKEN", ""),
		SettingsPath:    envString("RSSBOT_CONFIG", ""),
	}

	var err error
	if cfg.NodeID, err = envInt("RSSBOT_NODE_ID", 0); err != nil {
		return Config{}, err
	}
	if cfg.FetchTimeout, err = envSeconds("RSSBOT_FETCH_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.BrowserFallback, err = envBool("RSSBOT_BROWSER_FALLBACK", true); err != nil {
		return Config{}, err
	}

	settings, err := settingsFromEnv(DefaultSettings())
	if err != nil {
		return Config{}, err
	}
	cfg.envSettings = settings
	if cfg.SettingsPath != "" {
		settings, err = LoadSettingsFile(cfg.SettingsPath, settings)
		if err != nil {
			return Config{}, err
		}
	}
	if err := settings.Validate(); err != nil {
		return Config{}, err
	}
	cfg.Settings = settings

	return cfg, nil
}

// NewRuntime returns the live settings holder. Reloads re-apply the settings file over the environment.
func (c Config) NewRuntime() *Runtime {
	return NewRuntime(c.SettingsPath, c.envSettings, c.Settings)
}

func envString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int64) (int64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}

func envFloat(key string) (float64, bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	return value, true, nil
}

func envBool(key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}

func envSeconds(key string, fallback time.Duration) (time.Duration, error) {
	value, ok, err := envFloat(key)
	if err != nil || !ok {
		return fallback, err
	}
	return seconds(value), nil
}
