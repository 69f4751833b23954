package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds defaults read from the user's config file. Every field maps
// to a command-line flag; flags given explicitly always win.
type Config struct {
	Lang      string   `toml:"lang"`      // language code, e.g. "fr"
	Wiki      string   `toml:"wiki"`      // wiki host override
	Variant   string   `toml:"variant"`   // language variant, e.g. "zh-tw"
	Proxy     string   `toml:"proxy"`     // HTTP proxy URL
	Timeout   string   `toml:"timeout"`   // Go duration string, e.g. "30s"
	Skip      []string `toml:"skip"`      // actions that must never be fetched
	Silent    bool     `toml:"silent"`    // suppress notices and the dump
	UserAgent string   `toml:"useragent"` // User-Agent override
}

// configEnv overrides the config file location when set.
const configEnv = "WIKIFETCH_CONFIG"

// configPath returns the config file location: $WIKIFETCH_CONFIG if set,
// otherwise <user config dir>/wikifetch/config.toml.
func configPath() string {
	if p := os.Getenv(configEnv); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "wikifetch", "config.toml")
}

// loadConfig reads and parses the TOML config file at path.
// A missing file is not an error; it yields the zero Config.
func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// timeoutDuration parses the Timeout field. An empty field yields zero,
// which means wait indefinitely.
func (c Config) timeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("config timeout %q: %w", c.Timeout, err)
	}
	return d, nil
}
