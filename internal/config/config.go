// Package config loads the daemon configuration from YAML, with
// defaults that work without any file present.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Accepted ranges for the timing parameters. Values outside are clamped
// at load so a hand-edited config cannot disable the tamper check.
const (
	MinToleranceMS = 5_000
	MaxToleranceMS = 60_000
	MinHeartbeatMS = 1_000
	MaxHeartbeatMS = 60_000
)

// Config holds the daemon configuration.
type Config struct {
	StatePath      string `yaml:"state_path"`
	JournalPath    string `yaml:"journal_path"`
	BlocklistPath  string `yaml:"blocklist_path"`
	StatusPath     string `yaml:"status_path"`
	PassphraseFile string `yaml:"passphrase_file"`

	// BudgetMS is the initial window adopted when no prior state exists,
	// or when a corrupted state is replaced. Typically a punitive maximum.
	BudgetMS int64 `yaml:"budget_ms"`

	ToleranceMS int64 `yaml:"tolerance_ms"`
	HeartbeatMS int64 `yaml:"heartbeat_ms"`
}

// Default returns the built-in configuration rooted at the user's home
// directory.
func Default() Config {
	root := dataDir()
	return Config{
		StatePath:     filepath.Join(root, ".fence"),
		JournalPath:   filepath.Join(root, "journal.db"),
		BlocklistPath: filepath.Join(root, "blocklist.yaml"),
		StatusPath:    filepath.Join(root, "status.json"),
		BudgetMS:      int64(time.Hour / time.Millisecond),
		ToleranceMS:   30_000,
		HeartbeatMS:   10_000,
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(dataDir(), "config.yaml")
}

func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "timefence")
	}
	return filepath.Join(home, ".timefence")
}

// Load reads a config file, filling unset fields from Default and
// clamping the timing parameters. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.clamp()
	return cfg, nil
}

func (c *Config) clamp() {
	if c.ToleranceMS < MinToleranceMS {
		c.ToleranceMS = MinToleranceMS
	}
	if c.ToleranceMS > MaxToleranceMS {
		c.ToleranceMS = MaxToleranceMS
	}
	if c.HeartbeatMS < MinHeartbeatMS {
		c.HeartbeatMS = MinHeartbeatMS
	}
	if c.HeartbeatMS > MaxHeartbeatMS {
		c.HeartbeatMS = MaxHeartbeatMS
	}
	if c.BudgetMS < 0 {
		c.BudgetMS = 0
	}
}

// Heartbeat returns the heartbeat period as a duration.
func (c Config) Heartbeat() time.Duration {
	return time.Duration(c.HeartbeatMS) * time.Millisecond
}

// Save writes the config as YAML, creating parent directories.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Passphrase resolves the state passphrase: the passphrase file when
// configured, otherwise the TIMEFENCE_PASSPHRASE environment variable.
// Never persisted by the daemon.
func (c Config) Passphrase() ([]byte, error) {
	if c.PassphraseFile != "" {
		data, err := os.ReadFile(c.PassphraseFile)
		if err != nil {
			return nil, fmt.Errorf("config: read passphrase file: %w", err)
		}
		pass := strings.TrimRight(string(data), "\r\n")
		if pass == "" {
			return nil, fmt.Errorf("config: passphrase file %s is empty", c.PassphraseFile)
		}
		return []byte(pass), nil
	}

	if pass := os.Getenv("TIMEFENCE_PASSPHRASE"); pass != "" {
		return []byte(pass), nil
	}

	return nil, fmt.Errorf("config: no passphrase: set passphrase_file or TIMEFENCE_PASSPHRASE")
}
