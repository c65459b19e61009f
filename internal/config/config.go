package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Tiliavir/remylog/internal/model"
	"github.com/Tiliavir/remylog/internal/recency"
)

// Config is the root configuration for remylog, stored in ~/.remylog/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	// DataFile is the JSON event log. Empty = ~/.remylog/log.json.
	DataFile string `json:"data_file"`
	// ListenAddr is the address `remylog serve` binds to.
	ListenAddr string `json:"listen_addr"`
	// Timezone is the IANA timezone used for day boundaries. Empty = local.
	Timezone string `json:"timezone"`
	// ServerURL makes the CLI talk to a running server instead of DataFile.
	ServerURL string `json:"server_url"`
	// ServerToken is sent as a bearer token to ServerURL when set.
	ServerToken string `json:"server_token"`
	// StaleMinutes maps an activity label to its highlight threshold.
	StaleMinutes map[string]int `json:"stale_minutes"`
	// TrackedTypes lists the activities shown in the "time since" panel.
	TrackedTypes []string `json:"tracked_types"`
}

const (
	// DefaultListenAddr is the address "remylog serve" binds by default.
	DefaultListenAddr = ":3001"
	// DefaultWeeStaleMinutes is the Wee highlight threshold.
	DefaultWeeStaleMinutes = 90
)

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig() Config {
	return Config{
		ListenAddr:   DefaultListenAddr,
		StaleMinutes: map[string]int{string(model.Wee): DefaultWeeStaleMinutes},
		TrackedTypes: []string{string(model.Wee), string(model.Poop), string(model.Meal)},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// remylog configuration – ~/.remylog/config.json
//
// All settings are optional; the built-in defaults shown below work out of
// the box. Command-line flags override these values.
{
  // JSON file holding the activity log. Empty = ~/.remylog/log.json.
  // Override with: remylog --data <file>
  "data_file": "",

  // Address for "remylog serve". Override with: remylog serve --addr <addr>
  "listen_addr": ":3001",

  // IANA timezone used to decide which day an event belongs to,
  // e.g. "Europe/Berlin". Leave empty to use the system timezone.
  "timezone": "",

  // URL of a running "remylog serve" instance, e.g. "http://192.168.1.171:3001".
  // When set, CLI commands read and write through the server.
  "server_url": "",

  // Bearer token sent to server_url, for servers behind an authenticating proxy.
  "server_token": "",

  // Minutes after which "time since" is highlighted, per activity.
  "stale_minutes": {
    "Wee": 90
  },

  // Activities shown in the "time since" panel.
  "tracked_types": ["Wee", "Poop", "Meal"]
}
`

// DefaultPath returns the path to ~/.remylog/config.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".remylog", "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads the config at path (DefaultPath when empty), creating it with
// annotated defaults on first run. Lines starting with // are treated as
// comments and stripped before JSON parsing.
func Load(path string, logger *slog.Logger) (Config, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return defaultConfig(), err
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			logger.Warn("could not create config file", "path", path, "error", writeErr)
		} else {
			logger.Debug("wrote default config", "path", path)
		}
		return defaultConfig(), nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cleaned := stripLineComments(data)
	var cfg Config
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user only partially fills in the file.
	def := defaultConfig()
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = def.ListenAddr
	}
	if cfg.StaleMinutes == nil {
		cfg.StaleMinutes = def.StaleMinutes
	}
	if len(cfg.TrackedTypes) == 0 {
		cfg.TrackedTypes = def.TrackedTypes
	}

	return cfg, nil
}

// Location resolves Timezone, falling back to time.Local when empty.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Reporter builds the recency reporter described by the config.
func (c Config) Reporter() recency.Reporter {
	rp := recency.Reporter{StaleAfter: map[model.ActivityType]time.Duration{}}
	for _, typ := range c.TrackedTypes {
		rp.Tracked = append(rp.Tracked, model.ActivityType(typ))
	}
	for typ, minutes := range c.StaleMinutes {
		if minutes > 0 {
			rp.StaleAfter[model.ActivityType(typ)] = time.Duration(minutes) * time.Minute
		}
	}
	return rp
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
