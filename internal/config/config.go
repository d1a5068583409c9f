package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"taskdeck/internal/todo"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "taskdeck.db"
	DefaultAPIURL         = "http://127.0.0.1:8080"
	DefaultListen         = "127.0.0.1:8080"
	DefaultErrorTimeoutMS = 3000

	// EnvConfigPath overrides the config location.
	EnvConfigPath = "TASKDECK_CONFIG"

	appDirName = "taskdeck"
)

type Keymap struct {
	Quit           string `toml:"quit"`
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Toggle         string `toml:"toggle"`
	Edit           string `toml:"edit"`
	Delete         string `toml:"delete"`
	Add            string `toml:"add"`
	ToggleAll      string `toml:"toggle_all"`
	ClearCompleted string `toml:"clear_completed"`
	Filter         string `toml:"filter"`
	Dismiss        string `toml:"dismiss"`
	Confirm        string `toml:"confirm"`
	Cancel         string `toml:"cancel"`
	Focus          string `toml:"focus"`
}

type Server struct {
	Listen string `toml:"listen"`
	DBPath string `toml:"db_path"`
}

type Config struct {
	APIURL           string `toml:"api_url"`
	UserID           int    `toml:"user_id"`
	DefaultFilter    string `toml:"default_filter"`
	ErrorTimeoutMS   int    `toml:"error_timeout_ms"`
	RequestTimeoutMS int    `toml:"request_timeout_ms"`
	LogFile          string `toml:"log_file"`
	LogLevel         string `toml:"log_level"`
	Server           Server `toml:"server"`
	Keys             Keymap `toml:"keys"`
}

// ResolveConfigPath picks $TASKDECK_CONFIG, falling back to the user config dir
// and finally the working directory.
func ResolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, appDirName, DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil && !errors.Is(err, os.ErrExist) {
			return err
		}
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func Default() Config {
	return Config{
		APIURL:         DefaultAPIURL,
		UserID:         1,
		DefaultFilter:  string(todo.FilterAll),
		ErrorTimeoutMS: DefaultErrorTimeoutMS,
		LogLevel:       "info",
		Server: Server{
			Listen: DefaultListen,
			DBPath: DefaultDBName,
		},
		Keys: defaultKeymap(),
	}
}

func defaultKeymap() Keymap {
	return Keymap{
		Quit:           "q",
		Up:             "k",
		Down:           "j",
		Toggle:         " ",
		Edit:           "enter",
		Delete:         "d",
		Add:            "a",
		ToggleAll:      "A",
		ClearCompleted: "C",
		Filter:         "f",
		Dismiss:        "x",
		Confirm:        "enter",
		Cancel:         "esc",
		Focus:          "tab",
	}
}

// fillDefaults replaces empty values left by a partial config file.
func (c *Config) fillDefaults() {
	d := Default()
	if strings.TrimSpace(c.APIURL) == "" {
		c.APIURL = d.APIURL
	}
	if strings.TrimSpace(c.DefaultFilter) == "" {
		c.DefaultFilter = d.DefaultFilter
	}
	if c.ErrorTimeoutMS <= 0 {
		c.ErrorTimeoutMS = d.ErrorTimeoutMS
	}
	if c.RequestTimeoutMS < 0 {
		c.RequestTimeoutMS = 0
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Server.Listen == "" {
		c.Server.Listen = d.Server.Listen
	}
	if c.Server.DBPath == "" {
		c.Server.DBPath = d.Server.DBPath
	}

	k, dk := &c.Keys, d.Keys
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&k.Quit, dk.Quit)
	fill(&k.Up, dk.Up)
	fill(&k.Down, dk.Down)
	fill(&k.Toggle, dk.Toggle)
	fill(&k.Edit, dk.Edit)
	fill(&k.Delete, dk.Delete)
	fill(&k.Add, dk.Add)
	fill(&k.ToggleAll, dk.ToggleAll)
	fill(&k.ClearCompleted, dk.ClearCompleted)
	fill(&k.Filter, dk.Filter)
	fill(&k.Dismiss, dk.Dismiss)
	fill(&k.Confirm, dk.Confirm)
	fill(&k.Cancel, dk.Cancel)
	fill(&k.Focus, dk.Focus)
}

func (c Config) Validate() error {
	if _, err := todo.ParseFilter(c.DefaultFilter); err != nil {
		return fmt.Errorf("default_filter: %w", err)
	}
	if c.UserID < 0 {
		return fmt.Errorf("user_id must not be negative, got %d", c.UserID)
	}
	return nil
}

func (c Config) Filter() todo.Filter {
	f, err := todo.ParseFilter(c.DefaultFilter)
	if err != nil {
		return todo.FilterAll
	}
	return f
}

func (c Config) ErrorTimeout() time.Duration {
	if c.ErrorTimeoutMS <= 0 {
		return DefaultErrorTimeoutMS * time.Millisecond
	}
	return time.Duration(c.ErrorTimeoutMS) * time.Millisecond
}

// RequestTimeout is zero when requests should use the transport default.
func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutMS <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}
