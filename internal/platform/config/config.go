package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	appDirName     = ".tasktracker"
	configFileName = "config.yaml"
	dbFileName     = "tasktracker.db"
)

type Config struct {
	Path      string          `yaml:"-"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	Countdown CountdownConfig `yaml:"countdown"`
	Pomodoro  PomodoroConfig  `yaml:"pomodoro"`
	UI        UIConfig        `yaml:"ui"`
	Notifier  NotifierConfig  `yaml:"notifier"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type CountdownConfig struct {
	LowTimeSeconds int `yaml:"low_time_seconds"`
	GraceSeconds   int `yaml:"grace_seconds"`
}

// MaxSessionMinutes caps work_minutes and rest_minutes.
const MaxSessionMinutes = 24 * 60

type PomodoroConfig struct {
	WorkMinutes int `yaml:"work_minutes"`
	RestMinutes int `yaml:"rest_minutes"`
}

type UIConfig struct {
	TickMS int `yaml:"tick_ms"`
}

type NotifierConfig struct {
	Plugins []string `yaml:"plugins"`
}

// Default returns the built-in configuration rooted at dir.
func Default(dir string) Config {
	return Config{
		Path:      filepath.Join(dir, configFileName),
		Server:    ServerConfig{Addr: "127.0.0.1:8080"},
		Storage:   StorageConfig{DBPath: filepath.Join(dir, dbFileName)},
		Log:       LogConfig{Level: "info"},
		Countdown: CountdownConfig{LowTimeSeconds: 900, GraceSeconds: 60},
		Pomodoro:  PomodoroConfig{WorkMinutes: 25, RestMinutes: 5},
		UI:        UIConfig{TickMS: 1000},
	}
}

// DefaultPath resolves ~/.tasktracker/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, appDirName, configFileName), nil
}

// Load reads the YAML file at path. A missing file yields defaults.
// Values that do not make sense are replaced by their defaults.
func Load(path string) (Config, error) {
	if path == "" {
		resolved, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		path = resolved
	}
	cfg := Default(filepath.Dir(path))
	cfg.Path = path

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var fileData Config
	if err := yaml.Unmarshal(raw, &fileData); err != nil {
		return Config{}, fmt.Errorf("parse config yaml: %w", err)
	}
	apply(&cfg, fileData)
	return cfg, nil
}

// Save writes cfg to cfg.Path, creating the directory when needed.
func Save(cfg Config) error {
	if cfg.Path == "" {
		return fmt.Errorf("config path is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	serialized, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}
	if err := os.WriteFile(cfg.Path, serialized, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func (c Config) LowTimeThreshold() time.Duration {
	return time.Duration(c.Countdown.LowTimeSeconds) * time.Second
}

func (c Config) DeadlineGrace() time.Duration {
	return time.Duration(c.Countdown.GraceSeconds) * time.Second
}

func (c Config) TickInterval() time.Duration {
	return time.Duration(c.UI.TickMS) * time.Millisecond
}

func apply(cfg *Config, fileData Config) {
	if fileData.Server.Addr != "" {
		cfg.Server.Addr = fileData.Server.Addr
	}
	if fileData.Storage.DBPath != "" {
		cfg.Storage.DBPath = fileData.Storage.DBPath
	}
	switch fileData.Log.Level {
	case "trace", "debug", "info", "warn", "error", "off":
		cfg.Log.Level = fileData.Log.Level
	}
	cfg.Log.JSON = fileData.Log.JSON
	if fileData.Countdown.LowTimeSeconds > 0 {
		cfg.Countdown.LowTimeSeconds = fileData.Countdown.LowTimeSeconds
	}
	if grace := fileData.Countdown.GraceSeconds; grace > 0 && grace <= 900 {
		cfg.Countdown.GraceSeconds = grace
	}
	if work := fileData.Pomodoro.WorkMinutes; work > 0 && work <= MaxSessionMinutes {
		cfg.Pomodoro.WorkMinutes = work
	}
	if rest := fileData.Pomodoro.RestMinutes; rest > 0 && rest <= MaxSessionMinutes {
		cfg.Pomodoro.RestMinutes = rest
	}
	if fileData.UI.TickMS >= 100 {
		cfg.UI.TickMS = fileData.UI.TickMS
	}
	if len(fileData.Notifier.Plugins) > 0 {
		cfg.Notifier.Plugins = append([]string(nil), fileData.Notifier.Plugins...)
	}
}
