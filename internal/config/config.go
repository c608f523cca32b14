package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	KeyLogsDir         = "logs.dir"
	KeyLogsPrefix      = "logs.prefix"
	KeyStatePath       = "state.path"
	KeyNamesPath       = "names.path"
	KeyDisplayTimezone = "display.timezone"
	KeyLogLevel        = "log.level"

	envPrefix  = "WHOSTHERE"
	configDir  = ".whosthere"
	configName = "config"
	configType = "toml"
)

// Config is the resolved configuration of one invocation.
type Config struct {
	Logs    LogsConfig    `mapstructure:"logs"`
	State   StateConfig   `mapstructure:"state"`
	Names   NamesConfig   `mapstructure:"names"`
	Display DisplayConfig `mapstructure:"display"`
	Log     LogConfig     `mapstructure:"log"`
}

type LogsConfig struct {
	Dir    string `mapstructure:"dir"`
	Prefix string `mapstructure:"prefix"`
}

type StateConfig struct {
	Path string `mapstructure:"path"`
}

type NamesConfig struct {
	Path string `mapstructure:"path"`
}

type DisplayConfig struct {
	Timezone string `mapstructure:"timezone"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// New returns a viper instance with defaults, the config file and
// WHOSTHERE_* environment overrides applied. Without an explicit configFile a
// missing $HOME/.whosthere/config.toml is not an error.
func New(configFile string) (*viper.Viper, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	v := viper.New()
	v.SetDefault(KeyLogsDir, ".")
	v.SetDefault(KeyLogsPrefix, "whosthere")
	v.SetDefault(KeyStatePath, filepath.Join(homeDir, configDir, "state.toml"))
	v.SetDefault(KeyNamesPath, filepath.Join(homeDir, configDir, "macs.txt"))
	v.SetDefault(KeyDisplayTimezone, "Europe/Amsterdam")
	v.SetDefault(KeyLogLevel, "info")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(filepath.Join(homeDir, configDir))
	}

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return v, nil
}

// Load decodes v into a Config. A leading "~" in path settings is expanded
// and written back to v so adapters reading v see the same paths.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	paths := map[string]*string{
		KeyLogsDir:   &cfg.Logs.Dir,
		KeyStatePath: &cfg.State.Path,
		KeyNamesPath: &cfg.Names.Path,
	}
	for key, path := range paths {
		expanded, err := expandHome(*path)
		if err != nil {
			return Config{}, err
		}
		if expanded != *path {
			*path = expanded
			v.Set(key, expanded)
		}
	}

	if strings.TrimSpace(cfg.Logs.Prefix) == "" {
		return Config{}, errors.New("logs prefix is empty")
	}

	return cfg, nil
}

// Location resolves the display timezone. An empty name means UTC.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(strings.TrimSpace(c.Display.Timezone))
	if err != nil {
		return nil, fmt.Errorf("load display timezone %q: %w", c.Display.Timezone, err)
	}

	return loc, nil
}

func NewLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLogLevel(level),
	}))
}

func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
}
