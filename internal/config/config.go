package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	AppName   = "keabook"
	EnvPrefix = "KEABOOK"
)

type Config struct {
	Database   DatabaseConfig `mapstructure:"database"`
	Defaults   DefaultsConfig `mapstructure:"defaults"`
	Log        LogConfig      `mapstructure:"log"`
	Export     ExportConfig   `mapstructure:"export"`
	ConfigPath string         `mapstructure:"-"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type DefaultsConfig struct {
	Currency string `mapstructure:"currency"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type ExportConfig struct {
	Dir       string `mapstructure:"dir"`
	OFXFormat string `mapstructure:"ofx_format"`
	Gzip      bool   `mapstructure:"gzip"`
}

func NewDefault() *Config {
	return &Config{
		Database: DatabaseConfig{Path: ""},
		Defaults: DefaultsConfig{Currency: "USD"},
		Log:      LogConfig{Level: "warn"},
		Export:   ExportConfig{Dir: ".", OFXFormat: "sgml"},
	}
}

// SetDefaults registers the defaults with v so that a freshly written
// config file lists every key.
func SetDefaults(v *viper.Viper) {
	d := NewDefault()
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("defaults.currency", d.Defaults.Currency)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("export.dir", d.Export.Dir)
	v.SetDefault("export.ofx_format", d.Export.OFXFormat)
	v.SetDefault("export.gzip", d.Export.Gzip)
}

// Load reads the config file at path, or config.yaml in dir when path is
// empty, writing a default one there first. A .env file in the working
// directory is loaded before the KEABOOK_ environment overrides are read.
func Load(v *viper.Viper, path, dir string) (*Config, error) {
	_ = godotenv.Load()

	SetDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		if err := writeDefault(v, dir); err != nil {
			return nil, fmt.Errorf("failed to ensure config file: %w", err)
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("config file error: %w", err)
		}
	}

	cfg := NewDefault()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %v", err)
	}
	cfg.ConfigPath = v.ConfigFileUsed()
	cfg.Defaults.Currency = strings.ToUpper(strings.TrimSpace(cfg.Defaults.Currency))

	if cfg.Database.Path == "" {
		cfg.Database.Path = filepath.Join(dir, AppName+".db")
	}
	var err error
	if cfg.Database.Path, err = ExpandPath(cfg.Database.Path); err != nil {
		return nil, err
	}
	if cfg.Export.Dir, err = ExpandPath(cfg.Export.Dir); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeDefault(v *viper.Viper, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}
	if err := v.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// AppDataDir is where the config file and the default database live.
func AppDataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to determine user home directory: %w", err)
		}
		return filepath.Join(home, "."+AppName), nil
	}

	return filepath.Join(configDir, AppName), nil
}

// ExpandPath replaces a leading ~ with the home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if path == "~" {
		return home, nil
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~\\") {
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
