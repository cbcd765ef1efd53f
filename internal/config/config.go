package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	Clipboard string `mapstructure:"clipboard"`
	TrashDir  string `mapstructure:"trash_dir"`
	DBPath    string `mapstructure:"db_path"`
	Debug     bool   `mapstructure:"debug"`
}

var Default = Config{
	Clipboard: "auto",
}

// Dir returns the directory searched for config.yaml.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pbfiles"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "pbfiles"), nil
}

// Load reads configuration from file (if present) and PBFILES_* environment
// variables. An explicit path must exist; the default location may not.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName("config")
		v.AddConfigPath(dir)
	}

	v.SetDefault("clipboard", Default.Clipboard)
	v.SetDefault("trash_dir", Default.TrashDir)
	v.SetDefault("db_path", Default.DBPath)
	v.SetDefault("debug", Default.Debug)

	v.SetEnvPrefix("PBFILES")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
