package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Neverdecel/VacAI/errors"
)

var globalConfig *Config
var viperInstance *viper.Viper

// Load reads the configuration, caching it for the process lifetime
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	globalConfig = &config
	return globalConfig, nil
}

// LoadFromFile loads configuration from a specific file, skipping the
// merge chain (used by --config)
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	SetDefaults(v)
	BindSensitiveEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read config file %s", configPath)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrapf(err, "unmarshal config from %s", configPath)
	}
	return &config, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
}

// initViper sets up sources and defaults exactly once
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	v.SetEnvPrefix("VACAI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	BindSensitiveEnvVars(v)
	SetDefaults(v)
	mergeConfigFiles(v)

	viperInstance = v
	return v
}

// ConfigDir returns ~/.vacai, creating it if needed
func ConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".vacai"
	}
	dir := filepath.Join(homeDir, ".vacai")
	os.MkdirAll(dir, DefaultDirPermissions)
	return dir
}

// findProjectConfig walks up from the working directory looking for
// vacai.toml
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(dir, "vacai.toml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// mergeConfigFiles merges config files in precedence order
// (lowest to highest): system < user < project. Env vars beat them all.
func mergeConfigFiles(v *viper.Viper) {
	configPaths := []string{
		"/etc/vacai/config.toml",
		filepath.Join(ConfigDir(), "config.toml"),
	}
	if projectConfig := findProjectConfig(); projectConfig != "" {
		configPaths = append(configPaths, projectConfig)
	}

	for _, configPath := range configPaths {
		if _, err := os.Stat(configPath); err != nil {
			continue
		}
		tempViper := viper.New()
		tempViper.SetConfigFile(configPath)
		tempViper.SetConfigType("toml")
		if err := tempViper.ReadInConfig(); err != nil {
			continue
		}
		for key, value := range tempViper.AllSettings() {
			v.Set(key, value)
		}
	}
}

// ProfilePath resolves the candidate profile location
func (c *Config) ProfilePath() string {
	if c.Profile.Path != "" {
		return c.Profile.Path
	}
	return filepath.Join(ConfigDir(), "profile.json")
}
