// Package config provides constants and layered runtime configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "countrykit"

	// ConfigFileName is the configuration file name, without extension.
	ConfigFileName = "countrykit"

	// EnvPrefix prefixes the environment variables read by Load.
	EnvPrefix = "COUNTRYKIT"

	// DefaultDebounce is the quiet period before a picker search runs.
	DefaultDebounce = 300 * time.Millisecond

	// PickerQueueSize bounds the pending jobs and events of a picker session.
	PickerQueueSize = 16

	// DefaultSearchCacheSize is the number of search outcomes kept per list.
	DefaultSearchCacheSize = 128

	// DefaultSearchCacheTTL is how long a search outcome stays cached.
	DefaultSearchCacheTTL = 10 * time.Minute

	// DefaultConcurrency is the default batch lookup concurrency.
	DefaultConcurrency = 8

	// MaxConcurrency is the maximum allowed batch lookup concurrency.
	MaxConcurrency = 64
)

// Config keys. Each matches a command line flag.
const (
	KeyInclude   = "include"
	KeyRoster    = "roster"
	KeyExclude   = "exclude"
	KeySort      = "sort"
	KeyPin       = "pin"
	KeyPolicy    = "policy"
	KeyLang      = "lang"
	KeyJSON      = "json"
	KeyHighlight = "highlight"
	KeyResources = "resources"
	KeyLogLevel  = "log-level"
	KeyWorldwide = "worldwide"
	KeyUnknown   = "unknown"
)

// Config holds runtime configuration.
type Config struct {
	Include   string   `mapstructure:"include"`
	Roster    []string `mapstructure:"roster"`
	Exclude   []string `mapstructure:"exclude"`
	Sort      string   `mapstructure:"sort"`
	Pin       []string `mapstructure:"pin"`
	Policy    string   `mapstructure:"policy"`
	Lang      string   `mapstructure:"lang"`
	JSON      bool     `mapstructure:"json"`
	Highlight string   `mapstructure:"highlight"`
	Resources string   `mapstructure:"resources"`
	LogLevel  string   `mapstructure:"log-level"`
	Worldwide bool     `mapstructure:"worldwide"`
	Unknown   bool     `mapstructure:"unknown"`
}

// Defaults returns the values used when neither a file, the environment
// nor a flag sets a key.
func Defaults() map[string]any {
	return map[string]any{
		KeyInclude:   "all",
		KeySort:      "name",
		KeyPin:       []string{"US", "CA", "MX"},
		KeyPolicy:    "or",
		KeyLang:      "en",
		KeyHighlight: "brackets",
		KeyLogLevel:  "warn",
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	d := Defaults()
	return &Config{
		Include:   d[KeyInclude].(string),
		Sort:      d[KeySort].(string),
		Pin:       d[KeyPin].([]string),
		Policy:    d[KeyPolicy].(string),
		Lang:      d[KeyLang].(string),
		Highlight: d[KeyHighlight].(string),
		LogLevel:  d[KeyLogLevel].(string),
	}
}

// UserConfigDir returns the directory searched for the user configuration
// file.
func UserConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}
	return filepath.Join(dir, AppName), nil
}

// Load layers the configuration: defaults, then countrykit.yaml from the
// user config directory or the working directory (or path, when set), then
// COUNTRYKIT_* environment variables, then the flags of cmd.
func Load(cmd *cobra.Command, path string) (*Config, error) {
	v := viper.New()

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	}
	if dir, err := UserConfigDir(); err == nil {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &c, nil
}
