// Package config resolves create-importmap settings from command-line flags,
// environment variables and an optional config file.
//
// Precedence, highest first: flags, CREATE_IMPORTMAP_* environment variables,
// config file, defaults. Without --config, a file named .importmaprc.json,
// .importmaprc.yaml or .importmaprc.toml in the base directory is used when
// present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	apperrors "github.com/matzehuels/create-importmap/pkg/errors"
	"github.com/matzehuels/create-importmap/pkg/packagejson"
)

// Config keys, shared with the command-line flag names.
const (
	KeyDev        = "dev"
	KeyJS         = "js"
	KeyBase       = "base"
	KeyOut        = "out"
	KeyConditions = "conditions"
	KeyMinify     = "minify"
	KeyInputMap   = "input-map"
	KeyLogLevel   = "log-level"
)

const (
	envPrefix      = "CREATE_IMPORTMAP"
	configName     = ".importmaprc"
	defaultJSONOut = "importmap.json"
	defaultJSOut   = "importmap.js"
)

// Config holds the resolved settings of one invocation.
type Config struct {
	Dev        bool     `mapstructure:"dev"`
	JS         bool     `mapstructure:"js"`
	Base       string   `mapstructure:"base"`
	Out        string   `mapstructure:"out"`
	Conditions []string `mapstructure:"conditions"`
	Minify     bool     `mapstructure:"minify"`
	InputMap   string   `mapstructure:"input-map"`
	LogLevel   string   `mapstructure:"log-level"`
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDev, false)
	v.SetDefault(KeyJS, false)
	v.SetDefault(KeyBase, ".")
	v.SetDefault(KeyOut, "")
	v.SetDefault(KeyConditions, packagejson.DefaultConditions)
	v.SetDefault(KeyMinify, false)
	v.SetDefault(KeyInputMap, "")
	v.SetDefault(KeyLogLevel, "warn")
}

// Load binds flags to v, reads the config file and returns the validated
// configuration. configFile may be empty.
func Load(v *viper.Viper, flags *pflag.FlagSet, configFile string) (*Config, error) {
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "config file %s", configFile)
		}
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(v.GetString(KeyBase))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "invalid log level %q", c.LogLevel)
	}
	for _, cond := range c.Conditions {
		if strings.TrimSpace(cond) == "" {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "export conditions cannot be empty")
		}
	}
	if c.Base == "" {
		return apperrors.New(apperrors.ErrCodeInvalidPath, "base directory cannot be empty")
	}
	return apperrors.ValidateOutputPath(c.OutputPath())
}

// OutputPath returns the configured output path or, when none is set,
// "importmap.js" in JavaScript mode and "importmap.json" otherwise.
func (c *Config) OutputPath() string {
	if c.Out != "" {
		return c.Out
	}
	if c.JS {
		return defaultJSOut
	}
	return defaultJSONOut
}

// Level returns the parsed log level, falling back to warn.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.WarnLevel
	}
	return level
}
