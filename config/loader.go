package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/minios-linux/paneltrans/settings"
)

// EnvPrefix prefixes environment overrides: PANELTRANS_ENGINE,
// PANELTRANS_DEFAULT_TO_LANGUAGE, PANELTRANS_LOG_LEVEL and so on.
const EnvPrefix = "PANELTRANS"

// searchPaths lists config directories; the first one holding a config
// file wins.
func searchPaths() []string {
	var paths []string
	if dir, err := settings.ConfigDir(); err == nil {
		paths = append(paths, dir)
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", settings.AppName))
	}
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, cwd)
	}
	return paths
}

// newViper builds a viper instance with defaults, env binding and either
// the explicit cfgFile or the standard search path.
func newViper(cfgFile string) *viper.Viper {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(strings.TrimSuffix(settings.ConfigFileName, ".yaml"))
		v.SetConfigType("yaml")
		for _, p := range searchPaths() {
			v.AddConfigPath(p)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults(v, Defaults())
	return v
}

func setDefaults(v *viper.Viper, d Settings) {
	v.SetDefault(KeyDefaultFrom, d.DefaultFrom)
	v.SetDefault(KeyDefaultTo, d.DefaultTo)
	v.SetDefault(KeyPrimaryMode, d.PrimaryAutoMode)
	v.SetDefault(KeySecondaryMode, d.SecondaryAutoMode)
	v.SetDefault(KeySecondaryModMode, d.SecondaryModifierAutoMode)
	v.SetDefault(KeyEngine, d.EngineID)
	v.SetDefault(KeyTool, d.ToolCommand)
	v.SetDefault(KeyLogLevel, d.Log.Level)
	v.SetDefault(KeyLogFormat, d.Log.Format)
	v.SetDefault(KeyLogFile, d.Log.File)
	v.SetDefault(KeyLogMaxSizeMB, d.Log.MaxSizeMB)
	v.SetDefault(KeyLogMaxBackups, d.Log.MaxBackups)
	v.SetDefault(KeyLogMaxAgeDays, d.Log.MaxAgeDays)
}

// readConfig reads the config file. A missing file in the search path is
// not an error; a missing explicit file is.
func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

func decode(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	s.Source = v.ConfigFileUsed()
	return &s, nil
}

// Load reads the settings. cfgFile overrides the search path when set.
func Load(cfgFile string) (*Settings, error) {
	v := newViper(cfgFile)
	if err := readConfig(v); err != nil {
		return nil, err
	}
	return decode(v)
}
