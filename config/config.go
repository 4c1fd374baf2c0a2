// Package config loads the panel settings: default languages, the auto
// mode of each trigger, the translation engine, the tool command line and
// logging. Settings come from config.yaml, PANELTRANS_* environment
// variables and built-in defaults, in that order of precedence.
package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/minios-linux/paneltrans/auto"
	"github.com/minios-linux/paneltrans/engine"
)

// Setting keys, as written in config.yaml.
const (
	KeyDefaultFrom      = "default-from-language"
	KeyDefaultTo        = "default-to-language"
	KeyPrimaryMode      = "primary-auto-mode"
	KeySecondaryMode    = "secondary-auto-mode"
	KeySecondaryModMode = "secondary-modifier-auto-mode"
	KeyEngine           = "engine"
	KeyTool             = "tool"
	KeyLogLevel         = "log.level"
	KeyLogFormat        = "log.format"
	KeyLogFile          = "log.file"
	KeyLogMaxSizeMB     = "log.max_size_mb"
	KeyLogMaxBackups    = "log.max_backups"
	KeyLogMaxAgeDays    = "log.max_age_days"
)

// LogSettings configures the logging package.
type LogSettings struct {
	// Level is debug, info, warn or error.
	Level string `mapstructure:"level" yaml:"level"`
	// Format is pretty, text or json.
	Format string `mapstructure:"format" yaml:"format"`
	// File enables rotated file output when non-empty.
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
}

// Settings is one decoded configuration.
type Settings struct {
	DefaultFrom               string      `mapstructure:"default-from-language" yaml:"default-from-language"`
	DefaultTo                 string      `mapstructure:"default-to-language" yaml:"default-to-language"`
	PrimaryAutoMode           string      `mapstructure:"primary-auto-mode" yaml:"primary-auto-mode"`
	SecondaryAutoMode         string      `mapstructure:"secondary-auto-mode" yaml:"secondary-auto-mode"`
	SecondaryModifierAutoMode string      `mapstructure:"secondary-modifier-auto-mode" yaml:"secondary-modifier-auto-mode"`
	EngineID                  string      `mapstructure:"engine" yaml:"engine"`
	ToolCommand               string      `mapstructure:"tool" yaml:"tool"`
	Log                       LogSettings `mapstructure:"log" yaml:"log"`

	// Source is the file the settings were read from; empty when only
	// defaults and the environment applied.
	Source string `mapstructure:"-" yaml:"-"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		PrimaryAutoMode:           auto.ModeDisabled.String(),
		SecondaryAutoMode:         auto.ModeDisabled.String(),
		SecondaryModifierAutoMode: auto.ModeDisabled.String(),
		EngineID:                  engine.EngineAuto,
		ToolCommand:               engine.DefaultTool,
		Log: LogSettings{
			Level:      "info",
			Format:     "pretty",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// DefaultFromLanguage is the language name prefix selected as source
// after each catalog refresh.
func (s *Settings) DefaultFromLanguage() string { return s.DefaultFrom }

// DefaultToLanguage is the language name prefix selected as target after
// each catalog refresh.
func (s *Settings) DefaultToLanguage() string { return s.DefaultTo }

// Engine is the translate-shell engine id.
func (s *Settings) Engine() string { return s.EngineID }

// Tool is the translate-shell command line.
func (s *Settings) Tool() string { return s.ToolCommand }

// AutoMode returns the configured mode for t. Unrecognized values yield
// auto.ModeUnknown, which performs no action.
func (s *Settings) AutoMode(t auto.Trigger) auto.Mode {
	switch t {
	case auto.Primary:
		return auto.ParseMode(s.PrimaryAutoMode)
	case auto.Secondary:
		return auto.ParseMode(s.SecondaryAutoMode)
	case auto.SecondaryModified:
		return auto.ParseMode(s.SecondaryModifierAutoMode)
	}
	return auto.ModeUnknown
}

// Validate reports settings that will be ignored at run time. Loading
// never fails on them: an unknown auto mode simply disables the trigger.
func (s *Settings) Validate() error {
	var problems []string
	for _, kv := range [][2]string{
		{KeyPrimaryMode, s.PrimaryAutoMode},
		{KeySecondaryMode, s.SecondaryAutoMode},
		{KeySecondaryModMode, s.SecondaryModifierAutoMode},
	} {
		if auto.ParseMode(kv[1]) == auto.ModeUnknown {
			problems = append(problems, fmt.Sprintf("%s: unknown mode %q", kv[0], kv[1]))
		}
	}
	if _, err := engine.ParseTool(s.ToolCommand); err != nil {
		problems = append(problems, fmt.Sprintf("%s: %v", KeyTool, err))
	}
	if !engine.IsKnown(s.EngineID) {
		problems = append(problems, fmt.Sprintf("%s: unknown engine %q", KeyEngine, s.EngineID))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid settings: %s", strings.Join(problems, "; "))
	}
	return nil
}

// YAML renders the effective settings.
func (s *Settings) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}
