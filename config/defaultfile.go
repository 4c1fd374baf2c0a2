package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/minios-linux/paneltrans/auto"
)

// WriteDefault writes a commented config file holding the defaults. An
// existing file is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0600)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(defaultDocument()); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func defaultDocument() *yaml.Node {
	d := Defaults()
	modes := ""
	for i, m := range auto.Modes {
		if i > 0 {
			modes += ", "
		}
		modes += m.String()
	}

	root := mapping(
		entry(KeyDefaultFrom, str(d.DefaultFrom),
			"Language selected as source after the language list loads.\nAny prefix of the English name works, e.g. \"eng\"."),
		entry(KeyDefaultTo, str(d.DefaultTo),
			"Language selected as target after the language list loads."),
		entry(KeyPrimaryMode, str(d.PrimaryAutoMode),
			"What a left click does before opening the panel.\nOne of: "+modes),
		entry(KeySecondaryMode, str(d.SecondaryAutoMode),
			"Same, for a middle click."),
		entry(KeySecondaryModMode, str(d.SecondaryModifierAutoMode),
			"Same, for a middle click with Ctrl held."),
		entry(KeyEngine, str(d.EngineID),
			"translate-shell engine; \"auto\" keeps the tool's default."),
		entry(KeyTool, str(d.ToolCommand),
			"Command used to run translate-shell, with optional fixed arguments."),
		entry("log", mapping(
			entry("level", str(d.Log.Level), "debug, info, warn or error"),
			entry("format", str(d.Log.Format), "pretty, text or json"),
			entry("file", str(d.Log.File), "Also write logs to this file, rotated. \"default\" uses the XDG state directory."),
			entry("max_size_mb", integer(d.Log.MaxSizeMB), ""),
			entry("max_backups", integer(d.Log.MaxBackups), ""),
			entry("max_age_days", integer(d.Log.MaxAgeDays), ""),
		), ""),
	)
	return &yaml.Node{Kind: yaml.DocumentNode, HeadComment: "paneltrans settings", Content: []*yaml.Node{root}}
}

type pair [2]*yaml.Node

func entry(key string, value *yaml.Node, comment string) pair {
	return pair{{Kind: yaml.ScalarNode, Tag: "!!str", Value: key, HeadComment: comment}, value}
}

func mapping(entries ...pair) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range entries {
		n.Content = append(n.Content, e[0], e[1])
	}
	return n
}

func str(s string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	if s == "" {
		n.Style = yaml.DoubleQuotedStyle
	}
	return n
}

func integer(i int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(i)}
}
