// Package engine builds the command lines understood by translate-shell
// ("trans"): the language listing, text translation and spoken playback.
//
// Every command is an argument vector; the text to translate is a single
// argument and is never interpolated into a shell line.
package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anmitsu/go-shlex"

	"github.com/minios-linux/paneltrans/runner"
)

// ---------------------------------------------------------------------------
// Engine IDs (translate-shell -e values)
// ---------------------------------------------------------------------------

const (
	EngineAuto     = "auto"
	EngineGoogle   = "google"
	EngineBing     = "bing"
	EngineYandex   = "yandex"
	EngineApertium = "apertium"
	EngineSpell    = "spell"
	EngineHunspell = "hunspell"
)

// KnownEngines lists engine IDs with a short description, for shell
// completion and `paneltrans engines`.
var KnownEngines = []struct {
	ID   string
	Desc string
}{
	{EngineAuto, "Tool default"},
	{EngineGoogle, "Google Translate"},
	{EngineBing, "Bing Translator"},
	{EngineYandex, "Yandex.Translate"},
	{EngineApertium, "Apertium (open source, limited pairs)"},
	{EngineSpell, "GNU Aspell spell checking"},
	{EngineHunspell, "Hunspell spell checking"},
}

// IsKnown reports whether id is empty or one of KnownEngines.
func IsKnown(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return true
	}
	for _, e := range KnownEngines {
		if e.ID == id {
			return true
		}
	}
	return false
}

// DefaultTool is the program used when none is configured.
const DefaultTool = "trans"

// ---------------------------------------------------------------------------
// Tool
// ---------------------------------------------------------------------------

// Tool is the configured translation program, with any fixed leading
// arguments (for example "flatpak run org.example.Trans").
type Tool struct {
	Argv []string
}

// ParseTool splits a configured tool command line. An empty line selects
// DefaultTool.
func ParseTool(line string) (Tool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Tool{Argv: []string{DefaultTool}}, nil
	}
	argv, err := shlex.Split(line, true)
	if err != nil {
		return Tool{}, fmt.Errorf("parsing tool command %q: %w", line, err)
	}
	if len(argv) == 0 {
		return Tool{}, errors.New("tool command is empty")
	}
	return Tool{Argv: argv}, nil
}

func (t Tool) argv() []string {
	if len(t.Argv) == 0 {
		return []string{DefaultTool}
	}
	return t.Argv
}

func (t Tool) command(args ...string) runner.Command {
	argv := t.argv()
	full := make([]string, 0, len(argv)-1+len(args))
	full = append(full, argv[1:]...)
	full = append(full, args...)
	return runner.Command{Program: argv[0], Args: full}
}

// ListCommand asks the tool for every language it knows.
func (t Tool) ListCommand() runner.Command {
	return t.command("-list-all")
}

// TranslateCommand requests a brief (-b) translation of text.
func (t Tool) TranslateCommand(engine, from, to, text string) runner.Command {
	args := []string{"-b"}
	args = append(args, engineArgs(engine)...)
	args = append(args, from+":"+to, TextArg(text))
	return t.command(args...)
}

// PlayCommand asks the tool to speak text in the given language. The pair
// code:code makes the tool skip translation and only play the text.
func (t Tool) PlayCommand(engine, code, text string) runner.Command {
	args := []string{"-b", "-p"}
	args = append(args, engineArgs(engine)...)
	args = append(args, code+":"+code, TextArg(text))
	return t.command(args...)
}

func engineArgs(engine string) []string {
	engine = strings.TrimSpace(engine)
	if engine == "" || engine == EngineAuto {
		return nil
	}
	return []string{"-e", engine}
}

// TextArg prepares user text for use as a positional argument. Text that
// starts with '-' would be read as an option, so it is shifted by one
// space.
func TextArg(text string) string {
	if strings.HasPrefix(text, "-") {
		return " " + text
	}
	return text
}
