// Package auto maps the way the panel was opened (which button, which
// modifiers) and the user's configured auto mode to the action performed
// before the menu is shown.
package auto

import (
	"fmt"
	"strings"

	"github.com/minios-linux/paneltrans/clipboard"
	"github.com/spf13/pflag"
)

// ---------------------------------------------------------------------------
// Configured modes
// ---------------------------------------------------------------------------

// Mode is a configured auto behaviour for one trigger.
type Mode int

const (
	ModeUnknown Mode = iota
	ModeDisabled
	ModeSelection
	ModeClipboard
	ModeSelectionPlay
	ModeClipboardPlay
	ModePlaySelection
	ModePlayClipboard
)

var modeNames = map[Mode]string{
	ModeDisabled:      "disabled",
	ModeSelection:     "selection",
	ModeClipboard:     "clipboard",
	ModeSelectionPlay: "selection-play",
	ModeClipboardPlay: "clipboard-play",
	ModePlaySelection: "play-selection",
	ModePlayClipboard: "play-clipboard",
}

// Modes lists the valid modes in display order.
var Modes = []Mode{
	ModeDisabled, ModeSelection, ModeClipboard,
	ModeSelectionPlay, ModeClipboardPlay,
	ModePlaySelection, ModePlayClipboard,
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMode returns ModeUnknown for anything that is not a valid mode
// name. Unknown modes perform no action.
func ParseMode(s string) Mode {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == s {
			return m
		}
	}
	return ModeUnknown
}

var _ pflag.Value = (*Mode)(nil)

// Set implements pflag.Value. Unlike ParseMode it rejects unknown names.
func (m *Mode) Set(v string) error {
	parsed := ParseMode(v)
	if parsed == ModeUnknown {
		return fmt.Errorf("unknown auto mode %q", v)
	}
	*m = parsed
	return nil
}

// Type implements pflag.Value.
func (m *Mode) Type() string {
	return "mode"
}

// ---------------------------------------------------------------------------
// Triggers
// ---------------------------------------------------------------------------

// Trigger is the way the panel was activated. Each trigger has its own
// configured mode.
type Trigger int

const (
	Primary Trigger = iota
	Secondary
	SecondaryModified
)

func (t Trigger) String() string {
	switch t {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	case SecondaryModified:
		return "secondary+ctrl"
	}
	return fmt.Sprintf("Trigger(%d)", int(t))
}

// Modifiers is the set of modifier keys held during the click.
type Modifiers uint8

const (
	Control Modifiers = 1 << iota
	Shift
)

// Has reports whether all of m2 are held.
func (m Modifiers) Has(m2 Modifiers) bool {
	return m&m2 == m2
}

// EffectiveTrigger folds a secondary click with Control held into
// SecondaryModified.
func EffectiveTrigger(t Trigger, mods Modifiers) Trigger {
	if t == Secondary && mods.Has(Control) {
		return SecondaryModified
	}
	return t
}

// ---------------------------------------------------------------------------
// Actions
// ---------------------------------------------------------------------------

// Kind enumerates the actions.
type Kind int

const (
	None Kind = iota
	OpenOnly
	PopulateFromClipboard
	PopulateFromSelection
	PopulateAndTranslate
	PopulateAndTranslateAndPlay
	PlayClipboardDirect
	PlaySelectionDirect
)

var kindNames = [...]string{
	None:                        "none",
	OpenOnly:                    "open-only",
	PopulateFromClipboard:       "populate-clipboard",
	PopulateFromSelection:       "populate-selection",
	PopulateAndTranslate:        "populate-translate",
	PopulateAndTranslateAndPlay: "populate-translate-play",
	PlayClipboardDirect:         "play-clipboard-direct",
	PlaySelectionDirect:         "play-selection-direct",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Action is the resolved behaviour. Source is meaningful for the
// PopulateAndTranslate kinds; for the other populate and play kinds it
// mirrors the kind.
type Action struct {
	Kind   Kind
	Source clipboard.Source
}

func (a Action) String() string {
	switch a.Kind {
	case PopulateAndTranslate, PopulateAndTranslateAndPlay:
		return a.Kind.String() + "(" + a.Source.String() + ")"
	}
	return a.Kind.String()
}

// Translates reports whether the action issues a translation.
func (a Action) Translates() bool {
	return a.Kind == PopulateAndTranslate || a.Kind == PopulateAndTranslateAndPlay
}

// Captures reports whether the action reads the clipboard or selection.
func (a Action) Captures() bool {
	return a.Kind >= PopulateFromClipboard
}

// Resolve is the table from configured mode to action. The trigger only
// chooses which configured mode is passed in; holding Shift populates the
// text without translating it. Unknown modes resolve to None.
func Resolve(_ Trigger, mods Modifiers, mode Mode) Action {
	populateOnly := mods.Has(Shift)

	switch mode {
	case ModeSelection, ModeSelectionPlay:
		if populateOnly {
			return Action{Kind: PopulateFromSelection, Source: clipboard.Selection}
		}
		if mode == ModeSelectionPlay {
			return Action{Kind: PopulateAndTranslateAndPlay, Source: clipboard.Selection}
		}
		return Action{Kind: PopulateAndTranslate, Source: clipboard.Selection}
	case ModeClipboard, ModeClipboardPlay:
		if populateOnly {
			return Action{Kind: PopulateFromClipboard, Source: clipboard.Clipboard}
		}
		if mode == ModeClipboardPlay {
			return Action{Kind: PopulateAndTranslateAndPlay, Source: clipboard.Clipboard}
		}
		return Action{Kind: PopulateAndTranslate, Source: clipboard.Clipboard}
	case ModePlaySelection:
		return Action{Kind: PlaySelectionDirect, Source: clipboard.Selection}
	case ModePlayClipboard:
		return Action{Kind: PlayClipboardDirect, Source: clipboard.Clipboard}
	}
	return Action{Kind: None}
}
