package auto

import (
	"testing"

	"github.com/minios-linux/paneltrans/clipboard"
)

func TestParseMode(t *testing.T) {
	for _, m := range Modes {
		if got := ParseMode(m.String()); got != m {
			t.Fatalf("ParseMode(%q) = %v, want %v", m.String(), got, m)
		}
	}
	for _, in := range []string{"", "auto", "2", "selection+play"} {
		if got := ParseMode(in); got != ModeUnknown {
			t.Fatalf("ParseMode(%q) = %v, want unknown", in, got)
		}
	}
	if got := ParseMode(" Clipboard-Play "); got != ModeClipboardPlay {
		t.Fatalf("ParseMode is not case/space insensitive: %v", got)
	}
}

func TestModeFlagValue(t *testing.T) {
	var m Mode
	if err := m.Set("play-selection"); err != nil || m != ModePlaySelection {
		t.Fatalf("Set() = %v, %v", m, err)
	}
	if err := m.Set("bogus"); err == nil {
		t.Fatal("Set(bogus) should fail")
	}
	if m.Type() != "mode" {
		t.Fatalf("Type() = %q", m.Type())
	}
}

func TestResolveTable(t *testing.T) {
	sel, clip := clipboard.Selection, clipboard.Clipboard
	tests := []struct {
		mode Mode
		mods Modifiers
		want Action
	}{
		{ModeDisabled, 0, Action{Kind: None}},
		{ModeSelection, 0, Action{Kind: PopulateAndTranslate, Source: sel}},
		{ModeClipboard, 0, Action{Kind: PopulateAndTranslate, Source: clip}},
		{ModeSelectionPlay, 0, Action{Kind: PopulateAndTranslateAndPlay, Source: sel}},
		{ModeClipboardPlay, 0, Action{Kind: PopulateAndTranslateAndPlay, Source: clip}},
		{ModePlaySelection, 0, Action{Kind: PlaySelectionDirect, Source: sel}},
		{ModePlayClipboard, 0, Action{Kind: PlayClipboardDirect, Source: clip}},
		{ModeUnknown, 0, Action{Kind: None}},
		{Mode(99), 0, Action{Kind: None}},

		{ModeDisabled, Shift, Action{Kind: None}},
		{ModeSelection, Shift, Action{Kind: PopulateFromSelection, Source: sel}},
		{ModeSelectionPlay, Shift, Action{Kind: PopulateFromSelection, Source: sel}},
		{ModeClipboard, Shift, Action{Kind: PopulateFromClipboard, Source: clip}},
		{ModeClipboardPlay, Shift, Action{Kind: PopulateFromClipboard, Source: clip}},
		{ModePlaySelection, Shift, Action{Kind: PlaySelectionDirect, Source: sel}},
		{ModePlayClipboard, Shift, Action{Kind: PlayClipboardDirect, Source: clip}},
	}

	for _, trigger := range []Trigger{Primary, Secondary, SecondaryModified} {
		for _, tc := range tests {
			if got := Resolve(trigger, tc.mods, tc.mode); got != tc.want {
				t.Fatalf("Resolve(%v, %v, %v) = %v, want %v", trigger, tc.mods, tc.mode, got, tc.want)
			}
		}
	}
}

func TestResolveSecondarySelectionPlay(t *testing.T) {
	got := Resolve(Secondary, 0, ModeSelectionPlay)
	want := Action{Kind: PopulateAndTranslateAndPlay, Source: clipboard.Selection}
	if got != want {
		t.Fatalf("Resolve() = %v, want %v", got, want)
	}
	if !got.Translates() || !got.Captures() {
		t.Fatalf("Translates/Captures = %v/%v", got.Translates(), got.Captures())
	}
}

func TestEffectiveTrigger(t *testing.T) {
	tests := []struct {
		t    Trigger
		mods Modifiers
		want Trigger
	}{
		{Primary, 0, Primary},
		{Primary, Control, Primary},
		{Secondary, 0, Secondary},
		{Secondary, Shift, Secondary},
		{Secondary, Control, SecondaryModified},
		{Secondary, Control | Shift, SecondaryModified},
	}
	for _, tc := range tests {
		if got := EffectiveTrigger(tc.t, tc.mods); got != tc.want {
			t.Fatalf("EffectiveTrigger(%v, %v) = %v, want %v", tc.t, tc.mods, got, tc.want)
		}
	}
}

func TestControllerPress(t *testing.T) {
	modes := StaticModes{
		Primary:           ModeClipboard,
		Secondary:         ModeDisabled,
		SecondaryModified: ModePlaySelection,
	}

	t.Run("auto action opens the menu", func(t *testing.T) {
		c := NewController(modes)
		d := c.Press(Primary, 0)
		if d.Menu != MenuOpen || d.Action.Kind != PopulateAndTranslate || d.Action.Source != clipboard.Clipboard {
			t.Fatalf("Press() = %+v", d)
		}
		if !c.IsOpen() {
			t.Fatal("menu should be open")
		}

		d = c.Press(Primary, 0)
		if d.Menu != MenuClose || d.Action.Kind != None {
			t.Fatalf("second Press() = %+v", d)
		}
		if c.IsOpen() {
			t.Fatal("menu should be closed")
		}
	})

	t.Run("disabled mode only opens", func(t *testing.T) {
		c := NewController(modes)
		d := c.Press(Secondary, 0)
		if d.Menu != MenuOpen || d.Action.Kind != OpenOnly {
			t.Fatalf("Press() = %+v", d)
		}
	})

	t.Run("direct play keeps menu closed", func(t *testing.T) {
		c := NewController(modes)
		d := c.Press(Secondary, Control)
		if d.Trigger != SecondaryModified || d.Menu != MenuKeep || d.Action.Kind != PlaySelectionDirect {
			t.Fatalf("Press() = %+v", d)
		}
		if c.IsOpen() {
			t.Fatal("menu should stay closed")
		}
	})

	t.Run("external close", func(t *testing.T) {
		c := NewController(modes)
		c.Press(Primary, 0)
		c.Close()
		if d := c.Press(Primary, 0); d.Menu != MenuOpen {
			t.Fatalf("Press() after Close = %+v", d)
		}
	})
}

func TestStringers(t *testing.T) {
	a := Action{Kind: PopulateAndTranslateAndPlay, Source: clipboard.Selection}
	if got := a.String(); got != "populate-translate-play(selection)" {
		t.Fatalf("Action.String() = %q", got)
	}
	if got := (Action{Kind: OpenOnly}).String(); got != "open-only" {
		t.Fatalf("Action.String() = %q", got)
	}
	if got := SecondaryModified.String(); got != "secondary+ctrl" {
		t.Fatalf("Trigger.String() = %q", got)
	}
	if got := Mode(42).String(); got != "unknown" {
		t.Fatalf("Mode.String() = %q", got)
	}
}
