package panel

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/minios-linux/paneltrans/auto"
	"github.com/minios-linux/paneltrans/clipboard"
	"github.com/minios-linux/paneltrans/runner"
	"github.com/minios-linux/paneltrans/session"
)

const listing = "en   English   English\n" +
	"fr   French    Français\n"

type testConfig struct {
	from, to, engine, tool string
}

func (c *testConfig) DefaultFromLanguage() string { return c.from }
func (c *testConfig) DefaultToLanguage() string   { return c.to }
func (c *testConfig) Engine() string              { return c.engine }
func (c *testConfig) Tool() string                { return c.tool }

func respond(translation string) func(runner.Command) runner.Result {
	return func(cmd runner.Command) runner.Result {
		if cmd.Args[len(cmd.Args)-1] == "-list-all" {
			return runner.Result{Stdout: listing}
		}
		return runner.Result{Stdout: translation}
	}
}

func newPanel(t *testing.T, f *runner.Fake, cfg *testConfig, clip clipboard.Reader, modes auto.StaticModes) *Panel {
	t.Helper()
	s, err := session.New(session.Options{Runner: f, Config: cfg, Clipboard: clip})
	if err != nil {
		t.Fatalf("session.New() error: %v", err)
	}
	return New(s, modes, nil)
}

func wait(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("press did not complete")
		return nil
	}
}

func countList(cmds []runner.Command) int {
	n := 0
	for _, c := range cmds {
		if c.String() == "trans -list-all" {
			n++
		}
	}
	return n
}

func TestPressRefreshesEmptyCatalog(t *testing.T) {
	f := &runner.Fake{Respond: respond("")}
	p := newPanel(t, f, &testConfig{from: "eng", to: "fr"}, nil, nil)

	act := p.Press(context.Background(), auto.Primary, 0)
	if act.Decision.Action.Kind != auto.OpenOnly || act.Decision.Menu != auto.MenuOpen {
		t.Fatalf("Decision = %+v", act.Decision)
	}
	if err := wait(t, act.Done); err != nil {
		t.Fatalf("Done = %v", err)
	}
	if !p.MenuOpen() {
		t.Fatal("menu should be open")
	}
	if p.Session().Catalog().Len() != 2 {
		t.Fatalf("catalog not loaded: %d", p.Session().Catalog().Len())
	}
	snap := p.Session().Snapshot()
	if snap.From == nil || snap.From.Code != "en" || snap.To == nil || snap.To.Code != "fr" {
		t.Fatalf("defaults = %+v / %+v", snap.From, snap.To)
	}

	act = p.Press(context.Background(), auto.Primary, 0)
	if act.Decision.Menu != auto.MenuClose {
		t.Fatalf("second press = %+v", act.Decision)
	}
	wait(t, act.Done)
	if n := countList(f.Calls()); n != 1 {
		t.Fatalf("listing ran %d times, want 1", n)
	}
}

func TestPressFailedRefreshRetries(t *testing.T) {
	f := &runner.Fake{Respond: runner.Exit(runner.ExitNotFound)}
	p := newPanel(t, f, &testConfig{}, nil, nil)

	wait(t, p.Press(context.Background(), auto.Primary, 0).Done)
	if st := p.Session().Status(); st.State != session.CatalogUnavailable {
		t.Fatalf("State = %v", st.State)
	}
	wait(t, p.Press(context.Background(), auto.Primary, 0).Done)
	wait(t, p.Press(context.Background(), auto.Primary, 0).Done)
	if n := countList(f.Calls()); n != 3 {
		t.Fatalf("listing ran %d times, want one per press", n)
	}
}

func TestPressAutoTranslateAndPlay(t *testing.T) {
	f := &runner.Fake{Respond: respond("bonjour\n")}
	clip := clipboard.Static{clipboard.Selection: "hello"}
	p := newPanel(t, f, &testConfig{from: "en", to: "fr"}, clip,
		auto.StaticModes{auto.Secondary: auto.ModeSelectionPlay})
	if _, err := p.Handle(context.Background(), "refresh"); err != nil {
		t.Fatal(err)
	}

	act := p.Press(context.Background(), auto.Secondary, 0)
	if act.Decision.Action.Kind != auto.PopulateAndTranslateAndPlay || act.Decision.Action.Source != clipboard.Selection {
		t.Fatalf("Decision = %+v", act.Decision)
	}
	if err := wait(t, act.Done); err != nil {
		t.Fatalf("Done = %v", err)
	}

	snap := p.Session().Snapshot()
	if snap.SourceText != "hello" || snap.ResultText != "bonjour" {
		t.Fatalf("texts = %q / %q", snap.SourceText, snap.ResultText)
	}
	d := f.Detached()
	if len(d) != 1 || d[0].String() != "trans -b -p fr:fr bonjour" {
		t.Fatalf("detached = %v", d)
	}
}

func TestPressShiftOnlyPopulates(t *testing.T) {
	f := &runner.Fake{Respond: respond("bonjour")}
	clip := clipboard.Static{clipboard.Clipboard: "hello"}
	p := newPanel(t, f, &testConfig{from: "en", to: "fr"}, clip,
		auto.StaticModes{auto.Primary: auto.ModeClipboard})
	p.Handle(context.Background(), "refresh")
	before := len(f.Calls())

	act := p.Press(context.Background(), auto.Primary, auto.Shift)
	if act.Decision.Action.Kind != auto.PopulateFromClipboard {
		t.Fatalf("Decision = %+v", act.Decision)
	}
	wait(t, act.Done)

	if got := p.Session().Snapshot().SourceText; got != "hello" {
		t.Fatalf("SourceText = %q", got)
	}
	if len(f.Calls()) != before {
		t.Fatal("populate-only press issued a command")
	}
}

func TestPressDirectPlayKeepsMenuClosed(t *testing.T) {
	f := &runner.Fake{Respond: respond("")}
	clip := clipboard.Static{clipboard.Clipboard: "guten Tag"}
	p := newPanel(t, f, &testConfig{from: "en", to: "fr"}, clip,
		auto.StaticModes{auto.SecondaryModified: auto.ModePlayClipboard})
	p.Handle(context.Background(), "refresh")

	act := p.Press(context.Background(), auto.Secondary, auto.Control)
	if act.Decision.Trigger != auto.SecondaryModified || act.Decision.Menu != auto.MenuKeep {
		t.Fatalf("Decision = %+v", act.Decision)
	}
	if err := wait(t, act.Done); err != nil {
		t.Fatal(err)
	}
	if p.MenuOpen() {
		t.Fatal("direct play opened the menu")
	}
	d := f.Detached()
	if len(d) != 1 || strings.Join(d[0].Argv(), " ") != "trans -b -p en:en guten Tag" {
		t.Fatalf("detached = %v", d)
	}
}

func TestPressWithoutLanguages(t *testing.T) {
	f := &runner.Fake{Respond: runner.Stdout("")}
	clip := clipboard.Static{clipboard.Selection: "hello"}
	p := newPanel(t, f, &testConfig{}, clip, auto.StaticModes{auto.Primary: auto.ModeSelection})

	err := wait(t, p.Press(context.Background(), auto.Primary, 0).Done)
	if !errors.Is(err, session.ErrNoLanguage) {
		t.Fatalf("Done = %v, want ErrNoLanguage", err)
	}
	if got := p.Session().Snapshot().SourceText; got != "hello" {
		t.Fatalf("SourceText = %q", got)
	}
}

func TestHandleSession(t *testing.T) {
	f := &runner.Fake{Respond: respond("salut\n")}
	clip := clipboard.Static{clipboard.Clipboard: "good night"}
	p := newPanel(t, f, &testConfig{}, clip, nil)
	ctx := context.Background()

	steps := []struct {
		line string
		want string
	}{
		{"refresh", "2 languages"},
		{"from eng", "from: " + "\U0001F1FA\U0001F1F8" + " English (en)"},
		{"to fr", "to: " + "\U0001F1EB\U0001F1F7" + " French (fr)"},
		{"text hi", ""},
		{"translate", "salut"},
		{"copy", "salut"},
		{"paste", "salut"},
		{"clear", ""},
		{"copy", ""},
	}
	for _, st := range steps {
		got, err := p.Handle(ctx, st.line)
		if err != nil {
			t.Fatalf("Handle(%q) error: %v", st.line, err)
		}
		if got != st.want {
			t.Fatalf("Handle(%q) = %q, want %q", st.line, got, st.want)
		}
	}

	calls := f.Calls()
	if last := calls[len(calls)-1]; strings.Join(last.Argv(), " ") != "trans -b en:fr good night" {
		t.Fatalf("paste translated %v", last.Argv())
	}

	p.Handle(ctx, "text hello")
	p.Handle(ctx, "translate")
	got, err := p.Handle(ctx, "swap")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "from: ") || !strings.Contains(got, "French (fr)\nto: ") {
		t.Fatalf("swap reply = %q", got)
	}
	if s := p.Session().Snapshot(); s.SourceText != "salut" || s.ResultText != "hello" {
		t.Fatalf("after swap %q / %q", s.SourceText, s.ResultText)
	}

	if _, err := p.Handle(ctx, "play to"); err != nil {
		t.Fatal(err)
	}
	if d := f.Detached(); len(d) != 1 || d[0].String() != "trans -b -p en:en hello" {
		t.Fatalf("detached = %v", d)
	}
}

func TestHandleState(t *testing.T) {
	f := &runner.Fake{Respond: runner.Exit(runner.ExitNotFound)}
	p := newPanel(t, f, &testConfig{}, nil, nil)
	ctx := context.Background()

	reply, err := p.Handle(ctx, "refresh")
	if !errors.Is(err, session.ErrCatalogUnavailable) || !strings.Contains(reply, "translate-shell") {
		t.Fatalf("refresh = %q, %v", reply, err)
	}

	p.Handle(ctx, "text some words")
	state, _ := p.Handle(ctx, "state")
	for _, want := range []string{
		"from: (none)",
		"to: (none)",
		"engine: auto",
		"source: some words",
		"catalog: unavailable (0 languages)",
		"notice: Required \"trans\" command not found",
		"menu: closed",
		"actions: clear paste refresh",
	} {
		if !strings.Contains(state, want) {
			t.Errorf("state lacks %q:\n%s", want, state)
		}
	}
}

func TestHandleErrors(t *testing.T) {
	p := newPanel(t, &runner.Fake{}, &testConfig{}, nil, nil)
	ctx := context.Background()

	tests := []struct {
		line string
		want error
	}{
		{"translate", session.ErrNoLanguage},
		{"play from", session.ErrNoLanguage},
		{"quit", ErrQuit},
	}
	for _, tc := range tests {
		if _, err := p.Handle(ctx, tc.line); !errors.Is(err, tc.want) {
			t.Errorf("Handle(%q) = %v, want %v", tc.line, err, tc.want)
		}
	}
	for _, line := range []string{"dance", "play", "play sideways", "primary alt"} {
		if _, err := p.Handle(ctx, line); err == nil {
			t.Errorf("Handle(%q) succeeded", line)
		}
	}
	if reply, err := p.Handle(ctx, "   "); reply != "" || err != nil {
		t.Errorf("blank line = %q, %v", reply, err)
	}
}

func TestHandleMenu(t *testing.T) {
	f := &runner.Fake{Respond: respond("")}
	p := newPanel(t, f, &testConfig{}, nil, nil)
	ctx := context.Background()

	reply, err := p.Handle(ctx, "secondary")
	if err != nil || reply != "menu open, open-only" {
		t.Fatalf("secondary = %q, %v", reply, err)
	}
	if reply, _ := p.Handle(ctx, "close"); reply != "menu closed" || p.MenuOpen() {
		t.Fatalf("close = %q, open %v", reply, p.MenuOpen())
	}
	if reply, _ := p.Handle(ctx, "primary"); reply != "menu open, open-only" {
		t.Fatalf("primary after close = %q", reply)
	}
	if reply, _ := p.Handle(ctx, "primary"); reply != "menu close, none" {
		t.Fatalf("primary on open menu = %q", reply)
	}
}

func TestReconfigure(t *testing.T) {
	cfg := &testConfig{from: "en", to: "fr"}
	f := &runner.Fake{Respond: respond("ok")}
	p := newPanel(t, f, cfg, nil, nil)
	ctx := context.Background()
	p.Handle(ctx, "refresh")

	cfg.engine = "yandex"
	if err := p.Reconfigure(); err != nil {
		t.Fatal(err)
	}
	p.Handle(ctx, "text hi")
	p.Handle(ctx, "translate")
	calls := f.Calls()
	if got := calls[len(calls)-1].String(); got != "trans -b -e yandex en:fr hi" {
		t.Fatalf("command = %q", got)
	}

	cfg.tool = `trans "broken`
	if err := p.Reconfigure(); err == nil {
		t.Fatal("bad tool accepted")
	}
	if got := p.Session().Snapshot().Engine; got != "yandex" {
		t.Fatalf("Engine = %q after failed reload", got)
	}
	if p.ID() == "" {
		t.Fatal("empty panel id")
	}
}
