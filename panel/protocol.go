package panel

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/minios-linux/paneltrans/auto"
	"github.com/minios-linux/paneltrans/catalog"
	"github.com/minios-linux/paneltrans/clipboard"
	"github.com/minios-linux/paneltrans/langmeta"
	"github.com/minios-linux/paneltrans/session"
)

// ErrQuit is returned by Handle for the quit command.
var ErrQuit = errors.New("quit")

// Handle runs one command of the line protocol and returns its reply.
// Commands that start asynchronous work wait for it before replying.
//
//	primary [ctrl] [shift]      click the icon
//	secondary [ctrl] [shift]    middle-click the icon
//	close                       dismiss the menu
//	from <prefix>, to <prefix>  select a language
//	text <words>                set the source text
//	translate                   translate the source text
//	play from|to                speak the source or the result
//	swap, clear, copy, paste    menu buttons
//	refresh                     reload the language list
//	state                       describe the panel
//	quit
func (p *Panel) Handle(ctx context.Context, line string) (string, error) {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	args := strings.Fields(rest)

	switch strings.ToLower(cmd) {
	case "":
		return "", nil
	case "primary", "secondary":
		t := auto.Primary
		if strings.EqualFold(cmd, "secondary") {
			t = auto.Secondary
		}
		mods, err := parseModifiers(args)
		if err != nil {
			return "", err
		}
		act := p.Press(ctx, t, mods)
		err = <-act.Done
		reply := fmt.Sprintf("menu %s, %s", act.Decision.Menu, act.Decision.Action)
		if err != nil {
			return reply, err
		}
		return p.withResult(reply), nil
	case "close":
		p.CloseMenu()
		return "menu closed", nil
	case "from", "to":
		side := session.From
		if strings.EqualFold(cmd, "to") {
			side = session.To
		}
		p.sess.Lookup(side, strings.TrimSpace(rest))
		return describeSide(side, p.sess.Snapshot()), nil
	case "text":
		p.sess.SetSourceText(rest)
		return "", nil
	case "translate":
		pending, err := p.sess.Translate(ctx)
		if err != nil {
			return "", err
		}
		o := <-pending
		return o.Text, o.Err
	case "play":
		if len(args) != 1 {
			return "", errors.New("usage: play from|to")
		}
		switch strings.ToLower(args[0]) {
		case "from":
			return "", p.sess.Play(session.From)
		case "to":
			return "", p.sess.Play(session.To)
		}
		return "", fmt.Errorf("unknown side %q", args[0])
	case "swap":
		p.sess.Swap()
		s := p.sess.Snapshot()
		return describeSide(session.From, s) + "\n" + describeSide(session.To, s), nil
	case "clear":
		p.sess.Clear()
		return "", nil
	case "copy":
		return p.sess.ResultText(), nil
	case "paste":
		o := <-p.sess.CaptureAndTranslate(ctx, clipboard.Clipboard, false)
		return o.Text, o.Err
	case "refresh":
		st := <-p.sess.RefreshCatalog(ctx)
		if n := st.Notice(); n != "" {
			return n, st.Err()
		}
		return fmt.Sprintf("%d languages", st.Count), nil
	case "state":
		return p.describe(), nil
	case "quit", "exit":
		return "", ErrQuit
	}
	return "", fmt.Errorf("unknown command %q", cmd)
}

func parseModifiers(args []string) (auto.Modifiers, error) {
	var mods auto.Modifiers
	for _, a := range args {
		switch strings.ToLower(a) {
		case "ctrl", "control":
			mods |= auto.Control
		case "shift":
			mods |= auto.Shift
		default:
			return 0, fmt.Errorf("unknown modifier %q", a)
		}
	}
	return mods, nil
}

func (p *Panel) withResult(reply string) string {
	if r := p.sess.ResultText(); r != "" {
		return reply + "\n" + r
	}
	return reply
}

func describeLanguage(l *catalog.Language) string {
	if l == nil {
		return "(none)"
	}
	s := fmt.Sprintf("%s (%s)", l.EnglishName, l.Code)
	if flag := langmeta.Resolve(l.Code).Flag; flag != "" {
		s = flag + " " + s
	}
	return s
}

func describeSide(side session.Side, s session.State) string {
	l := s.From
	if side == session.To {
		l = s.To
	}
	return side.String() + ": " + describeLanguage(l)
}

func (p *Panel) describe() string {
	s := p.sess.Snapshot()
	a := p.sess.Actions()

	var b strings.Builder
	fmt.Fprintln(&b, describeSide(session.From, s))
	fmt.Fprintln(&b, describeSide(session.To, s))
	fmt.Fprintf(&b, "engine: %s\n", s.Engine)
	fmt.Fprintf(&b, "source: %s\n", s.SourceText)
	fmt.Fprintf(&b, "result: %s\n", s.ResultText)
	fmt.Fprintf(&b, "catalog: %s (%d languages)\n", s.Catalog.State, p.sess.Catalog().Len())
	if n := s.Catalog.Notice(); n != "" {
		fmt.Fprintf(&b, "notice: %s\n", n)
	}
	menu := "closed"
	if p.MenuOpen() {
		menu = "open"
	}
	fmt.Fprintf(&b, "menu: %s\n", menu)

	var enabled []string
	for _, e := range []struct {
		name string
		on   bool
	}{
		{"translate", a.Translate}, {"play-from", a.PlayFrom}, {"play-to", a.PlayTo},
		{"swap", a.Swap}, {"copy", a.Copy}, {"clear", a.Clear},
		{"paste", a.Paste}, {"refresh", a.Refresh},
	} {
		if e.on {
			enabled = append(enabled, e.name)
		}
	}
	fmt.Fprintf(&b, "actions: %s", strings.Join(enabled, " "))
	return b.String()
}
