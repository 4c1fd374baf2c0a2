// Package session holds the state of one translator panel: the selected
// languages, the source and result texts, and the catalog of languages the
// translation tool supports. It issues catalog refreshes, translations and
// playback through an injected runner.
//
// All external work completes asynchronously. Completions are applied
// under the session lock and re-check the state they depend on, because
// nothing orders unrelated requests: two translations issued back to back
// may complete in either order, and whichever lands last sets the result.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/minios-linux/paneltrans/catalog"
	"github.com/minios-linux/paneltrans/clipboard"
	"github.com/minios-linux/paneltrans/engine"
	"github.com/minios-linux/paneltrans/runner"
)

// Side picks the source or the result half of the panel.
type Side int

const (
	From Side = iota
	To
)

func (s Side) String() string {
	if s == To {
		return "to"
	}
	return "from"
}

// Config is the part of the user configuration the session reads.
type Config interface {
	DefaultFromLanguage() string
	DefaultToLanguage() string
	Engine() string
	Tool() string
}

// Options configures New.
type Options struct {
	Runner    runner.Runner
	Clipboard clipboard.Reader
	Config    Config
	// Catalog is shared with other consumers when set; a fresh one is
	// created otherwise.
	Catalog *catalog.Catalog
	Logger  *slog.Logger
}

// Outcome is the result of a translation request.
type Outcome struct {
	Text string
	Err  error
}

// State is a copy of the session state.
type State struct {
	From       *catalog.Language
	To         *catalog.Language
	SourceText string
	ResultText string
	Engine     string
	Catalog    CatalogStatus
}

// Session is the state of one panel.
type Session struct {
	runner  runner.Runner
	clip    clipboard.Reader
	cfg     Config
	catalog *catalog.Catalog
	log     *slog.Logger

	mu      sync.Mutex
	tool    engine.Tool
	engine  string
	from    *catalog.Language
	to      *catalog.Language
	source  string
	result  string
	status  CatalogStatus
	lastReq uint64
}

// New creates a session. The catalog stays empty until RefreshCatalog.
func New(opts Options) (*Session, error) {
	if opts.Runner == nil {
		return nil, errors.New("session: runner is required")
	}
	if opts.Config == nil {
		return nil, errors.New("session: config is required")
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.Static(nil)
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.New()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	s := &Session{
		runner:  opts.Runner,
		clip:    opts.Clipboard,
		cfg:     opts.Config,
		catalog: opts.Catalog,
		log:     opts.Logger.With("component", "session"),
	}
	if err := s.ApplyConfig(); err != nil {
		return nil, err
	}
	return s, nil
}

// ApplyConfig re-reads the engine and tool settings. Default languages are
// only consulted on the next catalog refresh.
func (s *Session) ApplyConfig() error {
	tool, err := engine.ParseTool(s.cfg.Tool())
	if err != nil {
		return err
	}
	eng := strings.TrimSpace(s.cfg.Engine())
	if eng == "" {
		eng = engine.EngineAuto
	}

	s.mu.Lock()
	s.tool = tool
	s.engine = eng
	s.mu.Unlock()
	return nil
}

// Catalog returns the language catalog.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// ---------------------------------------------------------------------------
// Catalog refresh
// ---------------------------------------------------------------------------

// RefreshCatalog runs the language listing and delivers the resulting
// status. A successful listing replaces the catalog; in every case the
// default languages are then resolved again against whatever catalog is
// current, so they become nil when it is empty.
func (s *Session) RefreshCatalog(ctx context.Context) <-chan CatalogStatus {
	s.mu.Lock()
	s.status = CatalogStatus{State: CatalogLoading}
	cmd := s.tool.ListCommand()
	s.mu.Unlock()

	out := make(chan CatalogStatus, 1)
	results := s.runner.RunCapturing(ctx, cmd)
	go func() {
		out <- s.applyCatalog(<-results)
	}()
	return out
}

func (s *Session) applyCatalog(res runner.Result) CatalogStatus {
	st := CatalogStatus{ExitCode: res.ExitCode, Stderr: res.Stderr}
	switch {
	case res.OK():
		langs := catalog.Parse(res.Stdout)
		s.catalog.Replace(langs)
		st.Count = len(langs)
		if len(langs) == 0 {
			st.State = CatalogEmpty
		} else {
			st.State = CatalogReady
		}
	case res.ExitCode == runner.ExitNotFound, res.Err != nil:
		// The tool could not be started at all.
		st.State = CatalogUnavailable
	default:
		st.State = CatalogFailed
	}

	from := s.resolveDefault(s.cfg.DefaultFromLanguage())
	to := s.resolveDefault(s.cfg.DefaultToLanguage())

	s.mu.Lock()
	s.status = st
	s.from = from
	s.to = to
	s.mu.Unlock()

	if err := st.Err(); err != nil {
		s.log.Warn("language catalog unavailable", "state", st.State, "exit", st.ExitCode, "err", err)
	} else {
		s.log.Info("language catalog loaded", "languages", st.Count, "from", langName(from), "to", langName(to))
	}
	return st
}

func (s *Session) resolveDefault(name string) *catalog.Language {
	l, ok := s.catalog.Lookup(strings.TrimSpace(name))
	if !ok {
		return nil
	}
	return &l
}

// Status returns the outcome of the latest refresh.
func (s *Session) Status() CatalogStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// ---------------------------------------------------------------------------
// Languages and text
// ---------------------------------------------------------------------------

// SetFromLanguage selects the source language.
func (s *Session) SetFromLanguage(l catalog.Language) {
	s.mu.Lock()
	s.from = &l
	s.mu.Unlock()
}

// SetToLanguage selects the target language.
func (s *Session) SetToLanguage(l catalog.Language) {
	s.mu.Lock()
	s.to = &l
	s.mu.Unlock()
}

// Lookup resolves prefix against the catalog and selects the result for
// side. A miss clears the selection. Changing a language clears the text
// on that side, which no longer matches it.
func (s *Session) Lookup(side Side, prefix string) (catalog.Language, bool) {
	l, ok := s.catalog.Lookup(prefix)
	var sel *catalog.Language
	if ok {
		sel = &l
	}
	s.mu.Lock()
	s.selectLanguage(side, sel)
	s.mu.Unlock()
	return l, ok
}

// Edit applies a keystroke in the language entry field for side and
// returns what the field should now show.
func (s *Session) Edit(side Side, text string, cursor int, backspace bool) catalog.Completion {
	c := catalog.Autocomplete(s.catalog, text, cursor, backspace)
	if c.Cleared {
		return c
	}
	var sel *catalog.Language
	if c.Found {
		l := c.Language
		sel = &l
	}
	s.mu.Lock()
	s.selectLanguage(side, sel)
	s.mu.Unlock()
	return c
}

func (s *Session) selectLanguage(side Side, l *catalog.Language) {
	cur := &s.from
	if side == To {
		cur = &s.to
	}
	if sameLanguage(*cur, l) {
		return
	}
	*cur = l
	if side == To {
		s.result = ""
	} else {
		s.source = ""
	}
}

func sameLanguage(a, b *catalog.Language) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// SetSourceText replaces the text to translate.
func (s *Session) SetSourceText(text string) {
	s.mu.Lock()
	s.source = text
	s.mu.Unlock()
}

// ResultText returns the last translation, for copying.
func (s *Session) ResultText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Clear empties both texts.
func (s *Session) Clear() {
	s.mu.Lock()
	s.source = ""
	s.result = ""
	s.mu.Unlock()
}

// Swap exchanges the languages, and separately the texts. The texts only
// move when there is a result: a source typed without a translation yet
// stays where it is. An empty source never overwrites the result.
func (s *Session) Swap() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.from, s.to = s.to, s.from

	if s.result == "" {
		return
	}
	source := s.source
	s.source = s.result
	if source != "" {
		s.result = source
	}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		From:       copyLang(s.from),
		To:         copyLang(s.to),
		SourceText: s.source,
		ResultText: s.result,
		Engine:     s.engine,
		Catalog:    s.status,
	}
}

func copyLang(l *catalog.Language) *catalog.Language {
	if l == nil {
		return nil
	}
	c := *l
	return &c
}

func langName(l *catalog.Language) string {
	if l == nil {
		return ""
	}
	return l.EnglishName
}

// ---------------------------------------------------------------------------
// Enabled actions
// ---------------------------------------------------------------------------

// ActionState tells the UI which controls are usable.
type ActionState struct {
	Translate bool
	PlayFrom  bool
	PlayTo    bool
	Swap      bool
	Copy      bool
	Clear     bool
	Paste     bool
	Refresh   bool
}

// Actions derives the enabled controls from the current state.
func (s *Session) Actions() ActionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ActionState{
		Translate: s.from != nil && s.to != nil && s.source != "",
		PlayFrom:  s.from != nil && s.source != "",
		PlayTo:    s.to != nil && s.result != "",
		Swap:      s.from != nil || s.to != nil || s.result != "",
		Copy:      s.result != "",
		Clear:     s.source != "" || s.result != "",
		Paste:     true,
		Refresh:   s.status.State != CatalogLoading,
	}
}
