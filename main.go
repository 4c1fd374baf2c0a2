// paneltrans — a translator panel driving translate-shell: language
// catalog, translation, playback and click-triggered auto actions.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/minios-linux/paneltrans/auto"
	"github.com/minios-linux/paneltrans/catalog"
	"github.com/minios-linux/paneltrans/clipboard"
	"github.com/minios-linux/paneltrans/config"
	"github.com/minios-linux/paneltrans/engine"
	"github.com/minios-linux/paneltrans/i18n"
	"github.com/minios-linux/paneltrans/langmeta"
	"github.com/minios-linux/paneltrans/logging"
	"github.com/minios-linux/paneltrans/panel"
	"github.com/minios-linux/paneltrans/runner"
	"github.com/minios-linux/paneltrans/session"
	"github.com/minios-linux/paneltrans/settings"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	infoTag    = color.New(color.FgBlue).SprintFunc()
	successTag = color.New(color.FgGreen).SprintFunc()
	warningTag = color.New(color.FgYellow, color.Bold).SprintFunc()
	errorTag   = color.New(color.FgRed).SprintFunc()
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, infoTag("[INFO]")+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, successTag("[OK]")+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, warningTag("[WARN]")+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, errorTag("[ERROR]")+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flags and wiring
// ---------------------------------------------------------------------------

var (
	cfgFile    string
	logLevel   string
	engineFlag string
	toolFlag   string
)

// Replaced in tests.
var (
	newRunner    = func(l *slog.Logger) runner.Runner { return runner.NewExec(l) }
	newClipboard = func() clipboard.Reader { return &clipboard.System{} }
)

// overrides applies command-line engine and tool flags on top of the
// configured values.
type overrides struct {
	session.Config
	engine, tool string
}

func (o overrides) Engine() string {
	if o.engine != "" {
		return o.engine
	}
	return o.Config.Engine()
}

func (o overrides) Tool() string {
	if o.tool != "" {
		return o.tool
	}
	return o.Config.Tool()
}

// app is the wiring shared by the commands.
type app struct {
	settings *config.Settings
	log      *logging.Logger
	runner   runner.Runner
	clip     clipboard.Reader
}

// setup loads settings and builds the logger. One-shot commands log at
// warn unless a level was asked for, so their stdout stays clean and
// stderr quiet.
func setup(oneShot bool) (*app, error) {
	s, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		logWarning("%v", err)
	}

	logCfg := s.Log
	switch {
	case logLevel != "":
		logCfg.Level = logLevel
	case oneShot && strings.EqualFold(logCfg.Level, "info"):
		logCfg.Level = "warn"
	}
	lg, err := logging.New(logCfg, os.Stderr)
	if err != nil {
		return nil, err
	}

	return &app{
		settings: s,
		log:      lg,
		runner:   newRunner(lg.Logger),
		clip:     newClipboard(),
	}, nil
}

func (a *app) close() {
	a.log.Close()
}

func (a *app) newSession(cfg session.Config) (*session.Session, error) {
	return session.New(session.Options{
		Runner:    a.runner,
		Clipboard: a.clip,
		Config:    overrides{Config: cfg, engine: engineFlag, tool: toolFlag},
		Logger:    a.log.Logger,
	})
}

// loadCatalog refreshes the language catalog and turns a failed refresh
// into an error carrying the user-facing notice.
func loadCatalog(ctx context.Context, sess *session.Session) error {
	st := <-sess.RefreshCatalog(ctx)
	if err := st.Err(); err != nil {
		return fmt.Errorf("%s: %w", st.Notice(), err)
	}
	return nil
}

// selectLanguage applies a --from/--to prefix; an empty prefix keeps the
// configured default.
func selectLanguage(sess *session.Session, side session.Side, prefix string) error {
	if prefix == "" {
		return nil
	}
	if _, ok := sess.Lookup(side, prefix); !ok {
		return errors.New(i18n.Tf("No language matches %q", prefix))
	}
	return nil
}

// userError rewrites guard errors into their user-facing wording.
func userError(err error) error {
	switch {
	case errors.Is(err, session.ErrNoLanguage):
		return errors.New(i18n.T("Select both a source and a target language"))
	case errors.Is(err, session.ErrNoText):
		return errors.New(i18n.T("Nothing to translate"))
	}
	return err
}

// readText joins args; a single "-" reads standard input.
func readText(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return strings.TrimRight(string(data), "\n"), nil
	}
	return strings.Join(args, " "), nil
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "paneltrans",
		Short: "Translator panel for translate-shell",
		Long: `paneltrans — a translator panel for translate-shell.

Translates text between the languages translate-shell supports, speaks
text aloud, and runs the configured auto action when the panel icon is
clicked. Requires the "trans" command (translate-shell).

Commands:
  languages   List the languages translate-shell supports
  translate   Translate text, the clipboard or the selection
  play        Speak text in a language
  trigger     Simulate a click on the panel icon
  panel       Run a panel, driven by commands on standard input
  engines     List translation engines
  config      Create or show the settings file`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			i18n.Init("")
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "Settings file (default: $XDG_CONFIG_HOME/paneltrans/config.yaml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&engineFlag, "engine", "", "translate-shell engine (overrides the settings)")
	root.PersistentFlags().StringVar(&toolFlag, "tool", "", "translate-shell command line (overrides the settings)")
	_ = root.RegisterFlagCompletionFunc("engine", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var ids []string
		for _, e := range engine.KnownEngines {
			ids = append(ids, e.ID+"\t"+e.Desc)
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(
		newLanguagesCmd(),
		newTranslateCmd(),
		newPlayCmd(),
		newTriggerCmd(),
		newPanelCmd(),
		newEnginesCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "paneltrans version %s\n", version)
			fmt.Fprintf(out, "  commit:    %s\n", commit)
			fmt.Fprintf(out, "  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// languages
// ---------------------------------------------------------------------------

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages [prefix]",
		Short: "List the languages translate-shell supports",
		Long: `List the languages reported by "trans -list-all".

With a prefix, show the language that prefix selects: the first language
whose English name starts with it, ignoring case.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(true)
			if err != nil {
				return err
			}
			defer a.close()

			sess, err := a.newSession(a.settings)
			if err != nil {
				return err
			}
			if err := loadCatalog(cmd.Context(), sess); err != nil {
				return err
			}

			langs := sess.Catalog().Languages()
			if len(args) == 1 {
				l, ok := sess.Catalog().Lookup(args[0])
				if !ok {
					return errors.New(i18n.Tf("No language matches %q", args[0]))
				}
				langs = []catalog.Language{l}
			}
			printLanguages(cmd.OutOrStdout(), langs)
			if len(args) == 0 {
				logInfo(i18n.N("%d language available", "%d languages available", len(langs)), len(langs))
			}
			return nil
		},
	}
}

func printLanguages(w io.Writer, langs []catalog.Language) {
	codes := make([]string, len(langs))
	names := make([]string, len(langs))
	for i, l := range langs {
		codes[i] = l.Code
		names[i] = l.EnglishName
	}
	codeWidth := langColumnWidth(codes)
	nameWidth := langColumnWidth(names)
	for _, l := range langs {
		fmt.Fprintf(w, "%s  %-*s  %s\n", langCell(l.Code, codeWidth), nameWidth, l.EnglishName, l.Name)
	}
}

// langColumnWidth returns the widest entry, in runes.
func langColumnWidth(values []string) int {
	width := 0
	for _, v := range values {
		if n := utf8.RuneCountInString(v); n > width {
			width = n
		}
	}
	return width
}

// langCell renders a flag and a code padded to width. Codes without a
// flag get blank padding of the same display width.
func langCell(code string, width int) string {
	flag := langmeta.Resolve(code).Flag
	if flag == "" {
		flag = "  "
	}
	return fmt.Sprintf("%s %-*s", flag, width, code)
}

// ---------------------------------------------------------------------------
// translate
// ---------------------------------------------------------------------------

func newTranslateCmd() *cobra.Command {
	var (
		from, to string
		play     bool
		source   = clipboard.Clipboard
	)

	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate text, the clipboard or the selection",
		Long: `Translate text with translate-shell and print the result.

Without text, the clipboard (or, with --source selection, the current
selection) is translated. A single "-" reads the text from standard input.
Languages default to the configured ones; --from and --to take any prefix
of a language's English name.

Examples:
  paneltrans translate --from eng --to ger "good morning"
  paneltrans translate --to fr --play
  echo "thank you" | paneltrans translate --to ja -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(true)
			if err != nil {
				return err
			}
			defer a.close()

			sess, err := a.newSession(a.settings)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := loadCatalog(ctx, sess); err != nil {
				return err
			}
			if err := selectLanguage(sess, session.From, from); err != nil {
				return err
			}
			if err := selectLanguage(sess, session.To, to); err != nil {
				return err
			}

			var o session.Outcome
			if len(args) == 0 {
				o = <-sess.CaptureAndTranslate(ctx, source, play)
			} else {
				text, err := readText(cmd.InOrStdin(), args)
				if err != nil {
					return err
				}
				sess.SetSourceText(text)
				var pending <-chan session.Outcome
				if play {
					pending, err = sess.TranslateAndPlay(ctx)
				} else {
					pending, err = sess.Translate(ctx)
				}
				if err != nil {
					return userError(err)
				}
				o = <-pending
			}
			if o.Err != nil {
				return userError(o.Err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), o.Text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&from, "from", "f", "", "Source language (prefix of its English name)")
	cmd.Flags().StringVarP(&to, "to", "t", "", "Target language (prefix of its English name)")
	cmd.Flags().BoolVarP(&play, "play", "p", false, "Speak the translation")
	cmd.Flags().VarP(&source, "source", "s", "Read from clipboard or selection when no text is given")
	return cmd
}

// ---------------------------------------------------------------------------
// play
// ---------------------------------------------------------------------------

func newPlayCmd() *cobra.Command {
	var (
		lang   string
		source = clipboard.Selection
	)

	cmd := &cobra.Command{
		Use:   "play [text...]",
		Short: "Speak text in a language",
		Long: `Speak text with translate-shell, without translating it.

Without text, the selection (or, with --source clipboard, the clipboard)
is spoken. The language defaults to the configured source language.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(true)
			if err != nil {
				return err
			}
			defer a.close()

			sess, err := a.newSession(a.settings)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := loadCatalog(ctx, sess); err != nil {
				return err
			}
			if err := selectLanguage(sess, session.From, lang); err != nil {
				return err
			}

			if len(args) == 0 {
				return userError(<-sess.CaptureAndPlay(ctx, source))
			}
			text, err := readText(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			sess.SetSourceText(text)
			return userError(sess.Play(session.From))
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", "Language (prefix of its English name)")
	cmd.Flags().VarP(&source, "source", "s", "Read from clipboard or selection when no text is given")
	return cmd
}

// ---------------------------------------------------------------------------
// trigger
// ---------------------------------------------------------------------------

func newTriggerCmd() *cobra.Command {
	var (
		ctrl, shift bool
		mode        auto.Mode
	)

	cmd := &cobra.Command{
		Use:       "trigger primary|secondary",
		Short:     "Simulate a click on the panel icon",
		ValidArgs: []string{"primary", "secondary"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Long: `Simulate one click on the panel icon and print the resulting panel state.

The auto mode configured for the trigger decides what happens; --mode
replaces it for this click. Holding Ctrl with the secondary button selects
the secondary-modifier mode, and Shift only fills in the text.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(true)
			if err != nil {
				return err
			}
			defer a.close()

			sess, err := a.newSession(a.settings)
			if err != nil {
				return err
			}

			t := auto.Primary
			if args[0] == "secondary" {
				t = auto.Secondary
			}
			var mods auto.Modifiers
			if ctrl {
				mods |= auto.Control
			}
			if shift {
				mods |= auto.Shift
			}

			modes := auto.StaticModes{}
			for _, tr := range []auto.Trigger{auto.Primary, auto.Secondary, auto.SecondaryModified} {
				modes[tr] = a.settings.AutoMode(tr)
			}
			if cmd.Flags().Changed("mode") {
				modes[auto.EffectiveTrigger(t, mods)] = mode
			}

			ctx := cmd.Context()
			if err := loadCatalog(ctx, sess); err != nil {
				logWarning("%v", err)
			}
			p := panel.New(sess, modes, a.log.Logger)
			act := p.Press(ctx, t, mods)
			actErr := <-act.Done
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "trigger: %s\naction: %s\n", act.Decision.Trigger, act.Decision.Action)
			state, _ := p.Handle(ctx, "state")
			fmt.Fprintln(out, state)
			return userError(actErr)
		},
	}

	cmd.Flags().BoolVar(&ctrl, "ctrl", false, "Hold Ctrl")
	cmd.Flags().BoolVar(&shift, "shift", false, "Hold Shift")
	cmd.Flags().Var(&mode, "mode", "Auto mode for this click")
	_ = cmd.RegisterFlagCompletionFunc("mode", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var names []string
		for _, m := range auto.Modes {
			names = append(names, m.String())
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// ---------------------------------------------------------------------------
// panel
// ---------------------------------------------------------------------------

func newPanelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "panel",
		Short: "Run a panel, driven by commands on standard input",
		Long: `Run a translator panel that reads one command per line from standard
input and writes replies to standard output. The settings file is watched
and changes apply immediately.

Commands:
  primary [ctrl] [shift]      click the icon
  secondary [ctrl] [shift]    middle-click the icon
  close                       dismiss the menu
  from <prefix>, to <prefix>  select a language
  text <words>                set the source text
  translate                   translate the source text
  play from|to                speak the source or the result
  swap, clear, copy, paste    menu buttons
  refresh                     reload the language list
  state                       describe the panel
  quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(false)
			if err != nil {
				return err
			}
			defer a.close()

			w, err := config.NewWatcher(cfgFile, a.log.Logger)
			if err != nil {
				return err
			}
			sess, err := a.newSession(w)
			if err != nil {
				return err
			}
			p := panel.New(sess, w, a.log.Logger)

			w.OnChange(func(*config.Settings) {
				if p.Reconfigure() == nil {
					logInfo("%s", i18n.T("Settings reloaded"))
				}
			})
			if src := w.Current().Source; src != "" {
				if err := w.Start(); err == nil {
					logInfo("%s", i18n.Tf("Watching %s for changes", src))
				}
				defer w.Stop()
			} else {
				logInfo("%s", i18n.T("No config file found, using defaults"))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st := <-sess.RefreshCatalog(ctx)
			if n := st.Notice(); n != "" {
				logWarning("%s", n)
			}
			logSuccess("%s: %s", i18n.T("Translator"), i18n.T(`Type commands, one per line; "quit" exits`))

			return runPanelLoop(ctx, p, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// runPanelLoop feeds lines from in to the panel until quit, end of input
// or cancellation.
func runPanelLoop(ctx context.Context, p *panel.Panel, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			reply, err := p.Handle(ctx, line)
			if reply != "" {
				fmt.Fprintln(out, reply)
			}
			if errors.Is(err, panel.ErrQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", userError(err))
			}
		}
	}
}

// ---------------------------------------------------------------------------
// engines
// ---------------------------------------------------------------------------

func newEnginesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "engines",
		Short: "List translation engines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			current := s.Engine()
			if engineFlag != "" {
				current = engineFlag
			}
			out := cmd.OutOrStdout()
			for _, e := range engine.KnownEngines {
				mark := " "
				if e.ID == current {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %-10s %s\n", mark, e.ID, e.Desc)
			}
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// config
// ---------------------------------------------------------------------------

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or show the settings file",
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigShowCmd(), newConfigPathCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented settings file with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfgFile
			if path == "" {
				p, err := settings.ConfigFilePath()
				if err != nil {
					return err
				}
				path = p
			}
			if err := config.WriteDefault(path, force); err != nil {
				if errors.Is(err, os.ErrExist) {
					return errors.New(i18n.Tf("Config file already exists: %s (use --force to overwrite)", path))
				}
				return err
			}
			logSuccess("%s", i18n.Tf("Config written to %s", path))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if s.Source != "" {
				logInfo("%s", i18n.Tf("Using config file %s", s.Source))
			} else {
				logInfo("%s", i18n.T("No config file found, using defaults"))
			}
			if err := s.Validate(); err != nil {
				logWarning("%v", err)
			}
			data, err := s.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the settings file is looked up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				fmt.Fprintln(cmd.OutOrStdout(), cfgFile)
				return nil
			}
			path, err := settings.ConfigFilePath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
