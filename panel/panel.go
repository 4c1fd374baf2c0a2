// Package panel ties a translation session to the click handling of the
// panel icon: it runs the auto action chosen for each press and keeps the
// language catalog loaded while the menu is used.
package panel

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/minios-linux/paneltrans/auto"
	"github.com/minios-linux/paneltrans/session"
)

// Panel is one translator panel instance.
type Panel struct {
	id   string
	sess *session.Session
	ctrl *auto.Controller
	log  *slog.Logger

	// refreshing guards against overlapping refreshes started by presses.
	mu         sync.Mutex
	refreshing bool
}

// New creates a panel around sess. Auto modes are read from modes on
// every press.
func New(sess *session.Session, modes auto.ModeSource, logger *slog.Logger) *Panel {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	id := uuid.NewString()
	return &Panel{
		id:   id,
		sess: sess,
		ctrl: auto.NewController(modes),
		log:  logger.With("panel", id),
	}
}

// ID identifies the instance in logs.
func (p *Panel) ID() string { return p.id }

// Session returns the underlying session.
func (p *Panel) Session() *session.Session { return p.sess }

// MenuOpen reports whether the menu is currently shown.
func (p *Panel) MenuOpen() bool { return p.ctrl.IsOpen() }

// CloseMenu records that the menu was dismissed without a press.
func (p *Panel) CloseMenu() { p.ctrl.Close() }

// Activation is a handled press. Done delivers once, after the auto
// action and any catalog refresh started by the press have completed.
type Activation struct {
	Decision auto.Decision
	Done     <-chan error
}

// Press handles a click on the panel icon. When the catalog is empty a
// refresh is started alongside the auto action.
func (p *Panel) Press(ctx context.Context, t auto.Trigger, mods auto.Modifiers) Activation {
	d := p.ctrl.Press(t, mods)
	p.log.Debug("press", "trigger", d.Trigger, "action", d.Action, "menu", d.Menu)

	refreshed := p.refreshIfEmpty(ctx)
	acted := p.run(ctx, d.Action)

	done := make(chan error, 1)
	go func() {
		err := <-acted
		if refreshed != nil {
			<-refreshed
		}
		done <- err
	}()
	return Activation{Decision: d, Done: done}
}

func (p *Panel) refreshIfEmpty(ctx context.Context) <-chan session.CatalogStatus {
	if p.sess.Catalog().Len() > 0 {
		return nil
	}
	p.mu.Lock()
	if p.refreshing {
		p.mu.Unlock()
		return nil
	}
	p.refreshing = true
	p.mu.Unlock()

	p.log.Debug("catalog empty, refreshing")
	statuses := p.sess.RefreshCatalog(ctx)
	out := make(chan session.CatalogStatus, 1)
	go func() {
		st := <-statuses
		p.mu.Lock()
		p.refreshing = false
		p.mu.Unlock()
		out <- st
	}()
	return out
}

// run issues the session operations for a resolved action.
func (p *Panel) run(ctx context.Context, a auto.Action) <-chan error {
	out := make(chan error, 1)
	switch a.Kind {
	case auto.PopulateFromClipboard, auto.PopulateFromSelection:
		texts := p.sess.Capture(ctx, a.Source)
		go func() { out <- (<-texts).Err }()
	case auto.PopulateAndTranslate, auto.PopulateAndTranslateAndPlay:
		outcomes := p.sess.CaptureAndTranslate(ctx, a.Source, a.Kind == auto.PopulateAndTranslateAndPlay)
		go func() { out <- p.report(a, (<-outcomes).Err) }()
	case auto.PlayClipboardDirect, auto.PlaySelectionDirect:
		errs := p.sess.CaptureAndPlay(ctx, a.Source)
		go func() { out <- p.report(a, <-errs) }()
	default:
		out <- nil
	}
	return out
}

// report logs guard failures of an auto action at debug level: an auto
// action with no languages selected yet is expected on first use.
func (p *Panel) report(a auto.Action, err error) error {
	switch {
	case err == nil:
	case errors.Is(err, session.ErrNoLanguage), errors.Is(err, session.ErrNoText):
		p.log.Debug("auto action skipped", "action", a, "reason", err)
	default:
		p.log.Warn("auto action failed", "action", a, "err", err)
	}
	return err
}

// Reconfigure applies changed settings to the session. Auto modes need no
// action since they are read on each press.
func (p *Panel) Reconfigure() error {
	if err := p.sess.ApplyConfig(); err != nil {
		p.log.Warn("keeping previous tool settings", "err", err)
		return err
	}
	p.log.Info("settings reloaded", "engine", p.sess.Snapshot().Engine)
	return nil
}
