package auto

import "sync"

// ModeSource supplies the configured mode for each trigger.
type ModeSource interface {
	AutoMode(t Trigger) Mode
}

// MenuChange is what the panel menu should do after a press.
type MenuChange int

const (
	MenuKeep MenuChange = iota
	MenuOpen
	MenuClose
)

func (c MenuChange) String() string {
	switch c {
	case MenuOpen:
		return "open"
	case MenuClose:
		return "close"
	}
	return "keep"
}

// Decision is the controller's answer to a press.
type Decision struct {
	Trigger Trigger
	Action  Action
	Menu    MenuChange
}

// Controller tracks whether the menu is open and turns presses into
// decisions. Auto actions only run when a press opens the menu, or for
// the direct play modes, which never open it.
type Controller struct {
	modes ModeSource

	mu   sync.Mutex
	open bool
}

// NewController returns a controller with the menu closed.
func NewController(modes ModeSource) *Controller {
	return &Controller{modes: modes}
}

// Press handles a click on the panel icon.
func (c *Controller) Press(t Trigger, mods Modifiers) Decision {
	t = EffectiveTrigger(t, mods)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.open {
		c.open = false
		return Decision{Trigger: t, Action: Action{Kind: None}, Menu: MenuClose}
	}

	action := Resolve(t, mods, c.modes.AutoMode(t))
	switch action.Kind {
	case None:
		c.open = true
		return Decision{Trigger: t, Action: Action{Kind: OpenOnly}, Menu: MenuOpen}
	case PlayClipboardDirect, PlaySelectionDirect:
		return Decision{Trigger: t, Action: action, Menu: MenuKeep}
	}
	c.open = true
	return Decision{Trigger: t, Action: action, Menu: MenuOpen}
}

// Close records that the menu was closed by other means (focus loss,
// escape key).
func (c *Controller) Close() {
	c.mu.Lock()
	c.open = false
	c.mu.Unlock()
}

// IsOpen reports the tracked menu state.
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// StaticModes is a fixed ModeSource.
type StaticModes map[Trigger]Mode

// AutoMode implements ModeSource. Unset triggers are disabled.
func (s StaticModes) AutoMode(t Trigger) Mode {
	if m, ok := s[t]; ok {
		return m
	}
	return ModeDisabled
}
