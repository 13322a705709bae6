// Package tooltip implements hover and tap intent for popovers: a small
// state machine (Idle, ShowPending, Visible, HidePending) driven by pointer,
// tap and dismissal events, with all delays expressed as cancellable tasks on
// a Scheduler so the timing is testable with a FakeClock.
package tooltip

import (
	"sync"
	"time"
)

// State is the controller state.
type State int

const (
	Idle State = iota
	ShowPending
	Visible
	HidePending
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ShowPending:
		return "show_pending"
	case Visible:
		return "visible"
	case HidePending:
		return "hide_pending"
	default:
		return "unknown"
	}
}

// Target is the element an event happened on.
type Target struct {
	ID    string
	Attrs map[string]string
	Text  string
	Rect  Rect
}

// Config configures one popover type.
type Config[P any] struct {
	// Match reports whether t is a trigger for this popover.
	Match func(t Target) bool
	// Extract reads the popover payload from a trigger. ok=false makes the
	// trigger inert.
	Extract func(t Target) (payload P, ok bool)
	// IsSurface reports whether t is the popover itself.
	IsSurface func(t Target) bool

	Geometry Geometry
	Viewport Viewport

	// Grace is how long the session survives after the pointer leaves both
	// the anchor and the popover.
	Grace time.Duration
	// Fade is the delay between ShowPending and Visible.
	Fade time.Duration
	// TapWindow separates the tap that opened a session from a deliberate
	// second tap on the same trigger.
	TapWindow time.Duration

	Clock Scheduler
	// Observe receives every state change, outside the controller lock.
	Observe func(Change[P])
}

// Session is the live popover.
type Session[P any] struct {
	Anchor    Target
	Payload   P
	Visible   bool
	Placement Placement
	ShownAt   time.Time
}

// Change describes a transition. Repositioning the live session produces a
// Change with From == To.
type Change[P any] struct {
	From    State
	To      State
	Reason  string
	Session Session[P]
}

// TapAction tells the host what to do with the tap's default action.
type TapAction int

const (
	// TapNone: the controller did not intercept; run the default action.
	TapNone TapAction = iota
	// TapShow: the popover is showing; suppress the default action.
	TapShow
	// TapDefault: deliberate second tap; the session closed, run the
	// default action.
	TapDefault
)

// Controller holds at most one session. Methods are safe to call from
// multiple goroutines, though hosts normally call them from one event loop.
type Controller[P any] struct {
	cfg   Config[P]
	clock Scheduler

	mu          sync.Mutex
	state       State
	session     *Session[P]
	overAnchor  bool
	overSurface bool
	closed      bool

	seq  uint64
	fade slot
	hide slot

	changes []Change[P]
}

type slot struct {
	task Task
	seq  uint64
}

// New creates an idle controller. A nil Clock means SystemClock.
func New[P any](cfg Config[P]) *Controller[P] {
	c := &Controller[P]{cfg: cfg, clock: cfg.Clock}
	if c.clock == nil {
		c.clock = SystemClock{}
	}
	if c.cfg.Match == nil {
		c.cfg.Match = func(Target) bool { return false }
	}
	if c.cfg.IsSurface == nil {
		c.cfg.IsSurface = func(Target) bool { return false }
	}
	return c
}

// State returns the current state.
func (c *Controller[P]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Session returns a copy of the live session.
func (c *Controller[P]) Session() (Session[P], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return Session[P]{}, false
	}
	return *c.session, true
}

// PointerEnter handles the pointer entering t.
func (c *Controller[P]) PointerEnter(t Target) {
	c.mu.Lock()
	defer c.flush()

	if c.closed {
		return
	}
	if c.cfg.IsSurface(t) {
		if c.session != nil {
			c.overSurface = true
			c.resume("surface_enter")
		}
		return
	}
	if !c.cfg.Match(t) {
		return
	}
	if c.session != nil && sameAnchor(c.session.Anchor, t) {
		c.overAnchor = true
		c.resume("anchor_enter")
		return
	}
	payload, ok := c.extract(t)
	if !ok {
		return
	}
	c.open(t, payload, "pointer_enter")
}

// PointerLeave handles the pointer leaving t. Once the pointer is off both
// the anchor and the popover, the grace timer (re)starts.
func (c *Controller[P]) PointerLeave(t Target) {
	c.mu.Lock()
	defer c.flush()

	if c.closed || c.session == nil {
		return
	}
	switch {
	case c.cfg.IsSurface(t):
		c.overSurface = false
	case sameAnchor(c.session.Anchor, t):
		c.overAnchor = false
	default:
		return
	}
	if !c.overAnchor && !c.overSurface {
		c.scheduleHide()
	}
}

// Tap handles a tap or click on t.
func (c *Controller[P]) Tap(t Target) TapAction {
	c.mu.Lock()
	defer c.flush()

	if c.closed {
		return TapNone
	}
	if c.cfg.IsSurface(t) {
		return TapNone
	}
	if !c.cfg.Match(t) {
		c.dismiss("tap_outside")
		return TapNone
	}
	if c.session != nil && sameAnchor(c.session.Anchor, t) {
		if c.clock.Now().Sub(c.session.ShownAt) < c.cfg.TapWindow {
			return TapShow
		}
		c.dismiss("second_tap")
		return TapDefault
	}
	payload, ok := c.extract(t)
	if !ok {
		c.dismiss("tap_outside")
		return TapNone
	}
	c.open(t, payload, "tap")
	return TapShow
}

// Scroll dismisses the session.
func (c *Controller[P]) Scroll() { c.Dismiss("scroll") }

// Escape dismisses the session.
func (c *Controller[P]) Escape() { c.Dismiss("escape") }

// Dismiss closes the session immediately.
func (c *Controller[P]) Dismiss(reason string) {
	c.mu.Lock()
	defer c.flush()
	if c.closed {
		return
	}
	c.dismiss(reason)
}

// Reposition records a new viewport and anchor box and recomputes the
// placement of the live session.
func (c *Controller[P]) Reposition(anchor Rect, vp Viewport) {
	c.mu.Lock()
	defer c.flush()
	if c.closed {
		return
	}
	c.cfg.Viewport = vp
	if c.session == nil {
		return
	}
	c.session.Anchor.Rect = anchor
	c.session.Placement = Place(anchor, vp, c.cfg.Geometry)
	c.record(c.state, "reposition")
}

// Close tears the controller down: pending tasks are cancelled, the session
// is dropped and later events are ignored.
func (c *Controller[P]) Close() {
	c.mu.Lock()
	defer c.flush()
	if c.closed {
		return
	}
	c.dismiss("close")
	c.closed = true
}

// sameAnchor reports whether a and b are the same trigger. Targets without
// an ID are told apart by box and text.
func sameAnchor(a, b Target) bool {
	if a.ID != "" || b.ID != "" {
		return a.ID == b.ID
	}
	return a.Rect == b.Rect && a.Text == b.Text
}

func (c *Controller[P]) extract(t Target) (P, bool) {
	if c.cfg.Extract == nil {
		var zero P
		return zero, false
	}
	return c.cfg.Extract(t)
}

// open starts a new session on t, replacing any other.
func (c *Controller[P]) open(t Target, payload P, reason string) {
	c.cancel(&c.fade)
	c.cancel(&c.hide)

	c.session = &Session[P]{
		Anchor:    t,
		Payload:   payload,
		Placement: Place(t.Rect, c.cfg.Viewport, c.cfg.Geometry),
		ShownAt:   c.clock.Now(),
	}
	c.overAnchor = true
	c.overSurface = false

	if c.cfg.Fade <= 0 {
		c.session.Visible = true
		c.transition(Visible, reason)
		return
	}
	c.transition(ShowPending, reason)
	c.schedule(&c.fade, c.cfg.Fade, func() {
		c.session.Visible = true
		if c.state == ShowPending {
			c.transition(Visible, "fade_in")
		}
	})
}

// resume cancels a pending hide and returns to the state the session would
// be in had the pointer never left.
func (c *Controller[P]) resume(reason string) {
	c.cancel(&c.hide)
	if c.state != HidePending {
		return
	}
	if c.session.Visible {
		c.transition(Visible, reason)
	} else {
		c.transition(ShowPending, reason)
	}
}

func (c *Controller[P]) scheduleHide() {
	c.schedule(&c.hide, c.cfg.Grace, func() {
		c.dismiss("grace_expired")
	})
	if c.state != HidePending {
		c.transition(HidePending, "pointer_leave")
	}
}

func (c *Controller[P]) dismiss(reason string) {
	c.cancel(&c.fade)
	c.cancel(&c.hide)
	if c.session == nil {
		return
	}
	c.overAnchor, c.overSurface = false, false
	c.transition(Idle, reason)
	c.session = nil
}

// schedule replaces whatever s holds with a task running fire under the
// lock. A task that fires after being superseded or cancelled does nothing.
func (c *Controller[P]) schedule(s *slot, d time.Duration, fire func()) {
	c.cancel(s)
	c.seq++
	seq := c.seq
	s.seq = seq
	s.task = c.clock.AfterFunc(d, func() {
		c.mu.Lock()
		defer c.flush()
		if c.closed || s.seq != seq || c.session == nil {
			return
		}
		s.task, s.seq = nil, 0
		fire()
	})
}

func (c *Controller[P]) cancel(s *slot) {
	if s.task != nil {
		s.task.Stop()
	}
	s.task, s.seq = nil, 0
}

func (c *Controller[P]) transition(to State, reason string) {
	from := c.state
	c.state = to
	c.recordFrom(from, to, reason)
}

func (c *Controller[P]) record(state State, reason string) {
	c.recordFrom(state, state, reason)
}

func (c *Controller[P]) recordFrom(from, to State, reason string) {
	if c.cfg.Observe == nil || c.session == nil {
		return
	}
	c.changes = append(c.changes, Change[P]{From: from, To: to, Reason: reason, Session: *c.session})
}

// flush releases the lock and delivers queued changes.
func (c *Controller[P]) flush() {
	changes := c.changes
	c.changes = nil
	observe := c.cfg.Observe
	c.mu.Unlock()
	for _, ch := range changes {
		observe(ch)
	}
}
