// Package chrome wires the page's two popovers, glossary definitions and
// footnote previews, onto tooltip controllers. Triggers are recognised and
// their payloads read purely from marker attributes.
package chrome

import (
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/dgallion1/docgloss/internal/annotate"
	"github.com/dgallion1/docgloss/internal/footnote"
	"github.com/dgallion1/docgloss/internal/tooltip"
)

// Popover surface classes.
const (
	GlossarySurfaceClass = "glossary-popover"
	FootnoteSurfaceClass = "fn-popover"
)

// Popover configures the geometry of one popover type.
type Popover struct {
	Width         float64 `koanf:"width" json:"width"`
	Prefer        string  `koanf:"prefer" json:"prefer"`
	FlipThreshold float64 `koanf:"flip_threshold" json:"flipThreshold"`
}

// Options configures both popovers. Timing is shared.
type Options struct {
	Grace     time.Duration `koanf:"grace"`
	Fade      time.Duration `koanf:"fade"`
	TapWindow time.Duration `koanf:"tap_window"`
	Margin    float64       `koanf:"margin"`
	Gap       float64       `koanf:"gap"`

	Glossary Popover `koanf:"glossary"`
	Footnote Popover `koanf:"footnote"`
}

// DefaultOptions returns the stock popover behaviour.
func DefaultOptions() Options {
	return Options{
		Grace:     150 * time.Millisecond,
		Fade:      120 * time.Millisecond,
		TapWindow: 500 * time.Millisecond,
		Margin:    8,
		Gap:       8,
		Glossary:  Popover{Width: 320, Prefer: "below", FlipThreshold: 200},
		Footnote:  Popover{Width: 360, Prefer: "above", FlipThreshold: 160},
	}
}

func (o Options) geometry(p Popover) tooltip.Geometry {
	return tooltip.Geometry{
		Width:         p.Width,
		Prefer:        tooltip.ParsePrefer(p.Prefer),
		FlipThreshold: p.FlipThreshold,
		Margin:        o.Margin,
		Gap:           o.Gap,
	}
}

// GlossaryConfig is the controller configuration for definition popovers.
func GlossaryConfig(o Options, vp tooltip.Viewport, clock tooltip.Scheduler) tooltip.Config[annotate.Marker] {
	return tooltip.Config[annotate.Marker]{
		Match: func(t tooltip.Target) bool { return hasClass(t, annotate.MarkerClass) },
		Extract: func(t tooltip.Target) (annotate.Marker, bool) {
			mk, ok := annotate.DecodeMarker(t.Attrs, t.Text)
			if !ok || mk.Definition == "" {
				return annotate.Marker{}, false
			}
			return mk, true
		},
		IsSurface: func(t tooltip.Target) bool { return hasClass(t, GlossarySurfaceClass) },
		Geometry:  o.geometry(o.Glossary),
		Viewport:  vp,
		Grace:     o.Grace,
		Fade:      o.Fade,
		TapWindow: o.TapWindow,
		Clock:     clock,
	}
}

// FootnoteConfig is the controller configuration for citation previews.
func FootnoteConfig(o Options, vp tooltip.Viewport, clock tooltip.Scheduler) tooltip.Config[footnote.Citation] {
	return tooltip.Config[footnote.Citation]{
		Match: func(t tooltip.Target) bool { return hasClass(t, footnote.MarkerClass) },
		Extract: func(t tooltip.Target) (footnote.Citation, bool) {
			c, ok := footnote.DecodeCitation(t.Attrs)
			if !ok || c.URL == "" {
				return footnote.Citation{}, false
			}
			return c, true
		},
		IsSurface: func(t tooltip.Target) bool { return hasClass(t, FootnoteSurfaceClass) },
		Geometry:  o.geometry(o.Footnote),
		Viewport:  vp,
		Grace:     o.Grace,
		Fade:      o.Fade,
		TapWindow: o.TapWindow,
		Clock:     clock,
	}
}

// Chrome owns one controller per popover type and fans page events out to
// both. Each controller ignores targets that are not its own triggers.
type Chrome struct {
	Glossary  *tooltip.Controller[annotate.Marker]
	Footnotes *tooltip.Controller[footnote.Citation]
}

// New builds both controllers. State changes are logged at debug level.
func New(o Options, vp tooltip.Viewport, clock tooltip.Scheduler, log *slog.Logger) *Chrome {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	gc := GlossaryConfig(o, vp, clock)
	gc.Observe = func(ch tooltip.Change[annotate.Marker]) {
		log.Debug("glossary popover", "from", ch.From.String(), "to", ch.To.String(),
			"reason", ch.Reason, "term", ch.Session.Payload.Term)
	}
	fc := FootnoteConfig(o, vp, clock)
	fc.Observe = func(ch tooltip.Change[footnote.Citation]) {
		log.Debug("footnote popover", "from", ch.From.String(), "to", ch.To.String(),
			"reason", ch.Reason, "fn", ch.Session.Payload.Number)
	}
	return &Chrome{
		Glossary:  tooltip.New(gc),
		Footnotes: tooltip.New(fc),
	}
}

func (c *Chrome) PointerEnter(t tooltip.Target) {
	c.Glossary.PointerEnter(t)
	c.Footnotes.PointerEnter(t)
}

func (c *Chrome) PointerLeave(t tooltip.Target) {
	c.Glossary.PointerLeave(t)
	c.Footnotes.PointerLeave(t)
}

// Tap forwards the tap to both controllers. A tap that opens one popover is
// a tap outside the other, so at most one of them intercepts it.
func (c *Chrome) Tap(t tooltip.Target) tooltip.TapAction {
	g := c.Glossary.Tap(t)
	f := c.Footnotes.Tap(t)
	return max(g, f)
}

func (c *Chrome) Scroll() {
	c.Glossary.Scroll()
	c.Footnotes.Scroll()
}

func (c *Chrome) Escape() {
	c.Glossary.Escape()
	c.Footnotes.Escape()
}

// Resize recomputes placement of whichever popover is open.
func (c *Chrome) Resize(vp tooltip.Viewport) {
	if s, ok := c.Glossary.Session(); ok {
		c.Glossary.Reposition(s.Anchor.Rect, vp)
	}
	if s, ok := c.Footnotes.Session(); ok {
		c.Footnotes.Reposition(s.Anchor.Rect, vp)
	}
}

func (c *Chrome) Close() {
	c.Glossary.Close()
	c.Footnotes.Close()
}

func hasClass(t tooltip.Target, class string) bool {
	return slices.Contains(strings.Fields(t.Attrs["class"]), class)
}

// Settings is the client-side description of both popovers, embedded in
// rendered pages.
type Settings struct {
	GraceMS     int64           `json:"graceMs"`
	FadeMS      int64           `json:"fadeMs"`
	TapWindowMS int64           `json:"tapWindowMs"`
	Glossary    PopoverSettings `json:"glossary"`
	Footnote    PopoverSettings `json:"footnote"`
}

// PopoverSettings describes one popover to the client.
type PopoverSettings struct {
	Trigger  string           `json:"trigger"`
	Surface  string           `json:"surface"`
	Geometry tooltip.Geometry `json:"geometry"`
}

// Settings returns the client settings for o.
func (o Options) Settings() Settings {
	return Settings{
		GraceMS:     o.Grace.Milliseconds(),
		FadeMS:      o.Fade.Milliseconds(),
		TapWindowMS: o.TapWindow.Milliseconds(),
		Glossary: PopoverSettings{
			Trigger:  "." + annotate.MarkerClass,
			Surface:  "." + GlossarySurfaceClass,
			Geometry: o.geometry(o.Glossary),
		},
		Footnote: PopoverSettings{
			Trigger:  "." + footnote.MarkerClass,
			Surface:  "." + FootnoteSurfaceClass,
			Geometry: o.geometry(o.Footnote),
		},
	}
}

var (
	errNegativeDelay = errors.New("tooltip delays must be non-negative")
	errWidth         = errors.New("popover width must be positive")
	errPrefer        = errors.New(`popover prefer must be "above" or "below"`)
)

// Validate checks o for values no popover can work with.
func (o Options) Validate() error {
	switch {
	case o.Grace < 0 || o.Fade < 0 || o.TapWindow < 0:
		return errNegativeDelay
	case o.Glossary.Width <= 0 || o.Footnote.Width <= 0:
		return errWidth
	}
	for _, p := range []string{o.Glossary.Prefer, o.Footnote.Prefer} {
		if p != "above" && p != "below" {
			return errPrefer
		}
	}
	return nil
}
