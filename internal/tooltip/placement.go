package tooltip

// Rect is a bounding box in viewport pixels.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Right() float64  { return r.Left + r.Width }
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Viewport is the visible area size.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Prefer is the side a popover opens on when there is room.
type Prefer int

const (
	PreferBelow Prefer = iota
	PreferAbove
)

func (p Prefer) String() string {
	if p == PreferAbove {
		return "above"
	}
	return "below"
}

// ParsePrefer maps "above" to PreferAbove and anything else to PreferBelow.
func ParsePrefer(s string) Prefer {
	if s == "above" {
		return PreferAbove
	}
	return PreferBelow
}

// Geometry configures placement for one popover type.
type Geometry struct {
	Width         float64 `json:"width"`
	Prefer        Prefer  `json:"prefer"`
	FlipThreshold float64 `json:"flipThreshold"`
	Margin        float64 `json:"margin"`
	Gap           float64 `json:"gap"`
}

// Placement positions a popover. Top is the edge nearest the anchor; when
// Above is set the popover is shifted up by its own height (ShiftY = -1, a
// translateY(-100%)) so it ends at Top instead of starting there.
type Placement struct {
	Left    float64 `json:"left"`
	Top     float64 `json:"top"`
	Width   float64 `json:"width"`
	Above   bool    `json:"above"`
	Flipped bool    `json:"flipped"`
	ShiftY  float64 `json:"shiftY"`
}

// Box resolves the placement to a rectangle once the popover height is known.
func (p Placement) Box(height float64) Rect {
	return Rect{Left: p.Left, Top: p.Top + p.ShiftY*height, Width: p.Width, Height: height}
}

// Place centers the popover on the anchor, clamps it horizontally to the
// viewport margin and picks the vertical side, flipping away from the
// preferred side when the space there is below the threshold.
func Place(anchor Rect, vp Viewport, g Geometry) Placement {
	left := anchor.Left + anchor.Width/2 - g.Width/2
	if maxLeft := vp.Width - g.Margin - g.Width; left > maxLeft {
		left = maxLeft
	}
	if left < g.Margin {
		left = g.Margin
	}

	above := g.Prefer == PreferAbove
	flipped := false
	if above {
		if anchor.Top < g.FlipThreshold {
			above, flipped = false, true
		}
	} else if vp.Height-anchor.Bottom() < g.FlipThreshold {
		above, flipped = true, true
	}

	p := Placement{Left: left, Width: g.Width, Above: above, Flipped: flipped}
	if above {
		p.Top = anchor.Top - g.Gap
		p.ShiftY = -1
	} else {
		p.Top = anchor.Bottom() + g.Gap
	}
	return p
}

func (p Prefer) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Prefer) UnmarshalText(b []byte) error {
	*p = ParsePrefer(string(b))
	return nil
}
