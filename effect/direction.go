// Package effect implements the screen-transition composer: a direction
// rotator, a geometry-only strategy contract, and the style table mapping
// legacy effect numbers to on/off strategy pairs.
package effect

// Direction is the axis a transition reveals along.
type Direction int

const (
	TopToBottom Direction = iota
	BottomToTop
	LeftToRight
	RightToLeft
)

// Size is a screen or canonical-space extent.
type Size struct {
	W, H int
}

// Rect is a geometry-only rectangle: no pixel data, just placement.
type Rect struct {
	X, Y, W, H int
}

// Rotator maps between canonical top-to-bottom space (every Strategy is
// written as if the reveal axis were always vertical) and real screen
// space for the chosen Direction. For LeftToRight/RightToLeft the canonical
// primary axis (height) is transposed onto the screen's width.
type Rotator struct {
	Screen    Size
	Direction Direction
}

// CanonicalSize returns the screen size as the canonical strategies see it:
// unchanged for vertical directions, transposed for horizontal ones.
func (r Rotator) CanonicalSize() Size {
	switch r.Direction {
	case LeftToRight, RightToLeft:
		return Size{W: r.Screen.H, H: r.Screen.W}
	default:
		return r.Screen
	}
}

// Rect maps a rectangle computed in canonical space into real screen
// coordinates.
func (r Rotator) Rect(cr Rect) Rect {
	switch r.Direction {
	case TopToBottom:
		return cr
	case BottomToTop:
		return Rect{X: r.Screen.W - cr.X - cr.W, Y: r.Screen.H - cr.Y - cr.H, W: cr.W, H: cr.H}
	case LeftToRight:
		return Rect{X: cr.Y, Y: r.Screen.H - cr.X - cr.W, W: cr.H, H: cr.W}
	case RightToLeft:
		return Rect{X: r.Screen.W - cr.Y - cr.H, Y: cr.X, W: cr.H, H: cr.W}
	default:
		return cr
	}
}
