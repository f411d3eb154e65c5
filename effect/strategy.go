package effect

// Progress is the composer's "amount visible" input: either a literal
// pixel count along the reveal axis, or a fraction in [0,1] the composer
// scales by the canonical primary-axis length.
type Progress struct {
	pixels int
	frac   float64
	isFrac bool
}

// Pixels builds a Progress from a literal pixel count.
func Pixels(n int) Progress { return Progress{pixels: n} }

// Fraction builds a Progress from a [0,1] fraction of the primary axis.
func Fraction(f float64) Progress { return Progress{frac: f, isFrac: true} }

func (p Progress) resolve(primaryAxisLen int) int {
	if p.isFrac {
		return int(p.frac*float64(primaryAxisLen) + 0.5)
	}
	return p.pixels
}

// Strategy is the geometry contract every built-in and style-table entry
// implements: given how many pixels of the reveal are visible along the
// canonical primary axis, produce the source sample rect and destination
// placement rect. No blitting; the renderer owns pixels. Composer calls
// every Strategy the same way regardless of whether it is playing the
// incoming (on) or outgoing (off) role in a transition — see Composer.Compose
// for how the two roles' amount-visible parameters and rect pairings differ.
type Strategy interface {
	ComputeSrcRect(amountVisible int, size Size) Rect
	ComputeDstRect(amountVisible int, size Size) Rect
}

// None samples a growing top-anchored band of the image and places it in
// the complementary band at the bottom of the screen, the same shape
// Scroll uses: a plain translating reveal with no stretch.
type None struct{}

func (None) ComputeSrcRect(av int, size Size) Rect { return Rect{0, 0, size.W, av} }
func (None) ComputeDstRect(av int, size Size) Rect {
	return Rect{X: 0, Y: size.H - av, W: size.W, H: av}
}

// Scroll samples a growing top-anchored band and places it in the
// complementary band at the bottom of the screen: the image enters by
// translating in, never stretching.
type Scroll struct{}

func (Scroll) ComputeSrcRect(av int, size Size) Rect { return Rect{0, 0, size.W, av} }
func (Scroll) ComputeDstRect(av int, size Size) Rect {
	return Rect{X: 0, Y: size.H - av, W: size.W, H: av}
}

// Squash samples a growing top-anchored band of the image and places it
// across the full screen every time: the visible slice grows while its
// placement never moves or resizes.
type Squash struct{}

func (Squash) ComputeSrcRect(av int, size Size) Rect { return Rect{0, 0, size.W, av} }
func (Squash) ComputeDstRect(_ int, size Size) Rect  { return Rect{0, 0, size.W, size.H} }

// Slide samples only the amountVisible-tall slice of the image it places
// on screen: unlike Squash it never stretches, so its source and
// destination rects always coincide.
type Slide struct{}

func (Slide) ComputeSrcRect(av int, size Size) Rect { return Rect{0, 0, size.W, av} }
func (Slide) ComputeDstRect(av int, size Size) Rect { return Rect{0, 0, size.W, av} }

// Wipe is style 10's direction-specialised clip-rect strategy: same shape
// as Squash, since the renderer dispatches per-tick clip rectangles rather
// than a blit mode.
type Wipe struct{}

func (Wipe) ComputeSrcRect(av int, size Size) Rect { return Rect{0, 0, size.W, av} }
func (Wipe) ComputeDstRect(_ int, size Size) Rect  { return Rect{0, 0, size.W, size.H} }

// Blind is style 120's direction-specialised strategy: the reveal band is
// divided into Slats equal, independently-revealing bands. ComputeDstRect
// reports the full-screen placement Squash/Wipe use, since for equal-width
// slats revealing in lockstep the bounding box of every visible slat band
// is the same full-screen rect; Slats is kept as a distinct field so a
// renderer that wants true per-slat clip rects can recompute them from it
// via SlatBounds.
type Blind struct {
	Slats int
}

func (b Blind) slatCount() int {
	if b.Slats <= 0 {
		return 1
	}
	return b.Slats
}

func (b Blind) ComputeSrcRect(av int, size Size) Rect { return Rect{0, 0, size.W, av} }
func (b Blind) ComputeDstRect(_ int, size Size) Rect  { return Rect{0, 0, size.W, size.H} }

// SlatBounds returns the per-slat [top, bottom) bounds (in canonical
// space) for slat i out of b.slatCount, each revealing av pixels of its
// own band independently.
func (b Blind) SlatBounds(i, av int, size Size) Rect {
	n := b.slatCount()
	bandH := size.H / n
	top := i * bandH
	visible := av
	if visible > bandH {
		visible = bandH
	}
	return Rect{X: 0, Y: top, W: size.W, H: visible}
}
