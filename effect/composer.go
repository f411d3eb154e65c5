package effect

// DrawInstruction is everything a renderer needs to composite one tick of
// a transition, grouped by surface rather than by on/off role: SrcFrom/SrcTo
// are the outgoing ("off") surface's own sample/placement pair, DstFrom/DstTo
// are the incoming ("on") surface's own sample/placement pair. Render each
// pair independently: src_surface.RenderToScreen(SrcFrom, SrcTo),
// dst_surface.RenderToScreen(DstFrom, DstTo).
type DrawInstruction struct {
	SrcFrom, SrcTo Rect
	DstFrom, DstTo Rect
}

// Composer holds the fixed screen/direction geometry for a transition and
// turns a (on, off, progress) triple into screen-space draw rects.
type Composer struct {
	rotator Rotator
}

// NewComposer builds a Composer for the given screen size and reveal
// direction.
func NewComposer(screen Size, direction Direction) *Composer {
	return &Composer{rotator: Rotator{Screen: screen, Direction: direction}}
}

// Compose returns the draw instruction for one tick. The outgoing (off)
// surface is evaluated at the raw amount-visible pixel count, and its
// sample/placement pair is printed placement-first: off's ComputeDstRect
// is where the layer currently sits, ComputeSrcRect where it started, so
// SrcFrom->SrcTo reads as "how the outgoing surface moves". The incoming
// (on) surface is evaluated at the complementary amount (size.H-av, so it
// grows exactly as the outgoing layer's reveal grows), mirrored top-to-
// bottom in canonical space (its bands anchor at the bottom edge), and is
// also printed placement-first: DstFrom is the mirrored ComputeDstRect,
// DstTo the mirrored ComputeSrcRect.
func (c *Composer) Compose(on, off Strategy, progress Progress) DrawInstruction {
	size := c.rotator.CanonicalSize()
	av := progress.resolve(size.H)
	onAv := size.H - av

	offSrc := off.ComputeSrcRect(av, size)
	offDst := off.ComputeDstRect(av, size)
	onSrc := on.ComputeSrcRect(onAv, size)
	onDst := on.ComputeDstRect(onAv, size)

	mirror := func(r Rect) Rect { return Rect{X: r.X, Y: size.H - r.Y - r.H, W: r.W, H: r.H} }

	return DrawInstruction{
		SrcFrom: c.rotator.Rect(offDst),
		SrcTo:   c.rotator.Rect(offSrc),
		DstFrom: c.rotator.Rect(mirror(onDst)),
		DstTo:   c.rotator.Rect(mirror(onSrc)),
	}
}
