package effect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// grp builds a Rect from the same corner-pair notation the ground-truth
// fixtures below are quoted in: (x1,y1)-(x2,y2), not (x,y,w,h).
func grp(x1, y1, x2, y2 int) Rect {
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// Composer geometry against the four DrawerTest.* fixtures: screen
// 1920x1080, on/off strategy pairs and amount_visible as in each case.
// Expected rects below are transcribed directly from those fixtures'
// quoted "(x1,y1,x2,y2) -> (x1,y1,x2,y2)" strings.
func TestComposerSlideOffGeometry(t *testing.T) {
	c := NewComposer(Size{W: 1920, H: 1080}, LeftToRight)
	instr := c.Compose(None{}, Slide{}, Pixels(100))

	require.Equal(t, grp(0, 0, 100, 1080), instr.SrcFrom)
	require.Equal(t, grp(0, 0, 100, 1080), instr.SrcTo)
	require.Equal(t, grp(0, 0, 1820, 1080), instr.DstFrom)
	require.Equal(t, grp(100, 0, 1920, 1080), instr.DstTo)
}

func TestComposerSlideOnGeometry(t *testing.T) {
	c := NewComposer(Size{W: 1920, H: 1080}, BottomToTop)
	instr := c.Compose(Slide{}, None{}, Pixels(100))

	require.Equal(t, grp(0, 0, 1920, 100), instr.SrcFrom)
	require.Equal(t, grp(0, 980, 1920, 1080), instr.SrcTo)
	require.Equal(t, grp(0, 0, 1920, 980), instr.DstFrom)
	require.Equal(t, grp(0, 0, 1920, 980), instr.DstTo)
}

func TestComposerSquashOnSquashOffGeometry(t *testing.T) {
	c := NewComposer(Size{W: 1920, H: 1080}, TopToBottom)
	instr := c.Compose(Squash{}, Squash{}, Pixels(500))

	require.Equal(t, grp(0, 0, 1920, 1080), instr.SrcFrom)
	require.Equal(t, grp(0, 0, 1920, 500), instr.SrcTo)
	require.Equal(t, grp(0, 0, 1920, 1080), instr.DstFrom)
	require.Equal(t, grp(0, 500, 1920, 1080), instr.DstTo)
}

func TestComposerScrollOnScrollOffGeometry(t *testing.T) {
	c := NewComposer(Size{W: 1920, H: 1080}, RightToLeft)
	instr := c.Compose(Scroll{}, Scroll{}, Pixels(500))

	require.Equal(t, grp(0, 0, 500, 1080), instr.SrcFrom)
	require.Equal(t, grp(1420, 0, 1920, 1080), instr.SrcTo)
	require.Equal(t, grp(500, 0, 1920, 1080), instr.DstFrom)
	require.Equal(t, grp(0, 0, 1420, 1080), instr.DstTo)
}

func TestComposerFractionProgress(t *testing.T) {
	c := NewComposer(Size{W: 1000, H: 200}, TopToBottom)
	instr := c.Compose(Squash{}, Squash{}, Fraction(0.5))
	// primary axis (canonical H) == screen H == 200, so 0.5 -> 100px: the
	// outgoing Squash surface's sample band is the top 100px.
	require.Equal(t, Rect{X: 0, Y: 0, W: 1000, H: 100}, instr.SrcTo)
}

// Composer commutativity under rotation (spec §8 properties): for a square
// screen the canonical size is direction-invariant, so rotating the
// direction is exactly equivalent to rotating the canonical-space output.
// A non-square screen would also change the primary-axis length the
// strategies animate over, conflating two different things; the square
// case isolates the rotation itself.
func TestComposerCommutativityUnderRotationSquareScreen(t *testing.T) {
	screen := Size{W: 1000, H: 1000}
	on, off := Scroll{}, Squash{}
	progress := Pixels(300)

	canonical := NewComposer(screen, TopToBottom).Compose(on, off, progress)

	for _, d := range []Direction{BottomToTop, LeftToRight, RightToLeft} {
		rotator := Rotator{Screen: screen, Direction: d}
		got := NewComposer(screen, d).Compose(on, off, progress)
		want := DrawInstruction{
			SrcFrom: rotator.Rect(canonical.SrcFrom),
			DstFrom: rotator.Rect(canonical.DstFrom),
			SrcTo:   rotator.Rect(canonical.SrcTo),
			DstTo:   rotator.Rect(canonical.DstTo),
		}
		require.Equal(t, want, got, "direction %v", d)
	}
}

func TestStyleTableCoversDocumentedStyles(t *testing.T) {
	for _, style := range []int{15, 16, 17, 18, 20, 21, 10, 120} {
		_, ok := Style(style)
		require.True(t, ok, "style %d must be registered", style)
	}
	_, ok := Style(999)
	require.False(t, ok)
}

func TestStyle20IsSlideOnNoneOff(t *testing.T) {
	pair, ok := Style(20)
	require.True(t, ok)
	require.IsType(t, Slide{}, pair.On)
	require.IsType(t, None{}, pair.Off)
}

func TestBlindSlatBoundsStayWithinBand(t *testing.T) {
	b := Blind{Slats: 4}
	size := Size{W: 100, H: 400}
	for i := 0; i < 4; i++ {
		r := b.SlatBounds(i, 50, size)
		require.Equal(t, i*100, r.Y)
		require.LessOrEqual(t, r.H, 100)
	}
}
