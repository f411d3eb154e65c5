package effect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Rotator.Rect against a non-full-width rect, ground-truthed against
// RotatorTest.RotateRect: screen 1920x1080, input rect (100,100)-(720,680).
func TestRotatorRectNonFullWidth(t *testing.T) {
	screen := Size{W: 1920, H: 1080}
	in := grp(100, 100, 720, 680)

	require.Equal(t, grp(100, 100, 720, 680), Rotator{Screen: screen, Direction: TopToBottom}.Rect(in))
	require.Equal(t, grp(1200, 400, 1820, 980), Rotator{Screen: screen, Direction: BottomToTop}.Rect(in))
	require.Equal(t, grp(100, 360, 680, 980), Rotator{Screen: screen, Direction: LeftToRight}.Rect(in))
	require.Equal(t, grp(1240, 100, 1820, 720), Rotator{Screen: screen, Direction: RightToLeft}.Rect(in))
}
