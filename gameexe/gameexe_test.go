package gameexe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLineBasic(t *testing.T) {
	g := New()
	g.ParseLine(`#CAPTION="Canon: A firearm"`)
	require.True(t, g.Exists("CAPTION"))
	s, err := g.Ini("CAPTION").AsString()
	require.NoError(t, err)
	require.Equal(t, "Canon: A firearm", s)
}

func TestParseLineIntVector(t *testing.T) {
	g := New()
	g.ParseLine(`#WINDOW_ATTR=1,2,3,4,5`)
	v, err := g.Ini("WINDOW_ATTR").AsIntVector()
	require.NoError(t, err)
	require.Equal(t, []int32{1, 2, 3, 4, 5}, v)
}

func TestParseLineMultipleKeys(t *testing.T) {
	g := New()
	g.ParseLine(`#IMAGINE.ONE=1`)
	g.ParseLine(`#IMAGINE.TWO=2`)
	g.ParseLine(`#IMAGINE.THREE=3`)

	one, err := g.Ini("IMAGINE", "ONE").AsInt()
	require.NoError(t, err)
	require.Equal(t, int32(1), one)

	two, err := g.Ini("IMAGINE", "TWO").AsInt()
	require.NoError(t, err)
	require.Equal(t, int32(2), two)
}

// compact multi-valued entry with dashes preserved inside a single token.
func TestParseLineCompactDashedEntryWithQuotedTokens(t *testing.T) {
	g := New()
	g.ParseLine(`#KEY=00000000-99999999-00269364="A"="B"`)
	require.True(t, g.Exists("KEY"))
	s0, err := g.Ini("KEY").StringAt(0)
	require.NoError(t, err)
	require.Equal(t, "00000000-99999999-00269364=\"A\"=\"B\"", s0, "a single unsplit token keeps its dashes and embedded quotes verbatim")
}

func TestRandomKeyDoesNotExist(t *testing.T) {
	g := New()
	g.ParseLine(`#CAPTION="x"`)
	require.False(t, g.Ini("RANDOM_KEY").Exists())
	_, err := g.Ini("RANDOM_KEY").AsInt()
	require.Error(t, err)
}

func TestEachFiltersByPrefixInSortedOrder(t *testing.T) {
	g := New()
	g.ParseLine(`#IMAGINE.ONE=1`)
	g.ParseLine(`#IMAGINE.TWO=2`)
	g.ParseLine(`#IMAGINE.THREE=3`)
	g.ParseLine(`#OTHER.KEY=9`)

	var got []string
	for k := range g.Each("IMAGINE.") {
		got = append(got, k)
	}
	require.Equal(t, []string{"IMAGINE.ONE", "IMAGINE.THREE", "IMAGINE.TWO"}, got)
}

func TestLoadFromReader(t *testing.T) {
	g := Load(strings.NewReader("#A=1\n#B=\"hi\"\nnot a directive\n#C=1,2,3\n"))
	require.Equal(t, 3, g.Size())
	a, _ := g.Ini("A").AsInt()
	require.Equal(t, int32(1), a)
}

func TestIniZeroPadsIntKeyParts(t *testing.T) {
	g := New()
	g.ParseLine(`#IMG.005=1`)
	v, err := g.Ini("IMG", 5).AsInt()
	require.NoError(t, err)
	require.Equal(t, int32(1), v)
}
