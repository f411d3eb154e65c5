package fileindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rlvm/rlvm/gameexe"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	return p
}

func TestBuildAndFind(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Scene001.TXT")
	writeFile(t, root, "scene001.utf")

	idx, err := Build(root, nil)
	require.NoError(t, err)

	e, err := idx.Find("SCENE001", nil)
	require.NoError(t, err)
	require.Contains(t, []string{"txt", "utf"}, e.Ext)
}

func TestFindTruncatesAtQuestionMark(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "foo.nwa")

	idx, err := Build(root, nil)
	require.NoError(t, err)

	e, err := idx.Find("foo?something-ignored", nil)
	require.NoError(t, err)
	require.Equal(t, "nwa", e.Ext)
}

func TestFindRespectsExtFilter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "bar.wav")

	idx, err := Build(root, nil)
	require.NoError(t, err)

	_, err = idx.Find("bar", map[string]bool{"ogg": true})
	require.Error(t, err)

	e, err := idx.Find("bar", map[string]bool{"wav": true})
	require.NoError(t, err)
	require.Equal(t, "wav", e.Ext)
}

func TestBuildFromGameexe(t *testing.T) {
	root := t.TempDir()
	bgm := filepath.Join(root, "bgm")
	other := filepath.Join(root, "ignored")
	require.NoError(t, os.MkdirAll(bgm, 0o755))
	require.NoError(t, os.MkdirAll(other, 0o755))
	writeFile(t, bgm, "track01.nwa")
	writeFile(t, other, "track01.nwa")

	cfg := gameexe.New()
	cfg.ParseLine(`#FOLDNAME.001="bgm"`)
	cfg.ParseLine(`#__GAMEPATH="` + root + `"`)

	idx, err := BuildFromGameexe(cfg)
	require.NoError(t, err)

	e, err := idx.Find("track01", nil)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(bgm, "track01.nwa"), e.Path)
}
