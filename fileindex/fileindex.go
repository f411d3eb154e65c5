// Package fileindex builds and queries the lowercase stem -> (extension,
// path) multimap spec.md §4.8 describes, used to resolve a scene or asset
// name to its file on disk regardless of case or exact extension.
package fileindex

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rlvm/rlvm/gameexe"
	"github.com/rlvm/rlvm/rlerr"
)

// Entry is one indexed file: its extension (lowercased, without the dot)
// and its path on disk.
type Entry struct {
	Ext  string
	Path string
}

// Index is the lowercase stem -> []Entry multimap.
type Index struct {
	byStem map[string][]Entry
}

// New returns an empty Index.
func New() *Index {
	return &Index{byStem: make(map[string][]Entry)}
}

// Build recursively walks root, inserting (lowercased stem -> (lowercased
// ext, path)) for every regular file. extFilter, if non-nil, restricts
// indexing to extensions in the set (lowercased, without the dot).
func Build(root string, extFilter map[string]bool) (*Index, error) {
	idx := New()
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if extFilter != nil && !extFilter[ext] {
			return nil
		}
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		idx.byStem[stem] = append(idx.byStem[stem], Entry{Ext: ext, Path: path})
		return nil
	})
	if err != nil {
		return nil, rlerr.WithCause(rlerr.ErrNotFound, "fileindex: walk failed", err)
	}
	return idx, nil
}

// Find truncates name at the first '?', lowercases it, and returns the
// first indexed entry under that stem whose extension passes extFilter
// (nil accepts any extension). Returns rlerr.ErrNotFound if none match.
func (idx *Index) Find(name string, extFilter map[string]bool) (Entry, error) {
	if i := strings.IndexByte(name, '?'); i >= 0 {
		name = name[:i]
	}
	stem := strings.ToLower(name)
	for _, e := range idx.byStem[stem] {
		if extFilter == nil || extFilter[e.Ext] {
			return e, nil
		}
	}
	return Entry{}, rlerr.New(rlerr.ErrNotFound, "fileindex: no match for "+stem)
}

// RecognisedExtensions is the set of extensions build_from_gameexe filters
// indexed directories to.
var RecognisedExtensions = map[string]bool{
	"nwa": true, "ovk": true, "koe": true, "wav": true, "mp3": true, "ogg": true,
	"anm": true, "g00": true, "pdt": true, "gan": true, "dat": true, "txt": true,
	"utf": true, "s": true,
}

// BuildFromGameexe reads cfg's FOLDNAME.* entries for the accepted
// directory names and __GAMEPATH for the filesystem base, then indexes
// every direct subdirectory of __GAMEPATH whose lowercased name is in
// that accepted set, restricted to RecognisedExtensions.
func BuildFromGameexe(cfg *gameexe.Gameexe) (*Index, error) {
	gamepath, err := cfg.Ini("__GAMEPATH").AsString()
	if err != nil {
		return nil, rlerr.WithCause(rlerr.ErrNotFound, "fileindex: __GAMEPATH missing", err)
	}

	accepted := make(map[string]bool)
	for _, q := range cfg.Each("FOLDNAME.") {
		if name, err := q.AsString(); err == nil {
			accepted[strings.ToLower(name)] = true
		}
	}

	idx := New()
	entries, err := os.ReadDir(gamepath)
	if err != nil {
		return nil, rlerr.WithCause(rlerr.ErrNotFound, "fileindex: cannot read __GAMEPATH", err)
	}
	for _, d := range entries {
		if !d.IsDir() || !accepted[strings.ToLower(d.Name())] {
			continue
		}
		sub, err := Build(filepath.Join(gamepath, d.Name()), RecognisedExtensions)
		if err != nil {
			return nil, err
		}
		idx.merge(sub)
	}
	return idx, nil
}

func (idx *Index) merge(other *Index) {
	for stem, entries := range other.byStem {
		idx.byStem[stem] = append(idx.byStem[stem], entries...)
	}
}
