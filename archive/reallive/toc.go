package reallive

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/rlvm/rlvm/bytestream"
	"github.com/rlvm/rlvm/rlerr"
)

// MaxScenes is the table-of-contents capacity, spec.md §4.5.
const MaxScenes = 10000

// tocEntrySize is 8 bytes: (offset_u32_le, length_u32_le).
const tocEntrySize = 8

// TocSize is the byte span the table-of-contents occupies at the head of
// the archive: MaxScenes 8-byte entries, 80000 (0x13880) bytes.
const TocSize = MaxScenes * tocEntrySize

// TocEntry is one table-of-contents slot. Offset == 0 means "absent",
// spec.md §4.5.
type TocEntry struct {
	Offset uint32
	Length uint32
}

// Present reports whether this slot names a scene.
func (e TocEntry) Present() bool { return e.Offset != 0 }

// ParseToc reads up to MaxScenes entries from the archive head.
func ParseToc(raw []byte) ([]TocEntry, error) {
	if len(raw) < TocSize {
		return nil, rlerr.Wrap(rlerr.ErrInvalidArchive, "archive shorter than the table of contents")
	}
	r := bytestream.NewReader(raw[:TocSize])
	entries := make([]TocEntry, MaxScenes)
	for i := range entries {
		offset, err := r.PopUint32()
		if err != nil {
			return nil, err
		}
		length, err := r.PopUint32()
		if err != nil {
			return nil, err
		}
		entries[i] = TocEntry{Offset: offset, Length: length}
	}
	return entries, nil
}

var seenOverrideName = regexp.MustCompile(`(?i)^SEEN(\d{4})\.TXT$`)

// ApplySeenOverrides scans dir for SEEN####.TXT files and replaces the TOC
// entry for the matching scene index with one pointing at that file's own
// bytes, spec.md §4.5: "An override pass enumerates SEEN####.TXT files ...
// and replaces the TOC entry for the matching index." The override's
// Length is the file size; the override is flagged via the returned map so
// Archive.Scene knows to read straight from disk instead of the packed
// archive.
func ApplySeenOverrides(dir string, toc []TocEntry) (map[int]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, rlerr.WithCause(rlerr.ErrNotFound, "reallive: cannot scan override directory", err)
	}

	overrides := make(map[int]string)
	for _, d := range entries {
		if d.IsDir() {
			continue
		}
		m := seenOverrideName.FindStringSubmatch(d.Name())
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil || idx < 0 || idx >= len(toc) {
			continue
		}
		path := filepath.Join(dir, d.Name())
		info, err := d.Info()
		if err != nil {
			return nil, rlerr.WithCause(rlerr.ErrNotFound, fmt.Sprintf("reallive: cannot stat override %s", d.Name()), err)
		}
		toc[idx] = TocEntry{Offset: 1, Length: uint32(info.Size())}
		overrides[idx] = path
	}
	return overrides, nil
}
