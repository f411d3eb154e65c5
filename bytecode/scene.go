package bytecode

import "github.com/rlvm/rlvm/expr"

// Encoding tags which source text encoding a Scene's Text elements were
// decoded from (spec §3 [EXPANSION]). No code-page conversion table is
// implemented beyond this tag — "any particular text-rendering algorithm"
// is out of scope (spec §1 Non-goals) — callers needing the original
// bytes keep Element.Text as decoded best-effort UTF-8.
type Encoding int

const (
	EncodingShiftJIS Encoding = iota
	EncodingCP932
	EncodingUTF8
)

// Scene is one parsed script: the decompressed bytecode walked into
// Elements, plus every side table the archive header locates (spec §3).
type Scene struct {
	ID   int
	Name string

	// Arena backs every expr.ID referenced from Elements' Expr/Args/Cases
	// fields — a Scene owns exactly one Arena, shared by all its elements.
	Arena *expr.Arena

	// Elements maps byte offset (within the decompressed bytecode) to the
	// element parsed there, the archive parser's "(byte_offset ->
	// element)" pairs.
	Elements map[uint32]Element

	// Order holds the offsets in Elements in parse order, since map
	// iteration order is undefined and callers need to walk the scene
	// sequentially.
	Order []uint32

	Strings           []string
	Labels            []uint32
	ZLabels           []uint32
	CmdLabels         []uint32
	Properties        []int
	Commands          []int
	CallPropertyNames []string
	NameRefs          []string
	KidokuLines       []uint32

	// Entrypoints maps entrypoint id to the bytecode offset it starts at.
	Entrypoints map[int32]uint32

	SourceEncoding Encoding
}

// NewScene returns an empty Scene ready for a parser to populate.
func NewScene(id int, name string) *Scene {
	return &Scene{
		ID:          id,
		Name:        name,
		Arena:       expr.NewArena(),
		Elements:    make(map[uint32]Element),
		Entrypoints: make(map[int32]uint32),
	}
}

// Add records element at its Offset, appending to Order and, if the
// element carries an EntrypointID, registering it in Entrypoints.
func (s *Scene) Add(element Element) {
	s.Elements[element.Offset] = element
	s.Order = append(s.Order, element.Offset)
	if element.EntrypointID != nil {
		s.Entrypoints[*element.EntrypointID] = element.Offset
	}
}

// At returns the element parsed at the given offset, if any.
func (s *Scene) At(offset uint32) (Element, bool) {
	e, ok := s.Elements[offset]
	return e, ok
}

// EntrypointOffset resolves an entrypoint id to its bytecode offset.
func (s *Scene) EntrypointOffset(id int32) (uint32, bool) {
	off, ok := s.Entrypoints[id]
	return off, ok
}
