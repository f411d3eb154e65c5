package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rlvm/rlvm/bytecode"
)

// XRefKind names how an offset is referenced, the scene analogue of the
// teacher's ReferenceType (branch/call/load/store collapsed to this
// model's goto/gosub/select-case shapes).
type XRefKind int

const (
	XRefGoto XRefKind = iota
	XRefGotoCase
	XRefGotoOn
	XRefGosub
)

func (k XRefKind) String() string {
	switch k {
	case XRefGoto:
		return "goto"
	case XRefGotoCase:
		return "goto_case"
	case XRefGotoOn:
		return "goto_on"
	case XRefGosub:
		return "gosub"
	default:
		return "unknown"
	}
}

// XRef is one reference from a source offset to a target offset.
type XRef struct {
	Kind XRefKind
	From uint32
	To   uint32
}

// SceneXRefs is the cross-reference table for one scene: every jump/call
// edge, every entrypoint, and which offsets are reachable as a jump
// target versus defined-but-unreferenced.
type SceneXRefs struct {
	Edges       []XRef
	Entrypoints map[int32]uint32

	referencedBy map[uint32][]XRef
}

// BuildXRefs walks scene once, collecting every jump/call edge, the
// teacher's XRefGenerator.Generate adapted from "parse source, collect
// label references" to "walk an already-decoded element stream".
func BuildXRefs(scene *bytecode.Scene) *SceneXRefs {
	x := &SceneXRefs{
		Entrypoints:  make(map[int32]uint32, len(scene.Entrypoints)),
		referencedBy: make(map[uint32][]XRef),
	}
	for id, off := range scene.Entrypoints {
		x.Entrypoints[id] = off
	}

	for _, off := range scene.Order {
		el, _ := scene.At(off)
		switch el.Kind {
		case bytecode.KindGoto:
			x.addEdge(XRef{Kind: XRefGoto, From: off, To: el.Target})
		case bytecode.KindGotoCase:
			for _, t := range el.Targets {
				x.addEdge(XRef{Kind: XRefGotoCase, From: off, To: t})
			}
		case bytecode.KindGotoOn:
			for _, t := range el.Targets {
				x.addEdge(XRef{Kind: XRefGotoOn, From: off, To: t})
			}
		case bytecode.KindGosubWith:
			x.addEdge(XRef{Kind: XRefGosub, From: off, To: el.Target})
		}
	}
	return x
}

func (x *SceneXRefs) addEdge(ref XRef) {
	x.Edges = append(x.Edges, ref)
	x.referencedBy[ref.To] = append(x.referencedBy[ref.To], ref)
}

// ReferencesTo returns every edge landing on offset, in source order.
func (x *SceneXRefs) ReferencesTo(offset uint32) []XRef {
	return x.referencedBy[offset]
}

// UnreferencedEntrypoints returns entrypoint ids whose offset is never the
// target of a goto/gosub edge elsewhere in the scene — the scene-graph
// counterpart to the teacher's GetUnusedSymbols.
func (x *SceneXRefs) UnreferencedEntrypoints() []int32 {
	var ids []int32
	for id, off := range x.Entrypoints {
		if len(x.referencedBy[off]) == 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Report renders a text cross-reference report in the teacher's
// XRefReport style: one section per entrypoint plus a summary.
func (x *SceneXRefs) Report() string {
	var sb strings.Builder
	sb.WriteString("Entrypoint Cross-Reference\n")
	sb.WriteString("==========================\n\n")

	ids := make([]int32, 0, len(x.Entrypoints))
	for id := range x.Entrypoints {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		off := x.Entrypoints[id]
		fmt.Fprintf(&sb, "entrypoint %d @ 0x%06X\n", id, off)
		refs := x.referencedBy[off]
		if len(refs) == 0 {
			sb.WriteString("  referenced: (never)\n")
		} else {
			fmt.Fprintf(&sb, "  referenced: %d time(s)\n", len(refs))
			for _, r := range refs {
				fmt.Fprintf(&sb, "    %s from 0x%06X\n", r.Kind, r.From)
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Summary\n")
	sb.WriteString("=======\n")
	fmt.Fprintf(&sb, "Entrypoints:   %d\n", len(x.Entrypoints))
	fmt.Fprintf(&sb, "Edges:         %d\n", len(x.Edges))
	fmt.Fprintf(&sb, "Unreferenced:  %d\n", len(x.UnreferencedEntrypoints()))

	return sb.String()
}
