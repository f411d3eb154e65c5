package tools

import (
	"fmt"
	"sort"

	"github.com/rlvm/rlvm/archive/reallive"
	"github.com/rlvm/rlvm/bytecode"
)

// LintLevel mirrors the teacher's three-tier severity (error/warning/info).
type LintLevel int

const (
	LintError LintLevel = iota
	LintWarning
	LintInfo
)

func (l LintLevel) String() string {
	switch l {
	case LintError:
		return "error"
	case LintWarning:
		return "warning"
	case LintInfo:
		return "info"
	default:
		return "unknown"
	}
}

// LintIssue is one finding, the scene/archive analogue of the teacher's
// line/column-addressed LintIssue — addressed by bytecode offset (or TOC
// index for archive-level findings) instead.
type LintIssue struct {
	Level   LintLevel
	Offset  uint32 // meaningful for scene-level issues
	Index   int    // meaningful for archive-level issues
	Message string
	Code    string
}

func (i *LintIssue) String() string {
	if i.Code == "" {
		return fmt.Sprintf("%s: %s", i.Level, i.Message)
	}
	return fmt.Sprintf("0x%06X: %s: %s [%s]", i.Offset, i.Level, i.Message, i.Code)
}

// LintScene analyzes a decoded scene for structural issues: goto/select
// targets that don't land on a known element, duplicate entrypoint ids,
// and code after an unconditional goto with no label reachable from
// elsewhere (spec.md §4.5's parsed element model makes all of these
// checkable without a bytecode dispatcher).
func LintScene(scene *bytecode.Scene) []*LintIssue {
	var issues []*LintIssue

	issues = append(issues, checkGotoTargets(scene)...)
	issues = append(issues, checkDuplicateEntrypoints(scene)...)
	issues = append(issues, checkUnreachableAfterGoto(scene)...)

	sort.Slice(issues, func(i, j int) bool { return issues[i].Offset < issues[j].Offset })
	return issues
}

func checkGotoTargets(scene *bytecode.Scene) []*LintIssue {
	var issues []*LintIssue
	checkTarget := func(from, target uint32) {
		if _, ok := scene.At(target); !ok {
			issues = append(issues, &LintIssue{
				Level:   LintError,
				Offset:  from,
				Message: fmt.Sprintf("jump target 0x%06X does not land on a parsed element", target),
				Code:    "BAD_JUMP_TARGET",
			})
		}
	}
	for _, off := range scene.Order {
		el, _ := scene.At(off)
		switch el.Kind {
		case bytecode.KindGoto:
			checkTarget(off, el.Target)
		case bytecode.KindGotoCase, bytecode.KindGotoOn:
			for _, t := range el.Targets {
				checkTarget(off, t)
			}
		case bytecode.KindGosubWith:
			checkTarget(off, el.Target)
		}
	}
	return issues
}

func checkDuplicateEntrypoints(scene *bytecode.Scene) []*LintIssue {
	var issues []*LintIssue
	seen := make(map[int32]uint32)
	for _, off := range scene.Order {
		el, _ := scene.At(off)
		if el.EntrypointID == nil {
			continue
		}
		id := *el.EntrypointID
		if firstOff, ok := seen[id]; ok {
			issues = append(issues, &LintIssue{
				Level:   LintWarning,
				Offset:  off,
				Message: fmt.Sprintf("entrypoint %d already defined at 0x%06X", id, firstOff),
				Code:    "DUPLICATE_ENTRYPOINT",
			})
			continue
		}
		seen[id] = off
	}
	return issues
}

// checkUnreachableAfterGoto flags an element immediately following an
// unconditional KindGoto that is not itself a jump/gosub target and does
// not mark an entrypoint, mirroring the teacher's unreachable-code check
// adapted from "after B/BL" to "after an unconditional scene goto".
func checkUnreachableAfterGoto(scene *bytecode.Scene) []*LintIssue {
	targets := make(map[uint32]bool)
	for _, off := range scene.Order {
		el, _ := scene.At(off)
		switch el.Kind {
		case bytecode.KindGoto:
			targets[el.Target] = true
		case bytecode.KindGotoCase, bytecode.KindGotoOn:
			for _, t := range el.Targets {
				targets[t] = true
			}
		case bytecode.KindGosubWith:
			targets[el.Target] = true
		}
	}
	for id := range scene.Entrypoints {
		targets[scene.Entrypoints[id]] = true
	}

	var issues []*LintIssue
	for i, off := range scene.Order {
		el, _ := scene.At(off)
		if el.Kind != bytecode.KindGoto {
			continue
		}
		if i+1 >= len(scene.Order) {
			continue
		}
		next := scene.Order[i+1]
		if !targets[next] {
			issues = append(issues, &LintIssue{
				Level:   LintWarning,
				Offset:  next,
				Message: "element immediately follows an unconditional goto and is not itself a known jump target",
				Code:    "UNREACHABLE_ELEMENT",
			})
		}
	}
	return issues
}

// LintToc analyzes a RealLive table of contents for structural issues:
// entries whose (offset, length) run past the archive, and overlapping
// entries — the archive-level counterpart to LintScene's element-level
// checks.
func LintToc(toc []reallive.TocEntry, archiveSize int) []*LintIssue {
	var issues []*LintIssue

	type span struct {
		index      int
		start, end uint64
	}
	var spans []span

	for i, e := range toc {
		if !e.Present() {
			continue
		}
		end := uint64(e.Offset) + uint64(e.Length)
		if end > uint64(archiveSize) {
			issues = append(issues, &LintIssue{
				Level:   LintError,
				Index:   i,
				Message: fmt.Sprintf("scene %d's entry runs past end of archive (offset %d, length %d, archive size %d)", i, e.Offset, e.Length, archiveSize),
				Code:    "TOC_ENTRY_OUT_OF_BOUNDS",
			})
			continue
		}
		spans = append(spans, span{index: i, start: uint64(e.Offset), end: end})
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	for i := 1; i < len(spans); i++ {
		if spans[i].start < spans[i-1].end {
			issues = append(issues, &LintIssue{
				Level:   LintWarning,
				Index:   spans[i].index,
				Message: fmt.Sprintf("scene %d overlaps scene %d's byte range", spans[i].index, spans[i-1].index),
				Code:    "TOC_ENTRY_OVERLAP",
			})
		}
	}

	sort.Slice(issues, func(i, j int) bool { return issues[i].Index < issues[j].Index })
	return issues
}
