package tools

import (
	"strings"
	"testing"

	"github.com/rlvm/rlvm/bytecode"
)

func buildXrefScene() *bytecode.Scene {
	entryA := int32(0)
	entryB := int32(1)
	scene := bytecode.NewScene(1, "xref")
	scene.Add(bytecode.Element{Offset: 0, Kind: bytecode.KindText, Text: "start", EntrypointID: &entryA})
	scene.Add(bytecode.Element{Offset: 4, Kind: bytecode.KindGoto, Target: 20})
	scene.Add(bytecode.Element{Offset: 20, Kind: bytecode.KindText, Text: "mid", EntrypointID: &entryB})
	return scene
}

func TestBuildXRefsCollectsEdges(t *testing.T) {
	x := BuildXRefs(buildXrefScene())

	if len(x.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(x.Edges))
	}
	if x.Edges[0].Kind != XRefGoto || x.Edges[0].To != 20 {
		t.Errorf("unexpected edge: %+v", x.Edges[0])
	}
}

func TestReferencesToReturnsIncomingEdges(t *testing.T) {
	x := BuildXRefs(buildXrefScene())

	refs := x.ReferencesTo(20)
	if len(refs) != 1 {
		t.Fatalf("expected 1 reference to offset 20, got %d", len(refs))
	}
	if refs[0].From != 4 {
		t.Errorf("expected reference from offset 4, got %d", refs[0].From)
	}
}

func TestUnreferencedEntrypointsFindsOrphan(t *testing.T) {
	x := BuildXRefs(buildXrefScene())

	unref := x.UnreferencedEntrypoints()
	if len(unref) != 1 || unref[0] != 0 {
		t.Errorf("expected entrypoint 0 to be unreferenced, got %v", unref)
	}
}

func TestReportIncludesSummaryCounts(t *testing.T) {
	x := BuildXRefs(buildXrefScene())
	report := x.Report()

	if !strings.Contains(report, "Entrypoints:   2") {
		t.Errorf("expected entrypoint count in report, got:\n%s", report)
	}
	if !strings.Contains(report, "Unreferenced:  1") {
		t.Errorf("expected unreferenced count in report, got:\n%s", report)
	}
}
