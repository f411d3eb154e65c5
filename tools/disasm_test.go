package tools

import (
	"strings"
	"testing"

	"github.com/rlvm/rlvm/bytecode"
)

func buildSampleScene() *bytecode.Scene {
	scene := bytecode.NewScene(1, "sample")
	id := int32(0)
	scene.Add(bytecode.Element{Offset: 0, Kind: bytecode.KindText, Text: "hello", EntrypointID: &id})
	constID := scene.Arena.IntConstant(42)
	scene.Add(bytecode.Element{Offset: 10, Kind: bytecode.KindExpression, Expr: constID})
	scene.Add(bytecode.Element{Offset: 14, Kind: bytecode.KindGoto, Target: 0})
	return scene
}

func TestDisassembleIncludesOffsetsAndMnemonics(t *testing.T) {
	scene := buildSampleScene()
	out := DisassembleScene(scene)

	if !strings.Contains(out, "0x000000:") {
		t.Error("expected offset column for first element")
	}
	if !strings.Contains(out, "TEXT") {
		t.Error("expected TEXT mnemonic")
	}
	if !strings.Contains(out, `"hello"`) {
		t.Error("expected quoted text operand")
	}
	if !strings.Contains(out, "GOTO") || !strings.Contains(out, "0x000000") {
		t.Error("expected GOTO operand rendering its target offset")
	}
	if !strings.Contains(out, "entrypoint 0") {
		t.Error("expected entrypoint annotation on the first element")
	}
}

func TestDisassembleCompactOptionsOmitAlignment(t *testing.T) {
	scene := buildSampleScene()
	d := NewDisassembler(CompactDisasmOptions())
	out := d.Disassemble(scene)

	if !strings.Contains(out, "TEXT") {
		t.Error("expected TEXT mnemonic in compact output")
	}
}

func TestRenderExprNestedBinary(t *testing.T) {
	scene := bytecode.NewScene(1, "expr")
	lhs := scene.Arena.IntConstant(1)
	rhs := scene.Arena.IntConstant(2)
	// Binary folds constant arithmetic at construction for pure ops, so use
	// an op outside [opAdd,opShr] to keep a real Binary node for rendering.
	bin := scene.Arena.Binary(100, lhs, rhs)

	out := renderExpr(scene.Arena, bin)
	if !strings.Contains(out, "1") || !strings.Contains(out, "2") {
		t.Errorf("expected both operands rendered, got %q", out)
	}
}
