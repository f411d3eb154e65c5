// Package tools implements the disassembly formatter, archive linter, and
// cross-reference walker spec.md's tools/ ambient layer names: ways to
// inspect an already-decoded bytecode.Scene or archive table of contents
// without a running scheduler. Grounded in the teacher's tools/format.go,
// tools/lint.go, and tools/xref.go, generalised from "ARM assembly source"
// to "decoded RealLive/Siglus element stream" — every pass here walks
// already-parsed data rather than re-parsing source text.
package tools

import (
	"fmt"
	"strings"

	"github.com/rlvm/rlvm/bytecode"
	"github.com/rlvm/rlvm/expr"
)

// DisasmOptions controls column layout, mirroring the teacher's
// FormatOptions (offset column, mnemonic column, operand column).
type DisasmOptions struct {
	OffsetColumn   int
	MnemonicColumn int
	OperandColumn  int
	AlignColumns   bool
}

// DefaultDisasmOptions returns the standard column layout.
func DefaultDisasmOptions() *DisasmOptions {
	return &DisasmOptions{
		OffsetColumn:   0,
		MnemonicColumn: 12,
		OperandColumn:  24,
		AlignColumns:   true,
	}
}

// CompactDisasmOptions packs offset/mnemonic/operands onto one line with
// minimal whitespace, no column alignment.
func CompactDisasmOptions() *DisasmOptions {
	return &DisasmOptions{AlignColumns: false}
}

// Disassembler renders a bytecode.Scene's Elements as one line per
// instruction in source order.
type Disassembler struct {
	options *DisasmOptions
}

// NewDisassembler creates a Disassembler with the given options, or
// DefaultDisasmOptions if opts is nil.
func NewDisassembler(opts *DisasmOptions) *Disassembler {
	if opts == nil {
		opts = DefaultDisasmOptions()
	}
	return &Disassembler{options: opts}
}

// Disassemble renders every element of scene, in Order, as text.
func (d *Disassembler) Disassemble(scene *bytecode.Scene) string {
	var out strings.Builder
	fmt.Fprintf(&out, "scene %d (%s)\n", scene.ID, scene.Name)
	for _, off := range scene.Order {
		el, ok := scene.At(off)
		if !ok {
			continue
		}
		d.formatElement(&out, scene, el)
	}
	return out.String()
}

func (d *Disassembler) formatElement(out *strings.Builder, scene *bytecode.Scene, el bytecode.Element) {
	var line strings.Builder

	offsetField := fmt.Sprintf("0x%06X:", el.Offset)
	line.WriteString(offsetField)
	if d.options.AlignColumns {
		padToColumn(&line, d.options.MnemonicColumn)
	} else {
		line.WriteString(" ")
	}

	mnemonic, operands := d.renderMnemonicAndOperands(scene, el)
	line.WriteString(mnemonic)
	if operands != "" {
		if d.options.AlignColumns {
			padToColumn(&line, d.options.OperandColumn)
		} else {
			line.WriteString(" ")
		}
		line.WriteString(operands)
	}
	if id, ok := entrypointLabel(el); ok {
		fmt.Fprintf(&line, "  ; entrypoint %d", id)
	}

	out.WriteString(line.String())
	out.WriteString("\n")
}

func entrypointLabel(el bytecode.Element) (int32, bool) {
	if el.EntrypointID == nil {
		return 0, false
	}
	return *el.EntrypointID, true
}

func (d *Disassembler) renderMnemonicAndOperands(scene *bytecode.Scene, el bytecode.Element) (mnemonic, operands string) {
	switch el.Kind {
	case bytecode.KindText:
		return "TEXT", fmt.Sprintf("%q", el.Text)
	case bytecode.KindExpression:
		return "EXPR", renderExpr(scene.Arena, el.Expr)
	case bytecode.KindCommand:
		args := make([]string, len(el.Args))
		for i, a := range el.Args {
			args[i] = renderExpr(scene.Arena, a)
		}
		return fmt.Sprintf("CMD<%d:%d,%d>", el.Op.Mod, el.Op.Cmd, el.Op.Overload), strings.Join(args, ", ")
	case bytecode.KindSelect:
		cases := make([]string, len(el.Cases))
		for i, c := range el.Cases {
			cases[i] = renderExpr(scene.Arena, c)
		}
		return "SELECT", strings.Join(cases, ", ")
	case bytecode.KindGoto:
		return "GOTO", fmt.Sprintf("0x%06X", el.Target)
	case bytecode.KindGotoCase:
		return "GOTO_CASE", renderTargets(el.Targets)
	case bytecode.KindGotoOn:
		return "GOTO_ON", renderTargets(el.Targets)
	case bytecode.KindGosubWith:
		args := make([]string, len(el.Args))
		for i, a := range el.Args {
			args[i] = renderExpr(scene.Arena, a)
		}
		return fmt.Sprintf("GOSUB 0x%06X", el.Target), strings.Join(args, ", ")
	case bytecode.KindFunction:
		return "FUNCTION", el.Name
	case bytecode.KindPointer:
		return "POINTER", el.Name
	case bytecode.KindMeta:
		return metaMnemonic(el.MetaTag), fmt.Sprintf("%d", el.MetaValue)
	case bytecode.KindComma:
		return "COMMA", ""
	default:
		return "?", ""
	}
}

func metaMnemonic(tag bytecode.MetaTag) string {
	switch tag {
	case bytecode.MetaLine:
		return "META_LINE"
	case bytecode.MetaKidoku:
		return "META_KIDOKU"
	case bytecode.MetaSourceLine:
		return "META_SRCLINE"
	default:
		return "META"
	}
}

func renderTargets(targets []uint32) string {
	parts := make([]string, len(targets))
	for i, t := range targets {
		parts[i] = fmt.Sprintf("0x%06X", t)
	}
	return strings.Join(parts, ", ")
}

// renderExpr renders an expression tree rooted at id as a short textual
// form, walking expr.Node the way the teacher's formatOperands walks a
// parsed operand list.
func renderExpr(arena *expr.Arena, id expr.ID) string {
	n := arena.Get(id)
	switch n.Kind {
	case expr.KindStoreRegister:
		return "store_reg"
	case expr.KindIntConstant:
		return fmt.Sprintf("%d", n.IntVal)
	case expr.KindStringConstant:
		return fmt.Sprintf("%q", n.StrVal)
	case expr.KindSimpleMemRef:
		return fmt.Sprintf("%s[%d]", n.Bank, n.IntVal)
	case expr.KindMemoryReference:
		return fmt.Sprintf("%s[%s]", n.Bank, renderExpr(arena, n.Index))
	case expr.KindBinary:
		return fmt.Sprintf("(%s op%d %s)", renderExpr(arena, n.LHS), n.Op, renderExpr(arena, n.RHS))
	case expr.KindUnary:
		return fmt.Sprintf("(op%d %s)", n.Op, renderExpr(arena, n.Child))
	case expr.KindSimpleAssign:
		return fmt.Sprintf("%s[%d] = %s", n.Bank, n.IntVal, renderExpr(arena, n.Value))
	case expr.KindComplex:
		parts := make([]string, len(n.Children))
		for i, c := range n.Children {
			parts[i] = renderExpr(arena, c)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case expr.KindSpecial:
		parts := make([]string, len(n.Children))
		for i, c := range n.Children {
			parts[i] = renderExpr(arena, c)
		}
		return fmt.Sprintf("special<%d>(%s)", n.Tag, strings.Join(parts, ", "))
	default:
		return "?"
	}
}

func padToColumn(sb *strings.Builder, column int) {
	current := sb.Len()
	if current < column {
		sb.WriteString(strings.Repeat(" ", column-current))
	} else {
		sb.WriteString(" ")
	}
}

// DisassembleScene is a convenience function using DefaultDisasmOptions.
func DisassembleScene(scene *bytecode.Scene) string {
	return NewDisassembler(DefaultDisasmOptions()).Disassemble(scene)
}
