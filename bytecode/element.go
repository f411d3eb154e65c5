// Package bytecode defines the parsed instruction element model spec §3
// names: a uniform {offset, kind} shape plus one payload per kind, the
// bytecode_length/entrypoint_id accessors the archive parser (package
// archive) walks by, and the Scene shape a parsed script exposes.
//
// The shape is grounded in the teacher's parser.Instruction struct (Pos,
// RawLine, Address) generalised from "one raw assembly line" to "one
// parsed RealLive/Siglus opcode", and encoder/errors.go's EncodingError
// (a context-carrying error wrapping *parser.Instruction) informed
// rlerr's shape rather than bytecode's own — bytecode itself carries no
// error type of its own.
package bytecode

import "github.com/rlvm/rlvm/expr"

// Kind tags the shape of an Element, spec §3's instruction kind
// enumeration.
type Kind int

const (
	KindText Kind = iota
	KindExpression
	KindCommand
	KindSelect
	KindGoto
	KindGotoCase
	KindGotoOn
	KindGosubWith
	KindFunction
	KindPointer
	KindMeta
	KindComma
)

// MetaTag distinguishes the three Meta element sub-kinds spec §3 lists.
type MetaTag int

const (
	MetaLine MetaTag = iota
	MetaKidoku
	MetaSourceLine
)

// CommandOp is the `op<mod:cmd, ovl>` triple spec §3's Command kind
// carries: module, command number within that module, and overload
// selector.
type CommandOp struct {
	Mod      int
	Cmd      int
	Overload int
}

// Element is one parsed instruction: a uniform {offset, kind} header plus
// whichever payload fields Kind implies. Only the fields relevant to Kind
// are meaningful, the same closed-tagged-union shape expr.Node uses.
type Element struct {
	Offset uint32
	Kind   Kind

	// KindText
	Text string

	// KindExpression
	Expr expr.ID

	// KindCommand: Op plus Args; KindGosubWith reuses Args for the call's
	// argument list and Target for the callee entrypoint offset.
	Op   CommandOp
	Args []expr.ID

	// KindSelect: one branch condition expression per case, parallel to
	// Targets.
	Cases []expr.ID

	// KindGoto: unconditional jump target.
	Target uint32

	// KindGotoCase/KindGotoOn: jump targets, selected either by matching
	// Cases (GotoCase) or by the index of a computed Expr (GotoOn).
	Targets []uint32

	// KindFunction/KindPointer
	Name string

	// KindMeta
	MetaTag   MetaTag
	MetaValue int

	// Length is the element's bytecode_length as parsed; zero means "use
	// the length-0 fallback of 1" (spec §4.5/§7), handled by
	// BytecodeLength rather than baked in here so a zero-length malformed
	// element is still visible to callers that inspect Length directly.
	Length uint32

	// EntrypointID is non-nil when this element also marks the start of a
	// named entrypoint (used to build Scene.Entrypoints).
	EntrypointID *int32
}

// BytecodeLength returns the element's advance distance: its parsed
// Length, or 1 if Length is zero. Spec §7: "a zero bytecode_length [is
// treated as] advance 1 so that malformed scenes cannot wedge the
// scheduler."
func (e Element) BytecodeLength() uint32 {
	if e.Length == 0 {
		return 1
	}
	return e.Length
}
