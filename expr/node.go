// Package expr implements the RealLive/Siglus expression tree: tagged
// nodes addressed by a stable arena index rather than recursive pointer
// structures (spec §9 REDESIGN FLAGS), an evaluator against a memory
// facade, constant folding at construction, and a wire-form
// serializer/deserializer. The node/opcode taxonomy is grounded in the
// teacher's debugger/expressions.go operator table and binary-op dispatch,
// generalised from string-parsed debugger expressions to a parsed
// bytecode tree; the arena itself mirrors the teacher's flat
// parser/symbols.go SymbolTable.
package expr

import "github.com/rlvm/rlvm/memory"

// Kind tags the shape of a Node, spec §3's "Tagged nodes" enumeration.
type Kind int

const (
	KindStoreRegister Kind = iota
	KindIntConstant
	KindStringConstant
	KindMemoryReference
	KindSimpleMemRef
	KindBinary
	KindUnary
	KindSimpleAssign
	KindComplex
	KindSpecial
)

// ID is a stable index into an Arena.
type ID int

// Node is one tagged expression-tree node. Only the fields relevant to
// Kind are meaningful; this mirrors a closed tagged union more than a
// class hierarchy (spec §9 REDESIGN FLAGS: "tagged enum when the set of
// variants is closed").
type Node struct {
	Kind Kind

	IntVal int32  // IntConstant; literal index for SimpleMemRef/SimpleAssign
	StrVal string // StringConstant

	Bank  memory.BankCode // SimpleMemRef, MemoryReference, SimpleAssign
	Index ID              // MemoryReference's index_expr

	Op   int // Binary/Unary op code
	LHS  ID
	RHS  ID
	Child ID

	Value ID // SimpleAssign's value expression

	Children []ID // Complex
	Tag      int  // Special
}

// Arena owns a flat table of Nodes; every expression tree built through its
// constructors lives in the same table, referenced by ID.
type Arena struct {
	nodes []Node
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Get returns the node at id.
func (a *Arena) Get(id ID) Node {
	return a.nodes[id]
}

func (a *Arena) add(n Node) ID {
	a.nodes = append(a.nodes, n)
	return ID(len(a.nodes) - 1)
}

// StoreRegister adds the pseudo-register node used as a writable
// scratch l-value for function return values.
func (a *Arena) StoreRegister() ID {
	return a.add(Node{Kind: KindStoreRegister})
}

// IntConstant adds an integer literal node.
func (a *Arena) IntConstant(v int32) ID {
	return a.add(Node{Kind: KindIntConstant, IntVal: v})
}

// StringConstant adds a string literal node.
func (a *Arena) StringConstant(s string) ID {
	return a.add(Node{Kind: KindStringConstant, StrVal: s})
}

// SimpleMemRef adds a literal-index memory location node.
func (a *Arena) SimpleMemRef(bank memory.BankCode, index int32) ID {
	return a.add(Node{Kind: KindSimpleMemRef, Bank: bank, IntVal: index})
}

// MemoryReference adds a computed-index memory location node.
func (a *Arena) MemoryReference(bank memory.BankCode, indexExpr ID) ID {
	return a.add(Node{Kind: KindMemoryReference, Bank: bank, Index: indexExpr})
}

// Complex adds a node bundling an ordered list of sub-expressions (spec's
// Complex([children])), used by array-literal and argument-list forms.
func (a *Arena) Complex(children []ID) ID {
	return a.add(Node{Kind: KindComplex, Children: append([]ID{}, children...)})
}

// Special adds an opaque tagged node carrying an arbitrary child list,
// spec's Special(tag, [children]) escape hatch for forms the rest of the
// taxonomy doesn't name.
func (a *Arena) Special(tag int, children []ID) ID {
	return a.add(Node{Kind: KindSpecial, Tag: tag, Children: append([]ID{}, children...)})
}

// Unary adds a unary node. Only opUnaryNegate (0x01) is a defined
// operator; others are accepted structurally here and rejected at
// evaluation time with ErrInvalidOperator.
func (a *Arena) Unary(op int, child ID) ID {
	return a.add(Node{Kind: KindUnary, Op: op, Child: child})
}

// Binary adds a binary node, applying spec §3's two construction-time
// folding rules before the general case:
//
//  1. Binary(op, IntConstant, IntConstant) with op in the pure-arithmetic
//     range [0,9] folds to a single IntConstant.
//  2. Binary(opAssign, SimpleMemRef, IntConstant) folds to a SimpleAssign,
//     eliminating the memory-reference indirection for the common "write a
//     literal to a fixed slot" case.
//
// Any other combination is kept as a general Binary node.
func (a *Arena) Binary(op int, lhs, rhs ID) ID {
	l, r := a.Get(lhs), a.Get(rhs)
	if op >= opAdd && op <= opShr && l.Kind == KindIntConstant && r.Kind == KindIntConstant {
		v, err := applyArith(op, l.IntVal, r.IntVal)
		if err == nil {
			return a.IntConstant(v)
		}
	}
	if op == opAssign && l.Kind == KindSimpleMemRef && r.Kind == KindIntConstant {
		return a.add(Node{Kind: KindSimpleAssign, Bank: l.Bank, IntVal: l.IntVal, Value: rhs})
	}
	return a.add(Node{Kind: KindBinary, Op: op, LHS: lhs, RHS: rhs})
}
